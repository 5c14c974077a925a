package models

import "time"

// 心情
const (
	MoodVeryHappy = "very_happy"
	MoodHappy     = "happy"
	MoodNormal    = "normal"
	MoodSad       = "sad"
	MoodVerySad   = "very_sad"
)

// Diary 日记
type Diary struct {
	Record
	Title     string    `json:"title" gorm:"size:200;not null"`
	Content   string    `json:"content,omitempty" gorm:"type:text;not null"`
	Date      time.Time `json:"date" gorm:"not null;index"`
	Mood      string    `json:"mood" gorm:"size:20;not null;default:normal;index"`
	Weather   string    `json:"weather" gorm:"size:50"`
	Location  string    `json:"location" gorm:"size:200"`
	Images    []string  `json:"images" gorm:"serializer:json;type:text"`
	Tags      []string  `json:"tags" gorm:"serializer:json;type:text"`
	IsPrivate bool      `json:"isPrivate" gorm:"not null"`
}

func (Diary) TableName() string {
	return "diaries"
}
