package models

import "time"

// Appearance 外貌/身体记录
type Appearance struct {
	Record
	Photo       string    `json:"photo" gorm:"size:500;not null"`
	RecordDate  time.Time `json:"recordDate" gorm:"not null;index"`
	Description string    `json:"description" gorm:"size:500"`
	Weight      *float64  `json:"weight" gorm:"type:decimal(6,2)"`
	Height      *float64  `json:"height" gorm:"type:decimal(6,2)"`
	BodyFatRate *float64  `json:"bodyFatRate" gorm:"type:decimal(5,2)"`
	Notes       string    `json:"notes" gorm:"size:1000"`
}

func (Appearance) TableName() string {
	return "appearances"
}
