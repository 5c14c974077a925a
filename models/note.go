package models

// NoteAttr 笔记自定义属性
type NoteAttr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attachment 附件
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// Note 笔记
type Note struct {
	Record
	TypeID      *string      `json:"typeId" gorm:"size:36;index"`
	Type        *NoteType    `json:"type,omitempty" gorm:"foreignKey:TypeID"`
	Title       string       `json:"title" gorm:"size:200;not null"`
	Content     string       `json:"content" gorm:"type:text"`
	Tags        []string     `json:"tags" gorm:"serializer:json;type:text"`
	Attrs       []NoteAttr   `json:"attrs" gorm:"serializer:json;type:text"`
	Attachments []Attachment `json:"attachments" gorm:"serializer:json;type:text"`
	IsPrivate   bool         `json:"isPrivate" gorm:"not null;default:false;index"`
}

func (Note) TableName() string {
	return "notes"
}

// NormalizeAttrs 去掉空 key，同名 key 保留最后一次的值与首次出现的位置
func NormalizeAttrs(attrs []NoteAttr) []NoteAttr {
	out := make([]NoteAttr, 0, len(attrs))
	index := make(map[string]int, len(attrs))
	for _, a := range attrs {
		if a.Key == "" {
			continue
		}
		if i, ok := index[a.Key]; ok {
			out[i].Value = a.Value
			continue
		}
		index[a.Key] = len(out)
		out = append(out, a)
	}
	return out
}
