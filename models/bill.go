package models

import "time"

// Bill 账单
type Bill struct {
	Record
	CategoryID   string        `json:"categoryId" gorm:"size:36;not null;index"`
	Category     *BillCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Amount       float64       `json:"amount" gorm:"type:decimal(12,2);not null"`
	OrderName    string        `json:"orderName" gorm:"size:200;not null"`
	Description  string        `json:"description" gorm:"size:500"`
	SpendingTime time.Time     `json:"spendingTime" gorm:"not null;index"`
	Tags         []string      `json:"tags" gorm:"serializer:json;type:text"`
}

func (Bill) TableName() string {
	return "bills"
}
