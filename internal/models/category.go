package models

import "time"

type Category struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;not null;size:50"`
	Description *string `json:"description" gorm:"size:200"`
	Icon        *string `json:"icon" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Events []Event `json:"-" gorm:"many2many:event_categories"`
}

func (Category) TableName() string {
	return "categories"
}
