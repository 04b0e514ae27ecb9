package models

import "time"

// Product belongs to a category; its name is unique within that category.
type Product struct {
	ID          uint      `gorm:"primaryKey"                                  json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_product_category_name,priority:2" json:"name"`
	Image       *string   `gorm:"size:255"                                    json:"image"`
	Description string    `gorm:"type:text;not null"                          json:"description"`
	CategoryID  uint      `gorm:"not null;uniqueIndex:idx_product_category_name,priority:1" json:"category_id"`
	Category    *Category `gorm:"constraint:OnDelete:CASCADE"                 json:"-"`
	Status      string    `gorm:"size:3;not null;default:ON;index"            json:"status"`
	CreatedAt   time.Time `                                                   json:"created_at"`
	UpdatedAt   time.Time `                                                   json:"updated_at"`
}

func (Product) TableName() string { return "product" }

// ProductView is the product projection joined with its category name.
type ProductView struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Image        *string `json:"image"`
	Description  string  `json:"description"`
	CategoryID   uint    `json:"category_id"`
	CategoryName *string `json:"category_name"`
	Status       string  `json:"status"`
}
