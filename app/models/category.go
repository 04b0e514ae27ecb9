package models

import "time"

// Status values shared by categories and products.
const (
	StatusOn  = "ON"
	StatusOff = "OFF"
)

// Category is a node of the catalogue tree. Rows are never deleted;
// Status OFF hides them from listings.
type Category struct {
	ID             uint      `gorm:"primaryKey"                           json:"id"`
	Name           string    `gorm:"size:100;not null;uniqueIndex"        json:"name"`
	Image          *string   `gorm:"size:255"                             json:"image"`
	ParentCategory *int64    `gorm:"index"                                json:"parent_category"`
	Status         string    `gorm:"size:3;not null;default:ON;index"     json:"status"`
	CreatedAt      time.Time `                                            json:"created_at"`
	UpdatedAt      time.Time `                                            json:"updated_at"`
}

func (Category) TableName() string { return "category" }

// CategoryView is the projection returned by category listings and lookups.
type CategoryView struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Image  *string `json:"image"`
	Status string  `json:"status"`
}

// DropdownItem is the minimal {id, name} shape for selection widgets.
type DropdownItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
