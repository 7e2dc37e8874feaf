package models

import (
	"time"
)

// OrderFile represents an uploaded file attached to exactly one order.
// Files are created as a side effect of order placement and never edited;
// deleting the owning order cascades to its files.
type OrderFile struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OrderID          uint      `gorm:"not null;index" json:"order_id"`
	Filename         string    `gorm:"not null;index" json:"filename"` // generated storage name
	OriginalFilename string    `gorm:"not null" json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	UploadedAt       time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// TableName specifies the table name for the OrderFile model
func (OrderFile) TableName() string {
	return "order_files"
}
