package models

// Service represents a purchasable catalog entry. Entries are deactivated,
// never deleted: existing orders keep referencing them.
type Service struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null;check:price >= 0" json:"price"`
	// ProcessingTime is the allowance in hours; orders fall back to 24h when nil.
	ProcessingTime *int   `json:"processing_time"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`
	Category       string `gorm:"not null;default:'printing'" json:"category"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
