package model

type Product struct {
	DTO
	Title        string `gorm:"size:255;not null" json:"title"`
	Category     string `gorm:"size:100" json:"category"`
	Price        int64  `gorm:"not null" json:"price"`
	Quantity     int    `gorm:"not null;default:0" json:"quantity"`
	QuantitySold int    `gorm:"not null;default:0" json:"quantitySold"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`
}
