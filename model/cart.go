package model

type Cart struct {
	DTO
	UserID      uint         `gorm:"not null;uniqueIndex" json:"userId"`
	CartDetails []CartDetail `gorm:"foreignKey:CartID" json:"cartDetails"`
}

type CartDetail struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	CartID     uint    `gorm:"not null;uniqueIndex:idx_cart_product" json:"cartId"`
	ProductID  uint    `gorm:"not null;uniqueIndex:idx_cart_product" json:"productId"`
	Product    Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity   int     `gorm:"not null" json:"quantity"`
	IsSelected bool    `gorm:"default:true" json:"isSelected"`
}

type CartView struct {
	CartID           uint         `json:"cartId"`
	Items            []CartDetail `json:"items"`
	SelectedSubtotal int64        `json:"selectedSubtotal"`
	SelectedCount    int          `json:"selectedCount"`
}

type AddCartItemInput struct {
	ProductID uint `json:"productId" validate:"required,gt=0"`
	Quantity  int  `json:"quantity" validate:"required,min=1,max=99"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=99"`
}

type SelectCartItemInput struct {
	Selected *bool `json:"selected" validate:"required"`
}
