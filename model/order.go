package model

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderApproved  OrderStatus = "APPROVED"
	OrderRejected  OrderStatus = "REJECTED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderSuccess   OrderStatus = "SUCCESS"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderApproved, OrderRejected, OrderCancelled, OrderSuccess:
		return true
	}
	return false
}

type Order struct {
	DTO
	PublicCode    string        `gorm:"uniqueIndex;size:20" json:"publicCode"` // ORD-XXXXXXXX
	UserID        uint          `gorm:"not null;index" json:"userId"`
	CustomerName  string        `gorm:"size:100;not null" json:"customerName"`
	Phone         string        `gorm:"size:20;not null" json:"phone"`
	Email         string        `gorm:"size:254;not null" json:"email"`
	Address       string        `gorm:"size:255;not null" json:"address"`
	Province      string        `gorm:"size:100;not null" json:"province"`
	Description   string        `gorm:"size:1000" json:"description"`
	DeliveryFee   int64         `gorm:"not null" json:"deliveryFee"`
	TotalPrice    int64         `gorm:"not null" json:"totalPrice"`
	Status        OrderStatus   `gorm:"size:20;not null;index" json:"status"`
	PaymentMethod PaymentMethod `gorm:"size:20;not null" json:"paymentMethod"`
	OrderDetails  []OrderDetail `gorm:"foreignKey:OrderID" json:"orderDetails"`
	Payment       *Payment      `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

// OrderDetail keeps a snapshot of the product at purchase time.
type OrderDetail struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   uint   `gorm:"not null;index" json:"orderId"`
	ProductID uint   `gorm:"not null" json:"productId"`
	Title     string `gorm:"not null" json:"title"`
	Category  string `json:"category"`
	Price     int64  `gorm:"not null" json:"price"`
	Quantity  int    `gorm:"not null" json:"quantity"`
}

func (d OrderDetail) LineTotal() int64 {
	return d.Price * int64(d.Quantity)
}

type PlaceOrderInput struct {
	CustomerName  string        `json:"customerName" validate:"required,max=100"`
	Phone         string        `json:"phone" validate:"required,vnphone"`
	Email         string        `json:"email" validate:"required,email,max=254"`
	Address       string        `json:"address" validate:"required,max=255"`
	Province      string        `json:"province" validate:"required,max=100"`
	Description   string        `json:"description" validate:"max=1000"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=CASH VNPAY"`
	ClientIP      string        `json:"-"`
}

type PlaceOrderResult struct {
	Order      Order   `json:"order"`
	Payment    Payment `json:"payment"`
	PaymentURL string  `json:"paymentUrl,omitempty"`
}

type CancelOrderResult struct {
	Order         Order         `json:"order"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
	RefundMessage string        `json:"refundMessage,omitempty"`
}

type OrderEvent struct {
	OrderID       uint          `json:"orderId"`
	OrderStatus   OrderStatus   `json:"orderStatus"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}
