package order

import (
	"time"

	"sushiwave-be/internal/cart"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	MethodCard   PaymentMethod = "CARD"
	MethodCash   PaymentMethod = "CASH"
	MethodOnline PaymentMethod = "ONLINE"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCard, MethodCash, MethodOnline:
		return true
	}
	return false
}

type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	UserID        *string       `json:"userId,omitempty"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CustomerNote  *string       `json:"customerNote,omitempty"`
	AdminNote     *string       `json:"adminNote,omitempty"`
	Subtotal      float64       `json:"subtotal"`
	DeliveryFee   float64       `json:"deliveryFee"`
	Discount      float64       `json:"discount"`
	Total         float64       `json:"total"`
	Items         []Item        `json:"items"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Item snapshots the product at order time. ProductID is a weak reference:
// the product may change or disappear afterwards, the snapshot stays.
type Item struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"orderId"`
	ProductID    *string `json:"productId,omitempty"`
	ProductName  string  `json:"productName"`
	ProductImage string  `json:"productImage"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

type CreateInput struct {
	Items         []cart.ItemInput `json:"items"`
	FirstName     string           `json:"firstName"`
	LastName      string           `json:"lastName"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	Address       string           `json:"address"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	CustomerNote  *string          `json:"customerNote"`
}

type AdminUpdateInput struct {
	Status        *Status        `json:"status"`
	PaymentStatus *PaymentStatus `json:"paymentStatus"`
	AdminNote     *string        `json:"adminNote"`
}

type ListOptions struct {
	Status        *Status
	PaymentStatus *PaymentStatus
	Page          int
	Limit         int
}
