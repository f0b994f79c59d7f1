package order

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// PaymentEvidence is whatever the payment flow hands back when an
// order is settled. Stored as-is alongside the paid flag.
type PaymentEvidence struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

// Order carries two independent monotonic flags: each may only go
// false -> true, exactly once, stamped when flipped. Delivery is not
// ordered after payment (cash on delivery is allowed).
type Order struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	Items           []Item     `json:"items"`
	TotalPrice      float64    `json:"totalPrice"`
	ShippingAddress string     `json:"shippingAddress"`
	IsPaid          bool       `json:"isPaid"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	PaymentRef      string     `json:"paymentRef,omitempty"`
	IsDelivered     bool       `json:"isDelivered"`
	DeliveredAt     *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
