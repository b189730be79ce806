package models

import "time"

// OrderItem is a single purchased line item. Price is the unit price
// in major currency units at the time the order was placed.
type OrderItem struct {
	Product  string  `json:"product" bson:"product"`
	Name     string  `json:"name" bson:"name"`
	Image    string  `json:"image" bson:"image"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"qty" bson:"qty"`
}

type ShippingAddress struct {
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
}

// PaymentResult holds provider transaction metadata. The verification
// flow does not populate it; the field exists for schema parity with
// the storefront client.
type PaymentResult struct {
	ID         string `json:"id,omitempty" bson:"id,omitempty"`
	Status     string `json:"status,omitempty" bson:"status,omitempty"`
	UpdateTime string `json:"update_time,omitempty" bson:"update_time,omitempty"`
	Email      string `json:"email_address,omitempty" bson:"email_address,omitempty"`
}

// Order is a placed order. Items and prices are fixed at creation;
// only the paid and delivered flag pairs are mutated afterwards.
type Order struct {
	OrderID         string          `json:"orderId" bson:"orderid"`
	UserID          string          `json:"user" bson:"userid"`
	OrderItems      []OrderItem     `json:"orderItems" bson:"order_items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shipping_address"`
	PaymentMethod   string          `json:"paymentMethod" bson:"payment_method"`
	PaymentResult   PaymentResult   `json:"paymentResult,omitempty" bson:"payment_result,omitempty"`
	ItemsPrice      float64         `json:"itemsPrice" bson:"items_price"`
	TaxPrice        float64         `json:"taxPrice" bson:"tax_price"`
	ShippingPrice   float64         `json:"shippingPrice" bson:"shipping_price"`
	TotalPrice      float64         `json:"totalPrice" bson:"total_price"`
	IsPaid          bool            `json:"isPaid" bson:"is_paid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" bson:"paid_at,omitempty"`
	IsDelivered     bool            `json:"isDelivered" bson:"is_delivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" bson:"delivered_at,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updated_at"`
}
