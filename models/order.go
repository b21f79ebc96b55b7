package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// ValidOrderStatus reports whether s is one of the five order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is a point-in-time copy of a product line. Later product edits
// must not alter historical orders, so nothing here is resolved live.
type OrderItem struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Name     string             `json:"name" bson:"name"`
	Quantity int                `json:"quantity" bson:"quantity"`
	Price    float64            `json:"price" bson:"price"`
	Image    string             `json:"image" bson:"image"`
	Category string             `json:"category" bson:"category"`
}

// ShippingInfo and PaymentInfo are checked for presence only at
// checkout; their fields are free-form and may be empty.
type ShippingInfo struct {
	Name    string `json:"name" bson:"name"`
	Address string `json:"address" bson:"address"`
	PhoneNo string `json:"phoneNo" bson:"phoneNo"`
}

type PaymentInfo struct {
	ID     string `json:"id" bson:"id"`
	Status string `json:"status" bson:"status"`
}

// CustomerInfo is the purchaser summary attached to order responses when
// user details are populated. Never persisted on the order document.
type CustomerInfo struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

type Order struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User          primitive.ObjectID `json:"user" bson:"user"`
	OrderItems    []OrderItem        `json:"orderItems" bson:"orderItems"`
	ShippingInfo  ShippingInfo       `json:"shippingInfo" bson:"shippingInfo"`
	PaymentInfo   PaymentInfo        `json:"paymentInfo" bson:"paymentInfo"`
	PaidAt        time.Time          `json:"paidAt" bson:"paidAt"`
	ItemsPrice    float64            `json:"itemsPrice" bson:"itemsPrice"`
	TotalPrice    float64            `json:"totalPrice" bson:"totalPrice"`
	OrderStatus   string             `json:"orderStatus" bson:"orderStatus"`
	DeliveredAt   *time.Time         `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	InvoiceNumber string             `json:"invoiceNumber" bson:"invoiceNumber"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	PDFPath       string             `json:"pdfPath,omitempty" bson:"pdfPath,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`

	Customer *CustomerInfo `json:"customer,omitempty" bson:"-"`
}

type CheckoutRequest struct {
	ShippingInfo *ShippingInfo `json:"shippingInfo" binding:"required"`
	PaymentInfo  *PaymentInfo  `json:"paymentInfo" binding:"required"`
	Notes        string        `json:"notes"`
}

type UpdateStatusRequest struct {
	OrderStatus string `json:"orderStatus" binding:"required"`
	Notes       string `json:"notes"`
}
