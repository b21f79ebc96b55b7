package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Quantity int                `json:"quantity" bson:"quantity"`
	// Price and Category are snapshots taken when the item was added.
	Price    float64 `json:"price" bson:"price"`
	Category string  `json:"category" bson:"category"`

	// Detail carries the resolved product when the cart is fetched with
	// product details populated. Never persisted.
	Detail *Product `json:"productDetail,omitempty" bson:"-"`
}

// Cart is the single mutable cart per user. Totals are derived, not stored.
type Cart struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Items     []CartItem         `json:"items" bson:"items"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (c *Cart) TotalAmount() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (c *Cart) TotalItems() int {
	return len(c.Items)
}

// SaveCartRequest replaces the full cart contents.
type SaveCartRequest struct {
	Items []SaveCartItem `json:"items" binding:"required"`
}

// Quantity carries no binding tag so a zero value reaches the service,
// which reports the specific "Quantity must be at least 1" message.
type SaveCartItem struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity"`
}

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type CartPDFRequest struct {
	Email string `json:"email" binding:"required,email"`
}
