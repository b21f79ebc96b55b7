package models_test

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"

	"storefront-api/models"
)

// Checkout only requires that shippingInfo and paymentInfo are present;
// empty objects bind fine and the fields stay free-form.
func TestCheckoutRequestBindsEmptyInfoShapes(t *testing.T) {
	var req models.CheckoutRequest
	err := binding.JSON.BindBody([]byte(`{"shippingInfo":{},"paymentInfo":{}}`), &req)
	assert.NoError(t, err)
	assert.NotNil(t, req.ShippingInfo)
	assert.NotNil(t, req.PaymentInfo)
}

func TestCheckoutRequestRequiresBothInfoObjects(t *testing.T) {
	var req models.CheckoutRequest
	err := binding.JSON.BindBody([]byte(`{"shippingInfo":{"name":"Alice"}}`), &req)
	assert.Error(t, err)
}

// A zero quantity must survive binding so the cart service can report
// its specific validation message instead of a generic bind failure.
func TestSaveCartRequestBindsZeroQuantity(t *testing.T) {
	var req models.SaveCartRequest
	err := binding.JSON.BindBody([]byte(`{"items":[{"product":"64b000000000000000000001","quantity":0}]}`), &req)
	assert.NoError(t, err)
	assert.Len(t, req.Items, 1)
	assert.Equal(t, 0, req.Items[0].Quantity)
}
