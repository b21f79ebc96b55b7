package services_test

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"storefront-api/models"
	"storefront-api/services"
)

type orderFixture struct {
	users    *mockUserRepo
	products *mockProductRepo
	carts    *mockCartRepo
	orders   *mockOrderRepo
	pdfGen   *mockPDFGen
	notifier *mockNotifier
	svc      *services.OrderService

	user    *models.User
	product *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		users:    newMockUserRepo(),
		products: newMockProductRepo(),
		carts:    newMockCartRepo(),
		orders:   newMockOrderRepo(),
		pdfGen:   &mockPDFGen{},
		notifier: &mockNotifier{},
	}
	f.svc = services.NewOrderService(f.orders, f.carts, f.products, f.users, f.pdfGen, f.notifier, zap.NewNop())

	f.user = &models.User{Name: "Alice Smith", Email: "alice@example.com", Role: models.RoleUser}
	_ = f.users.Create(context.Background(), f.user)

	f.product = &models.Product{Name: "Laptop", Price: 1200, Category: "Electronics", Stock: 10}
	_ = f.products.Create(context.Background(), f.product)

	return f
}

func (f *orderFixture) fillCart(quantity int) {
	_ = f.carts.Save(context.Background(), &models.Cart{
		User: f.user.ID,
		Items: []models.CartItem{
			{Product: f.product.ID, Quantity: quantity, Price: f.product.Price, Category: f.product.Category},
		},
	})
}

func checkoutRequest() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		ShippingInfo: &models.ShippingInfo{Name: "Alice Smith", Address: "12 Main St", PhoneNo: "9876543210"},
		PaymentInfo:  &models.PaymentInfo{ID: "pay_123", Status: "succeeded"},
	}
}

func TestCheckout_Success(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(2)

	result, svcErr := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())
	assert.Nil(t, svcErr)
	assert.NotNil(t, result.Order)

	assert.Equal(t, models.StatusPending, result.Order.OrderStatus)
	assert.Equal(t, 2400.0, result.Order.ItemsPrice)
	assert.Equal(t, result.Order.ItemsPrice, result.Order.TotalPrice)
	assert.Regexp(t, regexp.MustCompile(`^INV-\d{8}-001$`), result.InvoiceNumber)
	assert.True(t, result.PDFGenerated)
	assert.True(t, result.NotificationsSent)
	assert.True(t, result.CartSummarySent)

	// Item snapshot comes from the product at checkout time.
	assert.Len(t, result.Order.OrderItems, 1)
	assert.Equal(t, "Laptop", result.Order.OrderItems[0].Name)
	assert.Equal(t, "Electronics", result.Order.OrderItems[0].Category)

	// Stock decremented by exactly the ordered quantity.
	product, _ := f.products.FindByID(context.Background(), f.product.ID)
	assert.Equal(t, 8, product.Stock)

	// Cart emptied.
	cart, _ := f.carts.FindByUser(context.Background(), f.user.ID)
	assert.Empty(t, cart.Items)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	result, svcErr := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())
	assert.Nil(t, result)
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.Code)
	assert.Equal(t, "Cart is empty", svcErr.Message)

	orders, _ := f.orders.FindAll(context.Background())
	assert.Empty(t, orders)
}

func TestCheckout_MissingShippingInfo(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)

	_, svcErr := f.svc.Checkout(context.Background(), f.user.ID.Hex(), &models.CheckoutRequest{
		PaymentInfo: &models.PaymentInfo{Status: "succeeded"},
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.Code)
}

// Shipping and payment info only need to be present. Their fields are
// free-form, so a checkout with empty shapes still places the order.
func TestCheckout_AcceptsEmptyInfoShapes(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)

	result, svcErr := f.svc.Checkout(context.Background(), f.user.ID.Hex(), &models.CheckoutRequest{
		ShippingInfo: &models.ShippingInfo{},
		PaymentInfo:  &models.PaymentInfo{},
	})
	assert.Nil(t, svcErr)
	assert.NotNil(t, result.Order)
	assert.Equal(t, models.StatusPending, result.Order.OrderStatus)

	orders, _ := f.orders.FindAll(context.Background())
	assert.Len(t, orders, 1)
}

func TestCheckout_PDFFailureDoesNotFailOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)
	f.pdfGen.invoiceErr = errBoom

	result, svcErr := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())
	assert.Nil(t, svcErr)
	assert.False(t, result.PDFGenerated)
	assert.True(t, result.NotificationsSent)

	orders, _ := f.orders.FindAll(context.Background())
	assert.Len(t, orders, 1)
}

func TestCheckout_EmailFailureDoesNotFailOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)
	f.notifier.confirmationFail = true

	result, svcErr := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())
	assert.Nil(t, svcErr)
	assert.True(t, result.PDFGenerated)
	assert.False(t, result.NotificationsSent)

	orders, _ := f.orders.FindAll(context.Background())
	assert.Len(t, orders, 1)
}

func TestCheckout_StockCanGoNegative(t *testing.T) {
	f := newOrderFixture(t)
	f.product.Stock = 1
	f.fillCart(3)

	_, svcErr := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())
	assert.Nil(t, svcErr)

	product, _ := f.products.FindByID(context.Background(), f.product.ID)
	assert.Equal(t, -2, product.Stock)
}

func TestCheckout_InvoiceNumbersIncrementWithinDay(t *testing.T) {
	f := newOrderFixture(t)

	for i := 1; i <= 3; i++ {
		f.fillCart(1)
		result, svcErr := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())
		assert.Nil(t, svcErr)
		expected := fmt.Sprintf("INV-%s-%03d", time.Now().Format("20060102"), i)
		assert.Equal(t, expected, result.InvoiceNumber)
	}
}

func TestUpdateStatus_DeliveredStampsTimestamp(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)
	result, _ := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())

	order, svcErr := f.svc.UpdateStatus(context.Background(), result.Order.ID.Hex(), &models.UpdateStatusRequest{OrderStatus: models.StatusShipped})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.StatusShipped, order.OrderStatus)
	assert.Nil(t, order.DeliveredAt)

	order, svcErr = f.svc.UpdateStatus(context.Background(), result.Order.ID.Hex(), &models.UpdateStatusRequest{OrderStatus: models.StatusDelivered})
	assert.Nil(t, svcErr)
	assert.NotNil(t, order.DeliveredAt)

	// An SMS goes out for each status change.
	assert.Len(t, f.notifier.smsMessages, 2)
	assert.Contains(t, f.notifier.smsMessages[1], "New Status: Delivered")
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)
	result, _ := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())

	_, svcErr := f.svc.UpdateStatus(context.Background(), result.Order.ID.Hex(), &models.UpdateStatusRequest{OrderStatus: "Teleported"})
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.Code)

	order, _ := f.orders.FindByID(context.Background(), result.Order.ID)
	assert.Equal(t, models.StatusPending, order.OrderStatus)
}

func TestUpdateStatus_SMSFailureDoesNotFailUpdate(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)
	result, _ := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())
	f.notifier.smsFail = true

	order, svcErr := f.svc.UpdateStatus(context.Background(), result.Order.ID.Hex(), &models.UpdateStatusRequest{OrderStatus: models.StatusProcessing})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.StatusProcessing, order.OrderStatus)
}

func TestClearStatus_ResetsToPending(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)
	result, _ := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())
	_, _ = f.svc.UpdateStatus(context.Background(), result.Order.ID.Hex(), &models.UpdateStatusRequest{OrderStatus: models.StatusDelivered})

	order, svcErr := f.svc.ClearStatus(context.Background(), result.Order.ID.Hex())
	assert.Nil(t, svcErr)
	assert.Equal(t, models.StatusPending, order.OrderStatus)
	assert.Nil(t, order.DeliveredAt)
	assert.Contains(t, order.Notes, "Status cleared by admin")
}

func TestClearUserOrders_NoOrders(t *testing.T) {
	f := newOrderFixture(t)

	_, _, svcErr := f.svc.ClearUserOrders(context.Background(), f.user.ID.Hex())
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.Code)
}

func TestClearAllOrders_Empty(t *testing.T) {
	f := newOrderFixture(t)

	_, svcErr := f.svc.ClearAllOrders(context.Background())
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.Code)
}

func TestClearAllOrders_ReportsCount(t *testing.T) {
	f := newOrderFixture(t)
	for i := 0; i < 2; i++ {
		f.fillCart(1)
		_, svcErr := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())
		assert.Nil(t, svcErr)
	}

	cleared, svcErr := f.svc.ClearAllOrders(context.Background())
	assert.Nil(t, svcErr)
	assert.Equal(t, 2, cleared)
}

func TestGetByID_OwnershipEnforced(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)
	result, _ := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())

	stranger := primitive.NewObjectID().Hex()
	_, svcErr := f.svc.GetByID(context.Background(), result.Order.ID.Hex(), stranger, models.RoleUser)
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusForbidden, svcErr.Code)

	order, svcErr := f.svc.GetByID(context.Background(), result.Order.ID.Hex(), stranger, models.RoleAdmin)
	assert.Nil(t, svcErr)
	assert.NotNil(t, order.Customer)
	assert.Equal(t, "alice@example.com", order.Customer.Email)
}

func TestInvoicePDF_RegeneratesMissingFile(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)
	f.pdfGen.invoiceErr = errBoom
	result, _ := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())
	assert.False(t, result.PDFGenerated)

	f.pdfGen.invoiceErr = nil
	path, filename, svcErr := f.svc.InvoicePDF(context.Background(), result.Order.ID.Hex(), f.user.ID.Hex(), models.RoleUser)
	assert.Nil(t, svcErr)
	assert.NotEmpty(t, path)
	assert.Contains(t, filename, "invoice_")
}

func TestInvoicePDF_RegenerationFailure(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(1)
	f.pdfGen.invoiceErr = errBoom
	result, _ := f.svc.Checkout(context.Background(), f.user.ID.Hex(), checkoutRequest())

	_, _, svcErr := f.svc.InvoicePDF(context.Background(), result.Order.ID.Hex(), f.user.ID.Hex(), models.RoleUser)
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.Code)
}
