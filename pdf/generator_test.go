package pdf_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront-api/models"
	"storefront-api/pdf"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice Smith", "alice_smith"},
		{"  Bob   Jones  ", "bob_jones"},
		{"O'Brien & Sons!", "obrien_sons"},
		{"Ünïcode", "ncode"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pdf.SanitizeName(tt.in))
	}
}

func TestInvoiceFileName(t *testing.T) {
	order := &models.Order{
		ShippingInfo:  models.ShippingInfo{Name: "Alice Smith"},
		InvoiceNumber: "INV-20250101-001",
	}
	assert.Equal(t, "invoice_alice_smith_INV-20250101-001.pdf", pdf.InvoiceFileName(order))

	// Falls back to the populated customer, then to a generic name.
	order.ShippingInfo.Name = ""
	order.Customer = &models.CustomerInfo{Name: "Bob Jones"}
	assert.Equal(t, "invoice_bob_jones_INV-20250101-001.pdf", pdf.InvoiceFileName(order))

	order.Customer = nil
	assert.Equal(t, "invoice_customer_INV-20250101-001.pdf", pdf.InvoiceFileName(order))
}

func TestGenerateInvoice_WritesFile(t *testing.T) {
	gen := pdf.NewGenerator(t.TempDir(), "")
	order := &models.Order{
		ShippingInfo:  models.ShippingInfo{Name: "Alice Smith", Address: "12 Main St", PhoneNo: "9876543210"},
		InvoiceNumber: "INV-20250101-001",
		TotalPrice:    2400,
		CreatedAt:     time.Now(),
		OrderItems: []models.OrderItem{
			{Name: "Laptop", Quantity: 2, Price: 1200, Category: "Electronics"},
		},
	}

	result, err := gen.GenerateInvoice(order)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "invoice_alice_smith_INV-20250101-001.pdf", result.FileName)

	stat, err := os.Stat(result.FilePath)
	assert.NoError(t, err)
	assert.Greater(t, stat.Size(), int64(0))
	assert.Equal(t, stat.Size(), result.FileSize)
}

func TestGenerateCartPDF_WritesFile(t *testing.T) {
	gen := pdf.NewGenerator(t.TempDir(), "")
	user := &models.User{Name: "Bob Jones", Email: "bob@example.com"}
	items := []models.OrderItem{
		{Name: "Shirt", Quantity: 2, Price: 499, Category: "Clothing"},
	}

	result, err := gen.GenerateCartPDF(items, len(items), user)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.FileName, "cart_bob_jones_")

	_, err = os.Stat(result.FilePath)
	assert.NoError(t, err)
}

func TestGenerateInvoice_MissingLogoIgnored(t *testing.T) {
	gen := pdf.NewGenerator(t.TempDir(), "/nonexistent/logo.png")
	order := &models.Order{
		ShippingInfo:  models.ShippingInfo{Name: "Alice"},
		InvoiceNumber: "INV-20250101-002",
		CreatedAt:     time.Now(),
	}

	result, err := gen.GenerateInvoice(order)
	assert.NoError(t, err)
	assert.True(t, result.Success)
}
