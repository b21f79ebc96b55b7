package services

import (
	"context"

	"storefront-api/models"
	"storefront-api/notification"
	"storefront-api/pdf"
)

// PDFGenerator is the document-rendering contract the cart and order
// services depend on. Both operations write to a temp path and report the
// file details; recoverable rendering issues never surface as errors.
type PDFGenerator interface {
	GenerateInvoice(order *models.Order) (*pdf.Result, error)
	GenerateCartPDF(items []models.OrderItem, totalItems int, user *models.User) (*pdf.Result, error)
}

// Notifier is the messaging contract. Every send returns a Result so
// callers can record the outcome without aborting on failure.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, pdfPath string) notification.Result
	SendCartSummary(ctx context.Context, email string, user *models.User, items []models.OrderItem, pdfPath string) notification.Result
	SendSMSNotification(ctx context.Context, phone, message string) notification.Result
}
