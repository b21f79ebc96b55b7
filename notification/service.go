// Package notification sends order and cart emails plus SMS-style status
// updates. Every operation returns a Result instead of an error: delivery
// is best-effort and callers proceed regardless of the outcome.
package notification

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront-api/models"
)

// Result is what callers get back from every send operation.
type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// LogSMSSender only logs the message. No real SMS transport is wired by
// default; a Twilio-style sender can be injected in its place.
type LogSMSSender struct{}

func (LogSMSSender) SendSMS(_ context.Context, to, msg string) (SendResult, error) {
	zap.L().Info("SMS notification sent", zap.String("to", to), zap.String("message", msg))
	return SendResult{
		MessageID: fmt.Sprintf("sms-log-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

type Service struct {
	email       EmailSender
	sms         SMSSender
	countryCode string
	logger      *zap.Logger
}

func NewService(email EmailSender, sms SMSSender, countryCode string, logger *zap.Logger) *Service {
	if sms == nil {
		sms = LogSMSSender{}
	}
	return &Service{email: email, sms: sms, countryCode: countryCode, logger: logger}
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone reduces a raw phone string to a country-code-prefixed
// digit string: leading zeros are replaced by the default country code,
// bare 10-digit numbers get it prepended, anything longer passes through.
func (s *Service) NormalizePhone(raw string) string {
	if raw == "" {
		return ""
	}
	digits := nonDigits.ReplaceAllString(raw, "")
	switch {
	case strings.HasPrefix(digits, "0"):
		return s.countryCode + strings.TrimLeft(digits, "0")
	case len(digits) == 10:
		return s.countryCode + digits
	default:
		return digits
	}
}

// SendOrderConfirmation emails the purchaser, attaching the invoice PDF
// when one was generated. The order's customer details must be populated.
func (s *Service) SendOrderConfirmation(ctx context.Context, order *models.Order, pdfPath string) Result {
	if s.email == nil {
		return Result{Success: false, Message: "Failed to send order confirmation notification", Error: "email transport not configured"}
	}
	if order.Customer == nil || order.Customer.Email == "" {
		s.logger.Warn("Order confirmation skipped: no customer email",
			zap.String("order_id", order.ID.Hex()))
		return Result{Success: false, Message: "Failed to send order confirmation notification", Error: "no customer email"}
	}

	userName := order.Customer.Name
	if userName == "" {
		userName = "Customer"
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">Order Confirmation</h2>
			<p>Hello %s,</p>
			<p>Thank you for your order! Your invoice is attached to this email.</p>
			<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
				<h3 style="margin-top: 0;">Order Details</h3>
				<p><strong>Invoice Number:</strong> %s</p>
				<p><strong>Order Date:</strong> %s</p>
				<p><strong>Total Amount:</strong> Rs. %.2f</p>
				<p><strong>Status:</strong> %s</p>
			</div>
			<p>If you have any questions about your order, please don't hesitate to contact us.</p>
			<p>Best regards,<br>Your Store Team</p>
		</div>`,
		userName, order.InvoiceNumber, order.CreatedAt.Format("02/01/2006"), order.TotalPrice, order.OrderStatus)

	var attachments []Attachment
	if pdfPath != "" {
		attachments = append(attachments, Attachment{
			Filename: filepath.Base(pdfPath),
			Path:     pdfPath,
		})
	}

	res, err := s.email.SendEmail(ctx, order.Customer.Email,
		fmt.Sprintf("Invoice for Order #%s", order.InvoiceNumber), body, attachments)
	if err != nil {
		s.logger.Error("Order confirmation email failed",
			zap.String("order_id", order.ID.Hex()), zap.Error(err))
		return Result{Success: false, Message: "Failed to send order confirmation notification", Error: err.Error()}
	}

	return Result{Success: true, Message: "Order confirmation notification sent", MessageID: res.MessageID}
}

// SendCartSummary emails a cart summary with the rendered PDF attached.
func (s *Service) SendCartSummary(ctx context.Context, email string, user *models.User, items []models.OrderItem, pdfPath string) Result {
	if s.email == nil {
		return Result{Success: false, Message: "Failed to send cart summary", Error: "email transport not configured"}
	}
	userName := "Customer"
	if user != nil && user.Name != "" {
		userName = user.Name
	}

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">Cart Summary</h2>
			<p>Hello %s,</p>
			<p>Here's your current cart summary with %d items.</p>
			<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
				<h3 style="margin-top: 0;">Cart Details</h3>
				<p><strong>Total Items:</strong> %d</p>
				<p><strong>Total Amount:</strong> Rs. %.2f</p>
				<p><strong>Date:</strong> %s</p>
			</div>
			<p>Check the attached PDF for complete details!</p>
			<p>Best regards,<br>Your Store Team</p>
		</div>`,
		userName, len(items), len(items), total, time.Now().Format("02/01/2006"))

	var attachments []Attachment
	if pdfPath != "" {
		attachments = append(attachments, Attachment{
			Filename: filepath.Base(pdfPath),
			Path:     pdfPath,
		})
	}

	res, err := s.email.SendEmail(ctx, email, "Your Cart Summary", body, attachments)
	if err != nil {
		s.logger.Error("Cart summary email failed", zap.String("email", email), zap.Error(err))
		return Result{Success: false, Message: "Failed to send cart summary", Error: err.Error()}
	}

	return Result{Success: true, Message: "Cart summary sent successfully via email", MessageID: res.MessageID}
}

// SendSMSNotification normalizes the phone number and dispatches through
// the configured SMS sender.
func (s *Service) SendSMSNotification(ctx context.Context, phone, message string) Result {
	normalized := s.NormalizePhone(phone)
	if normalized == "" {
		return Result{Success: false, Message: "Failed to send SMS notification", Error: "no phone number"}
	}

	res, err := s.sms.SendSMS(ctx, normalized, message)
	if err != nil {
		s.logger.Error("SMS notification failed", zap.String("phone", normalized), zap.Error(err))
		return Result{Success: false, Message: "Failed to send SMS notification", Error: err.Error()}
	}

	return Result{Success: true, Message: "SMS notification sent successfully", MessageID: res.MessageID}
}
