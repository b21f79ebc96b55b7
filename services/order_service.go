package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"storefront-api/apperrors"
	"storefront-api/models"
	"storefront-api/pdf"
	"storefront-api/repository"
)

// OrderService runs the checkout pipeline and the order management
// operations around it.
type OrderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	products repository.ProductRepository
	users    repository.UserRepository
	pdfGen   PDFGenerator
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, products repository.ProductRepository, users repository.UserRepository, pdfGen PDFGenerator, notifier Notifier, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		users:    users,
		pdfGen:   pdfGen,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckoutResult is the checkout response: the order is authoritative,
// the flags report which best-effort side effects succeeded.
type CheckoutResult struct {
	Order             *models.Order `json:"order"`
	InvoiceNumber     string        `json:"invoiceNumber"`
	PDFGenerated      bool          `json:"pdfGenerated"`
	NotificationsSent bool          `json:"notificationsSent"`
	CartSummarySent   bool          `json:"cartSummarySent"`
}

// Checkout converts the user's cart into an immutable order. Once the
// order document is inserted the checkout has succeeded; stock
// adjustment always follows, while PDF and email failures are logged and
// reported through the result flags without rolling anything back.
func (s *OrderService) Checkout(ctx context.Context, userID string, req *models.CheckoutRequest) (*CheckoutResult, *apperrors.Error) {
	uid, appErr := parseObjectID(userID, "user")
	if appErr != nil {
		return nil, appErr
	}
	if req.ShippingInfo == nil || req.PaymentInfo == nil {
		return nil, apperrors.Validation("Shipping info and payment info are required")
	}

	cart, err := s.carts.FindByUser(ctx, uid)
	if err != nil {
		return nil, apperrors.Internal("Error processing checkout", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, apperrors.EmptyCart()
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("Error processing checkout", err)
	}

	// Items are priced from the snapshots taken when they entered the
	// cart; checkout does not re-price. No tax or shipping surcharge.
	itemsPrice := cart.TotalAmount()
	totalPrice := itemsPrice

	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		line := models.OrderItem{
			Product:  item.Product,
			Quantity: item.Quantity,
			Price:    item.Price,
			Category: orCategory(item.Category),
		}
		if product, perr := s.products.FindByID(ctx, item.Product); perr == nil {
			line.Name = product.Name
			line.Image = product.FirstImageURL()
		}
		orderItems = append(orderItems, line)
	}

	invoiceNumber, appErr := s.nextInvoiceNumber(ctx)
	if appErr != nil {
		return nil, appErr
	}

	order := &models.Order{
		User:          uid,
		OrderItems:    orderItems,
		ShippingInfo:  *req.ShippingInfo,
		PaymentInfo:   *req.PaymentInfo,
		PaidAt:        s.now(),
		ItemsPrice:    itemsPrice,
		TotalPrice:    totalPrice,
		OrderStatus:   models.StatusPending,
		InvoiceNumber: invoiceNumber,
		Notes:         req.Notes,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.Internal("Error processing checkout", err)
	}

	// Stock always adjusts once the order exists. Decrement failures are
	// logged per line; the order stands either way.
	for _, item := range cart.Items {
		if err := s.products.DecrementStock(ctx, item.Product, item.Quantity); err != nil {
			s.logger.Error("Stock decrement failed",
				zap.String("order_id", order.ID.Hex()),
				zap.String("product_id", item.Product.Hex()),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}

	cart.Items = []models.CartItem{}
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("Cart clear failed after checkout",
			zap.String("order_id", order.ID.Hex()), zap.Error(err))
	}

	if user != nil {
		order.Customer = &models.CustomerInfo{ID: user.ID, Name: user.Name, Email: user.Email}
	}

	result := &CheckoutResult{Order: order, InvoiceNumber: invoiceNumber}

	// Invoice PDF, best-effort.
	var invoicePath string
	if pdfResult, err := s.pdfGen.GenerateInvoice(order); err != nil {
		s.logger.Error("PDF generation error",
			zap.String("order_id", order.ID.Hex()), zap.Error(err))
	} else {
		result.PDFGenerated = true
		invoicePath = pdfResult.FilePath
		order.PDFPath = pdfResult.FilePath
		if err := s.orders.Update(ctx, order); err != nil {
			s.logger.Error("Failed to store PDF path on order",
				zap.String("order_id", order.ID.Hex()), zap.Error(err))
		}
	}

	// Cart summary PDF + email, independent of the invoice.
	if user != nil && user.Email != "" {
		if cartPDF, err := s.pdfGen.GenerateCartPDF(orderItems, len(orderItems), user); err != nil {
			s.logger.Error("Cart PDF generation error",
				zap.String("order_id", order.ID.Hex()), zap.Error(err))
		} else {
			summary := s.notifier.SendCartSummary(ctx, user.Email, user, orderItems, cartPDF.FilePath)
			result.CartSummarySent = summary.Success
			if !summary.Success {
				s.logger.Error("Cart summary email send error",
					zap.String("order_id", order.ID.Hex()), zap.String("detail", summary.Error))
			}
		}
	}

	// Order confirmation email, with the invoice attached when available.
	confirmation := s.notifier.SendOrderConfirmation(ctx, order, invoicePath)
	result.NotificationsSent = confirmation.Success
	if !confirmation.Success {
		s.logger.Error("Notification error",
			zap.String("order_id", order.ID.Hex()), zap.String("detail", confirmation.Error))
	}

	return result, nil
}

// nextInvoiceNumber builds INV-YYYYMMDD-NNN from a fresh count of the
// day's orders. The count is not reserved atomically; two simultaneous
// checkouts can draw the same sequence, which the unique index turns
// into an insert failure on the later one.
func (s *OrderService) nextInvoiceNumber(ctx context.Context) (string, *apperrors.Error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := s.orders.CountCreatedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return "", apperrors.Internal("Error processing checkout", err)
	}
	return fmt.Sprintf("INV-%s-%03d", now.Format("20060102"), count+1), nil
}

// ListAll returns every order, newest first, with purchaser name/email
// populated. Admin only (enforced at the route).
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, *apperrors.Error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Error fetching orders", err)
	}
	s.populateCustomers(ctx, orders)
	return orders, nil
}

// GetByID returns one order; only its owner or an admin may see it.
func (s *OrderService) GetByID(ctx context.Context, orderID, callerID, callerRole string) (*models.Order, *apperrors.Error) {
	order, appErr := s.loadOrder(ctx, orderID)
	if appErr != nil {
		return nil, appErr
	}
	if order.User.Hex() != callerID && callerRole != models.RoleAdmin {
		return nil, apperrors.Forbidden("You can only access your own orders")
	}
	s.populateCustomer(ctx, order)
	return order, nil
}

// ListForUser returns a user's orders, newest first. Ownership is
// enforced at the route.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, *apperrors.Error) {
	uid, appErr := parseObjectID(userID, "user")
	if appErr != nil {
		return nil, appErr
	}
	orders, err := s.orders.FindByUser(ctx, uid)
	if err != nil {
		return nil, apperrors.Internal("Error fetching user orders", err)
	}
	return orders, nil
}

// UpdateStatus sets any of the five statuses; there is no enforced
// forward-only ordering. Delivered is the only transition with a side
// effect: it stamps deliveredAt. A status SMS goes out best-effort.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, req *models.UpdateStatusRequest) (*models.Order, *apperrors.Error) {
	if !models.ValidOrderStatus(req.OrderStatus) {
		return nil, apperrors.Validation("Invalid order status")
	}

	order, appErr := s.loadOrder(ctx, orderID)
	if appErr != nil {
		return nil, appErr
	}

	order.OrderStatus = req.OrderStatus
	if req.Notes != "" {
		order.Notes = req.Notes
	}
	if req.OrderStatus == models.StatusDelivered {
		t := s.now()
		order.DeliveredAt = &t
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("Error updating order status", err)
	}

	message := fmt.Sprintf("Order Status Update\n\nOrder ID: %s\nNew Status: %s\n\nThank you for your patience!",
		order.InvoiceNumber, req.OrderStatus)
	if res := s.notifier.SendSMSNotification(ctx, order.ShippingInfo.PhoneNo, message); !res.Success {
		s.logger.Error("Status update notification error",
			zap.String("order_id", order.ID.Hex()), zap.String("detail", res.Error))
	}

	return order, nil
}

// ClearStatus resets one order back to Pending, nulls deliveredAt and
// appends a timestamped audit note.
func (s *OrderService) ClearStatus(ctx context.Context, orderID string) (*models.Order, *apperrors.Error) {
	order, appErr := s.loadOrder(ctx, orderID)
	if appErr != nil {
		return nil, appErr
	}

	s.resetOrder(order, "Status cleared by admin")
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("Error clearing order status", err)
	}
	return order, nil
}

// ClearUserOrders resets every order belonging to the user and reports
// how many were touched.
func (s *OrderService) ClearUserOrders(ctx context.Context, userID string) (int, *models.User, *apperrors.Error) {
	uid, appErr := parseObjectID(userID, "user")
	if appErr != nil {
		return 0, nil, appErr
	}

	user, err := s.users.FindByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return 0, nil, apperrors.Internal("Error clearing user orders", err)
	}

	orders, err := s.orders.FindByUser(ctx, uid)
	if err != nil {
		return 0, nil, apperrors.Internal("Error clearing user orders", err)
	}
	if len(orders) == 0 {
		return 0, nil, apperrors.NotFound("No orders found for this user")
	}

	cleared := 0
	for i := range orders {
		s.resetOrder(&orders[i], "All statuses cleared by admin")
		if err := s.orders.Update(ctx, &orders[i]); err != nil {
			s.logger.Error("Failed to clear order status",
				zap.String("order_id", orders[i].ID.Hex()), zap.Error(err))
			continue
		}
		cleared++
	}
	return cleared, user, nil
}

// ClearAllOrders resets every order in the system.
func (s *OrderService) ClearAllOrders(ctx context.Context) (int, *apperrors.Error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return 0, apperrors.Internal("Error clearing all orders", err)
	}
	if len(orders) == 0 {
		return 0, apperrors.NotFound("No orders found in the system")
	}

	cleared := 0
	for i := range orders {
		s.resetOrder(&orders[i], "All system orders cleared by admin")
		if err := s.orders.Update(ctx, &orders[i]); err != nil {
			s.logger.Error("Failed to clear order status",
				zap.String("order_id", orders[i].ID.Hex()), zap.Error(err))
			continue
		}
		cleared++
	}
	return cleared, nil
}

// InvoicePDF returns the invoice file for streaming, regenerating it
// when the stored path is empty or the file has gone missing from disk.
// A failed regeneration is the one PDF failure that surfaces as a 500.
func (s *OrderService) InvoicePDF(ctx context.Context, orderID, callerID, callerRole string) (string, string, *apperrors.Error) {
	order, appErr := s.loadOrder(ctx, orderID)
	if appErr != nil {
		return "", "", appErr
	}
	if order.User.Hex() != callerID && callerRole != models.RoleAdmin {
		return "", "", apperrors.Forbidden("Access denied")
	}

	s.populateCustomer(ctx, order)

	path := order.PDFPath
	if path == "" || !fileExists(path) {
		pdfResult, err := s.pdfGen.GenerateInvoice(order)
		if err != nil {
			return "", "", apperrors.Internal("Failed to generate PDF", err)
		}
		order.PDFPath = pdfResult.FilePath
		if err := s.orders.Update(ctx, order); err != nil {
			s.logger.Error("Failed to store regenerated PDF path",
				zap.String("order_id", order.ID.Hex()), zap.Error(err))
		}
		path = pdfResult.FilePath
	}

	return path, pdf.InvoiceFileName(order), nil
}

func (s *OrderService) loadOrder(ctx context.Context, orderID string) (*models.Order, *apperrors.Error) {
	oid, appErr := parseObjectID(orderID, "order")
	if appErr != nil {
		return nil, appErr
	}
	order, err := s.orders.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Order not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Error fetching order", err)
	}
	return order, nil
}

func (s *OrderService) resetOrder(order *models.Order, auditNote string) {
	order.OrderStatus = models.StatusPending
	order.DeliveredAt = nil
	stamp := fmt.Sprintf("[%s on %s]", auditNote, s.now().Format("02/01/2006, 15:04:05"))
	if order.Notes != "" {
		order.Notes = order.Notes + "\n" + stamp
	} else {
		order.Notes = stamp
	}
}

func (s *OrderService) populateCustomer(ctx context.Context, order *models.Order) {
	user, err := s.users.FindByID(ctx, order.User)
	if err != nil {
		return
	}
	order.Customer = &models.CustomerInfo{ID: user.ID, Name: user.Name, Email: user.Email}
}

func (s *OrderService) populateCustomers(ctx context.Context, orders []models.Order) {
	if len(orders) == 0 {
		return
	}
	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0, len(orders))
	for _, order := range orders {
		if !seen[order.User] {
			seen[order.User] = true
			ids = append(ids, order.User)
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to populate order customers", zap.Error(err))
		return
	}
	byID := make(map[primitive.ObjectID]*models.CustomerInfo, len(users))
	for i := range users {
		byID[users[i].ID] = &models.CustomerInfo{
			ID:    users[i].ID,
			Name:  users[i].Name,
			Email: users[i].Email,
		}
	}
	for i := range orders {
		orders[i].Customer = byID[orders[i].User]
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
