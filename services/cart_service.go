package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"storefront-api/apperrors"
	"storefront-api/models"
	"storefront-api/repository"
)

// CartService owns the single mutable cart per user.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	users    repository.UserRepository
	pdfGen   PDFGenerator
	notifier Notifier
	logger   *zap.Logger
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, users repository.UserRepository, pdfGen PDFGenerator, notifier Notifier, logger *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		users:    users,
		pdfGen:   pdfGen,
		notifier: notifier,
		logger:   logger,
	}
}

// Save replaces the user's entire cart. Every line is validated against a
// live product and re-priced from the current product price; the
// client-supplied price is never trusted. No stock check happens here;
// only the single-item add path guards stock.
func (s *CartService) Save(ctx context.Context, userID string, req *models.SaveCartRequest) (*models.Cart, *apperrors.Error) {
	uid, appErr := parseObjectID(userID, "user")
	if appErr != nil {
		return nil, appErr
	}
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("Cart items are required and must be an array")
	}

	validated := make([]models.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("Product with ID %s not found", item.Product))
		}
		product, err := s.products.FindByID(ctx, pid)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Validation(fmt.Sprintf("Product with ID %s not found", item.Product))
		}
		if err != nil {
			return nil, apperrors.Internal("Error saving cart", err)
		}
		if item.Quantity < 1 {
			return nil, apperrors.Validation("Quantity must be at least 1")
		}
		validated = append(validated, models.CartItem{
			Product:  pid,
			Quantity: item.Quantity,
			Price:    product.Price,
			Category: orCategory(product.Category),
		})
	}

	cart, err := s.carts.FindByUser(ctx, uid)
	if err != nil {
		return nil, apperrors.Internal("Error saving cart", err)
	}
	if cart == nil {
		cart = &models.Cart{User: uid}
	}
	cart.Items = validated

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, apperrors.Internal("Error saving cart", err)
	}

	s.populate(ctx, cart)
	return cart, nil
}

// Get returns the user's cart with product details resolved. A missing
// cart is reported as an explicit empty cart, not an error.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, *apperrors.Error) {
	uid, appErr := parseObjectID(userID, "user")
	if appErr != nil {
		return nil, appErr
	}

	cart, err := s.carts.FindByUser(ctx, uid)
	if err != nil {
		return nil, apperrors.Internal("Error fetching cart", err)
	}
	if cart == nil {
		return &models.Cart{User: uid, Items: []models.CartItem{}}, nil
	}

	s.populate(ctx, cart)
	return cart, nil
}

// Clear empties the cart's items in place; the cart document persists.
func (s *CartService) Clear(ctx context.Context, userID string) (*models.Cart, *apperrors.Error) {
	uid, appErr := parseObjectID(userID, "user")
	if appErr != nil {
		return nil, appErr
	}

	cart, err := s.carts.FindByUser(ctx, uid)
	if err != nil {
		return nil, apperrors.Internal("Error clearing cart", err)
	}
	if cart == nil {
		return nil, apperrors.NotFound("Cart not found")
	}

	cart.Items = []models.CartItem{}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, apperrors.Internal("Error clearing cart", err)
	}
	return cart, nil
}

// AddItem merges quantity into an existing line or appends a new one.
// Unlike the bulk save, this path does check stock sufficiency.
func (s *CartService) AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.Cart, *apperrors.Error) {
	uid, appErr := parseObjectID(userID, "user")
	if appErr != nil {
		return nil, appErr
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, apperrors.Validation("Quantity must be at least 1")
	}

	pid, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, apperrors.NotFound("Product not found")
	}
	product, err := s.products.FindByID(ctx, pid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Error adding item to cart", err)
	}

	if product.Stock < quantity {
		return nil, apperrors.InsufficientStock(product.Stock)
	}

	cart, err := s.carts.FindByUser(ctx, uid)
	if err != nil {
		return nil, apperrors.Internal("Error adding item to cart", err)
	}
	if cart == nil {
		cart = &models.Cart{User: uid, Items: []models.CartItem{}}
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].Product == pid {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			Product:  pid,
			Quantity: quantity,
			Price:    product.Price,
			Category: orCategory(product.Category),
		})
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, apperrors.Internal("Error adding item to cart", err)
	}

	s.populate(ctx, cart)
	return cart, nil
}

// RemoveItem filters the product's line out of the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, *apperrors.Error) {
	uid, appErr := parseObjectID(userID, "user")
	if appErr != nil {
		return nil, appErr
	}

	cart, err := s.carts.FindByUser(ctx, uid)
	if err != nil {
		return nil, apperrors.Internal("Error removing item from cart", err)
	}
	if cart == nil {
		return nil, apperrors.NotFound("Cart not found")
	}

	kept := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Product.Hex() != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, apperrors.Internal("Error removing item from cart", err)
	}

	s.populate(ctx, cart)
	return cart, nil
}

// CartPDFResult reports the outcome of the cart summary delivery.
type CartPDFResult struct {
	PDFGenerated bool    `json:"pdfGenerated"`
	EmailSent    bool    `json:"emailSent"`
	TotalItems   int     `json:"totalItems"`
	TotalAmount  float64 `json:"totalAmount"`
}

// GeneratePDF renders the current cart as a PDF and emails it. The temp
// file is removed after the send; invoices are the only PDFs kept for
// later download.
func (s *CartService) GeneratePDF(ctx context.Context, userID, email string) (*CartPDFResult, *apperrors.Error) {
	uid, appErr := parseObjectID(userID, "user")
	if appErr != nil {
		return nil, appErr
	}

	user, err := s.users.FindByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Error generating cart PDF", err)
	}

	cart, err := s.carts.FindByUser(ctx, uid)
	if err != nil {
		return nil, apperrors.Internal("Error generating cart PDF", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, apperrors.Validation("Cart is empty. Cannot generate PDF.")
	}

	s.populate(ctx, cart)
	items := cartLines(cart)

	pdfResult, err := s.pdfGen.GenerateCartPDF(items, cart.TotalItems(), user)
	if err != nil {
		return nil, apperrors.Internal("Error generating cart PDF", err)
	}

	notifResult := s.notifier.SendCartSummary(ctx, email, user, items, pdfResult.FilePath)

	if err := os.Remove(pdfResult.FilePath); err != nil {
		s.logger.Warn("Error cleaning up cart PDF file",
			zap.String("path", pdfResult.FilePath), zap.Error(err))
	}

	return &CartPDFResult{
		PDFGenerated: true,
		EmailSent:    notifResult.Success,
		TotalItems:   cart.TotalItems(),
		TotalAmount:  cart.TotalAmount(),
	}, nil
}

// populate resolves product details for each cart line. Lines whose
// product has since been deleted keep their snapshot fields only.
func (s *CartService) populate(ctx context.Context, cart *models.Cart) {
	for i := range cart.Items {
		product, err := s.products.FindByID(ctx, cart.Items[i].Product)
		if err != nil {
			continue
		}
		cart.Items[i].Detail = product
	}
}

// cartLines converts populated cart items into order-item shaped lines
// for PDF and email rendering.
func cartLines(cart *models.Cart) []models.OrderItem {
	lines := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		line := models.OrderItem{
			Product:  item.Product,
			Name:     "Product",
			Quantity: item.Quantity,
			Price:    item.Price,
			Category: item.Category,
		}
		if item.Detail != nil {
			line.Name = item.Detail.Name
			line.Image = item.Detail.FirstImageURL()
		}
		lines = append(lines, line)
	}
	return lines
}

func parseObjectID(id, kind string) (primitive.ObjectID, *apperrors.Error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation(fmt.Sprintf("Invalid %s ID format", kind))
	}
	return oid, nil
}

func orCategory(category string) string {
	if category == "" {
		return "N/A"
	}
	return category
}
