package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strconv"

	"go.uber.org/zap"

	"storefront-api/apperrors"
	"storefront-api/models"
	"storefront-api/repository"
	"storefront-api/storage"
)

// ProductService handles catalog reads and the admin write surface,
// delegating image bytes to the configured storage backend.
type ProductService struct {
	products repository.ProductRepository
	store    storage.Store
	logger   *zap.Logger
}

func NewProductService(products repository.ProductRepository, store storage.Store, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, store: store, logger: logger}
}

// CreateProductInput carries the multipart form fields for a new
// product. Stock arrives as a form string and defaults to zero when
// absent or unparsable.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       string
	Images      []*multipart.FileHeader
	CreatedBy   string
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *string
	Images      []*multipart.FileHeader
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, *apperrors.Error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Error fetching products", err)
	}
	return products, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, *apperrors.Error) {
	oid, appErr := parseObjectID(id, "product")
	if appErr != nil {
		return nil, appErr
	}
	product, err := s.products.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Error fetching product", err)
	}
	return product, nil
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]models.Product, *apperrors.Error) {
	products, err := s.products.FindByCategory(ctx, category)
	if err != nil {
		return nil, apperrors.Internal("Error fetching products", err)
	}
	return products, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, *apperrors.Error) {
	categories, err := s.products.DistinctCategories(ctx)
	if err != nil {
		return nil, apperrors.Internal("Error fetching categories", err)
	}
	return categories, nil
}

// Create stores the uploaded images first and then inserts the product.
// An image that fails to store fails the whole create.
func (s *ProductService) Create(ctx context.Context, input *CreateProductInput) (*models.Product, *apperrors.Error) {
	if input.Name == "" || input.Price <= 0 || input.Category == "" {
		return nil, apperrors.Validation("Name, price and category are required")
	}
	creator, appErr := parseObjectID(input.CreatedBy, "user")
	if appErr != nil {
		return nil, appErr
	}

	images, appErr := s.storeImages(ctx, input.Images)
	if appErr != nil {
		return nil, appErr
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       parseStock(input.Stock),
		Images:      images,
		User:        creator,
	}
	if err := s.products.Create(ctx, product); err != nil {
		s.cleanupImages(ctx, images)
		return nil, apperrors.Internal("Error creating product", err)
	}
	return product, nil
}

// Update patches the provided fields. New images replace the old set;
// the old assets are removed from storage best-effort.
func (s *ProductService) Update(ctx context.Context, id string, input *UpdateProductInput) (*models.Product, *apperrors.Error) {
	product, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, apperrors.Validation("Price must be greater than zero")
		}
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Stock != nil {
		product.Stock = parseStock(*input.Stock)
	}

	var replaced []models.ProductImage
	if len(input.Images) > 0 {
		images, appErr := s.storeImages(ctx, input.Images)
		if appErr != nil {
			return nil, appErr
		}
		replaced = product.Images
		product.Images = images
	}

	if err := s.products.Update(ctx, product); err != nil {
		s.cleanupImages(ctx, product.Images)
		return nil, apperrors.Internal("Error updating product", err)
	}
	s.cleanupImages(ctx, replaced)
	return product, nil
}

// Delete removes the product and then its stored images best-effort.
func (s *ProductService) Delete(ctx context.Context, id string) *apperrors.Error {
	product, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return appErr
	}
	if err := s.products.DeleteByID(ctx, product.ID); err != nil {
		return apperrors.Internal("Error deleting product", err)
	}
	s.cleanupImages(ctx, product.Images)
	return nil
}

// DeleteByCategory removes every product in the category, cleaning up
// their assets first, and reports how many were deleted.
func (s *ProductService) DeleteByCategory(ctx context.Context, category string) (int64, *apperrors.Error) {
	products, err := s.products.FindByCategory(ctx, category)
	if err != nil {
		return 0, apperrors.Internal("Error deleting products", err)
	}
	if len(products) == 0 {
		return 0, apperrors.NotFound("No products found in this category")
	}
	for i := range products {
		s.cleanupImages(ctx, products[i].Images)
	}
	deleted, err := s.products.DeleteByCategory(ctx, category)
	if err != nil {
		return 0, apperrors.Internal("Error deleting products", err)
	}
	return deleted, nil
}

func (s *ProductService) storeImages(ctx context.Context, headers []*multipart.FileHeader) ([]models.ProductImage, *apperrors.Error) {
	images := make([]models.ProductImage, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			s.cleanupImages(ctx, images)
			return nil, apperrors.Upload("Failed to read uploaded file")
		}
		image, err := s.store.Save(ctx, header.Filename, header.Header.Get("Content-Type"), file)
		file.Close()
		if err != nil {
			s.cleanupImages(ctx, images)
			return nil, apperrors.Internal("Failed to store image", err)
		}
		images = append(images, image)
	}
	return images, nil
}

func (s *ProductService) cleanupImages(ctx context.Context, images []models.ProductImage) {
	for _, image := range images {
		if err := s.store.Delete(ctx, image); err != nil {
			s.logger.Warn("Failed to delete stored image",
				zap.String("public_id", image.PublicID), zap.Error(err))
		}
	}
}

func parseStock(raw string) int {
	stock, err := strconv.Atoi(raw)
	if err != nil || stock < 0 {
		return 0
	}
	return stock
}
