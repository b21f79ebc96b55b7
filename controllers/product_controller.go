package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-api/apperrors"
	"storefront-api/middleware"
	"storefront-api/services"
	"storefront-api/storage"
)

// ProductController handles HTTP requests for the product catalog.
type ProductController struct {
	productService *services.ProductService
	gridFS         *storage.GridFSStore
}

// NewProductController creates a new ProductController. gridFS may be
// nil when images are stored on disk or S3; the image streaming route
// then reports the blob as unavailable.
func NewProductController(productService *services.ProductService, gridFS *storage.GridFSStore) *ProductController {
	return &ProductController{productService: productService, gridFS: gridFS}
}

// ListProducts handles GET /api/products.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, svcErr := pc.productService.List(c.Request.Context())
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(products),
		"products": products,
	})
}

// GetProduct handles GET /api/products/:id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	product, svcErr := pc.productService.GetByID(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// ListByCategory handles GET /api/products/category/:category.
func (pc *ProductController) ListByCategory(c *gin.Context) {
	products, svcErr := pc.productService.ListByCategory(c.Request.Context(), c.Param("category"))
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(products),
		"products": products,
	})
}

// ListCategories handles GET /api/products/categories.
func (pc *ProductController) ListCategories(c *gin.Context) {
	categories, svcErr := pc.productService.Categories(c.Request.Context())
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// CreateProduct handles POST /api/products (admin only, multipart form).
func (pc *ProductController) CreateProduct(c *gin.Context) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Price must be a number"))
		return
	}

	callerID, _ := middleware.CurrentUser(c)
	input := &services.CreateProductInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		Category:    c.PostForm("category"),
		Stock:       c.PostForm("stock"),
		Images:      middleware.UploadedImages(c),
		CreatedBy:   callerID,
	}
	if single := middleware.UploadedImage(c); single != nil {
		input.Images = append(input.Images, single)
	}

	product, svcErr := pc.productService.Create(c.Request.Context(), input)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct handles PUT /api/products/:id (admin only).
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	input := &services.UpdateProductInput{Images: middleware.UploadedImages(c)}
	if single := middleware.UploadedImage(c); single != nil {
		input.Images = append(input.Images, single)
	}

	if v, ok := c.GetPostForm("name"); ok {
		input.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		input.Description = &v
	}
	if v, ok := c.GetPostForm("category"); ok {
		input.Category = &v
	}
	if v, ok := c.GetPostForm("stock"); ok {
		input.Stock = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("Price must be a number"))
			return
		}
		input.Price = &price
	}

	product, svcErr := pc.productService.Update(c.Request.Context(), c.Param("id"), input)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct handles DELETE /api/products/:id (admin only).
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if svcErr := pc.productService.Delete(c.Request.Context(), c.Param("id")); svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// DeleteCategory handles DELETE /api/products/category/:category (admin only).
func (pc *ProductController) DeleteCategory(c *gin.Context) {
	deleted, svcErr := pc.productService.DeleteByCategory(c.Request.Context(), c.Param("category"))
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Products deleted successfully",
		"deletedCount": deleted,
	})
}

// StreamImage handles GET /api/products/:id/image, streaming an image
// blob stored in the database.
func (pc *ProductController) StreamImage(c *gin.Context) {
	if pc.gridFS == nil {
		apperrors.Respond(c, apperrors.NotFound("Image not found"))
		return
	}

	reader, contentType, err := pc.gridFS.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.NotFound("Image not found"))
		return
	}
	defer reader.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers are already out; nothing sensible to send.
		return
	}
}
