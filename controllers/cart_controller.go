package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/apperrors"
	"storefront-api/middleware"
	"storefront-api/models"
	"storefront-api/services"
)

// CartController handles HTTP requests for the shopping cart.
type CartController struct {
	cartService *services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// SaveCart handles POST /api/cart. The whole item list is replaced for
// the authenticated user.
func (cc *CartController) SaveCart(c *gin.Context) {
	var req models.SaveCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	callerID, _ := middleware.CurrentUser(c)
	cart, svcErr := cc.cartService.Save(c.Request.Context(), callerID, &req)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart saved successfully",
		"cart":    cart,
	})
}

// GetCart handles GET /api/cart/:userId.
func (cc *CartController) GetCart(c *gin.Context) {
	userID := c.Param("userId")
	if !middleware.IsOwnerOrAdmin(c, userID) {
		apperrors.Respond(c, apperrors.Forbidden("You can only access your own cart"))
		return
	}

	cart, svcErr := cc.cartService.Get(c.Request.Context(), userID)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": cart})
}

// ClearCart handles DELETE /api/cart/:userId.
func (cc *CartController) ClearCart(c *gin.Context) {
	userID := c.Param("userId")
	if !middleware.IsOwnerOrAdmin(c, userID) {
		apperrors.Respond(c, apperrors.Forbidden("You can only clear your own cart"))
		return
	}

	cart, svcErr := cc.cartService.Clear(c.Request.Context(), userID)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart cleared successfully",
		"cart":    cart,
	})
}

// AddItem handles POST /api/cart/add-item for the authenticated user.
func (cc *CartController) AddItem(c *gin.Context) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Product ID is required"))
		return
	}

	callerID, _ := middleware.CurrentUser(c)
	cart, svcErr := cc.cartService.AddItem(c.Request.Context(), callerID, &req)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item added to cart",
		"cart":    cart,
	})
}

// RemoveItem handles DELETE /api/cart/remove-item/:productId for the
// authenticated user.
func (cc *CartController) RemoveItem(c *gin.Context) {
	callerID, _ := middleware.CurrentUser(c)
	cart, svcErr := cc.cartService.RemoveItem(c.Request.Context(), callerID, c.Param("productId"))
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item removed from cart",
		"cart":    cart,
	})
}

// GeneratePDF handles POST /api/cart/generate-pdf/:userId, emailing the
// current cart as a PDF attachment.
func (cc *CartController) GeneratePDF(c *gin.Context) {
	userID := c.Param("userId")
	if !middleware.IsOwnerOrAdmin(c, userID) {
		apperrors.Respond(c, apperrors.Forbidden("You can only export your own cart"))
		return
	}

	var req models.CartPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("A valid email is required"))
		return
	}

	result, svcErr := cc.cartService.GeneratePDF(c.Request.Context(), userID, req.Email)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Cart PDF generated",
		"pdfGenerated": result.PDFGenerated,
		"emailSent":    result.EmailSent,
		"totalItems":   result.TotalItems,
		"totalAmount":  result.TotalAmount,
	})
}
