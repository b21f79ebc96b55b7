package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/apperrors"
	"storefront-api/middleware"
	"storefront-api/models"
	"storefront-api/services"
)

// OrderController handles HTTP requests for checkout and order
// management.
type OrderController struct {
	orderService *services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Checkout handles POST /api/orders/checkout for the authenticated
// user.
func (oc *OrderController) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Shipping info and payment info are required"))
		return
	}

	callerID, _ := middleware.CurrentUser(c)
	result, svcErr := oc.orderService.Checkout(c.Request.Context(), callerID, &req)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"message":           "Order placed successfully",
		"order":             result.Order,
		"invoiceNumber":     result.InvoiceNumber,
		"pdfGenerated":      result.PDFGenerated,
		"notificationsSent": result.NotificationsSent,
		"cartSummarySent":   result.CartSummarySent,
	})
}

// ListOrders handles GET /api/orders (admin only).
func (oc *OrderController) ListOrders(c *gin.Context) {
	orders, svcErr := oc.orderService.ListAll(c.Request.Context())
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"orders":  orders,
	})
}

// GetOrder handles GET /api/orders/:orderId. Ownership is checked in
// the service, which knows who the order belongs to.
func (oc *OrderController) GetOrder(c *gin.Context) {
	callerID, callerRole := middleware.CurrentUser(c)
	order, svcErr := oc.orderService.GetByID(c.Request.Context(), c.Param("orderId"), callerID, callerRole)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// ListUserOrders handles GET /api/orders/user/:userId.
func (oc *OrderController) ListUserOrders(c *gin.Context) {
	userID := c.Param("userId")
	if !middleware.IsOwnerOrAdmin(c, userID) {
		apperrors.Respond(c, apperrors.Forbidden("You can only access your own orders"))
		return
	}

	orders, svcErr := oc.orderService.ListForUser(c.Request.Context(), userID)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"orders":  orders,
	})
}

// UpdateStatus handles PUT /api/orders/:orderId/status (admin only).
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Order status is required"))
		return
	}

	order, svcErr := oc.orderService.UpdateStatus(c.Request.Context(), c.Param("orderId"), &req)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// ClearStatus handles DELETE /api/orders/:orderId/clear-status (admin
// only).
func (oc *OrderController) ClearStatus(c *gin.Context) {
	order, svcErr := oc.orderService.ClearStatus(c.Request.Context(), c.Param("orderId"))
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status cleared successfully",
		"order":   order,
	})
}

// ClearUserOrders handles DELETE /api/orders/user/:userId/clear-all
// (admin only).
func (oc *OrderController) ClearUserOrders(c *gin.Context) {
	cleared, user, svcErr := oc.orderService.ClearUserOrders(c.Request.Context(), c.Param("userId"))
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "All order statuses cleared for user",
		"clearedCount": cleared,
		"user":         gin.H{"_id": user.ID, "name": user.Name, "email": user.Email},
	})
}

// ClearAllOrders handles DELETE /api/orders/clear-all (admin only).
func (oc *OrderController) ClearAllOrders(c *gin.Context) {
	cleared, svcErr := oc.orderService.ClearAllOrders(c.Request.Context())
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "All order statuses cleared",
		"clearedCount": cleared,
	})
}

// InvoicePDF handles GET /api/orders/:orderId/pdf, streaming the
// invoice as a file download.
func (oc *OrderController) InvoicePDF(c *gin.Context) {
	callerID, callerRole := middleware.CurrentUser(c)
	path, filename, svcErr := oc.orderService.InvoicePDF(c.Request.Context(), c.Param("orderId"), callerID, callerRole)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
