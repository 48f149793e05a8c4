package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"meal_storefront/internal/application/reorder"
	"meal_storefront/internal/domain/order"
)

type Reorderer interface {
	Rebuild(ctx context.Context, userID, orderID, addressID string) (*reorder.Result, error)
	History(ctx context.Context, userID string, limit int) ([]*order.Order, error)
}

type ReorderHandler struct {
	reorders Reorderer
	checkout Checkout
}

func NewReorderHandler(reorders Reorderer, svc Checkout) *ReorderHandler {
	return &ReorderHandler{reorders: reorders, checkout: svc}
}

func (h *ReorderHandler) History(c *gin.Context) {
	userID, ok := requireHeader(c, headerUserID)
	if !ok {
		return
	}
	orders, err := h.reorders.History(c.Request.Context(), userID, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Preview rebuilds a past order at current prices without placing it.
func (h *ReorderHandler) Preview(c *gin.Context) {
	userID, ok := requireHeader(c, headerUserID)
	if !ok {
		return
	}
	res, err := h.reorders.Rebuild(c.Request.Context(), userID, c.Param("id"), c.Query("addressId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type reorderRequest struct {
	AddressID            string `json:"addressId"`
	PaymentMethod        string `json:"paymentMethod" binding:"required"`
	ProceedWithAvailable bool   `json:"proceedWithAvailable"`
}

// Submit places a past order again. The cart is left untouched.
func (h *ReorderHandler) Submit(c *gin.Context) {
	userID, ok := requireHeader(c, headerUserID)
	if !ok {
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	res, err := h.reorders.Rebuild(ctx, userID, c.Param("id"), req.AddressID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(res.Unavailable) > 0 && !req.ProceedWithAvailable {
		c.JSON(http.StatusConflict, res)
		return
	}

	draft, err := reorder.Draft(res, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	placed, err := h.checkout.Submit(ctx, *draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, placed)
}
