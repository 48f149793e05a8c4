package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"meal_storefront/internal/application/checkout"
	"meal_storefront/internal/domain/order"
)

type Checkout interface {
	Prepare(ctx context.Context, cmd checkout.PrepareCommand) (*checkout.Preparation, error)
	Submit(ctx context.Context, draft order.Draft) (*order.Order, error)
}

type CheckoutHandler struct {
	carts    CartSessions
	checkout Checkout
}

func NewCheckoutHandler(carts CartSessions, svc Checkout) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, checkout: svc}
}

type checkoutRequest struct {
	AddressID            string `json:"addressId" binding:"required"`
	PaymentMethod        string `json:"paymentMethod"`
	ProceedWithAvailable bool   `json:"proceedWithAvailable"`
}

// Prepare previews the session cart: partition, pricing and draft.
func (h *CheckoutHandler) Prepare(c *gin.Context) {
	prep, _, ok := h.prepare(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, prep)
}

// Submit places the order for the session cart. When some lines are
// unavailable the partition is returned with 409 unless the caller opted
// to proceed with the available subset.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	prep, req, ok := h.prepare(c)
	if !ok {
		return
	}
	if prep.Draft == nil || (len(prep.Unavailable) > 0 && !req.ProceedWithAvailable) {
		c.JSON(http.StatusConflict, prep)
		return
	}

	placed, err := h.checkout.Submit(c.Request.Context(), *prep.Draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, placed)
}

func (h *CheckoutHandler) prepare(c *gin.Context) (*checkout.Preparation, checkoutRequest, bool) {
	var req checkoutRequest
	userID, ok := requireHeader(c, headerUserID)
	if !ok {
		return nil, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return nil, req, false
	}
	store, sessionID, ok := openSession(c, h.carts)
	if !ok {
		return nil, req, false
	}

	prep, err := h.checkout.Prepare(c.Request.Context(), checkout.PrepareCommand{
		UserID:        userID,
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		SessionID:     sessionID,
		Items:         store.Items(),
		Source:        order.SourceCart,
	})
	if err != nil {
		// An unresolved fee still comes with the partition worth showing.
		body := errorBody(err)
		if prep != nil {
			body["preparation"] = prep
		}
		c.JSON(statusFor(err), body)
		return nil, req, false
	}
	return prep, req, true
}
