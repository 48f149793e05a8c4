package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"meal_storefront/internal/domain/catalog"
	"meal_storefront/internal/domain/customization"
)

type PaymentMethods interface {
	Enabled(ctx context.Context) ([]catalog.PaymentMethod, error)
}

// customizationRequest is the wire form of a customization.State.
// Mode is "keep" or "customize"; anything else means no decision yet.
type customizationRequest struct {
	Mode       string            `json:"mode"`
	Selections map[string]string `json:"selections"`
}

func (r *customizationRequest) state() customization.State {
	if r == nil {
		return customization.Uninitialized{}
	}
	switch r.Mode {
	case "keep":
		return customization.KeptDefault{}
	case "customize":
		selections := r.Selections
		if selections == nil {
			selections = map[string]string{}
		}
		return customization.Activated{Selections: selections}
	default:
		return customization.Uninitialized{}
	}
}

type CatalogHandler struct {
	customizer Customizer
	payments   PaymentMethods
}

func NewCatalogHandler(customizer Customizer, payments PaymentMethods) *CatalogHandler {
	return &CatalogHandler{customizer: customizer, payments: payments}
}

func (h *CatalogHandler) Substitutions(c *gin.Context) {
	groups, err := h.customizer.Groups(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

type validateCustomizationRequest struct {
	customizationRequest
	Notes string `json:"notes"`
}

// ValidateCustomization checks a customization without touching the cart.
func (h *CatalogHandler) ValidateCustomization(c *gin.Context) {
	var req validateCustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	notes, annotation, err := h.customizer.Customize(c.Request.Context(), c.Param("id"), req.Notes, req.state())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notes":         notes,
		"substitutions": annotation.Substitutions,
	})
}

func (h *CatalogHandler) PaymentMethods(c *gin.Context) {
	methods, err := h.payments.Enabled(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
}
