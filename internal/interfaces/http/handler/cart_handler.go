package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartapp "meal_storefront/internal/application/cart"
	"meal_storefront/internal/domain/apperr"
	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/catalog"
	"meal_storefront/internal/domain/customization"
	"meal_storefront/internal/domain/pricing"
	"meal_storefront/internal/domain/repository"
)

type CartSessions interface {
	Session(ctx context.Context, sessionID string) (*cartapp.Store, error)
}

type Customizer interface {
	Groups(ctx context.Context, productID string) ([]customization.SubstitutionGroup, error)
	Customize(ctx context.Context, productID, notes string, state customization.State) (string, customization.Annotation, error)
}

type CartHandler struct {
	carts      CartSessions
	products   repository.ProductRepository
	customizer Customizer
}

func NewCartHandler(carts CartSessions, products repository.ProductRepository, customizer Customizer) *CartHandler {
	return &CartHandler{carts: carts, products: products, customizer: customizer}
}

type addItemRequest struct {
	ProductID     string                `json:"productId" binding:"required"`
	Quantity      *int                  `json:"quantity"`
	Notes         string                `json:"notes"`
	Customization *customizationRequest `json:"customization"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type cartResponse struct {
	Items []cart.LineItem `json:"items"`
	Total string          `json:"total"`
	Count int             `json:"count"`
}

func (h *CartHandler) Get(c *gin.Context) {
	store, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCartResponse(store))
}

// AddItem prices the line from the live product and folds any customization
// into its notes before adding it.
func (h *CartHandler) AddItem(c *gin.Context) {
	store, ok := h.session(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	// An absent quantity means one; an explicit zero is rejected by the store.
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	ctx := c.Request.Context()
	product, err := h.products.FindProduct(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(c, apperr.Availability(err, "This dish is no longer on the menu"))
		return
	}
	if err != nil {
		respondError(c, apperr.Resolution(err, "We could not load this dish, please try again"))
		return
	}
	if !product.IsActive {
		respondError(c, apperr.Availability(catalog.ErrProductNotFound, "This dish is currently unavailable"))
		return
	}

	notes := req.Notes
	if product.AllowsCustomization {
		notes, _, err = h.customizer.Customize(ctx, product.ID, req.Notes, req.Customization.state())
		if err != nil {
			respondError(c, err)
			return
		}
	}

	item, err := cart.NewLineItem(product.ID, product.Name, product.Price, product.ImageURL, notes)
	if err != nil {
		respondError(c, apperr.Input(err, "This dish cannot be added right now"))
		return
	}
	if err := store.AddItem(ctx, item, quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(store))
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	store, ok := h.session(c)
	if !ok {
		return
	}
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := store.UpdateQuantity(c.Request.Context(), c.Param("key"), *req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(store))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	store, ok := h.session(c)
	if !ok {
		return
	}
	if err := store.RemoveItem(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(store))
}

func (h *CartHandler) Clear(c *gin.Context) {
	store, ok := h.session(c)
	if !ok {
		return
	}
	if err := store.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(store))
}

func (h *CartHandler) session(c *gin.Context) (*cartapp.Store, bool) {
	store, _, ok := openSession(c, h.carts)
	return store, ok
}

// openSession loads the cart named by the session header.
func openSession(c *gin.Context, carts CartSessions) (*cartapp.Store, string, bool) {
	sessionID, ok := requireHeader(c, headerSessionID)
	if !ok {
		return nil, "", false
	}
	store, err := carts.Session(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, apperr.Resolution(err, "We could not load your cart, please try again"))
		return nil, "", false
	}
	return store, sessionID, true
}

func toCartResponse(store *cartapp.Store) cartResponse {
	return cartResponse{
		Items: store.Items(),
		Total: pricing.Display(store.Total()),
		Count: store.Count(),
	}
}
