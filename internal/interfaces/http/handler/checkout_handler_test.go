package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cartapp "meal_storefront/internal/application/cart"
	"meal_storefront/internal/application/checkout"
	"meal_storefront/internal/domain/apperr"
	"meal_storefront/internal/domain/availability"
	"meal_storefront/internal/domain/cart"
	"meal_storefront/internal/domain/order"
	"meal_storefront/internal/domain/pricing"
	"meal_storefront/pkg/logger"
)

type checkoutFixture struct {
	checkout *MockCheckout
	engine   *gin.Engine
	line     cart.LineItem
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	carts := cartapp.NewManager(newMemoryKV(), logger.NewNop())
	store, err := carts.Session(context.Background(), "s1")
	require.NoError(t, err)
	line, err := cart.NewLineItem("p1", "Bowl", decimal.RequireFromString("12.50"), "", "")
	require.NoError(t, err)
	require.NoError(t, store.AddItem(context.Background(), line, 2))

	f := &checkoutFixture{checkout: new(MockCheckout), engine: gin.New(), line: line.WithQuantity(2)}
	h := NewCheckoutHandler(carts, f.checkout)
	f.engine.POST("/api/checkout/prepare", h.Prepare)
	f.engine.POST("/api/checkout/submit", h.Submit)
	return f
}

func (f *checkoutFixture) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerSessionID, "s1")
	req.Header.Set(headerUserID, "u1")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *checkoutFixture) preparation(unavailable bool) *checkout.Preparation {
	breakdown := pricing.NewBreakdown([]cart.LineItem{f.line}, pricing.Resolved(decimal.RequireFromString("5.90")))
	prep := &checkout.Preparation{
		Draft: &order.Draft{
			UserID:        "u1",
			AddressID:     "a1",
			PaymentMethod: "pix",
			Items:         []cart.LineItem{f.line},
			Pricing:       breakdown,
			Source:        order.SourceCart,
			SessionID:     "s1",
		},
		Available: []availability.Available{{Item: f.line}},
		Pricing:   breakdown,
	}
	if unavailable {
		prep.Unavailable = []availability.Unavailable{availability.NotFound(cart.LineItem{ProductID: "p9", Title: "Soup", Quantity: 1})}
	}
	return prep
}

func forSessionCart(cmd checkout.PrepareCommand) bool {
	return cmd.UserID == "u1" && cmd.SessionID == "s1" && cmd.AddressID == "a1" &&
		cmd.Source == order.SourceCart && len(cmd.Items) == 1 && cmd.Items[0].Quantity == 2
}

func TestCheckoutHandler_Prepare(t *testing.T) {
	f := newCheckoutFixture(t)
	f.checkout.On("Prepare", mock.Anything, mock.MatchedBy(forSessionCart)).Return(f.preparation(false), nil)

	w := f.post("/api/checkout/prepare", `{"addressId":"a1","paymentMethod":"pix"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var out checkout.Preparation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotNil(t, out.Draft)
	assert.True(t, out.Draft.Pricing.Total.Amount.Equal(decimal.RequireFromString("30.90")))
	f.checkout.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestCheckoutHandler_PrepareUnresolvedFeeKeepsPartition(t *testing.T) {
	f := newCheckoutFixture(t)
	prep := f.preparation(false)
	prep.Draft = nil
	f.checkout.On("Prepare", mock.Anything, mock.Anything).
		Return(prep, apperr.Resolution(pricing.ErrFeeUnresolved, "We could not calculate delivery"))

	w := f.post("/api/checkout/prepare", `{"addressId":"a1"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"preparation"`)
	assert.Contains(t, w.Body.String(), "We could not calculate delivery")
}

func TestCheckoutHandler_SubmitPlacesOrder(t *testing.T) {
	// Arrange
	f := newCheckoutFixture(t)
	prep := f.preparation(false)
	f.checkout.On("Prepare", mock.Anything, mock.MatchedBy(forSessionCart)).Return(prep, nil)
	f.checkout.On("Submit", mock.Anything, *prep.Draft).Return(&order.Order{ID: "o1", Status: order.StatusPending}, nil)

	// Act
	w := f.post("/api/checkout/submit", `{"addressId":"a1","paymentMethod":"pix"}`)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"o1"`)
	f.checkout.AssertExpectations(t)
}

func TestCheckoutHandler_SubmitStopsOnUnavailableItems(t *testing.T) {
	f := newCheckoutFixture(t)
	f.checkout.On("Prepare", mock.Anything, mock.Anything).Return(f.preparation(true), nil)

	w := f.post("/api/checkout/submit", `{"addressId":"a1","paymentMethod":"pix"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Soup is no longer on the menu")
	f.checkout.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestCheckoutHandler_SubmitProceedsWithAvailable(t *testing.T) {
	f := newCheckoutFixture(t)
	prep := f.preparation(true)
	f.checkout.On("Prepare", mock.Anything, mock.Anything).Return(prep, nil)
	f.checkout.On("Submit", mock.Anything, *prep.Draft).Return(&order.Order{ID: "o1"}, nil)

	w := f.post("/api/checkout/submit", `{"addressId":"a1","paymentMethod":"pix","proceedWithAvailable":true}`)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCheckoutHandler_SubmitRecheckFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	prep := f.preparation(false)
	f.checkout.On("Prepare", mock.Anything, mock.Anything).Return(prep, nil)
	gone := []availability.Unavailable{availability.InsufficientStock(f.line, 2, 1)}
	f.checkout.On("Submit", mock.Anything, mock.Anything).
		Return(nil, apperr.Availability(&checkout.UnavailableItemsError{Items: gone}, "Some items just sold out"))

	w := f.post("/api/checkout/submit", `{"addressId":"a1","paymentMethod":"pix"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "AVAILABILITY", body["kind"])
	assert.Len(t, body["unavailable"], 1)
}

func TestCheckoutHandler_SubmitWriteFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.checkout.On("Prepare", mock.Anything, mock.Anything).Return(f.preparation(false), nil)
	f.checkout.On("Submit", mock.Anything, mock.Anything).
		Return(nil, apperr.Submission(assert.AnError, "We could not place your order"))

	w := f.post("/api/checkout/submit", `{"addressId":"a1","paymentMethod":"pix"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "We could not place your order")
}

func TestCheckoutHandler_RequiresUserAndAddress(t *testing.T) {
	f := newCheckoutFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/prepare", bytes.NewBufferString(`{"addressId":"a1"}`))
	req.Header.Set(headerSessionID, "s1")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.post("/api/checkout/prepare", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.checkout.AssertNotCalled(t, "Prepare", mock.Anything, mock.Anything)
}
