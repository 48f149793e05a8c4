package catalogapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"meal_storefront/internal/config"
	"meal_storefront/internal/domain/catalog"
	"meal_storefront/pkg/logger"
)

// MockLogger records warnings emitted by the client.
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields ...logger.Field) { m.Called(msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logger.Field) { m.Called(msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logger.Field) { m.Called(msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logger.Field) { m.Called(msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logger.Field) { m.Called(msg, fields) }

func (m *MockLogger) WithContext(ctx context.Context) logger.Logger { return m }

func (m *MockLogger) WithFields(fields ...logger.Field) logger.Logger { return m }

func (m *MockLogger) Sync() error { return nil }

func newTestClient(t *testing.T, handler http.HandlerFunc, log logger.Logger) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.CatalogConfig{
		BaseURL:        server.URL,
		APIKey:         "anon-key",
		TimeoutMS:      2000,
		RetryAttempts:  1,
		RetryBackoffMS: 1,
	}, log)
	require.NoError(t, err)
	return client
}

func TestClient_FindProduct(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/products", r.URL.Path)
		assert.Equal(t, "eq.p-1", r.URL.Query().Get("id"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"id":"p-1","name":"Feijoada","price":29.9,"stock":4,"is_active":true}]`))
	}, logger.NewNop())

	// Act
	p, err := client.FindProduct(context.Background(), "p-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Feijoada", p.Name)
	assert.Equal(t, "29.90", p.Price.StringFixed(2))
	assert.Equal(t, 4, p.Stock)
	assert.True(t, p.IsActive)
}

func TestClient_FindProduct_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}, logger.NewNop())

	_, err := client.FindProduct(context.Background(), "p-404")

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestClient_FindProduct_ServerError(t *testing.T) {
	mockLog := new(MockLogger)
	mockLog.On("Warn", "catalog api call failed", mock.Anything).Return()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, mockLog)

	_, err := client.FindProduct(context.Background(), "p-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, catalog.ErrProductNotFound)
	mockLog.AssertExpectations(t)
}

func TestClient_FindArea_Normalized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ilike.Curitiba", r.URL.Query().Get("city"))
		w.Write([]byte(`[
			{"city":"Curitiba","neighborhood":"Centro","price":"7.50"},
			{"city":"curitiba","neighborhood":"Batel  Sul","price":"0"}
		]`))
	}, logger.NewNop())

	area, err := client.FindArea(context.Background(), " Curitiba ", "batel sul")
	require.NoError(t, err)
	assert.True(t, area.Price.IsZero())

	_, err = client.FindArea(context.Background(), "Curitiba", "Água Verde")
	assert.ErrorIs(t, err, catalog.ErrAreaNotFound)
}

func TestClient_FindAddress(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_id") != "eq.u-1" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"id":"a-1","user_id":"u-1","city":"Curitiba","neighborhood":"Batel"}]`))
	}, logger.NewNop())

	addr, err := client.FindAddress(context.Background(), "u-1", "a-1")
	require.NoError(t, err)
	assert.True(t, addr.Locatable())

	_, err = client.FindAddress(context.Background(), "u-2", "a-1")
	assert.ErrorIs(t, err, catalog.ErrAddressNotFound)
}

func TestClient_ListPaymentMethods(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"key":"pix","title":"Pix","enabled":true},{"key":"cash","title":"Cash","enabled":false}]`))
	}, logger.NewNop())

	methods, err := client.ListPaymentMethods(context.Background())

	require.NoError(t, err)
	assert.Len(t, methods, 2)
	assert.True(t, methods["pix"].Enabled)
}

func TestClient_ListGroups(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/substitution_groups", r.URL.Path)
		w.Write([]byte(`[{
			"id":"g-1","product_id":"p-1","default_food_id":"f-rice","active":true,"position":0,
			"default_food":{"name":"White rice"},
			"alternatives":[
				{"position":2,"food":{"id":"f-salad","name":"Salad","active":true}},
				{"position":1,"food":{"id":"f-brown","name":"Brown rice","active":true}}
			]
		}]`))
	}, logger.NewNop())

	groups, err := client.ListGroups(context.Background(), "p-1")

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "White rice", groups[0].Name())
	require.Len(t, groups[0].Alternatives, 2)
	assert.Equal(t, "f-brown", groups[0].Alternatives[0].ID)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.CatalogConfig{}, logger.NewNop())

	assert.Error(t, err)
}
