package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/identity"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/mamo-store/backend/internal/infrastructure/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.RemoteConfig{
		BaseURL:      serverURL,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 5 * time.Second,
	})
}

func TestClient_FetchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/products", r.URL.Path)
		json.NewEncoder(w).Encode([]*catalog.Product{
			{ID: "e1", Name: "كبل نحاس", Category: catalog.CategoryElectricity, PriceUSD: decimal.NewFromInt(65)},
		})
	}))
	defer srv.Close()

	products, err := newTestClient(srv.URL).FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "e1", products[0].ID)
}

func TestClient_ReadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(config.RemoteConfig{
		BaseURL:      srv.URL,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	})
	_, err := c.FetchProducts(context.Background())
	assert.ErrorIs(t, err, shared.ErrUnavailable)
}

func TestClient_UpdateProduct_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Product not found"})
	}))
	defer srv.Close()

	p := &catalog.Product{ID: "ghost", Name: "x", Category: catalog.CategoryWater, PriceUSD: decimal.NewFromInt(1)}
	err := newTestClient(srv.URL).UpdateProduct(context.Background(), p)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestClient_TokenHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetToken("abc123")
	require.NoError(t, c.DeleteProduct(context.Background(), "e1"))
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(map[string]any{
			"user": &identity.User{
				ID:    req["phone"],
				Name:  req["name"],
				Phone: req["phone"],
			},
			"token": "session-token",
		})
	}))
	defer srv.Close()

	user, token, err := newTestClient(srv.URL).Login(context.Background(), "أبو محمد", "0947123456")
	require.NoError(t, err)
	assert.Equal(t, "0947123456", user.ID)
	assert.Equal(t, "session-token", token)
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(HealthStatus{Status: "OK", Database: "Connected", Timestamp: time.Now().Format(time.RFC3339)})
	}))
	defer srv.Close()

	status, err := newTestClient(srv.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", status.Status)
	assert.Equal(t, "Connected", status.Database)
}

func TestClient_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).Health(context.Background())
	assert.ErrorIs(t, err, shared.ErrUnavailable)
}
