package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluvi/retail-monitor/internal/config"
)

// newTestClient wires a plain transport so failure tests skip the retry
// backoff delays.
func newTestClient(customersURL, ordersURL string) *Client {
	return &Client{
		customersURL: customersURL,
		ordersURL:    ordersURL,
		httpClient:   &http.Client{},
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient(config.FeedConfig{
		CustomersURL:   "http://example.com/clientes",
		OrdersURL:      "http://example.com/pedidos",
		TimeoutSeconds: 5,
	})
	assert.Equal(t, "http://example.com/clientes", client.customersURL)
	assert.Equal(t, "http://example.com/pedidos", client.ordersURL)
	assert.NotNil(t, client.httpClient)
}

func TestFetchOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`[
			{"id":"41","precio":"4000","fecha":"15-01-2024","ordenpedido":"2","metodopago":"efectivo","usuario":"ana@example.com","dire":"Main St 1","status":"entregado"},
			{"id":"42","precio":"not-a-number","fecha":"","usuario":"","dire":"Main St 2"}
		]`))
	}))
	defer srv.Close()

	client := newTestClient("", srv.URL)
	orders, err := client.FetchOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "41", orders[0].ID)
	assert.Equal(t, float64(4000), orders[0].Amount)
	assert.Equal(t, "15-01-2024", orders[0].Date)
	assert.Equal(t, "ana@example.com", orders[0].Email)
	assert.Equal(t, "Main St 1", orders[0].Address)
	assert.Equal(t, "2", orders[0].QuantityCode)
	assert.Equal(t, "efectivo", orders[0].PaymentMethod)

	// Malformed amounts degrade to zero instead of failing the snapshot.
	assert.Equal(t, float64(0), orders[1].Amount)
}

func TestFetchCustomers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"7","nombre":"Ana","correo":"ana@example.com","telefono":"+56911111111","direc":"Main St 1","fecha":"2024-01-15","monto_ultimo_pedido":"6000"}
		]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "")
	customers, err := client.FetchCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)

	assert.Equal(t, "Ana", customers[0].Name)
	assert.Equal(t, "ana@example.com", customers[0].Email)
	assert.Equal(t, "Main St 1", customers[0].Address)
	assert.Equal(t, "2024-01-15", customers[0].LastOrder)
	assert.Equal(t, float64(6000), customers[0].LegacyTotal)
}

func TestFetchOrdersServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient("", srv.URL)
	_, err := client.FetchOrders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchOrdersBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	client := newTestClient("", srv.URL)
	_, err := client.FetchOrders(context.Background())
	require.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain integer", "4000", 4000},
		{"decimal", "1990.5", 1990.5},
		{"whitespace", " 2000 ", 2000},
		{"empty", "", 0},
		{"garbage", "gratis", 0},
		{"negative clamps to zero", "-500", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAmount(tt.input, "test"))
		})
	}
}
