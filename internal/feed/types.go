// Package feed fetches raw customer and order snapshots for the analytics
// engine. Two sources exist: the legacy PHP endpoints (JSON over HTTP) and
// the migrated postgres store. Both return full snapshots; there is no
// incremental fetching.
package feed

import (
	"context"
	"strconv"
	"strings"

	"github.com/fluvi/retail-monitor/internal/analytics"
	"github.com/fluvi/retail-monitor/internal/pkg/logger"
)

// Feed is a snapshot source. Implementations must return the full current
// dataset on every call; the collector decides when to refresh.
type Feed interface {
	FetchCustomers(ctx context.Context) ([]analytics.RawCustomer, error)
	FetchOrders(ctx context.Context) ([]analytics.RawOrder, error)
}

// orderRecord mirrors one row of the legacy pedidos endpoint. Everything is a
// string on the wire, including prices.
type orderRecord struct {
	ID          string `json:"id"`
	Precio      string `json:"precio"`
	Fecha       string `json:"fecha"`
	OrdenPedido string `json:"ordenpedido"`
	MetodoPago  string `json:"metodopago"`
	Usuario     string `json:"usuario"`
	Direccion   string `json:"dire"`
	Status      string `json:"status"`
}

// customerRecord mirrors one row of the legacy clientes endpoint.
type customerRecord struct {
	ID                string `json:"id"`
	Nombre            string `json:"nombre"`
	Correo            string `json:"correo"`
	Telefono          string `json:"telefono"`
	Direccion         string `json:"direc"`
	Fecha             string `json:"fecha"`
	MontoUltimoPedido string `json:"monto_ultimo_pedido"`
}

// parseAmount converts a wire amount leniently: empty or malformed values
// become 0 and are logged, never fatal. Amounts are clamped non-negative.
func parseAmount(raw, recordID string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logger.Warn("unparsable amount in feed record", "record_id", recordID, "value", raw)
		return 0
	}
	if v < 0 {
		logger.Warn("negative amount in feed record", "record_id", recordID, "value", raw)
		return 0
	}
	return v
}

func (r orderRecord) toRaw() analytics.RawOrder {
	return analytics.RawOrder{
		ID:            r.ID,
		Email:         r.Usuario,
		Address:       r.Direccion,
		Amount:        parseAmount(r.Precio, r.ID),
		Date:          r.Fecha,
		PaymentMethod: r.MetodoPago,
		Status:        r.Status,
		QuantityCode:  r.OrdenPedido,
	}
}

func (r customerRecord) toRaw() analytics.RawCustomer {
	return analytics.RawCustomer{
		Name:        r.Nombre,
		Email:       r.Correo,
		Phone:       r.Telefono,
		Address:     r.Direccion,
		LastOrder:   r.Fecha,
		LegacyTotal: parseAmount(r.MontoUltimoPedido, r.ID),
	}
}
