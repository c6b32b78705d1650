package feed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fluvi/retail-monitor/internal/analytics"
	"github.com/fluvi/retail-monitor/internal/pkg/logger"
)

// PostgresFeed reads snapshots from the migrated store. Schema mirrors the
// legacy feeds one-to-one: amounts are numeric, dates stay text because the
// migration preserved the original mixed formats.
type PostgresFeed struct {
	db *sql.DB
}

const (
	customersQuery = `SELECT nombre, correo, telefono, direccion, ultimo_pedido, monto_ultimo_pedido FROM clientes`
	ordersQuery    = `SELECT id, correo, direccion, precio, fecha, metodo_pago, status, orden_pedido FROM pedidos`
)

// NewPostgresFeed opens a connection pool against the migrated store and
// verifies connectivity.
func NewPostgresFeed(databaseURL string) (*PostgresFeed, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	return &PostgresFeed{db: db}, nil
}

// NewPostgresFeedFromDB wraps an existing handle; used by tests.
func NewPostgresFeedFromDB(db *sql.DB) *PostgresFeed {
	return &PostgresFeed{db: db}
}

// Close releases the connection pool.
func (f *PostgresFeed) Close() error {
	return f.db.Close()
}

// FetchCustomers returns the full current customer snapshot.
func (f *PostgresFeed) FetchCustomers(ctx context.Context) ([]analytics.RawCustomer, error) {
	rows, err := f.db.QueryContext(ctx, customersQuery)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []analytics.RawCustomer
	for rows.Next() {
		var name, email, phone, address, lastOrder sql.NullString
		var legacyTotal sql.NullFloat64
		if err := rows.Scan(&name, &email, &phone, &address, &lastOrder, &legacyTotal); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, analytics.RawCustomer{
			Name:        name.String,
			Email:       email.String,
			Phone:       phone.String,
			Address:     address.String,
			LastOrder:   lastOrder.String,
			LegacyTotal: legacyTotal.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	logger.Debug("fetched customer snapshot from postgres", "rows", len(customers))
	return customers, nil
}

// FetchOrders returns the full current order snapshot.
func (f *PostgresFeed) FetchOrders(ctx context.Context) ([]analytics.RawOrder, error) {
	rows, err := f.db.QueryContext(ctx, ordersQuery)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []analytics.RawOrder
	for rows.Next() {
		var id, email, address, date, payment, status, quantityCode sql.NullString
		var amount sql.NullFloat64
		if err := rows.Scan(&id, &email, &address, &amount, &date, &payment, &status, &quantityCode); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, analytics.RawOrder{
			ID:            id.String,
			Email:         email.String,
			Address:       address.String,
			Amount:        amount.Float64,
			Date:          date.String,
			PaymentMethod: payment.String,
			Status:        status.String,
			QuantityCode:  quantityCode.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	logger.Debug("fetched order snapshot from postgres", "rows", len(orders))
	return orders, nil
}
