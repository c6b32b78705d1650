package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresFetchCustomers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"nombre", "correo", "telefono", "direccion", "ultimo_pedido", "monto_ultimo_pedido"}).
		AddRow("Ana", "ana@example.com", "+56911111111", "Main St 1", "2024-01-15", 6000.0).
		AddRow(nil, nil, nil, "Main St 2", nil, nil)
	mock.ExpectQuery("SELECT nombre, correo").WillReturnRows(rows)

	f := NewPostgresFeedFromDB(db)
	customers, err := f.FetchCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)

	assert.Equal(t, "Ana", customers[0].Name)
	assert.Equal(t, float64(6000), customers[0].LegacyTotal)

	// NULL columns scan to zero values rather than failing the snapshot.
	assert.Equal(t, "", customers[1].Name)
	assert.Equal(t, "Main St 2", customers[1].Address)
	assert.Equal(t, float64(0), customers[1].LegacyTotal)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFetchOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "correo", "direccion", "precio", "fecha", "metodo_pago", "status", "orden_pedido"}).
		AddRow("41", "ana@example.com", "Main St 1", 4000.0, "15-01-2024", "efectivo", "entregado", "2")
	mock.ExpectQuery("SELECT id, correo").WillReturnRows(rows)

	f := NewPostgresFeedFromDB(db)
	orders, err := f.FetchOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.Equal(t, "41", orders[0].ID)
	assert.Equal(t, float64(4000), orders[0].Amount)
	assert.Equal(t, "15-01-2024", orders[0].Date)
	assert.Equal(t, "2", orders[0].QuantityCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFetchOrdersQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, correo").WillReturnError(errors.New("connection reset"))

	f := NewPostgresFeedFromDB(db)
	_, err = f.FetchOrders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query orders")
}
