package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/trade"
	"github.com/tamarind/backend/internal/infrastructure/config"
	"gorm.io/gorm"
)

// newTestDatabase opens a migrated in-memory SQLite database
func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func seedCustomer(t *testing.T, db *gorm.DB, code string, opening decimal.Decimal) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.Profile{Code: code, Name: "Customer " + code}, opening)
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(context.Background(), c))
	return c
}

func seedSupplier(t *testing.T, db *gorm.DB, code string, opening decimal.Decimal) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(partner.Profile{Code: code, Name: "Supplier " + code}, opening)
	require.NoError(t, err)
	require.NoError(t, NewGormSupplierRepository(db).Save(context.Background(), s))
	return s
}

func seedSale(t *testing.T, db *gorm.DB, customerID uuid.UUID, number string, date time.Time, qty, rate string) *trade.Sale {
	t.Helper()
	s, err := trade.NewSale(customerID, number, date, dec(qty), dec(rate), "")
	require.NoError(t, err)
	require.NoError(t, NewGormSaleRepository(db).Save(context.Background(), s))
	return s
}

// seedCustomerModel builds an unsaved customer
func seedCustomerModel(t *testing.T, code string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.Profile{Code: code, Name: "Customer " + code}, decimal.Zero)
	require.NoError(t, err)
	return c
}
