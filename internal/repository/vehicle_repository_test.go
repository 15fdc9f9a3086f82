package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmelo/dealership-api/internal/model"
)

func newVehicleRepoMock(t *testing.T) (*VehicleRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewVehicleRepo(db), mock
}

func TestVehicleCreateDefaultsAvailable(t *testing.T) {
	repo, mock := newVehicleRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO vehicles")).
		WithArgs("Toyota", "Corolla", 2022, 120000.0, nil, 15000, "Prata", "Flex").
		WillReturnResult(sqlmock.NewResult(3, 1))

	v := model.Vehicle{Brand: "Toyota", Model: "Corolla", Year: 2022, Price: 120000, Mileage: 15000, Color: "Prata", FuelType: "Flex"}
	err := repo.Create(context.Background(), &v)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v.ID)
	assert.True(t, v.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleCreateValidation(t *testing.T) {
	repo, mock := newVehicleRepoMock(t)

	cases := []struct {
		name string
		v    model.Vehicle
	}{
		{"missing brand", model.Vehicle{Model: "Corolla", Year: 2022, Price: 1}},
		{"year too old", model.Vehicle{Brand: "Ford", Model: "T", Year: 1899, Price: 1}},
		{"year in the future", model.Vehicle{Brand: "Ford", Model: "X", Year: 2026, Price: 1}},
		{"free car", model.Vehicle{Brand: "Fiat", Model: "Uno", Year: 2020, Price: 0}},
		{"negative mileage", model.Vehicle{Brand: "Fiat", Model: "Uno", Year: 2020, Price: 1, Mileage: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := tc.v
			err := repo.Create(context.Background(), &v)
			assert.True(t, IsValidation(err))
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleUpdateBuildsOnlySuppliedColumns(t *testing.T) {
	repo, mock := newVehicleRepoMock(t)

	price := 99000.0
	color := "Preto"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicles SET price = ?, color = ? WHERE id = ?")).
		WithArgs(price, color, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 3, VehiclePatch{Price: &price, Color: &color})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleUpdateAvailabilityBlockedBySales(t *testing.T) {
	repo, mock := newVehicleRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sales WHERE vehicle_id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	avail := true
	err := repo.Update(context.Background(), 3, VehiclePatch{Available: &avail})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleDeleteReturnsPhotoPath(t *testing.T) {
	repo, mock := newVehicleRepoMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+vehicleCols+" FROM vehicles WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "brand", "model", "year", "price", "photo", "mileage", "color", "fuel_type", "available", "created_at", "updated_at"}).
			AddRow(3, "Toyota", "Corolla", 2022, 120000.0, "uploads/abc.jpg", 15000, "Prata", "Flex", true, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sales WHERE vehicle_id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM vehicles WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	photo, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, photo)
	assert.Equal(t, "uploads/abc.jpg", *photo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleDeleteBlockedBySales(t *testing.T) {
	repo, mock := newVehicleRepoMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+vehicleCols+" FROM vehicles WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "brand", "model", "year", "price", "photo", "mileage", "color", "fuel_type", "available", "created_at", "updated_at"}).
			AddRow(3, "Toyota", "Corolla", 2022, 120000.0, nil, 15000, "Prata", "Flex", false, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sales WHERE vehicle_id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	photo, err := repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, ErrHasSales)
	assert.Nil(t, photo)
	assert.NoError(t, mock.ExpectationsWereMet())
}
