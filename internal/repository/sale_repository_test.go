package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmelo/dealership-api/internal/model"
)

func newSaleRepoMock(t *testing.T) (*SaleRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSaleRepo(db), mock
}

func validSale() model.Sale {
	return model.Sale{CustomerID: 1, VehicleID: 2, EmployeeID: 3, FinalPrice: 85000}
}

func TestSaleCreateReservesVehicle(t *testing.T) {
	repo, mock := newSaleRepoMock(t)
	soldAt := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT available FROM vehicles WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sales")).
		WithArgs(uint64(1), uint64(2), uint64(3), 85000.0, nil, nil).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicles SET available = FALSE WHERE id = ?")).
		WithArgs(uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sold_at FROM sales WHERE id = ?")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"sold_at"}).AddRow(soldAt))
	mock.ExpectCommit()

	s := validSale()
	err := repo.Create(context.Background(), &s)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), s.ID)
	assert.Equal(t, soldAt, s.SoldAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleCreateUnavailableVehicle(t *testing.T) {
	repo, mock := newSaleRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT available FROM vehicles WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(false))
	mock.ExpectRollback()

	s := validSale()
	err := repo.Create(context.Background(), &s)
	assert.ErrorIs(t, err, ErrVehicleUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleCreateMissingVehicle(t *testing.T) {
	repo, mock := newSaleRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT available FROM vehicles WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"available"}))
	mock.ExpectRollback()

	s := validSale()
	err := repo.Create(context.Background(), &s)
	assert.ErrorIs(t, err, ErrVehicleUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleCreateRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newSaleRepoMock(t)
	boom := errors.New("insert failed")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT available FROM vehicles WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sales")).
		WillReturnError(boom)
	mock.ExpectRollback()

	s := validSale()
	err := repo.Create(context.Background(), &s)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleCreateValidatesBeforeTouchingDB(t *testing.T) {
	repo, mock := newSaleRepoMock(t)

	s := model.Sale{CustomerID: 1, VehicleID: 2, EmployeeID: 3, FinalPrice: 0}
	err := repo.Create(context.Background(), &s)
	assert.True(t, IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleUpdateSwapsVehicles(t *testing.T) {
	repo, mock := newSaleRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT vehicle_id FROM sales WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_id"}).AddRow(uint64(2)))
	// Old vehicle goes back on the lot first.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicles SET available = TRUE WHERE id = ?")).
		WithArgs(uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT available FROM vehicles WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicles SET available = FALSE WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sales SET")).
		WithArgs(uint64(1), uint64(5), uint64(3), 90000.0, nil, nil, uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := model.Sale{CustomerID: 1, VehicleID: 5, EmployeeID: 3, FinalPrice: 90000}
	err := repo.Update(context.Background(), 10, &s)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleUpdateSameVehicleSkipsSwap(t *testing.T) {
	repo, mock := newSaleRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT vehicle_id FROM sales WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_id"}).AddRow(uint64(2)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sales SET")).
		WithArgs(uint64(1), uint64(2), uint64(3), 80000.0, nil, nil, uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := model.Sale{CustomerID: 1, VehicleID: 2, EmployeeID: 3, FinalPrice: 80000}
	err := repo.Update(context.Background(), 10, &s)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleUpdateUnavailableNewVehicleRollsBack(t *testing.T) {
	repo, mock := newSaleRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT vehicle_id FROM sales WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_id"}).AddRow(uint64(2)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicles SET available = TRUE WHERE id = ?")).
		WithArgs(uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The new vehicle is already sold, so the whole edit unwinds and
	// the release of the old vehicle never commits.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT available FROM vehicles WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(false))
	mock.ExpectRollback()

	s := model.Sale{CustomerID: 1, VehicleID: 5, EmployeeID: 3, FinalPrice: 90000}
	err := repo.Update(context.Background(), 10, &s)
	assert.ErrorIs(t, err, ErrVehicleUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleUpdateMissingSale(t *testing.T) {
	repo, mock := newSaleRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT vehicle_id FROM sales WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_id"}))
	mock.ExpectRollback()

	s := validSale()
	err := repo.Update(context.Background(), 99, &s)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleDeleteReleasesVehicle(t *testing.T) {
	repo, mock := newSaleRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT vehicle_id FROM sales WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_id"}).AddRow(uint64(2)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sales WHERE id = ?")).
		WithArgs(uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicles SET available = TRUE WHERE id = ?")).
		WithArgs(uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleDeleteMissingIsNoop(t *testing.T) {
	repo, mock := newSaleRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT vehicle_id FROM sales WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"vehicle_id"}))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 99)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleReportRange(t *testing.T) {
	repo, mock := newSaleRepoMock(t)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(final_price), 0) FROM sales WHERE sold_at BETWEEN ? AND ?")).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(3, 250000.0))

	rep, err := repo.Report(context.Background(), &from, &to)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.TotalSales)
	assert.Equal(t, 250000.0, rep.TotalValue)
	assert.NoError(t, mock.ExpectationsWereMet())
}
