package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmelo/dealership-api/internal/model"
)

func newCustomerRepoMock(t *testing.T) (*CustomerRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCustomerRepo(db), mock
}

func TestCustomerCreateNormalizesCPF(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers")).
		WithArgs("Ana Souza", "12345678901", "11999998888", "ana@example.com", "Rua A, 1", nil, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))

	c := model.Customer{Name: " Ana Souza ", CPF: "123.456.789-01", Phone: "11999998888", Email: "Ana@Example.com", Address: "Rua A, 1"}
	err := repo.Create(context.Background(), &c)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), c.ID)
	assert.Equal(t, "12345678901", c.CPF)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerCreateDuplicateCPF(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers")).
		WillReturnError(errors.New("Error 1062: Duplicate entry '12345678901' for key 'customers.cpf'"))

	c := model.Customer{Name: "Ana", CPF: "12345678901"}
	err := repo.Create(context.Background(), &c)
	assert.ErrorIs(t, err, ErrCPFExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerCreateRejectsBadCPF(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)

	c := model.Customer{Name: "Ana", CPF: "123"}
	err := repo.Create(context.Background(), &c)
	assert.True(t, IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerUpdatePartialPatch(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)

	phone := "11777776666"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE customers SET phone = ? WHERE id = ?")).
		WithArgs(phone, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 7, CustomerPatch{Phone: &phone})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerUpdateEmptyPatchIsNoop(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)

	err := repo.Update(context.Background(), 7, CustomerPatch{})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerUpdateMissingRow(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)

	name := "Novo Nome"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE customers SET name = ? WHERE id = ?")).
		WithArgs(name, uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+customerCols+" FROM customers WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.Update(context.Background(), 99, CustomerPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerDeleteBlockedBySales(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sales WHERE customer_id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	err := repo.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, ErrHasSales)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerDeleteWithoutSales(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sales WHERE customer_id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = ?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
