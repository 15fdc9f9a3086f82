package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmelo/dealership-api/internal/config"
	"github.com/dmelo/dealership-api/internal/repository"
)

func newAccountHandlerMock(t *testing.T) (*AccountHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAccountHandler(config.Config{}, repository.NewCustomerRepo(db)), mock
}

func deleteAccount(t *testing.T, h *AccountHandler, userID interface{}, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/account", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	require.NoError(t, h.DeleteAccount(c))
	return rec
}

func TestDeleteAccountRequiresConfirmationPhrase(t *testing.T) {
	h, mock := newAccountHandlerMock(t)

	rec := deleteAccount(t, h, uint64(7), `{"confirmation":"excluir"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EXCLUIR")

	rec = deleteAccount(t, h, uint64(7), `{"confirmation":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No database statement may run before the phrase checks out.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountWithConfirmation(t *testing.T) {
	h, mock := newAccountHandlerMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sales WHERE customer_id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = ?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := deleteAccount(t, h, uint64(7), `{"confirmation":"EXCLUIR"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The session cookie is cleared along with the account.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountBlockedByPurchaseHistory(t *testing.T) {
	h, mock := newAccountHandlerMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sales WHERE customer_id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rec := deleteAccount(t, h, uint64(7), `{"confirmation":"EXCLUIR"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountWithoutSession(t *testing.T) {
	h, mock := newAccountHandlerMock(t)

	rec := deleteAccount(t, h, nil, `{"confirmation":"EXCLUIR"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
