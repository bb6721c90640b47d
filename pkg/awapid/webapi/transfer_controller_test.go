package webapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/assetworks/gantry/pkg/awdb/stor"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEchoContext creates a test Echo context with the given request
func setupEchoContext(t *testing.T, method, target string, body []byte, queryParams map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	q := req.URL.Query()
	for key, value := range queryParams {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set("user", &awmodel.User{ID: 1, Email: "ops@example.com"})

	return c, rec
}

// assertHTTPError checks that the handler refused the request with the given
// status code.
func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, code, httpErr.Code)
}

func testTransfers() []awmodel.Transfer {
	return []awmodel.Transfer{
		{
			ID:     5,
			Status: awmodel.TransferStatusApproved,
			Items: []awmodel.TransferItem{
				{ID: 12, TransferID: 5, NewOwnerID: 3, CurrentDepartmentID: 9, Status: awmodel.ItemStatusPending},
				{ID: 13, TransferID: 5, NewOwnerID: 4, CurrentDepartmentID: 9, Status: awmodel.ItemStatusPending},
			},
		},
		{
			ID:     7,
			Status: awmodel.TransferStatusPending,
			Items: []awmodel.TransferItem{
				{ID: 21, TransferID: 7, NewOwnerID: 3, CurrentDepartmentID: 9, Status: awmodel.ItemStatusPending},
			},
		},
	}
}

func TestListTransfers(t *testing.T) {
	controller := NewTransferController(stor.NewInMemoryTransferStor(testTransfers()))

	t.Run("TransferIDModeReturnsSingleObject", func(t *testing.T) {
		ctx, rec := setupEchoContext(t, http.MethodGet, "/api/transfers", nil, map[string]string{
			"transfer_id": "5",
		})

		require.NoError(t, controller.ListTransfers(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)

		response := rec.Body.String()
		assert.Contains(t, response, `"data":{`)
		assert.Contains(t, response, `"id":5`)
	})

	t.Run("NewOwnerModeReturnsPendingItemsOnly", func(t *testing.T) {
		ctx, rec := setupEchoContext(t, http.MethodGet, "/api/transfers", nil, map[string]string{
			"new_owner_id": "3",
		})

		require.NoError(t, controller.ListTransfers(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)

		// Only transfer 5 is approved; only item 12 belongs to owner 3.
		response := rec.Body.String()
		assert.Contains(t, response, `"data":[`)
		assert.Contains(t, response, `"id":12`)
		assert.NotContains(t, response, `"id":13`)
		assert.NotContains(t, response, `"id":21`)
	})

	t.Run("DepartmentModeDefaultsToPending", func(t *testing.T) {
		ctx, rec := setupEchoContext(t, http.MethodGet, "/api/transfers", nil, map[string]string{
			"department_id": "9",
		})

		require.NoError(t, controller.ListTransfers(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)

		response := rec.Body.String()
		assert.Contains(t, response, `"id":7`)
		assert.NotContains(t, response, `"id":5,`)
	})

	t.Run("DepartmentModeWithStatus", func(t *testing.T) {
		ctx, rec := setupEchoContext(t, http.MethodGet, "/api/transfers", nil, map[string]string{
			"department_id": "9",
			"status":        awmodel.TransferStatusApproved,
		})

		require.NoError(t, controller.ListTransfers(ctx))
		assert.Contains(t, rec.Body.String(), `"id":5`)
	})

	t.Run("NoFilterIsRefused", func(t *testing.T) {
		ctx, _ := setupEchoContext(t, http.MethodGet, "/api/transfers", nil, nil)

		err := controller.ListTransfers(ctx)
		assertHTTPError(t, err, http.StatusBadRequest)
	})

	t.Run("TwoFiltersAreRefused", func(t *testing.T) {
		ctx, _ := setupEchoContext(t, http.MethodGet, "/api/transfers", nil, map[string]string{
			"transfer_id":  "5",
			"new_owner_id": "3",
		})

		err := controller.ListTransfers(ctx)
		assertHTTPError(t, err, http.StatusBadRequest)
	})

	t.Run("UnknownTransferIs404", func(t *testing.T) {
		ctx, _ := setupEchoContext(t, http.MethodGet, "/api/transfers", nil, map[string]string{
			"transfer_id": "999",
		})

		err := controller.ListTransfers(ctx)
		assertHTTPError(t, err, http.StatusNotFound)
	})
}

func TestCreateTransfer(t *testing.T) {
	transferStor := stor.NewInMemoryTransferStor(nil)
	controller := NewTransferController(transferStor)

	t.Run("CreatesPendingTransferWithItems", func(t *testing.T) {
		date := time.Now().Format(time.DateTime)
		body := []byte(`{
			"transfer_date": "` + date + `",
			"requested_by_id": 1,
			"items": [{"asset_id": 3, "new_owner_id": 4}]
		}`)

		ctx, rec := setupEchoContext(t, http.MethodPost, "/api/transfers", body, nil)

		require.NoError(t, controller.CreateTransfer(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)

		require.Len(t, transferStor.Transfers, 1)
		created := transferStor.Transfers[0]
		assert.Equal(t, awmodel.TransferStatusPending, created.Status)
		assert.Equal(t, 1, created.TotalItems)
		assert.NotEmpty(t, created.UUID)
		require.Len(t, created.Items, 1)
		assert.Equal(t, awmodel.ItemStatusPending, created.Items[0].Status)
	})

	t.Run("NoItemsIsRefused", func(t *testing.T) {
		body := []byte(`{"transfer_date": "2026-08-01 10:00:00", "requested_by_id": 1, "items": []}`)
		ctx, _ := setupEchoContext(t, http.MethodPost, "/api/transfers", body, nil)

		err := controller.CreateTransfer(ctx)
		assertHTTPError(t, err, http.StatusBadRequest)
	})

	t.Run("BadDateIsRefused", func(t *testing.T) {
		body := []byte(`{"transfer_date": "01/08/2026", "requested_by_id": 1, "items": [{"asset_id": 3}]}`)
		ctx, _ := setupEchoContext(t, http.MethodPost, "/api/transfers", body, nil)

		err := controller.CreateTransfer(ctx)
		assertHTTPError(t, err, http.StatusBadRequest)
	})
}
