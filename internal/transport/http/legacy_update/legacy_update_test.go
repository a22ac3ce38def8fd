package legacyupdate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corray333/backend-labs/status/internal/service/services/legacysvc"
	legacyupdate "github.com/corray333/backend-labs/status/internal/transport/http/legacy_update"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) UpdateLegacy(ctx context.Context, params legacysvc.LegacyParams) int64 {
	args := m.Called(ctx, params)
	return args.Get(0).(int64)
}

func newRouter(svc *MockService) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/api/legacy/orders/{orderID}/status", func(w http.ResponseWriter, r *http.Request) {
		legacyupdate.UpdateLegacy(w, r, svc)
	})
	return router
}

func doRequest(t *testing.T, svc *MockService, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/legacy/orders/42/status",
		strings.NewReader(body))
	req.Header.Set("X-Admin-Id", "7")
	req.Header.Set("X-Admin-Name", "Alex")
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	return rec
}

func TestUpdateLegacy_Defaults(t *testing.T) {
	svc := new(MockService)
	svc.On("UpdateLegacy", mock.Anything, mock.MatchedBy(func(p legacysvc.LegacyParams) bool {
		return p.OrderID == 42 &&
			p.StatusID == legacysvc.StatusUnchanged &&
			p.NotifyCustomer == -1 &&
			p.IncludeMessageInEmail
	})).Return(legacysvc.CodeNoChange).Once()

	rec := doRequest(t, svc, `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Code int64 `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, legacysvc.CodeNoChange, resp.Code)
	svc.AssertExpectations(t)
}

func TestUpdateLegacy_ExplicitFields(t *testing.T) {
	svc := new(MockService)
	svc.On("UpdateLegacy", mock.Anything, mock.MatchedBy(func(p legacysvc.LegacyParams) bool {
		return p.StatusID == 2 &&
			p.NotifyCustomer == 1 &&
			!p.IncludeMessageInEmail &&
			p.Message == "shipped" &&
			p.ExtraEmailTo == "manager@store.example.com" &&
			p.Session.AdminID == 7
	})).Return(int64(100)).Once()

	body := `{
		"message": "shipped",
		"status": 2,
		"notifyCustomer": 1,
		"includeMessageInEmail": false,
		"extraEmailTo": "manager@store.example.com"
	}`
	rec := doRequest(t, svc, body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Code int64 `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(100), resp.Code)
	svc.AssertExpectations(t)
}

func TestUpdateLegacy_SentinelCodesPassThrough(t *testing.T) {
	// Legacy sentinels travel to the caller unchanged with HTTP 200.
	for _, code := range []int64{legacysvc.CodeFailure, legacysvc.CodeNoChange, legacysvc.CodeOrderNotFound} {
		svc := new(MockService)
		svc.On("UpdateLegacy", mock.Anything, mock.Anything).Return(code).Once()

		rec := doRequest(t, svc, `{}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Code int64 `json:"code"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, code, resp.Code)
	}
}

func TestUpdateLegacy_BadRequests(t *testing.T) {
	svc := new(MockService)

	t.Run("invalid extra email", func(t *testing.T) {
		rec := doRequest(t, svc, `{"extraEmailTo":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-positive status", func(t *testing.T) {
		rec := doRequest(t, svc, `{"status":0}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	svc.AssertNotCalled(t, "UpdateLegacy", mock.Anything, mock.Anything)
}
