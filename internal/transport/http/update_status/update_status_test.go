package updatestatus_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corray333/backend-labs/status/internal/service/models/history"
	"github.com/corray333/backend-labs/status/internal/service/services/statussvc"
	updatestatus "github.com/corray333/backend-labs/status/internal/transport/http/update_status"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) Update(ctx context.Context, params statussvc.UpdateParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func newRouter(svc *MockService) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/api/orders/{orderID}/status", func(w http.ResponseWriter, r *http.Request) {
		updatestatus.UpdateStatus(w, r, svc)
	})
	return router
}

func TestUpdateStatus_Success(t *testing.T) {
	svc := new(MockService)
	svc.On("Update", mock.Anything, mock.MatchedBy(func(p statussvc.UpdateParams) bool {
		return p.OrderID == 42 &&
			p.StatusID == 2 &&
			p.Notify == history.NotifyEmail &&
			p.Comment != nil && *p.Comment == "shipped" &&
			p.Session.AdminID == 7 && p.Session.AdminName == "Alex"
	})).Return(int64(100), nil).Once()

	body := `{"statusId":2,"comment":"shipped","notify":1,"emailSubject":"S","emailText":"T"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/42/status", strings.NewReader(body))
	req.Header.Set("X-Admin-Id", "7")
	req.Header.Set("X-Admin-Name", "Alex")
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		EntryID int64 `json:"entryId"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(100), resp.EntryID)
	svc.AssertExpectations(t)
}

func TestUpdateStatus_Defaults(t *testing.T) {
	svc := new(MockService)
	// Omitted statusId keeps the current status, omitted notify means hidden,
	// omitted comment stays nil.
	svc.On("Update", mock.Anything, mock.MatchedBy(func(p statussvc.UpdateParams) bool {
		return p.StatusID == history.StatusNoChange &&
			p.Notify == history.NotifyHidden &&
			p.Comment == nil
	})).Return(int64(77), nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/orders/42/status", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"order not found", history.ErrOrderNotFound, http.StatusNotFound},
		{"unknown status", history.ErrUnknownStatus, http.StatusUnprocessableEntity},
		{"persistence", history.ErrPersistence, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Update", mock.Anything, mock.Anything).Return(int64(0), tt.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/orders/42/status", strings.NewReader(`{}`))
			rec := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestUpdateStatus_BadRequests(t *testing.T) {
	svc := new(MockService)
	router := newRouter(svc)

	t.Run("non-numeric order id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders/abc/status", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders/42/status", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-positive status id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders/42/status",
			strings.NewReader(`{"statusId":0}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
