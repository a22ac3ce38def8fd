package listhistory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/status/internal/service/models/history"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

// service is an interface for the service layer.
type service interface {
	History(ctx context.Context, filter history.QueryEntriesModel) ([]history.Entry, error)
}

type queryHistoryRequest struct {
	StatusIds []int64 `schema:"statusIds,omitempty"`
	Limit     int     `schema:"limit,omitempty"`
	Offset    int     `schema:"offset,omitempty"`
}

func (q *queryHistoryRequest) ToModel(orderID int64) history.QueryEntriesModel {
	return history.QueryEntriesModel{
		OrderIds:  []int64{orderID},
		StatusIds: q.StatusIds,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
}

func ListHistory(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	decoder := schema.NewDecoder()
	query := &queryHistoryRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	entries, err := service.History(r.Context(), query.ToModel(orderID))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting status history", "order_id", orderID, "error", err)

		return
	}

	if entries == nil {
		entries = []history.Entry{}
	}

	if err := json.NewEncoder(w).Encode(entries); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
