package updatestatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/status/internal/service/models/history"
	"github.com/corray333/backend-labs/status/internal/service/services/statussvc"
	"github.com/corray333/backend-labs/status/internal/transport/http/httpsession"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	Update(ctx context.Context, params statussvc.UpdateParams) (int64, error)
}

// updateStatusRequest represents a status update request.
type updateStatusRequest struct {
	StatusID     *int64  `json:"statusId"     validate:"omitempty,gt=0"`
	Comment      *string `json:"comment"`
	Notify       int     `json:"notify"`
	EmailSubject string  `json:"emailSubject"`
	EmailText    string  `json:"emailText"`
	EmailHTML    string  `json:"emailHtml"`
	UpdatedBy    *string `json:"updatedBy"`
}

// Validate validates the status update request.
func (r *updateStatusRequest) Validate() error {
	return validator.New().Struct(r)
}

// toParams converts the request to statussvc.UpdateParams.
func (r *updateStatusRequest) toParams(orderID int64) statussvc.UpdateParams {
	statusID := history.StatusNoChange
	if r.StatusID != nil {
		statusID = *r.StatusID
	}

	return statussvc.UpdateParams{
		OrderID:      orderID,
		Comment:      r.Comment,
		StatusID:     statusID,
		Notify:       r.Notify,
		EmailSubject: r.EmailSubject,
		EmailText:    r.EmailText,
		EmailHTML:    r.EmailHTML,
		UpdatedBy:    r.UpdatedBy,
	}
}

// updateStatusResponse carries the recorded history entry id.
type updateStatusResponse struct {
	EntryID int64 `json:"entryId"`
}

func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	req := &updateStatusRequest{Notify: history.NotifyHidden}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding status update request", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	params := req.toParams(orderID)
	params.Session = httpsession.FromRequest(r)

	entryID, err := service.Update(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, history.ErrOrderNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, history.ErrUnknownStatus):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		slog.Error("Error updating order status", "order_id", orderID, "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(updateStatusResponse{EntryID: entryID}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
