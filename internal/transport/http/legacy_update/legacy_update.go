package legacyupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/status/internal/service/services/legacysvc"
	"github.com/corray333/backend-labs/status/internal/transport/http/httpsession"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	UpdateLegacy(ctx context.Context, params legacysvc.LegacyParams) int64
}

// legacyUpdateRequest mirrors the old call convention, defaults included.
type legacyUpdateRequest struct {
	Message               string  `json:"message"`
	UpdatedBy             *string `json:"updatedBy"`
	Status                *int64  `json:"status"         validate:"omitempty,gt=0"`
	NotifyCustomer        *int    `json:"notifyCustomer"`
	IncludeMessageInEmail *bool   `json:"includeMessageInEmail"`
	EmailSubject          string  `json:"emailSubject"`
	ExtraEmailTo          string  `json:"extraEmailTo"   validate:"omitempty,email"`
}

// Validate validates the legacy update request.
func (r *legacyUpdateRequest) Validate() error {
	return validator.New().Struct(r)
}

// toParams converts the request to legacysvc.LegacyParams, applying the legacy
// defaults: status unchanged, notify -1, message included in the email.
func (r *legacyUpdateRequest) toParams(orderID int64) legacysvc.LegacyParams {
	params := legacysvc.LegacyParams{
		OrderID:               orderID,
		Message:               r.Message,
		UpdatedBy:             r.UpdatedBy,
		StatusID:              legacysvc.StatusUnchanged,
		NotifyCustomer:        -1,
		IncludeMessageInEmail: true,
		EmailSubject:          r.EmailSubject,
		ExtraEmailTo:          r.ExtraEmailTo,
	}

	if r.Status != nil {
		params.StatusID = *r.Status
	}
	if r.NotifyCustomer != nil {
		params.NotifyCustomer = *r.NotifyCustomer
	}
	if r.IncludeMessageInEmail != nil {
		params.IncludeMessageInEmail = *r.IncludeMessageInEmail
	}

	return params
}

// legacyUpdateResponse carries the raw legacy return code: a positive entry
// id, or one of the legacy sentinels (0, -1, -2).
type legacyUpdateResponse struct {
	Code int64 `json:"code"`
}

func UpdateLegacy(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	req := &legacyUpdateRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding legacy status update request", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	params := req.toParams(orderID)
	params.Session = httpsession.FromRequest(r)

	code := service.UpdateLegacy(r.Context(), params)

	if err := json.NewEncoder(w).Encode(legacyUpdateResponse{Code: code}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
