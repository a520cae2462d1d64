// invoice/handler.go
package invoice

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/oakmont/qbgateway/internal/item"
	"github.com/oakmont/qbgateway/pkg/qbclient"
)

// Handler provides HTTP handlers for invoice endpoints
type Handler struct {
	service  *Service
	log      *zap.Logger
	authPath string
}

// NewHandler creates a new invoice handler
func NewHandler(service *Service, log *zap.Logger, authPath string) *Handler {
	return &Handler{
		service:  service,
		log:      log,
		authPath: authPath,
	}
}

// ListHandler returns the raw upstream invoice list. An upstream 401 sends
// the caller back through the authorization flow.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := h.service.List(r.Context())
	if err != nil {
		if errors.Is(err, qbclient.ErrUnauthorized) {
			http.Redirect(w, r, h.authPath, http.StatusFound)
			return
		}
		h.log.Error("invoice list failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list invoices",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// CreateHandler creates an invoice from the JSON request body.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	lines, err := req.Validate()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
		return
	}

	created, err := h.service.Create(r.Context(), req, lines)
	if err != nil {
		var notFound *item.NotFoundError
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": notFound.Error(),
			})
			return
		}

		h.log.Error("invoice create failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"invoice": json.RawMessage(created),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
