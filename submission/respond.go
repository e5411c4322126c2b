package submission

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"formgate/submission/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response failed", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError traduz erros do fluxo em status HTTP.
func writeError(w http.ResponseWriter, err error) {
	var storageErr *domain.StorageError
	switch {
	case errors.As(err, &storageErr):
		// a mensagem do backend vai crua para o cliente
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": storageErr.Error(),
		})
	case errors.Is(err, domain.ErrOriginRejected):
		writeDetail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrContentTypeMissing),
		errors.Is(err, domain.ErrInvalidJSON),
		errors.Is(err, domain.ErrInvalidFormData),
		errors.Is(err, domain.ErrUnsupportedContentType),
		errors.Is(err, domain.ErrUnsupportedDataType):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		writeDetail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
