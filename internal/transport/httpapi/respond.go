package httpapi

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// conflictRetryAfter — значение Retry-After (секунды) для конфликтов записи.
const conflictRetryAfter = "1"

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// StatusForError возвращает HTTP-код ответа для ошибки сервиса (200 для nil).
func StatusForError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch domain.Classify(err) {
	case domain.KindValidation, domain.KindInvalidCustomer:
		return http.StatusBadRequest
	case domain.KindBusinessRule:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *log.Entry, err error) {
	code := StatusForError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.WithError(err).Error("request failed")
		message = "internal error"
	}
	if domain.IsVersionConflict(err) {
		w.Header().Set("Retry-After", conflictRetryAfter)
	}
	writeJSON(w, code, errorResponse{Error: message, Reason: domain.Reason(err)})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message, Reason: "BAD_REQUEST"})
}

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
