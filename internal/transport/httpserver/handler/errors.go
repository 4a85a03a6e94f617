package handler

import (
	"net/http"

	"github.com/malprimis/petanchiki/internal/domain/apperr"
	"github.com/malprimis/petanchiki/pkg/logger"
)

// fail writes the response for a service error. Errors of a known kind are
// reported with their message; anything else becomes a 500.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error, args ...any) {
	log := logger.FromContext(r.Context(), h.log)

	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.InternalError(op+" failed", err, args...)
		writeError(w, status, "internal_error", "internal error")
		return
	}

	log.BusinessError(op+" rejected", err, args...)
	writeError(w, status, codeFor(kind), err.Error())
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInvalid:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(kind apperr.Kind) string {
	switch kind {
	case apperr.KindInvalid:
		return "invalid_request"
	case apperr.KindUnauthenticated:
		return "invalid_token"
	default:
		return kind.String()
	}
}
