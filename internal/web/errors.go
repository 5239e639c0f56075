package web

// errors.go turns errors into responses.
//
// The JSON API keeps a fixed contract: the body is always {"error": "..."}.
// Validation and not-found errors carry their user message; everything else
// is a load or internal failure and is answered with a generic 500 so no
// technical detail leaks. The support code from nace.MapError goes into the
// X-Error-Code header and the server log, where it can be correlated with
// the request ID.

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/nacebel/internal/logging"
	"github.com/JonMunkholm/nacebel/internal/nace"
	"github.com/JonMunkholm/nacebel/internal/web/views"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var ve *nace.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, nace.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON API error.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := logError(r, err, status)

	body := errorBody{Error: msg.Message}
	if status == http.StatusInternalServerError {
		body.Error = http.StatusText(status)
	}

	w.Header().Set("X-Error-Code", msg.Code)
	writeJSONStatus(w, status, body)
}

// respondPageError renders err as an HTML error page.
func (s *Server) respondPageError(w http.ResponseWriter, r *http.Request, lang nace.Language, err error) {
	status := statusFor(err)
	msg := logError(r, err, status)

	w.Header().Set("X-Error-Code", msg.Code)
	render(w, r, status, views.ErrorPage(lang, status, msg))
}

// logError logs the technical error and returns the user-facing message.
// Client errors are routine and logged at debug level.
func logError(r *http.Request, err error, status int) nace.UserMessage {
	msg := nace.MapError(err)

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)
	return msg
}
