package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/nacebel/internal/logging"
	"github.com/JonMunkholm/nacebel/internal/nace"
	"github.com/JonMunkholm/nacebel/internal/query"
)

// handleExport serves GET /codes/export: the complete ranked result of a
// search as a CSV download with the titles of one language.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()

	var lang nace.Language
	if raw := v.Get("lang"); raw != "" {
		l, ok := nace.ParseLanguage(strings.ToLower(raw))
		if !ok {
			s.respondError(w, r, &nace.ValidationError{Param: "lang", Message: nace.MsgInvalidLang})
			return
		}
		lang = l
	} else {
		lang = resolveLanguage(w, r)
	}

	minLevel, err := parseLevel(v.Get("level"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	records, err := s.engine.Ranked(r.Context(), v.Get("q"), minLevel)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logger := logging.WithFields(r.Context(), "lang", string(lang), "level", minLevel, "records", len(records))

	s.setLoadHeader(w)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", query.ExportFilename(lang)))

	// Headers are sent by now; a failed write can only be logged.
	if err := query.WriteCSV(w, records, lang); err != nil {
		logger.Warn("export aborted", "error", err)
		return
	}
	logger.Debug("export served")
}
