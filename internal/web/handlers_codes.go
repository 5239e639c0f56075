package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/nacebel/internal/nace"
	"github.com/JonMunkholm/nacebel/internal/query"
)

// handleListCodes serves GET /codes: a page of the listing, or of the search
// results when q is set.
func (s *Server) handleListCodes(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()

	params, err := parseListParams(v)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var page query.Page
	if q := v.Get("q"); q != "" {
		page, err = s.engine.Search(r.Context(), q, params)
	} else {
		page, err = s.engine.ListPage(r.Context(), params)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.setLoadHeader(w)
	writeJSON(w, page)
}

// handleCodeDetails serves GET /codes/{id}.
func (s *Server) handleCodeDetails(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		s.respondError(w, r, &nace.ValidationError{Param: "id", Message: nace.MsgIDRequired})
		return
	}

	detail, ok, err := s.engine.Details(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !ok {
		s.respondError(w, r, &nace.NotFoundError{ID: id})
		return
	}

	s.setLoadHeader(w)
	writeJSON(w, detail)
}
