package web

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/nacebel/internal/logging"
	"github.com/JonMunkholm/nacebel/internal/nace"
	"github.com/JonMunkholm/nacebel/internal/query"
	"github.com/JonMunkholm/nacebel/internal/web/views"
)

// handleSearchPage renders the search page. Unlike the API it never rejects
// parameters: an out-of-range level is clamped, other bad values fall back
// to their defaults and a page past the end shows the last page.
func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	lang := resolveLanguage(w, r)
	v := r.URL.Query()

	data := views.SearchPageData{
		Lang:  lang,
		Query: strings.TrimSpace(v.Get("q")),
		Page:  1,
	}
	if n, ok := parseLeadingInt(v.Get("level")); ok {
		data.MinLevel = nace.ClampLevel(n)
	}
	if n, ok := parseLeadingInt(v.Get("page")); ok && n > 1 {
		data.Page = n
	}

	params := query.Params{Page: data.Page, Limit: views.PageSize, MinLevel: data.MinLevel}
	result, err := s.engine.Search(r.Context(), data.Query, params)
	if err == nil && result.TotalPages > 0 && data.Page > result.TotalPages {
		data.Page = result.TotalPages
		params.Page = data.Page
		result, err = s.engine.Search(r.Context(), data.Query, params)
	}
	if err != nil {
		s.respondPageError(w, r, lang, err)
		return
	}

	data.Codes = result.Data
	data.TotalPages = result.TotalPages
	data.TotalItems = result.TotalItems

	s.setLoadHeader(w)
	render(w, r, http.StatusOK, views.SearchPage(data))
}

// handleAPIDocs renders the API reference.
func (s *Server) handleAPIDocs(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, views.APIDocs(resolveLanguage(w, r)))
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}
