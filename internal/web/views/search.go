package views

import (
	"net/url"
	"strconv"

	"github.com/JonMunkholm/nacebel/internal/nace"
	"github.com/JonMunkholm/nacebel/internal/query"
)

// PageSize is the number of codes shown per page on the search page.
const PageSize = 100

// SearchPageData is everything the search page shows.
type SearchPageData struct {
	Lang       nace.Language
	Query      string
	MinLevel   int // 0 means all levels
	Page       int
	TotalPages int
	TotalItems int
	Codes      []query.PublicCode
}

// URL returns the search page link for page in lang, keeping the query and level filter.
func (d SearchPageData) URL(page int, lang nace.Language) string {
	v := url.Values{}
	if d.Query != "" {
		v.Set("q", d.Query)
	}
	if d.MinLevel != 0 {
		v.Set("level", strconv.Itoa(d.MinLevel))
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	v.Set("lang", string(lang))
	return "/?" + v.Encode()
}

// ExportURL links to the CSV download of the full result set.
func (d SearchPageData) ExportURL() string {
	v := url.Values{}
	if d.Query != "" {
		v.Set("q", d.Query)
	}
	if d.MinLevel != 0 {
		v.Set("level", strconv.Itoa(d.MinLevel))
	}
	v.Set("lang", string(d.Lang))
	return "/codes/export?" + v.Encode()
}

// ExplanatoryNotesURL links a code to its notes on the KBO public search.
func ExplanatoryNotesURL(lang nace.Language, code string) string {
	v := url.Values{}
	v.Set("lang", string(lang))
	v.Set("nace.code", nace.IDWithoutDots(code))
	v.Set("nace.version", "2025")
	return "https://kbopub.economie.fgov.be/kbopub/naceToelichting.html?" + v.Encode()
}

func (d SearchPageData) meta() PageMeta {
	return PageMeta{
		Lang:  d.Lang,
		Title: heading,
		LangURL: func(lang nace.Language) string {
			return d.URL(d.Page, lang)
		},
	}
}
