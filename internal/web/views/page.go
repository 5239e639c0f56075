// Package views holds the server-rendered pages as templ components.
// The *_templ.go files are generated from the .templ sources with `templ generate`.
package views

import "github.com/JonMunkholm/nacebel/internal/nace"

// PageMeta describes the shell around a page body.
type PageMeta struct {
	Lang  nace.Language
	Title string
	// LangURL builds the link for the language switcher. Nil links to "/?lang=xx".
	LangURL func(nace.Language) string
}

func (m PageMeta) langURL(lang nace.Language) string {
	if m.LangURL != nil {
		return m.LangURL(lang)
	}
	return "/?lang=" + string(lang)
}

func (m PageMeta) homeURL() string {
	return "/?lang=" + string(m.Lang)
}

func (m PageMeta) docsURL() string {
	return "/api/docs?lang=" + string(m.Lang)
}
