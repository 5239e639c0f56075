package web

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/JonMunkholm/nacebel/internal/nace"
)

const langCookie = "lang"

// supportedTags is index-aligned with nace.Languages.
var supportedTags = []language.Tag{language.English, language.German, language.French, language.Dutch}

var langMatcher = language.NewMatcher(supportedTags)

// resolveLanguage picks the interface language from ?lang, then the lang
// cookie, then Accept-Language, then English. An explicit ?lang is
// remembered in the cookie.
func resolveLanguage(w http.ResponseWriter, r *http.Request) nace.Language {
	if lang, ok := nace.ParseLanguage(strings.ToLower(r.URL.Query().Get("lang"))); ok {
		http.SetCookie(w, &http.Cookie{
			Name:     langCookie,
			Value:    string(lang),
			Path:     "/",
			MaxAge:   int((365 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return lang
	}
	if c, err := r.Cookie(langCookie); err == nil {
		if lang, ok := nace.ParseLanguage(c.Value); ok {
			return lang
		}
	}
	return matchAcceptLanguage(r.Header.Get("Accept-Language"))
}

func matchAcceptLanguage(header string) nace.Language {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return nace.LangEN
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return nace.LangEN
	}
	return nace.Languages[idx]
}
