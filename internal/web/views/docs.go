package views

import "github.com/JonMunkholm/nacebel/internal/nace"

type docParam struct {
	name, rule, err string
}

var listParams = []docParam{
	{"q", "Optional free text. Every word must occur in the code or in one of the four titles. Empty lists everything.", ""},
	{"page", "Optional, default 1. Integer of 1 or more.", nace.MsgInvalidPage},
	{"limit", "Optional, default 100. Integer from 1 to 500.", nace.MsgInvalidLimit},
	{"level", "Optional. Integer from 2 to 5; only codes at that level or deeper are returned.", nace.MsgInvalidLevel},
}

const listExample = `{
  "data": [
    {
      "level": 4,
      "code": "62.01",
      "titles": {"en": "Computer programming activities", "de": "...", "fr": "...", "nl": "..."},
      "description": {"en": "", "de": "", "fr": "", "nl": ""}
    }
  ],
  "totalPages": 1,
  "totalItems": 1
}`

const detailExample = `{
  "level": 4,
  "code": "01.11",
  "titles": {"en": "Growing of cereals (except rice), leguminous crops and oil seeds", "de": "...", "fr": "...", "nl": "..."},
  "description": {"en": "", "de": "", "fr": "", "nl": ""},
  "childrenCodes": ["01.111", "01.112"]
}`

func docsMeta(lang nace.Language) PageMeta {
	return PageMeta{
		Lang:    lang,
		Title:   "NACEBEL 2025 API",
		LangURL: func(l nace.Language) string { return "/api/docs?lang=" + string(l) },
	}
}
