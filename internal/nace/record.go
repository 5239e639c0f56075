package nace

import "fmt"

// Language is one of the four title languages.
type Language string

const (
	LangEN Language = "en"
	LangDE Language = "de"
	LangFR Language = "fr"
	LangNL Language = "nl"
)

// Languages lists every title language in display order.
var Languages = []Language{LangEN, LangDE, LangFR, LangNL}

// ParseLanguage returns the Language for s, or false if s is not one of en, de, fr, nl.
func ParseLanguage(s string) (Language, bool) {
	switch Language(s) {
	case LangEN, LangDE, LangFR, LangNL:
		return Language(s), true
	}
	return "", false
}

// Titles holds one string per language. The fixed struct shape guarantees
// every language is present; missing titles are empty strings.
type Titles struct {
	EN string `json:"en"`
	DE string `json:"de"`
	FR string `json:"fr"`
	NL string `json:"nl"`
}

// Get returns the title for lang, or "" for an unknown language.
func (t Titles) Get(lang Language) string {
	switch lang {
	case LangEN:
		return t.EN
	case LangDE:
		return t.DE
	case LangFR:
		return t.FR
	case LangNL:
		return t.NL
	}
	return ""
}

// Values returns the four titles in en, de, fr, nl order.
func (t Titles) Values() [4]string {
	return [4]string{t.EN, t.DE, t.FR, t.NL}
}

// Normalized applies Normalize to every title.
func (t Titles) Normalized() Titles {
	return Titles{
		EN: Normalize(t.EN),
		DE: Normalize(t.DE),
		FR: Normalize(t.FR),
		NL: Normalize(t.NL),
	}
}

// Record is one classification code.
//
// SearchableCode and SearchableTitles are only used for matching and are
// never rendered. Records are shared read-only between requests once a
// dataset snapshot is published.
type Record struct {
	Level            int
	Code             string
	Titles           Titles
	SearchableCode   string
	SearchableTitles Titles
	IDWithoutDots    string
}

// NewRecord validates the raw fields and derives the search fields and identifier.
func NewRecord(level int, code string, titles Titles) (Record, error) {
	if !ValidLevel(level) {
		return Record{}, fmt.Errorf("level %d out of range %d-%d", level, MinLevel, MaxLevel)
	}
	if got := LevelOfCode(code); got != level {
		return Record{}, fmt.Errorf("code %q does not match level %d", code, level)
	}
	return Record{
		Level:            level,
		Code:             code,
		Titles:           titles,
		SearchableCode:   Normalize(code),
		SearchableTitles: titles.Normalized(),
		IDWithoutDots:    IDWithoutDots(code),
	}, nil
}
