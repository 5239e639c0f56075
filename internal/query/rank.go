package query

import (
	"sort"
	"strings"

	"github.com/JonMunkholm/nacebel/internal/nace"
)

// Match precedence, highest first. A record's rank is the OR of every rule it
// satisfies, so comparing ranks as integers orders by the first rule that
// differs between two records.
const (
	rankTitleContains = 1 << iota
	rankCodeContains
	rankTitlePrefix
	rankCodePrefix
	rankExactCode
)

// matcher holds one normalized query.
type matcher struct {
	query  string   // full normalized query, used for ranking
	tokens []string // whitespace separated parts, used for filtering
}

func newMatcher(raw string) matcher {
	q := nace.Normalize(raw)
	return matcher{query: q, tokens: nace.Tokenize(q)}
}

// matches reports whether every token occurs in the searchable code or in at
// least one searchable title. Different tokens may match different fields.
// With no tokens every record matches.
func (m matcher) matches(rec *nace.Record) bool {
	for _, tok := range m.tokens {
		if !strings.Contains(rec.SearchableCode, tok) && !anyTitle(rec.SearchableTitles, tok, strings.Contains) {
			return false
		}
	}
	return true
}

func (m matcher) rank(rec *nace.Record) int {
	q := m.query
	r := 0
	if rec.SearchableCode == q {
		r |= rankExactCode
	}
	if strings.HasPrefix(rec.SearchableCode, q) {
		r |= rankCodePrefix
	}
	if anyTitle(rec.SearchableTitles, q, strings.HasPrefix) {
		r |= rankTitlePrefix
	}
	if strings.Contains(rec.SearchableCode, q) {
		r |= rankCodeContains
	}
	if anyTitle(rec.SearchableTitles, q, strings.Contains) {
		r |= rankTitleContains
	}
	return r
}

func anyTitle(titles nace.Titles, q string, pred func(s, q string) bool) bool {
	for _, t := range titles.Values() {
		if pred(t, q) {
			return true
		}
	}
	return false
}

type ranked struct {
	rec  *nace.Record
	rank int
}

// filterAndRank returns the records matching m at or above minLevel, best
// match first. Ties keep dataset order.
func filterAndRank(records []nace.Record, m matcher, minLevel int) []*nace.Record {
	hits := make([]ranked, 0, 64)
	for i := range records {
		rec := &records[i]
		if rec.Level < minLevel || !m.matches(rec) {
			continue
		}
		hits = append(hits, ranked{rec: rec, rank: m.rank(rec)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].rank > hits[j].rank
	})

	out := make([]*nace.Record, len(hits))
	for i, h := range hits {
		out[i] = h.rec
	}
	return out
}

// filterLevel returns the records at or above minLevel in dataset order.
func filterLevel(records []nace.Record, minLevel int) []*nace.Record {
	out := make([]*nace.Record, 0, len(records))
	for i := range records {
		if records[i].Level >= minLevel {
			out = append(out, &records[i])
		}
	}
	return out
}
