// Package query answers listing, search and detail requests against the
// current dataset snapshot.
//
// The engine trusts its inputs: page and limit are validated by callers. Its
// only failure mode is a dataset that cannot be loaded.
package query

import (
	"context"
	"strings"

	"github.com/JonMunkholm/nacebel/internal/dataset"
	"github.com/JonMunkholm/nacebel/internal/nace"
)

// Defaults and bounds for paging, shared by the HTTP layer and the CLI.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Dataset provides the snapshot queries run against.
type Dataset interface {
	Snapshot(ctx context.Context) (*dataset.Snapshot, error)
}

// Params selects a page. MinLevel 0 means no level filter.
type Params struct {
	Page     int
	Limit    int
	MinLevel int
}

// Engine runs queries. It holds no state of its own and is safe for
// concurrent use.
type Engine struct {
	data Dataset
}

func NewEngine(data Dataset) *Engine {
	return &Engine{data: data}
}

// ListPage returns records in dataset order.
func (e *Engine) ListPage(ctx context.Context, p Params) (Page, error) {
	snap, err := e.data.Snapshot(ctx)
	if err != nil {
		return Page{}, err
	}
	return paginate(filterLevel(snap.Records, p.MinLevel), p), nil
}

// Search returns records matching every token of q, best match first. An
// empty or punctuation-only q behaves like ListPage.
func (e *Engine) Search(ctx context.Context, q string, p Params) (Page, error) {
	hits, err := e.Ranked(ctx, q, p.MinLevel)
	if err != nil {
		return Page{}, err
	}
	return paginate(hits, p), nil
}

// Ranked returns the full, unpaginated result of a search.
func (e *Engine) Ranked(ctx context.Context, q string, minLevel int) ([]*nace.Record, error) {
	snap, err := e.data.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return filterAndRank(snap.Records, newMatcher(q), minLevel), nil
}

// Details looks up a record by its identifier without dots. The bool is
// false when no record has that identifier.
func (e *Engine) Details(ctx context.Context, id string) (CodeDetail, bool, error) {
	snap, err := e.data.Snapshot(ctx)
	if err != nil {
		return CodeDetail{}, false, err
	}
	rec, ok := snap.Index.ByIDWithoutDots(strings.TrimSpace(id))
	if !ok {
		return CodeDetail{}, false, nil
	}
	return toDetail(rec, snap.Index.Children(rec.Code)), true, nil
}

// paginate slices one page out of records. Pages past the end are empty.
func paginate(records []*nace.Record, p Params) Page {
	limit := p.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	page := max(p.Page, 1)

	total := len(records)
	totalPages := (total + limit - 1) / limit

	data := []PublicCode{}
	if page <= totalPages {
		start := (page - 1) * limit
		end := min(start+limit, total)
		data = make([]PublicCode, 0, end-start)
		for _, rec := range records[start:end] {
			data = append(data, toPublic(rec))
		}
	}

	return Page{Data: data, TotalPages: totalPages, TotalItems: total}
}
