package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/nacebel/internal/dataset"
	"github.com/JonMunkholm/nacebel/internal/nace"
)

const header = "LEVEL,CODE,NATIONAL_TITLE_BE_NL,NATIONAL_TITLE_BE_FR,NATIONAL_TITLE_BE_DE,NATIONAL_TITLE_BE_EN\n"

const sampleDoc = header +
	"1,A,Landbouw,Agriculture,Landwirtschaft,Agriculture\n" +
	"2,01,Teelt,Culture,Anbau,Crop and animal production\n" +
	"3,01.1,Eenjarige gewassen,Cultures non permanentes,Einjährige Kulturen,Growing of non-perennial crops\n" +
	"4,01.11,Teelt van granen,Culture de céréales,Anbau von Getreide,\"Growing of cereals (except rice), leguminous crops and oil seeds\"\n" +
	"5,01.111,Teelt van tarwe,Culture de blé,Anbau von Weizen,Growing of wheat\n" +
	"5,01.112,Teelt van maïs,Culture de maïs,Anbau von Mais,Growing of maize\n" +
	"2,58,Uitgeverijen,Édition,Verlagswesen,Publishing activities\n" +
	"3,58.2,Uitgeverijen van software,Édition de logiciels,Verlegen von Software,Software publishing\n" +
	"4,58.29,Overige uitgeverijen van software,Autres éditions de logiciels,Verlegen von sonstiger Software,Other software publishing\n" +
	"5,58.290,Overige uitgeverijen van software,Autres éditions de logiciels,Verlegen von sonstiger Software,Other software publishing\n" +
	"2,62,Computerprogrammering,Programmation,Programmierung,Computer programming\n" +
	"4,62.01,Ontwikkelen van software,Programmation informatique,Programmierungstätigkeiten,Computer programming activities\n" +
	"5,62.010,Ontwikkelen van software,Programmation informatique,Programmierungstätigkeiten,Software development\n"

func newTestEngine(t *testing.T, doc string) *Engine {
	t.Helper()
	return NewEngine(dataset.NewCache(dataset.NewStaticSource(doc), dataset.Options{}))
}

func codesOf(page Page) []string {
	out := make([]string, len(page.Data))
	for i, c := range page.Data {
		out[i] = c.Code
	}
	return out
}

func TestListPage_DatasetOrder(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)

	page, err := engine.ListPage(context.Background(), Params{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"01", "01.1", "01.11", "01.111", "01.112"}, codesOf(page))
	assert.Equal(t, 12, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)

	last, err := engine.ListPage(context.Background(), Params{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"62.01", "62.010"}, codesOf(last))
}

func TestListPage_PastTheEndIsEmpty(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)

	page, err := engine.ListPage(context.Background(), Params{Page: 99, Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 12, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListPage_MinLevel(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)

	page, err := engine.ListPage(context.Background(), Params{Page: 1, Limit: 100, MinLevel: 4})
	require.NoError(t, err)
	assert.Equal(t, 7, page.TotalItems)
	for _, c := range page.Data {
		assert.GreaterOrEqual(t, c.Level, 4, c.Code)
	}
}

func TestListPage_PageSizeProperty(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)
	ctx := context.Background()

	for limit := 1; limit <= 13; limit++ {
		for page := 1; page <= 14; page++ {
			got, err := engine.ListPage(ctx, Params{Page: page, Limit: limit})
			require.NoError(t, err)
			want := max(0, min(limit, got.TotalItems-(page-1)*limit))
			assert.Len(t, got.Data, want, "page=%d limit=%d", page, limit)
		}
	}
}

func TestListPage_LargeDataset(t *testing.T) {
	var b strings.Builder
	b.WriteString(header)
	n := 0
	for div := 10; n < 2458; div++ {
		for sub := 0; sub < 10 && n < 2458; sub++ {
			fmt.Fprintf(&b, "4,%02d.%02d,nl,fr,de,Activity %d\n", div%100, sub*10+div/100, n)
			n++
		}
	}
	engine := newTestEngine(t, b.String())

	page, err := engine.ListPage(context.Background(), Params{Page: 1, Limit: 100, MinLevel: 2})
	require.NoError(t, err)
	assert.Equal(t, 2458, page.TotalItems)
	assert.Equal(t, 25, page.TotalPages)
	assert.Len(t, page.Data, 100)

	last, err := engine.ListPage(context.Background(), Params{Page: 25, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, last.Data, 58)
}

func TestSearch_EmptyQueryEqualsListing(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)
	ctx := context.Background()

	for _, minLevel := range []int{0, 2, 3, 4, 5} {
		for _, q := range []string{"", "   ", ".,-"} {
			list, err := engine.ListPage(ctx, Params{Page: 1, Limit: 100, MinLevel: minLevel})
			require.NoError(t, err)
			search, err := engine.Search(ctx, q, Params{Page: 1, Limit: 100, MinLevel: minLevel})
			require.NoError(t, err)
			assert.Equal(t, list, search, "q=%q minLevel=%d", q, minLevel)
		}
	}
}

func TestSearch_ExactCodeFirst(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)
	ctx := context.Background()

	for _, code := range []string{"01", "01.1", "01.11", "58.29", "62.010"} {
		for _, limit := range []int{1, 3, 100} {
			page, err := engine.Search(ctx, code, Params{Page: 1, Limit: limit})
			require.NoError(t, err)
			require.NotEmpty(t, page.Data)
			assert.Equal(t, code, page.Data[0].Code, "limit=%d", limit)
		}
	}
}

func TestSearch_RankingCascade(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)

	page, err := engine.Search(context.Background(), "software", Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	// Titles starting with the query (62.010 "Software development",
	// 58.2 "Software publishing") outrank titles that only contain it.
	assert.Equal(t, []string{"58.2", "62.010", "58.29", "58.290", "62.01"}, codesOf(page))
}

func TestSearch_RankingSeparatesCodeAndTitleRules(t *testing.T) {
	row := func(level int, code, title string) string {
		return fmt.Sprintf("%d,%s,%s,%s,%s,%s\n", level, code, title, title, title, title)
	}
	// Rows are listed worst match first so dataset order cannot explain the result.
	doc := header +
		row(4, "13.19", "Spinning of 91 yarn") +
		row(4, "12.91", "Repair of type 91 engines") +
		row(4, "12.34", "91 series manufacturing") +
		row(3, "91.1", "Library activities") +
		row(2, "91", "Libraries and archives")
	engine := newTestEngine(t, doc)

	page, err := engine.Search(context.Background(), "91", Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	// exact code, code prefix, title prefix, code contains, title contains
	assert.Equal(t, []string{"91", "91.1", "12.34", "12.91", "13.19"}, codesOf(page))
}

func TestSearch_TokensMayMatchDifferentFields(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)

	// "0111" matches codes, "weizen" only the German title of 01.111.
	page, err := engine.Search(context.Background(), "01.11 Weizen", Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"01.111"}, codesOf(page))
	assert.Equal(t, 1, page.TotalItems)
}

func TestSearch_CaseAndPunctuationInsensitive(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)
	ctx := context.Background()

	a, err := engine.Search(ctx, "CÉRÉALES", Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	b, err := engine.Search(ctx, "céréales!", Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"01.11"}, codesOf(a))
	assert.Equal(t, a, b)
}

func TestSearch_MinLevelAndNoMatches(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)
	ctx := context.Background()

	page, err := engine.Search(ctx, "software", Params{Page: 1, Limit: 10, MinLevel: 4})
	require.NoError(t, err)
	for _, c := range page.Data {
		assert.GreaterOrEqual(t, c.Level, 4)
	}
	assert.Equal(t, 4, page.TotalItems)

	none, err := engine.Search(ctx, "astronautics", Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, none.Data)
	assert.Empty(t, none.Data)
	assert.Zero(t, none.TotalItems)
	assert.Zero(t, none.TotalPages)
}

func TestSearch_TotalsCoverAllPages(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)

	page, err := engine.Search(context.Background(), "software", Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, []string{"58.29", "58.290"}, codesOf(page))
}

func TestDetails(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)
	ctx := context.Background()

	detail, ok, err := engine.Details(ctx, "0111")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, detail.Level)
	assert.Equal(t, "01.11", detail.Code)
	assert.Equal(t, []string{"01.111", "01.112"}, detail.ChildrenCodes)
	assert.Equal(t, "Growing of cereals (except rice), leguminous crops and oil seeds", detail.Titles.EN)
	assert.Equal(t, nace.Titles{}, detail.Description)

	leaf, ok, err := engine.Details(ctx, "01111")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotNil(t, leaf.ChildrenCodes)
	assert.Empty(t, leaf.ChildrenCodes)

	_, ok, err = engine.Details(ctx, "999999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDetails_EveryListedCodeResolves(t *testing.T) {
	engine := newTestEngine(t, sampleDoc)
	ctx := context.Background()

	page, err := engine.ListPage(ctx, Params{Page: 1, Limit: MaxLimit})
	require.NoError(t, err)
	for _, c := range page.Data {
		detail, ok, err := engine.Details(ctx, nace.IDWithoutDots(c.Code))
		require.NoError(t, err)
		require.True(t, ok, c.Code)
		assert.Equal(t, c.Code, detail.Code)
	}
}

func TestEngine_PropagatesLoadFailure(t *testing.T) {
	src := dataset.NewStaticSource(sampleDoc)
	src.SetErr(&nace.UpstreamFetchError{Source: "static", Status: 500})
	engine := NewEngine(dataset.NewCache(src, dataset.Options{}))
	ctx := context.Background()

	_, err := engine.ListPage(ctx, Params{Page: 1, Limit: 10})
	var upstream *nace.UpstreamFetchError
	assert.True(t, errors.As(err, &upstream))

	_, err = engine.Search(ctx, "x", Params{Page: 1, Limit: 10})
	assert.Error(t, err)

	_, _, err = engine.Details(ctx, "01")
	assert.Error(t, err)
}
