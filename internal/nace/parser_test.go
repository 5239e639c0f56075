package nace

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `LEVEL,CODE,PARENT_CODE,NATIONAL_TITLE_BE_NL,NATIONAL_TITLE_BE_FR,NATIONAL_TITLE_BE_DE,NATIONAL_TITLE_BE_EN
1,A,,Landbouw,Agriculture,Landwirtschaft,"Agriculture, forestry and fishing"
2,01,A,Teelt,Culture,Anbau,Crop and animal production
3,01.1,01,Eenjarige gewassen,Cultures non permanentes,Einjährige Kulturen,Growing of non-perennial crops
4,01.11,01.1,Teelt van granen,Culture de céréales,Anbau von Getreide,"Growing of cereals (except rice), leguminous crops and oil seeds"
5,01.111,01.11,Teelt van graan,Culture de blé,Weizen,Growing of wheat
5,01.112,01.11,Teelt van maïs,Culture de maïs,Mais,Growing of maize
`

func TestParse_Sample(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Len(t, res.Records, 5)
	assert.Equal(t, 6, res.Rows)
	assert.Equal(t, 1, res.Skipped, "level 1 row is dropped")

	codes := make([]string, len(res.Records))
	for i, r := range res.Records {
		codes[i] = r.Code
	}
	assert.Equal(t, []string{"01", "01.1", "01.11", "01.111", "01.112"}, codes)

	cereals := res.Records[2]
	assert.Equal(t, 4, cereals.Level)
	assert.Equal(t, "Growing of cereals (except rice), leguminous crops and oil seeds", cereals.Titles.EN)
	assert.Equal(t, "Culture de céréales", cereals.Titles.FR)
	assert.Equal(t, "growing of cereals except rice leguminous crops and oil seeds", cereals.SearchableTitles.EN)
	assert.Equal(t, "0111", cereals.IDWithoutDots)
}

func TestParse_HeaderMatchIsCaseAndSpaceInsensitive(t *testing.T) {
	doc := " level , Code,national_title_be_nl,NATIONAL_TITLE_BE_FR ,National_Title_BE_DE,NATIONAL_TITLE_BE_EN\r\n" +
		"2,01,nl,fr,de,en\r\n"
	res, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, Titles{EN: "en", DE: "de", FR: "fr", NL: "nl"}, res.Records[0].Titles)
}

func TestParse_MissingColumns(t *testing.T) {
	doc := "LEVEL,CODE,NATIONAL_TITLE_BE_NL\n2,01,x\n"
	_, err := Parse(strings.NewReader(doc))

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{ColTitleFR, ColTitleDE, ColTitleEN}, se.Missing)
}

func TestParse_EmptyDocument(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Len(t, se.Missing, len(RequiredColumns))
}

func TestParse_SkipsBadRows(t *testing.T) {
	doc := strings.Join([]string{
		"LEVEL,CODE,NATIONAL_TITLE_BE_NL,NATIONAL_TITLE_BE_FR,NATIONAL_TITLE_BE_DE,NATIONAL_TITLE_BE_EN",
		"",
		"   ",
		"2,01,a,b,c,d",
		"x,02,a,b,c,d",   // level 0
		"2,03,a,b",       // too short
		"4,03.1,a,b,c,d", // code does not match level
		"9,03.111,a,b,c,d",
		"3,01.2,a,b,c,d",
	}, "\n")

	res, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "01", res.Records[0].Code)
	assert.Equal(t, "01.2", res.Records[1].Code)
	assert.Equal(t, 6, res.Rows)
	assert.Equal(t, 4, res.Skipped)
	require.Len(t, res.RowErrors, 2)
	assert.Equal(t, 7, res.RowErrors[0].Line)
}

func TestParse_MissingTitlesBecomeEmpty(t *testing.T) {
	doc := "LEVEL,CODE,NATIONAL_TITLE_BE_NL,NATIONAL_TITLE_BE_FR,NATIONAL_TITLE_BE_DE,NATIONAL_TITLE_BE_EN\n" +
		"2,01,,,,Only English\n"
	res, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, Titles{EN: "Only English"}, res.Records[0].Titles)
	assert.Equal(t, Titles{EN: "only english"}, res.Records[0].SearchableTitles)
}

func TestParse_SkipsBOM(t *testing.T) {
	doc := "\xEF\xBB\xBFLEVEL,CODE,NATIONAL_TITLE_BE_NL,NATIONAL_TITLE_BE_FR,NATIONAL_TITLE_BE_DE,NATIONAL_TITLE_BE_EN\n2,01,a,b,c,d\n"
	res, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)
}

func TestParse_LevelWithTrailingText(t *testing.T) {
	doc := "LEVEL,CODE,NATIONAL_TITLE_BE_NL,NATIONAL_TITLE_BE_FR,NATIONAL_TITLE_BE_DE,NATIONAL_TITLE_BE_EN\n 3.0 ,01.1,a,b,c,d\n"
	res, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 3, res.Records[0].Level)
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"trimmed", " a , b ,c ", []string{"a", "b", "c"}},
		{"quoted comma", `1,"x, y",z`, []string{"1", "x, y", "z"}},
		{"empty fields", ",,", []string{"", "", ""}},
		{"doubled quotes toggle", `"say ""hi""",b`, []string{"say hi", "b"}},
		{"unbalanced quote swallows rest", `a,"b,c`, []string{"a", "b,c"}},
		{"empty line", "", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}
