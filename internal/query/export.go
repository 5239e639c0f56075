package query

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/nacebel/internal/nace"
)

const utf8BOM = "\uFEFF"

// ExportFilename is the download name for an export in lang.
func ExportFilename(lang nace.Language) string {
	return fmt.Sprintf("nacebel_codes_%s.csv", lang)
}

// WriteCSV writes records as a spreadsheet friendly CSV: a UTF-8 BOM, a
// header row, then one line per record with the title in lang. The title
// is always quoted; the level and code never contain separators.
func WriteCSV(w io.Writer, records []*nace.Record, lang nace.Language) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(utf8BOM)
	bw.WriteString("Level,Code,Description (" + strings.ToUpper(string(lang)) + ")")
	for _, rec := range records {
		bw.WriteByte('\n')
		bw.WriteString(strconv.Itoa(rec.Level))
		bw.WriteByte(',')
		bw.WriteString(rec.Code)
		bw.WriteByte(',')
		bw.WriteString(quote(rec.Titles.Get(lang)))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
