package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/JonMunkholm/nacebel/internal/config"
	"github.com/JonMunkholm/nacebel/internal/dataset"
	"github.com/JonMunkholm/nacebel/internal/nace"
	"github.com/JonMunkholm/nacebel/internal/query"
)

// session is one loaded source with an engine on top.
type session struct {
	src    dataset.Source
	cache  *dataset.Cache
	engine *query.Engine
}

func openSession(c *cli.Context) (*session, error) {
	d, err := datasetConfig(c)
	if err != nil {
		return nil, err
	}
	src, err := openSource(c, d)
	if err != nil {
		return nil, err
	}
	cache := dataset.NewCache(src, dataset.Options{
		LoadTimeout: d.LoadTimeout,
		MaxBytes:    d.MaxBytes,
	})
	return &session{src: src, cache: cache, engine: query.NewEngine(cache)}, nil
}

func (s *session) Close() error {
	s.cache.Wait()
	return dataset.Close(s.src)
}

// openSource builds the configured source. "--file -" reads stdin up front.
func openSource(c *cli.Context, d config.DatasetConfig) (dataset.Source, error) {
	if d.Source == config.SourceFile && d.File == "-" {
		doc, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return dataset.NewStaticSource(string(doc)), nil
	}
	return dataset.NewSourceFromConfig(c.Context, d)
}

func parseLang(raw string) (nace.Language, error) {
	lang, ok := nace.ParseLanguage(strings.ToLower(raw))
	if !ok {
		return "", &nace.ValidationError{Param: "lang", Message: nace.MsgInvalidLang}
	}
	return lang, nil
}

// pageParams applies the same bounds as the HTTP API.
func pageParams(c *cli.Context) (query.Params, error) {
	p := query.Params{Page: c.Int("page"), Limit: c.Int("limit"), MinLevel: c.Int("level")}
	if p.Page < 1 {
		return p, &nace.ValidationError{Param: "page", Message: nace.MsgInvalidPage}
	}
	if p.Limit < 1 || p.Limit > query.MaxLimit {
		return p, &nace.ValidationError{Param: "limit", Message: nace.MsgInvalidLimit}
	}
	if p.MinLevel != 0 && !nace.ValidLevel(p.MinLevel) {
		return p, &nace.ValidationError{Param: "level", Message: nace.MsgInvalidLevel}
	}
	return p, nil
}

func listCommand(c *cli.Context) error {
	return runPage(c, func(ctx context.Context, e *query.Engine, p query.Params) (query.Page, error) {
		return e.ListPage(ctx, p)
	})
}

func searchCommand(c *cli.Context) error {
	q := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(q) == "" {
		return errors.New("search needs a query; use list to see every code")
	}
	return runPage(c, func(ctx context.Context, e *query.Engine, p query.Params) (query.Page, error) {
		return e.Search(ctx, q, p)
	})
}

type pageFunc func(context.Context, *query.Engine, query.Params) (query.Page, error)

func runPage(c *cli.Context, fn pageFunc) error {
	params, err := pageParams(c)
	if err != nil {
		return err
	}
	lang, err := parseLang(c.String("lang"))
	if err != nil {
		return err
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	page, err := fn(c.Context, s.engine, params)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return printJSON(c.App.Writer, page)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, code := range page.Data {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", code.Code, code.Level, code.Titles.Get(lang))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "page %d of %d, %d codes\n", params.Page, page.TotalPages, page.TotalItems)
	return nil
}

func showCommand(c *cli.Context) error {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return &nace.ValidationError{Param: "id", Message: nace.MsgIDRequired}
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	detail, ok, err := s.engine.Details(c.Context, nace.IDWithoutDots(id))
	if err != nil {
		return err
	}
	if !ok {
		return &nace.NotFoundError{ID: id}
	}

	if c.Bool("json") {
		return printJSON(c.App.Writer, detail)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%s (level %d)\n", detail.Code, detail.Level)
	for _, lang := range nace.Languages {
		fmt.Fprintf(w, "  %s  %s\n", strings.ToUpper(string(lang)), detail.Titles.Get(lang))
	}
	if len(detail.ChildrenCodes) > 0 {
		fmt.Fprintf(w, "children: %s\n", strings.Join(detail.ChildrenCodes, ", "))
	}
	return nil
}

func validateCommand(c *cli.Context) error {
	d, err := datasetConfig(c)
	if err != nil {
		return err
	}

	src, err := openSource(c, d)
	if err != nil {
		return err
	}
	defer dataset.Close(src)

	ctx := c.Context
	if d.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.LoadTimeout)
		defer cancel()
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	counter := nace.NewCountingReader(rc, d.MaxBytes)
	result, err := nace.Parse(counter)
	if err != nil {
		return fmt.Errorf("parse dataset from %s: %w", src.Name(), err)
	}
	idx := nace.BuildIndex(result.Records)
	duplicates := len(result.Records) - idx.Len()

	w := c.App.Writer
	fmt.Fprintf(w, "source:     %s\n", src.Name())
	fmt.Fprintf(w, "bytes:      %d\n", counter.BytesRead)
	fmt.Fprintf(w, "rows:       %d\n", result.Rows)
	fmt.Fprintf(w, "records:    %d\n", len(result.Records))
	fmt.Fprintf(w, "skipped:    %d\n", result.Skipped)
	fmt.Fprintf(w, "duplicates: %d\n", duplicates)

	for i, re := range result.RowErrors {
		if i >= c.Int("max-errors") {
			fmt.Fprintf(w, "... %d more rejected rows\n", len(result.RowErrors)-i)
			break
		}
		fmt.Fprintf(w, "line %d: %v\n", re.Line, re.Err)
	}

	if len(result.Records) == 0 {
		return errors.New("dataset contains no usable records")
	}
	if c.Bool("strict") && (len(result.RowErrors) > 0 || duplicates > 0) {
		return fmt.Errorf("dataset has %d rejected rows and %d duplicate codes", len(result.RowErrors), duplicates)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
