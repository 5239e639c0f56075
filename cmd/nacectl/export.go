package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	"github.com/JonMunkholm/nacebel/internal/nace"
	"github.com/JonMunkholm/nacebel/internal/query"
)

// exportCommand ranks the dataset once and writes the result in every
// requested language on a bounded worker pool.
func exportCommand(c *cli.Context) error {
	var langs []nace.Language
	for _, raw := range c.StringSlice("lang") {
		lang, err := parseLang(raw)
		if err != nil {
			return err
		}
		langs = append(langs, lang)
	}

	minLevel := c.Int("level")
	if minLevel != 0 && !nace.ValidLevel(minLevel) {
		return &nace.ValidationError{Param: "level", Message: nace.MsgInvalidLevel}
	}

	outDir := c.String("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.engine.Ranked(c.Context, c.String("q"), minLevel)
	if err != nil {
		return err
	}

	pool, err := ants.NewPool(max(c.Int("workers"), 1))
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for _, lang := range langs {
		path := filepath.Join(outDir, query.ExportFilename(lang))
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := writeExport(path, records, lang); err != nil {
				fail(err)
				return
			}
			mu.Lock()
			fmt.Fprintf(c.App.Writer, "%s\t%d codes\n", path, len(records))
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submit %s export: %w", lang, err))
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

func writeExport(path string, records []*nace.Record, lang nace.Language) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := query.WriteCSV(f, records, lang); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
