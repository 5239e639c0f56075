// Command nacectl queries a NACEBEL dataset from the command line, using the
// same sources, parser and query engine as the HTTP server.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/JonMunkholm/nacebel/internal/config"
	"github.com/JonMunkholm/nacebel/internal/logging"
	"github.com/JonMunkholm/nacebel/internal/nace"
	"github.com/JonMunkholm/nacebel/internal/query"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(describeError(err))
	}
}

// describeError prints mapped failures with their support code and action.
func describeError(err error) string {
	if nace.IsUserFacing(err) {
		return nace.FormatUserError(err)
	}
	return err.Error()
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "nacectl",
		Usage: "Inspect, search and export the NACEBEL 2025 classification",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "source",
				Usage:   "Dataset source: http, file, s3 or postgres",
				EnvVars: []string{"DATASET_SOURCE"},
			},
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Dataset URL for the http source",
				EnvVars: []string{"DATASET_URL"},
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read the dataset from a local file (- for stdin); implies --source file",
			},
			&cli.StringFlag{
				Name:  "s3-bucket",
				Usage: "Bucket for the s3 source",
			},
			&cli.StringFlag{
				Name:  "s3-key",
				Usage: "Object key for the s3 source",
			},
			&cli.StringFlag{
				Name:  "pg-url",
				Usage: "Connection string for the postgres source",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Maximum time to load the dataset",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List codes in dataset order",
				Action:    listCommand,
				Flags:     pageFlags(),
				ArgsUsage: " ",
			},
			{
				Name:      "search",
				Usage:     "Search codes and titles; every word must match",
				Action:    searchCommand,
				Flags:     pageFlags(),
				ArgsUsage: "QUERY...",
			},
			{
				Name:      "show",
				Usage:     "Show one code and its direct children",
				Action:    showCommand,
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print the API JSON"},
				},
			},
			{
				Name:   "export",
				Usage:  "Write one CSV file per language",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output directory",
						Value:   ".",
					},
					&cli.StringSliceFlag{
						Name:  "lang",
						Usage: "Languages to export (en, de, fr, nl)",
						Value: cli.NewStringSlice("en", "de", "fr", "nl"),
					},
					&cli.StringFlag{Name: "q", Usage: "Only export codes matching this search"},
					&cli.IntFlag{Name: "level", Usage: "Only export codes at this level or deeper (2-5)"},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Files written concurrently",
						Value: 4,
					},
				},
			},
			{
				Name:   "validate",
				Usage:  "Parse the dataset and report rejected rows and duplicates",
				Action: validateCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-errors",
						Usage: "Rejected rows to print",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Fail when any row was rejected or any code is duplicated",
					},
				},
			},
		},
	}
}

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "Page number"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: query.DefaultLimit, Usage: "Codes per page (max 500)"},
		&cli.IntFlag{Name: "level", Usage: "Only codes at this level or deeper (2-5)"},
		&cli.StringFlag{Name: "lang", Value: "en", Usage: "Title language (en, de, fr, nl)"},
		&cli.BoolFlag{Name: "json", Usage: "Print the API JSON"},
	}
}

// setup loads .env without overriding the environment and sends logs to stderr.
func setup(c *cli.Context) error {
	_ = godotenv.Load()

	level := strings.ToLower(c.String("log-level"))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", level)
	}
	logging.SetupWriter(c.App.ErrWriter, level, "text")
	return nil
}

// datasetConfig starts from the environment and applies the global flags.
func datasetConfig(c *cli.Context) (config.DatasetConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.DatasetConfig{}, err
	}
	d := cfg.Dataset

	if c.IsSet("source") {
		d.Source = c.String("source")
	}
	if c.IsSet("url") {
		d.URL = c.String("url")
	}
	if c.IsSet("file") {
		d.Source = config.SourceFile
		d.File = c.String("file")
	}
	if c.IsSet("s3-bucket") {
		d.S3Bucket = c.String("s3-bucket")
	}
	if c.IsSet("s3-key") {
		d.S3Key = c.String("s3-key")
	}
	if c.IsSet("pg-url") {
		d.PGURL = c.String("pg-url")
	}
	if c.IsSet("timeout") {
		d.LoadTimeout = c.Duration("timeout")
	}
	return d, nil
}
