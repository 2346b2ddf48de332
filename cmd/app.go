package cmd

import (
	"fmt"

	utils "github.com/KazanKK/localdump/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// App builds the localdump command line application. Run without a command
// it performs the export.
func App() *cli.App {
	return &cli.App{
		Name:  "localdump",
		Usage: "Dump local database tables as INSERT IGNORE statements for a remote database",
		Flags: append(globalFlags(), exportFlags()...),
		Commands: []*cli.Command{
			InitCommand(),
			ExportCommand(),
			TablesCommand(),
		},
		Action: runExport,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to a config file (defaults to localdump.yaml in this or a parent directory)",
			EnvVars: []string{"LOCALDUMP_CONFIG"},
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log every query and table",
		},
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "database",
			Usage:   "Source database: a SQLite file path, postgres://... or mysql://...",
			EnvVars: []string{"LOCALDUMP_DATABASE"},
		},
		&cli.StringSliceFlag{
			Name:    "table",
			Usage:   "Table to export, repeat to export several (replaces the configured list)",
			EnvVars: []string{"LOCALDUMP_TABLES"},
		},
	}
}

func exportFlags() []cli.Flag {
	return append(sourceFlags(),
		&cli.StringFlag{
			Name:    "output",
			Usage:   "Output SQL file, overwritten on every run (.zst compresses it)",
			EnvVars: []string{"LOCALDUMP_OUTPUT"},
		},
		&cli.BoolFlag{
			Name:  "no-backslash-escapes",
			Usage: "Do not double backslashes in text values (for NO_BACKSLASH_ESCAPES destinations)",
		},
		&cli.StringFlag{
			Name:    "timezone",
			Usage:   "Convert datetime values to this IANA timezone before writing them (e.g. UTC)",
			EnvVars: []string{"LOCALDUMP_TIMEZONE"},
		},
	)
}

// resolveConfig loads the config file and applies flags and environment
// variables on top of it
func resolveConfig(c *cli.Context) (utils.Config, error) {
	config, err := utils.LoadConfig(c.String("config"))
	if err != nil {
		return config, err
	}

	if c.IsSet("database") {
		config.Database = c.String("database")
	}
	if c.IsSet("output") {
		config.Output = c.String("output")
	}
	if c.IsSet("table") {
		config.Tables = c.StringSlice("table")
	}
	if c.IsSet("no-backslash-escapes") {
		config.NoBackslashEscapes = c.Bool("no-backslash-escapes")
	}
	if c.IsSet("timezone") {
		config.Timezone = c.String("timezone")
	}

	if config.Database == "" {
		return config, fmt.Errorf("no source database configured")
	}
	return config, nil
}

func newLogger(c *cli.Context) *logrus.Logger {
	return utils.NewLogger(c.App.ErrWriter, c.Bool("verbose"))
}
