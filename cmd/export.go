package cmd

import (
	"fmt"

	db "github.com/KazanKK/localdump/database"
	"github.com/KazanKK/localdump/dump"

	"github.com/urfave/cli/v2"
)

func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:   "export",
		Usage:  "Export the configured tables to a SQL file (the default command)",
		Flags:  exportFlags(),
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	config, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if config.Output == "" {
		return fmt.Errorf("no output file configured")
	}

	loc, err := config.Location()
	if err != nil {
		return err
	}

	log := newLogger(c)
	if config.Path != "" {
		log.Debugf("Using config file %s", config.Path)
	}

	source, err := db.Connect(config.Database, log)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer source.Close()

	out, err := dump.Create(config.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	summary, err := dump.Export(source, out, config.Tables, dump.Options{
		Escaper: &dump.Escaper{NoBackslashEscapes: config.NoBackslashEscapes, Location: loc},
		Log:     log,
	})
	if err != nil {
		return fmt.Errorf("exporting data: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	log.WithField("skipped", summary.Skipped()).Debugf("Exported %d rows from %d tables (%d empty, %d skipped)",
		summary.Rows, summary.Count(db.TableLoaded), summary.Count(db.TableEmpty), summary.Count(db.TableSkipped))
	fmt.Fprintf(c.App.Writer, "Dumped to %s\n", config.Output)
	return nil
}
