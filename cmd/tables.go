package cmd

import (
	"fmt"
	"strconv"

	db "github.com/KazanKK/localdump/database"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

func TablesCommand() *cli.Command {
	return &cli.Command{
		Name:  "tables",
		Usage: "Show the configured tables and how many rows each would export",
		Flags: sourceFlags(),
		Action: func(c *cli.Context) error {
			config, err := resolveConfig(c)
			if err != nil {
				return err
			}

			source, err := db.Connect(config.Database, newLogger(c))
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer source.Close()

			if len(config.Tables) == 0 {
				fmt.Fprintln(c.App.Writer, "No tables configured.")
				return nil
			}

			table := tablewriter.NewWriter(c.App.Writer)
			table.SetHeader([]string{"Table", "Status", "Rows"})
			table.SetBorder(false)
			table.SetColumnSeparator(" ")

			for _, name := range config.Tables {
				status, rows := tableStatus(source, name)
				table.Append([]string{name, status.String(), rows})
			}

			table.Render()
			return nil
		},
	}
}

func tableStatus(source db.SourceReader, name string) (db.TableStatus, string) {
	count, err := source.CountRows(name)
	switch {
	case err != nil:
		return db.TableSkipped, "-"
	case count == 0:
		return db.TableEmpty, "0"
	default:
		return db.TableLoaded, strconv.FormatInt(count, 10)
	}
}
