package cmd

import (
	"fmt"
	"os"

	utils "github.com/KazanKK/localdump/internal/utils"
	"github.com/urfave/cli/v2"
)

func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a localdump.yaml with the default settings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "database",
				Usage: "Source database to store in the config",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Output file to store in the config",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing localdump.yaml",
			},
		},
		Action: func(c *cli.Context) error {
			if _, err := os.Stat(utils.ConfigFileName); err == nil && !c.Bool("force") {
				return fmt.Errorf("%s already exists (use --force to overwrite)", utils.ConfigFileName)
			}

			config := utils.DefaultConfig()
			if c.IsSet("database") {
				config.Database = c.String("database")
			}
			if c.IsSet("output") {
				config.Output = c.String("output")
			}

			if err := utils.WriteConfig(utils.ConfigFileName, config); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "Created %s with %d tables\n", utils.ConfigFileName, len(config.Tables))
			return nil
		},
	}
}
