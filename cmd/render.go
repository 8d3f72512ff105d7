/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"syndicate/config"
	"syndicate/db"
	"syndicate/server"

	"github.com/urfave/cli/v2"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Print a feed document",
		ArgsUsage: "<feed id>",
		Description: `Renders a configured feed and prints the bare document to stdout.

The cache is never consulted, so the output always reflects the stored items.`,
		Flags: append(dbFlags(),
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "atom",
				Usage:   "Feed format: atom or rss",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "Only include items by this author",
			},
		),
		Action: func(ctx *cli.Context) error {
			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return err
			}

			feed, ok := cfg.Feed(ctx.Args().First())
			if !ok {
				return fmt.Errorf("unknown feed %q", ctx.Args().First())
			}

			format, ok := server.ParseFormat(ctx.String("format"))
			if !ok {
				return fmt.Errorf("unknown format %q", ctx.String("format"))
			}

			database, err := db.Open(ctx.Context, dbOptions(ctx))
			if err != nil {
				return err
			}
			defer database.Close()

			b, err := server.LoadFeed(ctx.Context, cfg, feed, database, ctx.String("author"))
			if err != nil {
				return err
			}

			res, err := b.Render(ctx.Context, format, -1, "")
			if err != nil {
				return err
			}

			fmt.Fprintln(ctx.App.Writer, res.Body)
			return nil
		},
	}
}
