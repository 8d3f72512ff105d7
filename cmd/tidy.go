/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"time"

	"syndicate/db"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func tidyCmd() *cli.Command {
	return &cli.Command{
		Name:  "tidy",
		Usage: "Tidy up the database",
		Description: `Tidy up the database by removing expired cache entries and old items.

		Items older than the retention period are removed to keep the database
		size down. A retention of 0 keeps all items.`,
		Flags: append(dbFlags(),
			&cli.DurationFlag{
				Name:    "retention",
				Usage:   "Remove items stored longer ago than this",
				EnvVars: []string{"SYNDICATE_RETENTION"},
				Value:   90 * 24 * time.Hour,
			},
		),
		Action: func(ctx *cli.Context) error {
			opts := dbOptions(ctx)
			log.Infof("Database configured: %s", opts)

			database, err := db.Open(ctx.Context, opts)
			if err != nil {
				return err
			}
			defer database.Close()

			return database.Tidy(ctx.Context, ctx.Duration("retention"))
		},
	}
}
