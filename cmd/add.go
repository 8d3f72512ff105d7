/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"syndicate/config"
	"syndicate/db"
	"syndicate/models"
	"syndicate/server"

	"github.com/cqroot/prompt"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add an item to a feed",
		ArgsUsage: "<feed id>",
		Description: `Stores a new item for a configured feed.

The title and link are asked for interactively when not given as flags.
The publication date is read according to the feed's date format and stored
as an absolute ISO-8601 date, e.g. "2024-01-02T15:04:05Z", "yesterday" or a
unix timestamp for feeds with date_format = "timestamp". Relative dates are
resolved when the item is added.`,
		Flags: append(dbFlags(),
			configFlag(),
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Item title"},
			&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "Item author"},
			&cli.StringFlag{Name: "link", Aliases: []string{"l"}, Usage: "Item link"},
			&cli.StringFlag{Name: "published", Value: "now", Usage: "Publication date"},
			&cli.StringFlag{Name: "description", Usage: "Item description, may contain HTML"},
			&cli.StringFlag{Name: "content", Usage: "Full item content, may contain HTML"},
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

			item := models.Item{
				FeedId:      feed.Id,
				Title:       ctx.String("title"),
				Author:      ctx.String("author"),
				Link:        ctx.String("link"),
				Published:   ctx.String("published"),
				Description: ctx.String("description"),
				Content:     ctx.String("content"),
			}

			if item.Title == "" {
				if item.Title, err = prompt.New().Ask("Title:").Input(""); err != nil {
					return err
				}
			}
			if item.Link == "" {
				if item.Link, err = prompt.New().Ask("Link:").Input("https://"); err != nil {
					return err
				}
			}

			if item.Published, err = server.NormalizePublished(feed, item.Published, time.Local, time.Now()); err != nil {
				return err
			}

			database, err := db.Open(ctx.Context, dbOptions(ctx))
			if err != nil {
				return err
			}
			defer database.Close()

			id, err := database.AddItem(ctx.Context, item)
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"feed": feed.Id,
				"id":   id,
			}).Info("Added item")
			return nil
		},
	}
}
