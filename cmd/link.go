/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"syndicate/feeds"

	"github.com/urfave/cli/v2"
)

func linkCmd() *cli.Command {
	return &cli.Command{
		Name:      "link",
		Usage:     "Print an HTML alternate link tag for a feed URL",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Feed format: atom or rss, empty means atom",
			},
		},
		Action: func(ctx *cli.Context) error {
			url := ctx.Args().First()
			if url == "" {
				return errors.New("please specify a feed url")
			}

			fmt.Fprintln(ctx.App.Writer, feeds.Link(url, feeds.Format(ctx.String("format"))))
			return nil
		},
	}
}
