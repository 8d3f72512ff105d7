/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "syndicate",
		Usage: "Publish stored items as Atom and RSS feeds",
		Description: `Syndicate serves Atom 1.0 and RSS 2.0 feeds for items stored in
		SQLite or PostgreSQL.

		Feeds are defined in a TOML or YAML configuration file. Each feed can be
		served fresh, cached for a fixed time or rendered bare for embedding
		in another response.

		Flags can generally be set via environment variables, e.g.:

		--database => SYNDICATE_DATABASE=feed.db
		--port => SYNDICATE_PORT=3000
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: trace, debug, info, warn, error",
				EnvVars: []string{"SYNDICATE_LOG_LEVEL"},
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format: text or json",
				EnvVars: []string{"SYNDICATE_LOG_FORMAT"},
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "Write logs to a rotated file instead of stderr",
				EnvVars: []string{"SYNDICATE_LOG_FILE"},
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			addCmd(),
			renderCmd(),
			linkCmd(),
			tidyCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func setupLogging(ctx *cli.Context) error {
	level, err := log.ParseLevel(ctx.String("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(level)

	switch ctx.String("log-format") {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", ctx.String("log-format"))
	}

	var out io.Writer = os.Stderr
	if file := ctx.String("log-file"); file != "" {
		out = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}
	log.SetOutput(out)

	return nil
}
