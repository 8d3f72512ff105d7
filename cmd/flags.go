/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"syndicate/db"

	"github.com/urfave/cli/v2"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config/feeds.toml",
		Usage:   "Path to feeds configuration file (TOML or YAML)",
		EnvVars: []string{"SYNDICATE_CONFIG"},
	}
}

// Flags shared by every command that touches the database
func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "driver",
			Usage:   "Database driver, sqlite or postgres",
			EnvVars: []string{"SYNDICATE_DRIVER"},
			Value:   db.DriverSQLite,
		},
		&cli.StringFlag{
			Name:    "database",
			Aliases: []string{"d"},
			Value:   "feed.db",
			Usage:   "SQLite database file location",
			EnvVars: []string{"SYNDICATE_DATABASE"},
		},
		&cli.StringFlag{
			Name:    "db-host",
			Usage:   "PostgreSQL host",
			EnvVars: []string{"SYNDICATE_DB_HOST"},
			Value:   "localhost",
		},
		&cli.IntFlag{
			Name:    "db-port",
			Usage:   "PostgreSQL port",
			EnvVars: []string{"SYNDICATE_DB_PORT"},
			Value:   5432,
		},
		&cli.StringFlag{
			Name:    "db-user",
			Usage:   "PostgreSQL user",
			EnvVars: []string{"SYNDICATE_DB_USER"},
			Value:   "syndicate",
		},
		&cli.StringFlag{
			Name:    "db-password",
			Usage:   "PostgreSQL password",
			EnvVars: []string{"SYNDICATE_DB_PASSWORD"},
			Value:   "syndicate",
		},
		&cli.StringFlag{
			Name:    "db-name",
			Usage:   "PostgreSQL database name",
			EnvVars: []string{"SYNDICATE_DB_NAME"},
			Value:   "syndicate",
		},
	}
}

func dbOptions(ctx *cli.Context) db.Options {
	return db.Options{
		Driver:   ctx.String("driver"),
		Path:     ctx.String("database"),
		Host:     ctx.String("db-host"),
		Port:     ctx.Int("db-port"),
		User:     ctx.String("db-user"),
		Password: ctx.String("db-password"),
		Name:     ctx.String("db-name"),
	}
}
