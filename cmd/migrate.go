/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"syndicate/db"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run database migrations",
		Description: `Runs database migrations on the configured database. Will create the database if it does not exist.`,
		Flags:       dbFlags(),
		Action: func(ctx *cli.Context) error {
			opts := dbOptions(ctx)
			log.Infof("Database configured: %s", opts)
			return db.Migrate(opts)
		},
	}
}

func rollbackCmd() *cli.Command {
	return &cli.Command{
		Name:        "rollback",
		Usage:       "Rollback database migration",
		Description: `Rolls back the last database migration`,
		Flags:       dbFlags(),
		Action: func(ctx *cli.Context) error {
			opts := dbOptions(ctx)
			log.Infof("Database configured: %s", opts)
			return db.Rollback(opts)
		},
	}
}
