/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"syndicate/cache"
	"syndicate/config"
	"syndicate/db"
	"syndicate/feeds"
	"syndicate/server"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the configured feeds",
		Description: `Starts the syndicate HTTP server.

Runs pending database migrations and serves every feed in the configuration
file as Atom and RSS. Feeds with a positive cache_ttl are kept in the selected
cache until they expire.`,
		Flags: append(dbFlags(),
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   3000,
				Usage:   "Port to listen on",
				EnvVars: []string{"SYNDICATE_PORT"},
			},
			&cli.StringFlag{
				Name:    "cache",
				Value:   "memory",
				Usage:   "Feed cache: memory, database or none",
				EnvVars: []string{"SYNDICATE_CACHE"},
			},
			&cli.IntFlag{
				Name:    "cache-size",
				Value:   1000,
				Usage:   "Max number of documents kept by the memory cache",
				EnvVars: []string{"SYNDICATE_CACHE_SIZE"},
			},
			&cli.BoolFlag{
				Name:    "watch",
				Usage:   "Reload the configuration file when it changes",
				EnvVars: []string{"SYNDICATE_WATCH"},
			},
			&cli.StringFlag{
				Name:    "allow-origins",
				Usage:   "Comma separated list of CORS origins, empty disables CORS",
				EnvVars: []string{"SYNDICATE_ALLOW_ORIGINS"},
			},
		),
		Action: func(ctx *cli.Context) error {
			opts := dbOptions(ctx)
			log.Infof("Database configured: %s", opts)

			store, err := config.NewStore(ctx.String("config"))
			if err != nil {
				return err
			}

			if err := db.Migrate(opts); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			database, err := db.Open(ctx.Context, opts)
			if err != nil {
				return err
			}
			defer database.Close()

			feedCache, err := newCache(ctx.String("cache"), ctx.Int("cache-size"), database)
			if err != nil {
				return err
			}
			if err := checkCache(store.Current(), feedCache); err != nil {
				return err
			}

			signalCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if ctx.Bool("watch") {
				go func() {
					if err := store.Watch(signalCtx); err != nil {
						log.WithError(err).Error("Config watcher stopped")
					}
				}()
			}

			app := server.Server(&server.ServerConfig{
				Config:       store,
				Items:        database,
				Cache:        feedCache,
				AllowOrigins: ctx.String("allow-origins"),
			})

			errs := make(chan error, 1)
			go func() {
				log.Infof("Starting server on port %d", ctx.Int("port"))
				errs <- app.Listen(fmt.Sprintf(":%d", ctx.Int("port")))
			}()

			select {
			case err := <-errs:
				return err
			case <-signalCtx.Done():
			}

			log.Info("Gracefully shutting down...")
			if err := app.ShutdownWithTimeout(60 * time.Second); err != nil {
				return err
			}
			log.Info("Done!")
			return nil
		},
	}
}

func newCache(kind string, size int, database *db.DB) (feeds.Cache, error) {
	switch kind {
	case "memory":
		return cache.NewMemory(size)
	case "database":
		return db.NewCacheStore(database), nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown cache %q", kind)
}

// checkCache refuses to start without a cache when a feed needs one, since
// every request for such a feed would fail
func checkCache(cfg *config.Config, feedCache feeds.Cache) error {
	if feedCache != nil {
		return nil
	}

	cached := lo.FilterMap(cfg.Feeds, func(feed config.FeedConfig, _ int) (string, bool) {
		return feed.Id, feed.CacheTTL > 0
	})
	if len(cached) > 0 {
		return fmt.Errorf("feeds %s have a positive cache_ttl but --cache is none", strings.Join(cached, ", "))
	}
	return nil
}
