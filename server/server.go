package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"syndicate/config"
	"syndicate/feeds"
	"syndicate/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "syndicate_http_request_duration_seconds",
	Help:    "Latency of HTTP requests by route and status",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route", "status"})

type ServerConfig struct {

	// Feed definitions, reloaded in place when the config file changes
	Config *config.Store

	// Where items are read from and written to
	Items ItemStore

	// Cache for feeds with a positive TTL, nil disables caching
	Cache feeds.Cache

	// Allowed CORS origins, empty disables CORS
	AllowOrigins string
}

// Returns a fiber.App instance to be used as an HTTP server for the configured feeds
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		// Diff
		latency := time.Since(start)
		status := c.Response().StatusCode()
		requestDuration.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Observe(latency.Seconds())
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  status,
			"latency": latency,
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	if config.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: config.AllowOrigins,
			AllowMethods: "GET,HEAD,POST",
		}))
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Index page advertising every feed
	app.Get("/", func(c *fiber.Ctx) error {
		cfg := config.Config.Current()
		base := c.BaseURL()

		var sb strings.Builder
		sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
		for _, feed := range cfg.Feeds {
			for _, format := range []feeds.Format{feeds.FormatAtom, feeds.FormatRSS} {
				sb.WriteString(feeds.Link(base+"/feeds/"+feed.Id+"/"+string(format), format))
				sb.WriteString("\n")
			}
		}
		sb.WriteString("</head>\n<body>\n<ul>\n")
		for _, feed := range cfg.Feeds {
			title := feed.Title
			if title == "" {
				title = feed.Id
			}
			sb.WriteString("<li><a href=\"/feeds/" + html.EscapeString(feed.Id) + "\">" + html.EscapeString(title) + "</a></li>\n")
		}
		sb.WriteString("</ul>\n</body>\n</html>\n")

		c.Type("html", "utf-8")
		return c.SendString(sb.String())
	})

	renderFeed := func(c *fiber.Ctx) error {
		cfg := config.Config.Current()
		feed, ok := cfg.Feed(c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Unknown feed"})
		}

		format, ok := ParseFormat(c.Params("format"))
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid format"})
		}

		author := c.Query("author")
		b, err := LoadFeed(c.Context(), cfg, feed, config.Items, author, feeds.WithCache(config.Cache))
		if err != nil {
			log.WithFields(log.Fields{
				"feed":  feed.Id,
				"error": err,
			}).Error("Error loading feed")
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Error loading feed"})
		}

		res, err := b.Render(c.Context(), format, feed.CacheTTL, cacheKey(feed, format, author))
		if err != nil {
			log.WithFields(log.Fields{
				"feed":   feed.Id,
				"format": format,
				"error":  err,
			}).Error("Error rendering feed")
			if errors.Is(err, feeds.ErrCacheUnavailable) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: "Cache unavailable"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Error rendering feed"})
		}

		// Feeds configured for embedding still need a response of their own
		if res.Embedded() {
			c.Set(fiber.HeaderContentType, feedContentType(format)+"; charset="+b.Charset)
			return c.Status(fiber.StatusOK).SendString(res.Body)
		}

		for name, values := range res.Header {
			for _, value := range values {
				c.Set(name, value)
			}
		}
		return c.Status(res.Status).SendString(res.Body)
	}

	app.Get("/feeds/:id", renderFeed)
	app.Get("/feeds/:id/:format", renderFeed)

	app.Get("/feeds/:id/:format/embed", func(c *fiber.Ctx) error {
		cfg := config.Config.Current()
		feed, ok := cfg.Feed(c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Unknown feed"})
		}

		format, ok := ParseFormat(c.Params("format"))
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid format"})
		}

		b, err := LoadFeed(c.Context(), cfg, feed, config.Items, c.Query("author"))
		if err != nil {
			log.WithFields(log.Fields{
				"feed":  feed.Id,
				"error": err,
			}).Error("Error loading feed")
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Error loading feed"})
		}

		res, err := b.Render(c.Context(), format, -1, "")
		if err != nil {
			log.WithFields(log.Fields{
				"feed":  feed.Id,
				"error": err,
			}).Error("Error rendering feed")
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Error rendering feed"})
		}

		return c.JSON(models.EmbedResponse{
			Id:       feed.Id,
			Format:   string(format),
			Document: res.Body,
		})
	})

	app.Get("/feeds/:id/:format/cached", func(c *fiber.Ctx) error {
		cfg := config.Config.Current()
		feed, ok := cfg.Feed(c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Unknown feed"})
		}

		format, ok := ParseFormat(c.Params("format"))
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid format"})
		}

		key := cacheKey(feed, format, c.Query("author"))
		cached, err := feeds.New(feeds.WithCache(config.Cache)).IsCached(c.Context(), key)
		if err != nil {
			log.WithFields(log.Fields{
				"key":   key,
				"error": err,
			}).Error("Error checking cache")
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: "Cache unavailable"})
		}

		return c.JSON(models.CachedResponse{Key: key, Cached: cached})
	})

	app.Post("/feeds/:id/items", func(c *fiber.Ctx) error {
		cfg := config.Config.Current()
		feed, ok := cfg.Feed(c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Unknown feed"})
		}

		var item models.Item
		if err := c.BodyParser(&item); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid item"})
		}
		item.Id = 0
		item.FeedId = feed.Id

		published, err := NormalizePublished(feed, item.Published, time.Local, time.Now())
		if err != nil {
			if errors.Is(err, feeds.ErrInvalidDateFormat) {
				return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: err.Error()})
		}
		item.Published = published

		id, err := config.Items.AddItem(c.Context(), item)
		if err != nil {
			log.WithFields(log.Fields{
				"feed":  feed.Id,
				"error": err,
			}).Error("Error adding item")
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Error adding item"})
		}
		item.Id = id

		return c.Status(fiber.StatusCreated).JSON(item)
	})

	return app
}

func feedContentType(format feeds.Format) string {
	if format == feeds.FormatRSS {
		return feeds.ContentTypeRSS
	}
	return feeds.ContentTypeAtom
}
