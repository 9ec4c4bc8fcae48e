// Package gin serves the carlytics web dashboard and its JSON API.
package gin

import (
	_ "embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

//go:embed index.html
var indexHTML []byte

// Config configures the HTTP engine.
type Config struct {
	// Origins allowed by CORS. CORS is disabled when empty.
	Origins []string

	// Logger receives one line per request. Nil disables request logging.
	Logger *slog.Logger
}

// New returns the dashboard engine with the API routes of h registered.
func New(h *Handler, cfg Config) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Logger != nil {
		router.Use(requestLogger(cfg.Logger))
	}

	if len(cfg.Origins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = cfg.Origins
		config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
		config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
		config.ExposeHeaders = []string{"Content-Disposition"}
		router.Use(cors.New(config))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
	})

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})

	h.RegisterRoutes(router.Group("/api"))

	return router
}

// requestLogger logs one line per request in the style of the slog
// decorators.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		logger.Info("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		)
	}
}
