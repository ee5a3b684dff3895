package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/timmy/mygomeme/internal/api/handler"
	"github.com/timmy/mygomeme/internal/api/middleware"
	"github.com/timmy/mygomeme/internal/catalog"
	"github.com/timmy/mygomeme/internal/logger"
	"github.com/timmy/mygomeme/internal/metrics"
)

// RouterConfig holds the HTTP surface settings.
type RouterConfig struct {
	Mode        string // debug, release, test
	StaticDir   string // empty disables static serving
	CORS        middleware.CORSConfig
	MetricsPath string // empty disables /metrics
}

// Dependencies are the services the handlers read from.
type Dependencies struct {
	Store    *catalog.Store
	Selector handler.MemeSelector
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps Dependencies, cfg RouterConfig) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	log := deps.Logger
	if log == nil {
		log = logger.GetDefault()
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log, deps.Metrics))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler(deps.Store)
	chatHandler := handler.NewChatHandler(deps.Store, deps.Selector, deps.Metrics)
	memeHandler := handler.NewMemeHandler(deps.Store, deps.Metrics)

	r.GET("/health", healthHandler.Health)

	if cfg.MetricsPath != "" && deps.Metrics != nil {
		r.GET(cfg.MetricsPath, gin.WrapH(deps.Metrics.Handler()))
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/chat", chatHandler.Chat)
		apiGroup.GET("/meme", memeHandler.Lookup)
	}

	r.NoRoute(staticHandler(cfg.StaticDir))

	return r
}

// staticHandler serves files from dir for GET and HEAD requests outside /api.
func staticHandler(dir string) gin.HandlerFunc {
	var files http.Handler
	if dir != "" {
		files = http.FileServer(gin.Dir(dir, false))
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		if files == nil || strings.HasPrefix(c.Request.URL.Path, "/api/") ||
			(method != http.MethodGet && method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}
