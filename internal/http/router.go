// Package httpapi wires the HTTP transport (Gin) to the product and user
// services, middleware, and the global error translator.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. Gzip: wraps the writer before anything below it writes
//  3. RequestID: generate/propagate correlation id
//  4. Logger: structured access log + request-scoped logger
//  5. Metrics: outside Recovery so recovered panics are still counted
//  6. Recovery: panics and untranslated errors become JSON 500
//  7. Error translator: renders errors attached with c.Error
//  8. Security headers: inside the translator so failures get no-store
//  9. Rate limiter (per client IP)
//  10. CORS
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-handle-exception/docs"
	"github.com/tbourn/go-handle-exception/internal/config"
	"github.com/tbourn/go-handle-exception/internal/domain"
	"github.com/tbourn/go-handle-exception/internal/http/advice"
	"github.com/tbourn/go-handle-exception/internal/http/handlers"
	"github.com/tbourn/go-handle-exception/internal/http/middleware"
	"github.com/tbourn/go-handle-exception/internal/services"
)

// Execution-time signatures for the decorated endpoints.
const (
	sigGetProduct = "Handlers.GetProduct"
	sigGetUser    = "Handlers.GetUser"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
func RegisterRoutes(r *gin.Engine, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(advice.New(advice.Options{NumberFormatStatus: cfg.NumberFormatStatus}).Middleware())

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:    cfg.Security.EnableHSTS,
		HSTSMaxAge:    cfg.Security.HSTSMaxAge,
		NoStoreErrors: true,
		EnablePolicy:  true,
	}))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	useCORS(r, cfg.CORS)

	// Fallbacks go through the translator like every other failure.
	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(domain.NewRestAPIError(domain.ResourceNotFound))
		c.Abort()
	})
	r.NoMethod(func(c *gin.Context) {
		_ = c.Error(domain.NewRestAPIError(domain.MethodNotAllowed))
		c.Abort()
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(services.NewProductService(), services.NewUserService())

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/product/:id", middleware.ExecutionTime(sigGetProduct, h.GetProduct))
		api.GET("/users/:id", middleware.ExecutionTime(sigGetUser, h.GetUser))
	}
}

// useCORS installs gin-contrib/cors. With no allowlist every origin is
// accepted and ACAO is forced to "*"; otherwise allowed origins are echoed.
func useCORS(r *gin.Engine, c config.CORSConfig) {
	base := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Length", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(c.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		base.AllowAllOrigins = true
		r.Use(cors.New(base))
		return
	}

	allowed := make(map[string]struct{}, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	})
	base.AllowOrigins = c.AllowedOrigins
	r.Use(cors.New(base))
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
