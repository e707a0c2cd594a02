package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gamify-hexad/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
// gatherer puede ser nil; en ese caso /metrics usa el registry por defecto.
// Sin allowedOrigins no se habilita CORS.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	hexadH *HexadHandler,
	gatherer prometheus.Gatherer,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging y recovery. El front del curso llama desde el navegador.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())
	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", jsonContentTypeMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	hexad := r.Group("/hexad", jsonContentTypeMiddleware())
	hexad.GET("/questions", hexadH.GetQuestions)

	authed := hexad.Group("", JWTAuthMiddleware(jwtSvc))
	authed.POST("/answers", hexadH.SubmitAnswers)
	authed.POST("/suggestion", hexadH.Recompute)
	authed.GET("/profile", hexadH.GetProfile)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
