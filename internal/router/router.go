package router

import (
	"net/http"
	"time"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/config"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/handlers"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/session"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, manager *session.Manager) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	})
	router.Use(sessions.Sessions("neuroscreen", store))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers and routes
	screeningHandler := handlers.NewScreeningHandler(log, manager)
	reportHandler := handlers.NewReportHandler(log, manager)

	// Rate-limit the session-control endpoints only. The emotion endpoint
	// is driven per rendered frame; its load shedding is the sampler's
	// debounce and cap, not the HTTP layer.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 30,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api/session")
	{
		api.POST("/start", limiter, screeningHandler.Start)
		api.POST("/begin", limiter, screeningHandler.Begin)
		api.POST("/transcript", screeningHandler.Transcript)
		api.POST("/answer", screeningHandler.Answer)
		api.POST("/emotion", screeningHandler.Emotion)
		api.POST("/restart", limiter, screeningHandler.Restart)
		api.GET("", screeningHandler.Show)
		api.GET("/report", reportHandler.Show)
		api.GET("/report/chart", reportHandler.EmotionChart)
	}

	return router
}
