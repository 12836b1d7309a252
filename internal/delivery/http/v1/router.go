package v1

import (
	"net/http"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	public := r.Group("")

	// Health Check
	public.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational")
	})

	rateLimit := middleware.RateLimitMiddleware(
		middleware.ContactRateLimitConfig(deps.Config.RateLimitMax, deps.Config.RateLimitWindow),
	)

	NewContactHandler(public, deps.ContactUC, rateLimit)
	NewResumeHandler(public, deps.Config.ResumePath)

	return r
}
