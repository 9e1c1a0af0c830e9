package v1

import (
	"net/http"
	"time"

	"go-candidate-scout/config"
	"go-candidate-scout/internal/delivery/http/middleware"
	"go-candidate-scout/internal/delivery/http/response"
	"go-candidate-scout/internal/domain"
	"go-candidate-scout/internal/usecase"
	"go-candidate-scout/pkg/auth"
	"go-candidate-scout/pkg/imaging"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AcquisitionUC domain.AcquisitionUsecase
	SavedUC       domain.SavedCandidateUsecase
	HealthUC      usecase.HealthUsecase
	Avatars       *imaging.Prober
	JWKSProvider  *auth.Provider
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		status := deps.HealthUC.Check(c.Request.Context())
		if status["status"] != "ok" {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Scoped routes
	scoped := v1.Group("")
	scoped.Use(middleware.AuthMiddleware(deps.Config.AuthJWTSecret, deps.JWKSProvider))
	{
		candidates := scoped.Group("")
		candidates.Use(middleware.RateLimitMiddleware(middleware.CandidateRateLimitConfig(
			deps.Config.RateLimitThreshold,
			time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
		)))
		NewCandidateHandler(candidates, deps.AcquisitionUC)
		NewSavedHandler(scoped, deps.SavedUC, deps.Avatars)
	}

	return r
}
