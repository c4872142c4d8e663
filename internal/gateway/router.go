package gateway

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/auth"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/orchestration"
)

// NewRouter wires every route. Health checks stay at the root; the API lives
// under /api. A nil jwtManager leaves the dialogue routes open.
func NewRouter(service *orchestration.Service, jwtManager *auth.JWTManager, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := NewHandler(service, jwtManager, logger)
	socket := NewDialogueSocket(service, logger)

	router := gin.New()
	router.Use(gin.Recovery(), CORS(), RequestLogger(logger))

	router.GET("/health", handler.Health)
	router.GET("/ready", handler.Ready)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.POST("/auth/login", handler.Login)
	api.GET("/health", handler.Health)

	protected := api.Group("")
	protected.Use(auth.RequireAuth(jwtManager, logger))

	protected.POST("/specifications", handler.StartSpecification)
	protected.POST("/specifications/answer", handler.SubmitAnswer)
	protected.GET("/specifications/:id", handler.GetSpecification)
	protected.GET("/ws/specifications", socket.Serve)

	return router
}
