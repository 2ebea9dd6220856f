package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	accounthttp "github.com/hooked-app/hooked-backend/internal/accounts/http"
	accountrepo "github.com/hooked-app/hooked-backend/internal/accounts/repository"
	accountsvc "github.com/hooked-app/hooked-backend/internal/accounts/service"
	httpapi "github.com/hooked-app/hooked-backend/internal/api/http"
	"github.com/hooked-app/hooked-backend/internal/auth/middleware"
	"github.com/hooked-app/hooked-backend/internal/cleanup"
	"github.com/hooked-app/hooked-backend/internal/logging"
	"github.com/hooked-app/hooked-backend/internal/media"
	projecthttp "github.com/hooked-app/hooked-backend/internal/projects/http"
	projectrepo "github.com/hooked-app/hooked-backend/internal/projects/repository"
	projectsvc "github.com/hooked-app/hooked-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	UIOrigin    string

	JWTSecret       string
	LoginRatePerMin int
	LoginBurst      int

	Client *mongo.Client
	DB     *mongo.Database
	Media  media.Store
	Logger logging.Logger
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{dep.UIOrigin},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Client)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	accountRepo := accountrepo.NewAccountRepository(dep.DB)
	accountService, err := accountsvc.NewAccountService(accountRepo, accountsvc.Options{
		JWTSecret:       dep.JWTSecret,
		LoginRatePerMin: dep.LoginRatePerMin,
		LoginBurst:      dep.LoginBurst,
	}, dep.Logger)
	if err != nil {
		return nil, err
	}
	accounthttp.NewHandler(accountService).Register(api)

	orphanRepo := cleanup.NewOrphanRepository(dep.DB)
	projectRepo := projectrepo.NewProjectRepository(dep.DB)
	projectService := projectsvc.NewProjectService(projectRepo, dep.Media, orphanRepo, dep.Logger)

	// Everything project-shaped requires a session token.
	protected := api.Group("", middleware.JWTAuthMiddleware([]byte(dep.JWTSecret)))

	projectsGroup := protected.Group("/projects")
	statsGroup := protected.Group("/stats")
	imagesGroup := protected.Group("/images")
	projecthttp.NewHandler(projectService).Register(projectsGroup, statsGroup, imagesGroup)

	return r, nil
}
