package server

import (
	"net/http"
	"os"
	"strings"

	"anoa.com/pagebuilder/internal/config"
	"anoa.com/pagebuilder/internal/middleware"
	groupHTTP "anoa.com/pagebuilder/internal/modules/group/delivery/http"
	groupRepo "anoa.com/pagebuilder/internal/modules/group/repository"
	groupService "anoa.com/pagebuilder/internal/modules/group/service"
	pageHTTP "anoa.com/pagebuilder/internal/modules/page/delivery/http"
	pageRepo "anoa.com/pagebuilder/internal/modules/page/repository"
	pageService "anoa.com/pagebuilder/internal/modules/page/service"
	templateHTTP "anoa.com/pagebuilder/internal/modules/template/delivery/http"
	templateRepo "anoa.com/pagebuilder/internal/modules/template/repository"
	templateService "anoa.com/pagebuilder/internal/modules/template/service"
	userHTTP "anoa.com/pagebuilder/internal/modules/user/delivery/http"
	userRepo "anoa.com/pagebuilder/internal/modules/user/repository"
	userService "anoa.com/pagebuilder/internal/modules/user/service"
	"anoa.com/pagebuilder/pkg/storage"
	"anoa.com/pagebuilder/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	router *gin.Engine
	cfg    *config.Config
}

// New wires every module by hand: repositories over the shared *gorm.DB,
// services over repositories, handlers over services.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store *storage.Store) *Server {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	tokens := token.NewIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, redisClient)

	users := userRepo.NewUserRepository(db)
	templates := templateRepo.NewTemplateRepository(db)
	pages := pageRepo.NewPageRepository(db)
	groups := groupRepo.NewGroupRepository(db)

	authSvc := userService.NewAuthService(users, tokens, cfg.GoogleOAuth(), cfg.FacebookOAuth())
	profileSvc := userService.NewProfileService(users, store)
	templateSvc := templateService.NewTemplateService(templates, store)
	pageSvc := pageService.NewPageService(pages, store)
	groupSvc := groupService.NewGroupService(groups, pages)

	authHandler := userHTTP.NewAuthHandler(authSvc)
	userHandler := userHTTP.NewUserHandler(profileSvc)
	templateHandler := templateHTTP.NewTemplateHandler(templateSvc)
	pageHandler := pageHTTP.NewPageHandler(pageSvc)
	groupHandler := groupHTTP.NewGroupHandler(groupSvc)

	auth := middleware.NewAuthMiddleware(users, cfg.JWTSecret)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/login/google", authHandler.GoogleLogin)
		authRoutes.GET("/google/callback", authHandler.GoogleCallback)
		authRoutes.GET("/login/facebook", authHandler.FacebookLogin)
		authRoutes.GET("/facebook/callback", authHandler.FacebookCallback)
		authRoutes.POST("/refresh", authHandler.Refresh)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	router.GET("/uploads/:filename", auth.RequireAuth(), serveUpload(store))

	api := router.Group("/api", auth.RequireAuth())
	{
		user := api.Group("/user")
		{
			user.GET("/me", userHandler.Me)
			user.PATCH("/me", userHandler.UpdateMe)
			user.DELETE("/me", userHandler.DeleteMe)
		}

		template := api.Group("/template")
		{
			template.POST("", templateHandler.Create)
			template.GET("/all", templateHandler.GetAll)
			template.GET("/all/min", templateHandler.GetAllMin)
			template.GET("/user/all", templateHandler.GetByUser)
			template.GET("/one/:templateId", templateHandler.GetOne)
			template.PATCH("/:templateId", templateHandler.Update)
			template.DELETE("/:templateId", templateHandler.Delete)
			template.DELETE("/user/all", templateHandler.DeleteByUser)
		}

		page := api.Group("/page")
		{
			page.POST("", pageHandler.Create)
			page.POST("/:pageId/addContents", pageHandler.AddContents)
			page.PATCH("/:pageId/contents", pageHandler.ReplaceContents)
			page.GET("/all", pageHandler.GetAll)
			page.GET("/all/min", pageHandler.GetAllMin)
			page.GET("/user/all", pageHandler.GetByUser)
			page.GET("/template/:templateId", pageHandler.GetByTemplate)
			page.GET("/template/:templateId/min", pageHandler.GetByTemplateMin)
			page.GET("/one/:pageId", pageHandler.GetOne)
			page.GET("/:pageId/getContents", pageHandler.GetContents)
			page.PATCH("/:pageId", pageHandler.Update)
			page.DELETE("/:pageId", pageHandler.Delete)
			page.DELETE("/user/all", pageHandler.DeleteByUser)
		}

		group := api.Group("/group")
		{
			group.POST("/empty", groupHandler.CreateEmpty)
			group.POST("", groupHandler.Create)
			group.GET("/user/all", groupHandler.GetByUser)
			group.GET("/one/:groupId", groupHandler.GetOne)
			group.GET("/one/:groupId/min", groupHandler.GetOneMin)
			group.PATCH("/:groupId", groupHandler.Rename)
			group.PATCH("/:groupId/addPages", groupHandler.AddPages)
			group.PATCH("/:groupId/removePages", groupHandler.RemovePages)
			group.DELETE("/:groupId", groupHandler.Delete)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Could not find provided route"})
	})

	return &Server{router: router, cfg: cfg}
}

func (s *Server) Run() error {
	return s.router.Run(":" + s.cfg.Port)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// serveUpload streams a stored file. Names are reduced to their basename so
// the path cannot escape the upload root.
func serveUpload(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := store.Resolve(c.Param("filename"))
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
			return
		}
		c.File(path)
	}
}
