// Package routing wires the HTTP surface of the server.
package routing

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookstore-server/internal/auth"
	"bookstore-server/internal/config"
	"bookstore-server/internal/managers"
	"bookstore-server/internal/middleware"
	"bookstore-server/internal/routing/handlers"
	"bookstore-server/internal/schemas"
	"bookstore-server/internal/utils"
)

// Managers bundles everything the routes depend on.
type Managers struct {
	DatabaseMgr managers.DatabaseMgr
	JWTMgr      managers.JWTMgr
	MailMgr     managers.MailMgr
	SessionMgr  managers.SessionMgr
	BasketMgr   managers.BasketMgr
}

func InitRouter(cfg *config.Config, mgrs Managers) *gin.Engine {
	router := gin.New()
	setupCommonMiddleware(router)
	setupRoutes(router, cfg, mgrs)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:  []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept, Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id", "X-Basket-Items"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
	router.Use(middleware.TrackMetrics())
}

func setupRoutes(router *gin.Engine, cfg *config.Config, mgrs Managers) {
	// Version route
	router.GET("/", func(c *gin.Context) {
		apiVersion := os.Getenv("RELEASE_TAG")
		if apiVersion == "" {
			apiVersion = "main:latest"
		}
		metadata := &schemas.MetadataDTO{
			ApiVersion: apiVersion,
			ApiName:    "Bookstore Server",
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Health route
	router.GET("/health", func(c *gin.Context) {
		conn, err := mgrs.DatabaseMgr.GetPool().Acquire(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		defer conn.Release()
		c.Status(http.StatusOK)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes. Every /api route renders with the session basket loaded.
	apiRouter := router.Group("/api")
	apiRouter.Use(middleware.InjectBasket(mgrs.BasketMgr))
	{
		userRouter := apiRouter.Group("/users")
		userHdl := handlers.NewUserHandler(cfg, mgrs.DatabaseMgr, mgrs.JWTMgr, mgrs.MailMgr, mgrs.SessionMgr)
		userRoutes(userRouter, userHdl, mgrs)

		storeRouter := apiRouter.Group("/store")
		storeHdl := handlers.NewStoreHandler(mgrs.DatabaseMgr)
		storeRoutes(storeRouter, storeHdl, mgrs)

		basketRouter := apiRouter.Group("/basket")
		basketHdl := handlers.NewBasketHandler(mgrs.BasketMgr)
		basketRoutes(basketRouter, basketHdl)
	}
}

func userRoutes(userRouter *gin.RouterGroup, userHdl handlers.UserHdl, mgrs Managers) {
	userRouter.POST("/", middleware.ValidateAndSanitizeStruct(&schemas.RegistrationRequest{}), userHdl.RegisterUser)
	userRouter.POST("/login", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), userHdl.LoginUser)
	userRouter.GET("/login", userHdl.LoginPrompt)
	userRouter.GET("/activate/:uid/:token", userHdl.ActivateUser)
	userRouter.GET("/delete-confirmation", userHdl.DeleteConfirmation)
	// The following routes require a live login session
	userRouter.Use(middleware.Authenticate(mgrs.JWTMgr, mgrs.SessionMgr))
	userRouter.GET("/dashboard", userHdl.Dashboard)
	userRouter.PUT("/", userHdl.EditProfile)
	userRouter.DELETE("/", userHdl.DeleteUser)
}

func storeRoutes(storeRouter *gin.RouterGroup, storeHdl handlers.StoreHdl, mgrs Managers) {
	storeRouter.GET("/", storeHdl.ListProducts)
	storeRouter.GET("/categories", storeHdl.ListCategories)
	storeRouter.GET("/categories/:slug", storeHdl.GetCategory)
	storeRouter.GET("/products/:slug", storeHdl.GetProduct)
	storeRouter.GET("/all",
		middleware.Authenticate(mgrs.JWTMgr, mgrs.SessionMgr),
		middleware.RequireCapability(auth.CapManageCatalog),
		storeHdl.ListAllProducts)
}

func basketRoutes(basketRouter *gin.RouterGroup, basketHdl handlers.BasketHdl) {
	basketRouter.GET("/", basketHdl.GetBasket)
	basketRouter.POST("/", middleware.ValidateAndSanitizeStruct(&schemas.BasketUpdateRequest{}), basketHdl.UpdateBasket)
	basketRouter.DELETE("/:productId", basketHdl.RemoveFromBasket)
}
