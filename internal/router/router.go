// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/config"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/handlers"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/middleware"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/services"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/utils"
)

// Setup wires every route, handler, and middleware into a gin engine.
func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.I18n())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Frontend.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		AllowCredentials: true,
	}))

	jwtManager := utils.NewJWTManager(cfg.JWT)

	notifications := services.NewNotificationService(db, cfg.Email)
	storage := services.NewStorageService(cfg.AWS)
	applications := services.NewApplicationService(db, notifications)
	listings := services.NewListingService(db, notifications)
	escrow := services.NewEscrowService(db, notifications)
	inquiries := services.NewInquiryService(db, notifications)
	admin := services.NewAdminService(db)

	applicationHandler := handlers.NewApplicationHandler(applications, storage)
	listingHandler := handlers.NewListingHandler(listings, storage)
	transactionHandler := handlers.NewTransactionHandler(escrow)
	inquiryHandler := handlers.NewInquiryHandler(inquiries)
	adminHandler := handlers.NewAdminHandler(admin)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	api.Use(middleware.RateLimiter(rate.Limit(10), 30))

	// Public catalog and search
	api.GET("/catalog/categories", listingHandler.Categories)
	api.GET("/listings", listingHandler.Search)
	api.GET("/listings/:id", listingHandler.Get)

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.Auth(jwtManager, db))
	{
		authed.POST("/applications", applicationHandler.Submit)
		authed.GET("/applications", applicationHandler.ListMine)
		authed.GET("/applications/:id", applicationHandler.Get)
		authed.POST("/applications/documents", applicationHandler.UploadDocument)

		authed.GET("/listings/mine", listingHandler.ListMine)
		authed.POST("/listings/photos", listingHandler.UploadPhoto)

		authed.POST("/transactions", transactionHandler.Purchase)
		authed.GET("/transactions", transactionHandler.ListMine)
		authed.GET("/transactions/:id", transactionHandler.Get)
		authed.POST("/transactions/:id/confirm-delivery", transactionHandler.ConfirmDelivery)

		authed.POST("/inquiries", inquiryHandler.Create)
		authed.GET("/inquiries/sent", inquiryHandler.ListSent)
		authed.GET("/inquiries/:id", inquiryHandler.Get)
	}

	// Seller routes
	seller := authed.Group("")
	seller.Use(middleware.RequireRole(models.UserRoleSeller, models.UserRoleAdmin))
	{
		seller.POST("/listings", listingHandler.Create)
		seller.POST("/listings/:id/publish", listingHandler.Publish)
		seller.POST("/listings/:id/deactivate", listingHandler.Deactivate)
		seller.GET("/inquiries/received", inquiryHandler.ListReceived)
		seller.POST("/inquiries/:id/respond", inquiryHandler.Respond)
	}

	// Admin routes
	adminGroup := authed.Group("/admin")
	adminGroup.Use(middleware.RequireRole(models.UserRoleAdmin))
	{
		adminGroup.GET("/dashboard", adminHandler.Dashboard)
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.POST("/users/:id/status", adminHandler.SetUserStatus)
		adminGroup.GET("/applications", applicationHandler.ListPending)
		adminGroup.POST("/applications/:id/decide", applicationHandler.Decide)
		adminGroup.GET("/listings", listingHandler.ListPendingReview)
		adminGroup.POST("/listings/:id/decide", listingHandler.Decide)
		adminGroup.GET("/transactions", adminHandler.ListTransactions)
		adminGroup.POST("/transactions/:id/refund", transactionHandler.Refund)
		adminGroup.GET("/notifications", adminHandler.ListNotifications)
		adminGroup.POST("/notifications/:id/read", adminHandler.MarkNotificationRead)
		adminGroup.GET("/audit-logs", adminHandler.ListAuditLogs)
	}

	return engine
}
