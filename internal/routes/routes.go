package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/audit"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/auth"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/cache"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/config"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/handlers"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/mailer"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/middleware"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/storage"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	store := storage.NewClient(cfg)
	cacheClient := cache.NewClient(cfg)
	mailSender := mailer.New(cfg)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, auditDispatcher)
	musicianAuthHandler := handlers.NewMusicianAuthHandler(db, cfg, auditDispatcher)
	musicianProfileHandler := handlers.NewMusicianProfileHandler(db, store, auditDispatcher)

	studioHandler := handlers.NewStudioHandler(db, cfg, auditDispatcher)
	studioMediaHandler := handlers.NewStudioMediaHandler(db, store, auditDispatcher)

	bookingHandler := handlers.NewBookingHandler(db, mailSender, auditDispatcher)
	contactHandler := handlers.NewContactHandler(db, mailSender)
	recommendHandler := handlers.NewRecommendHandler(cfg, cacheClient)

	api := r.Group("/api")
	{
		// ------------------------------
		// GENERAL USERS
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// MUSICIANS
		// ------------------------------
		musician := api.Group("/musician")
		{
			musician.POST("/register", musicianAuthHandler.Register)
			musician.POST("/login", musicianAuthHandler.Login)
			musician.POST("/contact", contactHandler.MusicianContact)

			// public listings
			musician.GET("/producers", musicianProfileHandler.ListProducers)
			musician.GET("/producers/:id", musicianProfileHandler.GetProducerByID)
			musician.GET("/mixing-engineers", musicianProfileHandler.ListMixingEngineers)
			musician.GET("/mixing-engineers/:id", musicianProfileHandler.GetMixingEngineerByID)

			secured := musician.Group("/")
			secured.Use(middleware.AuthMiddleware(cfg, auth.RoleMusician))
			{
				secured.GET("/profiles", musicianProfileHandler.GetProfile)
				secured.PUT("/profile", musicianProfileHandler.UpdateProfile)

				secured.POST("/profile/image", musicianProfileHandler.UploadProfileImage)
				secured.POST("/profile/cover", musicianProfileHandler.UploadCoverImage)
				secured.POST("/profile/tracks", musicianProfileHandler.UploadTracks)
				secured.POST("/profile/gallery", musicianProfileHandler.UploadGalleryImages)

				secured.DELETE("/gallery/*key", musicianProfileHandler.DeleteGalleryImage)
				secured.DELETE("/track/:index", musicianProfileHandler.DeleteTrack)
			}
		}

		// ------------------------------
		// STUDIOS
		// ------------------------------
		studio := api.Group("/studio")
		{
			studio.POST("/register", studioHandler.Register)
			studio.POST("/login", studioHandler.Login)
			studio.POST("/refresh", studioHandler.Refresh)

			// public browsing
			studio.GET("/all", studioHandler.ListAll)
			studio.GET("/:id", studioHandler.GetByID)
			studio.GET("/:id/images", studioMediaHandler.GetImages)
			studio.GET("/:id/availability", studioHandler.GetAvailability)

			studio.POST("/book", bookingHandler.Book)

			secured := studio.Group("/")
			secured.Use(middleware.AuthMiddleware(cfg, auth.RoleStudio))
			{
				secured.GET("/me", studioHandler.GetMe)
				secured.PUT("/update", studioHandler.Update)
				secured.PUT("/gear", studioHandler.UpdateGear)
				secured.PUT("/availability", studioHandler.UpdateAvailability)

				secured.POST("/upload", studioMediaHandler.UploadImage)
				secured.POST("/upload-images", studioMediaHandler.UploadImages)
				secured.PUT("/images", studioMediaHandler.UpdateImages)
				secured.DELETE("/images/*key", studioMediaHandler.DeleteImage)
			}
		}

		// ------------------------------
		// CONTACT + RECOMMENDATIONS
		// ------------------------------
		api.POST("/contact", contactHandler.SiteContact)
		api.POST("/recommend/producers", recommendHandler.SearchProducers)
	}
}
