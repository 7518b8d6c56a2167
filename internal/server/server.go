package server

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/solidon/donation-backend/internal/ai"
	"github.com/solidon/donation-backend/internal/handler"
	appmw "github.com/solidon/donation-backend/internal/middleware"
	"github.com/solidon/donation-backend/internal/repository"
	"github.com/solidon/donation-backend/internal/service"
	"github.com/solidon/donation-backend/internal/storage"
	"gorm.io/gorm"
)

type Server struct {
	e     *echo.Echo
	repos []interface{ SetDB(*gorm.DB) }
}

func New(db *gorm.DB) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	propositionRepo := repository.NewPropositionRepository(db)
	demandeRepo := repository.NewDemandeRepository(db)
	donRepo := repository.NewDonRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	notificationSvc := service.NewNotificationService(notificationRepo)
	userSvc := service.NewUserService(userRepo)
	propositionSvc := service.NewPropositionService(propositionRepo, userRepo, notificationSvc)
	demandeSvc := service.NewDemandeService(demandeRepo, donRepo, userRepo, notificationSvc)
	stockSvc := service.NewStockService(donRepo, propositionRepo, demandeRepo)
	messageSvc := service.NewMessageService(messageRepo, userRepo, notificationSvc)

	uploader := newUploader()

	propositionHandler := handler.NewPropositionHandler(propositionSvc, stockSvc, uploader)
	demandeHandler := handler.NewDemandeHandler(demandeSvc, stockSvc)
	stockHandler := handler.NewStockHandler(stockSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	userHandler := handler.NewUserHandler(userSvc)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	aiHandler := handler.NewAIHandler(categoryRepo, ai.NewCategoryClient())

	actorMw := appmw.NewActorMiddleware(userRepo)
	guards := []echo.MiddlewareFunc{actorMw.LoadActor}
	if projectID := os.Getenv("FIREBASE_PROJECT_ID"); projectID != "" {
		authMw, err := appmw.NewAuthMiddleware(context.Background(), projectID)
		if err != nil {
			e.Logger.Fatalf("failed to init firebase auth: %v", err)
		}
		guards = append([]echo.MiddlewareFunc{authMw.RequireAuth}, guards...)
	} else {
		// Local development wiring: trust the X-Debug-UID header.
		log.Printf("FIREBASE_PROJECT_ID not set; running without token verification")
		guards = append([]echo.MiddlewareFunc{debugUID}, guards...)
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	api := e.Group("/api")

	api.POST("/users", userHandler.Register, guards...)
	api.GET("/me", userHandler.Me, guards...)
	api.PATCH("/me/availability", userHandler.SetAvailability, guards...)
	api.GET("/users/:uid/public", userHandler.GetPublic, guards...)
	api.GET("/transporters/available", userHandler.AvailableTransporters, guards...)

	api.GET("/categories", categoryHandler.List)

	api.POST("/propositions", propositionHandler.Create, guards...)
	api.GET("/propositions/pending", propositionHandler.ListPending, guards...)
	api.GET("/propositions/missions", propositionHandler.ListMissions, guards...)
	api.GET("/propositions/:id", propositionHandler.Get, guards...)
	api.GET("/me/propositions", propositionHandler.ListMine, guards...)
	api.POST("/propositions/:id/validate", propositionHandler.Validate, guards...)
	api.POST("/propositions/:id/assign", propositionHandler.Assign, guards...)
	api.POST("/propositions/:id/respond", propositionHandler.Respond, guards...)
	api.POST("/propositions/:id/confirm-handoff", propositionHandler.ConfirmHandoff, guards...)
	api.POST("/propositions/:id/confirm-receipt", propositionHandler.ConfirmReceipt, guards...)
	api.POST("/propositions/:id/complete", propositionHandler.Complete, guards...)
	api.POST("/propositions/:id/cancel", propositionHandler.Cancel, guards...)
	api.POST("/propositions/:id/stock", propositionHandler.ConvertToStock, guards...)
	api.POST("/propositions/:id/photo", propositionHandler.UploadPhoto, guards...)
	api.POST("/propositions/suggest-category", aiHandler.SuggestCategory, guards...)

	api.POST("/demandes", demandeHandler.Create, guards...)
	api.GET("/demandes/pending", demandeHandler.ListPending, guards...)
	api.GET("/demandes/missions", demandeHandler.ListMissions, guards...)
	api.GET("/demandes/:id", demandeHandler.Get, guards...)
	api.GET("/me/demandes", demandeHandler.ListMine, guards...)
	api.POST("/demandes/:id/validate", demandeHandler.Validate, guards...)
	api.POST("/demandes/:id/assign", demandeHandler.Assign, guards...)
	api.POST("/demandes/:id/respond", demandeHandler.Respond, guards...)
	api.POST("/demandes/:id/start", demandeHandler.StartDelivery, guards...)
	api.POST("/demandes/:id/complete", demandeHandler.CompleteDelivery, guards...)
	api.POST("/demandes/:id/attribute", demandeHandler.Attribute, guards...)
	api.POST("/demandes/:id/confirm-reception", demandeHandler.ConfirmReception, guards...)
	api.GET("/demandes/:id/related-stock", demandeHandler.RelatedStock, guards...)

	api.GET("/stock", stockHandler.List, guards...)
	api.POST("/stock/:id/release", stockHandler.Release, guards...)

	api.GET("/notifications", notificationHandler.List, guards...)
	api.POST("/notifications/read-all", notificationHandler.MarkAllRead, guards...)

	api.POST("/messages", messageHandler.Create, guards...)
	api.GET("/messages/:uid", messageHandler.Thread, guards...)

	return &Server{
		e: e,
		repos: []interface{ SetDB(*gorm.DB) }{
			userRepo, categoryRepo, propositionRepo, demandeRepo,
			donRepo, notificationRepo, messageRepo,
		},
	}
}

func newUploader() *storage.PhotoUploader {
	bucket := os.Getenv("PHOTO_BUCKET")
	if bucket == "" {
		return nil
	}
	client, err := gcs.NewClient(context.Background())
	if err != nil {
		log.Printf("photo storage init failed: %v", err)
		return nil
	}
	return storage.NewPhotoUploader(client, bucket)
}

// debugUID stands in for token verification when Firebase is not configured.
func debugUID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if uid := c.Request().Header.Get("X-Debug-UID"); uid != "" {
			c.Set("uid", uid)
		}
		return next(c)
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) SetDB(db *gorm.DB) {
	for _, r := range s.repos {
		r.SetDB(db)
	}
}
