package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/supplytrust/compliance-backend/api/controllers"
	"github.com/supplytrust/compliance-backend/api/middleware"
	"github.com/supplytrust/compliance-backend/internal/documents"
	"github.com/supplytrust/compliance-backend/internal/notifications"
	"github.com/supplytrust/compliance-backend/internal/requests"
	"github.com/supplytrust/compliance-backend/pkg/config"
	"github.com/supplytrust/compliance-backend/pkg/logger"
)

// Pinger is the readiness contract dependencies expose to the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams collects everything the HTTP surface needs.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	Documents     documents.Service
	Requests      requests.Service
	Notifications notifications.Service
	DBPinger      Pinger
	RedisPinger   Pinger
	BlobPinger    Pinger
}

// NewRouter assembles the API routes and middleware chain.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DBPinger, params.RedisPinger, params.BlobPinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/suppliers/{supplierID}", func(r chi.Router) {
			r.Get("/documents", controllers.DocumentList(params.Documents, logg))
			r.Post("/documents", controllers.DocumentUpload(params.Documents, logg, cfg.GCS.MaxUploadMB))
			r.Get("/requests", controllers.RequestList(params.Requests, logg))
		})

		r.Route("/documents/{documentID}", func(r chi.Router) {
			r.Get("/", controllers.DocumentGet(params.Documents, logg))
			r.Patch("/", controllers.DocumentUpdate(params.Documents, logg))
			r.Delete("/", controllers.DocumentDelete(params.Documents, logg))
			r.Get("/versions", controllers.DocumentVersions(params.Documents, logg))
			r.Post("/versions", controllers.DocumentUploadVersion(params.Documents, logg, cfg.GCS.MaxUploadMB))
			r.Delete("/versions/{versionNumber}", controllers.DocumentDeleteVersion(params.Documents, logg))
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", controllers.RequestCreate(params.Requests, logg))
			r.Get("/{requestID}", controllers.RequestGet(params.Requests, logg))
			r.Post("/{requestID}/complete", controllers.RequestComplete(params.Requests, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(params.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.NotificationMarkRead(params.Notifications, logg))
			r.Post("/{notificationID}/dismiss", controllers.NotificationDismiss(params.Notifications, logg))
		})
	})

	return r
}
