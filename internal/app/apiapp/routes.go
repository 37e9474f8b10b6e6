package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kpramod0/SkillLinkr-sub000/internal/config"
	applicationsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/applications"
	authsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/auth"
	interactionsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/interactions"
	notifysvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/notify"
	"github.com/kpramod0/SkillLinkr-sub000/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService        *authsvc.Service
	InteractionService *interactionsvc.Service
	ApplicationService *applicationsvc.Service
	Dispatcher         *notifysvc.Dispatcher
	Logger             *zap.Logger
	Config             config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	interactionHandler := handlers.NewInteractionHandler(deps.InteractionService, deps.AuthService)
	applicationHandler := handlers.NewApplicationHandler(deps.ApplicationService, deps.AuthService)
	notificationHandler := handlers.NewNotificationHandler(deps.Dispatcher, deps.AuthService)

	identityMW := IdentityMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Group(func(r chi.Router) {
		r.Use(identityMW)

		r.Route("/interactions", func(r chi.Router) {
			r.Post("/like", interactionHandler.Like)
			r.Post("/pass", interactionHandler.Pass)
			r.Post("/star", interactionHandler.Star)
			r.Post("/unstar", interactionHandler.Unstar)
			r.Post("/unmatch", interactionHandler.Unmatch)
		})
		r.Get("/matches", interactionHandler.Matches)
		r.Get("/likes/received", interactionHandler.ReceivedLikes)
		r.Get("/stars", interactionHandler.Starred)

		r.Post("/teams/{teamID}/applications", applicationHandler.Apply)
		r.Post("/applications/{applicationID}/decide", applicationHandler.Decide)

		r.Get("/notifications", notificationHandler.List)
		r.Post("/notifications/{notificationID}/read", notificationHandler.MarkRead)
	})
}
