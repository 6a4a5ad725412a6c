package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/auth"
	"github.com/OliveCh12/assetsync-backend/internal/config"
	"github.com/OliveCh12/assetsync-backend/internal/database"
	"github.com/OliveCh12/assetsync-backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Api owns the HTTP surface and the wired components behind it.
type Api struct {
	Config  *config.Config
	Router  *chi.Mux
	db      *database.DB
	auth    *auth.Service
	tokens  *auth.TokenManager
	storage *storage.Client
}

// NewApi wires the components and builds the router. The database handle is
// owned by the caller; Api never closes it.
func NewApi(cfg *config.Config, db *database.DB) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, errors.New("must have at least a port to start API")
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	service := auth.NewService(db, tokens, hasher, auth.LogMailer{}, cfg.Auth.ResetTicketTTL)

	api := &Api{
		Config: cfg,
		Router: chi.NewRouter(),
		db:     db,
		auth:   service,
		tokens: tokens,
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(
			cfg.Storage.Endpoint, cfg.Storage.Region, cfg.Storage.Bucket,
			cfg.Storage.AccessKeyID, cfg.Storage.SecretAccessKey,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %v", err)
		}
		api.storage = client
	}

	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/heartbeat"))

	requireAuth := auth.RequireAuth(api.tokens, api.db, func(w http.ResponseWriter, err error) {
		respondAuthError(w, err)
	})

	// Public auth routes
	r.Post("/auth/register", api.RegisterHandler)
	r.Post("/auth/login", api.LoginHandler)
	r.Post("/auth/logout", api.LogoutHandler)
	r.Post("/auth/refresh-token", api.RefreshHandler)
	r.Post("/auth/password-reset-request", api.PasswordResetRequestHandler)
	r.Post("/auth/password-reset", api.PasswordResetHandler)

	// Routes behind the strict gate
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/auth/me", api.MeHandler)
		r.Put("/auth/me", api.UpdateMeHandler)
		r.Delete("/auth/me", api.DeactivateMeHandler)

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", api.CreateCategoryHandler)
			r.Get("/", api.ListCategoriesHandler)
			r.Get("/{categoryID}", api.GetCategoryHandler)
			r.Put("/{categoryID}", api.UpdateCategoryHandler)
			r.Delete("/{categoryID}", api.DeleteCategoryHandler)
		})

		r.Route("/assets", func(r chi.Router) {
			r.Post("/", api.CreateAssetHandler)
			r.Get("/", api.SearchAssetsHandler)
			r.Get("/{assetID}", api.GetAssetHandler)
			r.Put("/{assetID}", api.UpdateAssetHandler)
			r.Delete("/{assetID}", api.DeleteAssetHandler)
			r.Get("/{assetID}/valuation", api.ValuationHandler)
			r.Post("/{assetID}/photos", api.UploadAssetPhotoHandler)
			r.Get("/{assetID}/photos", api.ListAssetPhotosHandler)
		})
	})
}

// Serve starts the expired-session sweep and blocks on the HTTP listener.
func (api *Api) Serve() {
	go api.sweepSessions()

	addr := fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort)
	log.Printf("Starting AssetSync API server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, api.Router))
}

// sweepSessions periodically purges expired session rows. findActive
// filters at read time, so this is storage hygiene, not a correctness
// requirement.
func (api *Api) sweepSessions() {
	ticker := time.NewTicker(api.Config.Auth.SweepInterval)
	defer ticker.Stop()
	for {
		if err := api.db.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
		<-ticker.C
	}
}
