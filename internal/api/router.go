package api

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/forgeaistudio/frontera/internal/blob"
	"github.com/forgeaistudio/frontera/internal/config"
)

// Options carries everything the router needs beyond the database.
type Options struct {
	JWTSecret  string
	ServiceKey string
	Blobs      blob.Store
	RateLimit  config.RateLimitConfig
	Redis      *redis.Client
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, opts Options) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: opts.JWTSecret}
	profileHandler := &ProfileHandler{DB: db, Blobs: opts.Blobs}
	inventoryHandler := &InventoryHandler{DB: db}
	resourcesHandler := &ResourcesHandler{DB: db}
	tractsHandler := &TractsHandler{DB: db}
	dashboardHandler := &DashboardHandler{DB: db}

	authMW := AuthMiddleware(opts.JWTSecret, db)
	serviceMW := ServiceKeyMiddleware(opts.ServiceKey)

	// Public.
	mux.HandleFunc("POST /api/auth/signup", authHandler.SignUp)
	mux.HandleFunc("POST /api/auth/signin", authHandler.SignIn)
	mux.HandleFunc("POST /api/auth/reset-password", authHandler.ResetPassword)

	// Session.
	mux.Handle("POST /api/auth/signout", authMW(http.HandlerFunc(authHandler.SignOut)))
	mux.Handle("GET /api/auth/session", authMW(http.HandlerFunc(authHandler.Session)))

	// Profile and account.
	mux.Handle("GET /api/profile", authMW(http.HandlerFunc(profileHandler.Get)))
	mux.Handle("PUT /api/profile", authMW(http.HandlerFunc(profileHandler.Update)))
	mux.Handle("POST /api/profile/avatar", authMW(http.HandlerFunc(profileHandler.UploadAvatar)))
	mux.Handle("DELETE /api/account", authMW(http.HandlerFunc(profileHandler.DeleteAccount)))

	// Administrative, guarded by the service key.
	mux.Handle("DELETE /api/admin/users/{id}", serviceMW(http.HandlerFunc(profileHandler.AdminDeleteUser)))

	// Inventory.
	mux.Handle("GET /api/inventory", authMW(http.HandlerFunc(inventoryHandler.List)))
	mux.Handle("POST /api/inventory", authMW(http.HandlerFunc(inventoryHandler.Create)))
	mux.Handle("GET /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Get)))
	mux.Handle("PUT /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Update)))
	mux.Handle("DELETE /api/inventory/{id}", authMW(http.HandlerFunc(inventoryHandler.Delete)))

	// Resources.
	mux.Handle("GET /api/resources", authMW(http.HandlerFunc(resourcesHandler.List)))
	mux.Handle("POST /api/resources", authMW(http.HandlerFunc(resourcesHandler.Create)))
	mux.Handle("GET /api/resources/{id}", authMW(http.HandlerFunc(resourcesHandler.Get)))
	mux.Handle("PUT /api/resources/{id}", authMW(http.HandlerFunc(resourcesHandler.Update)))
	mux.Handle("DELETE /api/resources/{id}", authMW(http.HandlerFunc(resourcesHandler.Delete)))
	mux.Handle("POST /api/resources/{id}/bookmark", authMW(http.HandlerFunc(resourcesHandler.ToggleBookmark)))

	// Tracts and membership.
	mux.Handle("GET /api/tracts", authMW(http.HandlerFunc(tractsHandler.List)))
	mux.Handle("POST /api/tracts", authMW(http.HandlerFunc(tractsHandler.Create)))
	mux.Handle("GET /api/tracts/{id}", authMW(http.HandlerFunc(tractsHandler.Get)))
	mux.Handle("PUT /api/tracts/{id}", authMW(http.HandlerFunc(tractsHandler.Update)))
	mux.Handle("DELETE /api/tracts/{id}", authMW(http.HandlerFunc(tractsHandler.Delete)))
	mux.Handle("GET /api/tracts/{id}/members", authMW(http.HandlerFunc(tractsHandler.ListMembers)))
	mux.Handle("POST /api/tracts/{id}/members", authMW(http.HandlerFunc(tractsHandler.Join)))
	mux.Handle("DELETE /api/tracts/{id}/members", authMW(http.HandlerFunc(tractsHandler.Leave)))

	// Dashboard.
	mux.Handle("GET /api/dashboard", authMW(http.HandlerFunc(dashboardHandler.Get)))

	// Observability.
	mux.Handle("GET /metrics", MetricsHandler())

	var handler http.Handler = mux
	handler = MetricsMiddleware(handler)
	handler = RateLimitMiddleware(opts.RateLimit, opts.Redis)(handler)
	handler = LoggingMiddleware(handler)
	return handler
}
