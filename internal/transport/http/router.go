// Package http wires the REST surface of the garage service: auth, the
// car linking/primacy operations, and the image endpoints.
package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"garage/internal/auth"
	"garage/internal/observability/middleware"
	"garage/internal/service"
)

type RouterConfig struct {
	CORSOrigins []string
	// RateLimit is requests per minute per IP. Bounds PIN guessing at the
	// edge; there is no per-car lockout.
	RateLimit   int
	StorageRoot string
}

type handlers struct {
	auth   *service.AuthService
	links  *service.LinkService
	garage *service.GarageService
	images *service.ImageService
}

func NewRouter(
	cfg RouterConfig,
	authSvc *service.AuthService,
	linkSvc *service.LinkService,
	garageSvc *service.GarageService,
	imageSvc *service.ImageService,
	signer *auth.Signer,
) http.Handler {
	h := &handlers{auth: authSvc, links: linkSvc, garage: garageSvc, images: imageSvc}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithRequestAndTrace)
	r.Use(middleware.WithMetrics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if cfg.StorageRoot != "" {
		fs := http.StripPrefix("/storage/", http.FileServer(http.Dir(cfg.StorageRoot)))
		r.Get("/storage/*", fs.ServeHTTP)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(signer))

			r.Route("/cars", func(r chi.Router) {
				r.Get("/user", h.listUserCars)
				r.Post("/link", h.linkCar)
				r.Post("/create", h.createCar)
				r.Post("/{carID}/primary", h.setPrimary)
				r.Post("/{carID}/last-used", h.setLastUsed)
				r.Delete("/{carID}/unlink", h.unlink)
				r.Post("/{carID}/image", h.uploadCarImage)
				r.Delete("/{carID}/image", h.deleteCarImage)
			})

			r.Post("/user/profile-image", h.uploadProfileImage)
			r.Delete("/user/profile-image", h.deleteProfileImage)
		})
	})

	return r
}

func originsIfSet(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
