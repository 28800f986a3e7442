package blog

import (
	"net/http"

	"github.com/Bilaal96/blog-next-strapi/pkg/metrics"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RouterConfig configures the routes around the blog pages.
type RouterConfig struct {
	// CORSOrigins may call the JSON API; empty allows any origin
	CORSOrigins []string

	// Checks run by the readiness probe
	Checks map[string]Check
}

// NewRouter wires the blog pages, the pagination API and the operational endpoints.
func NewRouter(h *Handler, cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, AccessLog, Metrics)

	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc(HealthPath, Health).Methods(http.MethodGet)
	r.HandleFunc(ReadyPath, Ready(cfg.Checks)).Methods(http.MethodGet)
	r.Handle(MetricsPath, metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware(cfg.CORSOrigins).Handler)
	api.HandleFunc("/pagination", PaginationAPI).Methods(http.MethodGet, http.MethodOptions)

	// registration order matters: the fixed listing paths win over {slug}
	r.HandleFunc(BlogPath, h.Articles).Methods(http.MethodGet)
	r.HandleFunc(ArticlesPath, h.Articles).Methods(http.MethodGet)
	r.HandleFunc(NavigatePath, h.Navigate).Methods(http.MethodPost)
	r.HandleFunc(ArticlePath, h.Article).Methods(http.MethodGet)

	r.NotFoundHandler = RequestID(AccessLog(Metrics(http.HandlerFunc(h.NotFound))))

	return r
}

func corsMiddleware(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
}
