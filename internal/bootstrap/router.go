package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoSim-25-26J-441/seed-api/config"
	httpapi "github.com/GoSim-25-26J-441/seed-api/internal/api/http"
	"github.com/GoSim-25-26J-441/seed-api/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/seed-api/internal/nodes"
	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
	"github.com/GoSim-25-26J-441/seed-api/internal/tags"
)

const APIPrefix = "/api/v1"

type RouterDeps struct {
	ServiceName string
	Version     string
	Logger      *slog.Logger
	Storage     *Storage
	Resources   config.ResourcesConfig
	Server      config.ServerConfig

	// Verifier enables token checks on write requests when non-nil.
	Verifier middleware.TokenVerifier

	// Registry receives the HTTP metrics and backs /metrics; nil skips both.
	Registry *prometheus.Registry
}

// View is what the router needs from a resource.
type View interface {
	Resource() rest.Resource
	Routes() []rest.Route
}

// Views builds the CRUD views of every resource the service exposes.
func Views(storage *Storage, resources config.ResourcesConfig) ([]View, error) {
	if err := resources.Validate(); err != nil {
		return nil, err
	}
	nodeRes, err := resources.Resource(nodes.Name)
	if err != nil {
		return nil, err
	}
	tagRes, err := resources.Resource(tags.Name)
	if err != nil {
		return nil, err
	}

	return []View{
		nodes.NewView(nodeRes, storage.Nodes),
		tags.NewView(tagRes, storage.Tags),
	}, nil
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(cors.New(corsConfig(dep.Server.CORSOrigins)))

	if dep.Registry != nil {
		r.Use(middleware.NewMetrics(dep.Registry).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(dep.Registry, promhttp.HandlerOpts{})))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Storage.Driver, dep.Storage)
	healthHandler.RegisterRoutes(r)

	api := r.Group(APIPrefix)
	api.Use(middleware.RateLimit(dep.Server.RateLimitRPS, dep.Server.RateLimitBurst))
	if dep.Verifier != nil {
		api.Use(middleware.FirebaseAuth(dep.Verifier, http.MethodGet, http.MethodOptions))
	}

	views, err := Views(dep.Storage, dep.Resources)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		routes := v.Routes()
		rest.Register(api, routes)
		if dep.Logger != nil {
			dep.Logger.Debug("resource registered", "resource", v.Resource().Name, "routes", len(routes))
		}
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
