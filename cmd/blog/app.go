package main

import (
	"context"
	"fmt"

	"github.com/Bilaal96/blog-next-strapi/internal/blog"
	"github.com/Bilaal96/blog-next-strapi/internal/config"
	"github.com/Bilaal96/blog-next-strapi/pkg/strapi"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// app holds the components shared by serve and export.
type app struct {
	cfg      *config.Config
	redis    *redis.Client
	client   *strapi.Client
	renderer *blog.Renderer
	opts     blog.Options
}

// newApp connects the content API client and, when configured, its Redis cache.
// An unreachable Redis is reported but does not stop the blog; readiness shows it.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{
		cfg: cfg,
		opts: blog.Options{
			ArticlesPerPage: cfg.ArticlesPerPage,
			SiblingCount:    cfg.SiblingCount,
			SiteName:        blog.DefaultSiteName,
		},
	}

	redisOpts, err := cfg.RedisOptions()
	if err != nil {
		return nil, err
	}
	if redisOpts != nil {
		a.redis = redis.NewClient(redisOpts)
		if err := a.redis.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", redisOpts.Addr).Msg("Redis unreachable, responses will not be cached until it recovers")
		} else {
			log.Info().Str("addr", redisOpts.Addr).Msg("Connected to Redis")
		}
	}

	clientCfg := strapi.DefaultConfig(cfg.StrapiGraphQLURL, a.redis)
	clientCfg.UserAgent = cfg.UserAgent
	clientCfg.CacheTTL = cfg.CacheTTL
	clientCfg.PageSize = cfg.ArticlesPerPage

	a.client, err = strapi.New(clientCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create content API client: %w", err)
	}

	a.renderer, err = blog.NewRenderer()
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// checks returns the readiness checks of the configured dependencies.
func (a *app) checks() map[string]blog.Check {
	checks := map[string]blog.Check{
		"strapi": a.client.Ping,
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (a *app) router() *mux.Router {
	return blog.NewRouter(blog.NewHandler(a.client, a.renderer, a.opts), blog.RouterConfig{
		CORSOrigins: a.cfg.CORSOrigins,
		Checks:      a.checks(),
	})
}

// Close releases the Redis connection pool.
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Debug().Err(err).Msg("Failed to close Redis client")
		}
	}
}
