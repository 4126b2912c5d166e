// Orbis route computation engine. main wires the world source, snapshot
// service, mode catalog and route cache together and serves the public API
// on HTTP_ADDR with the operational endpoints on OPS_ADDR.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/YahyaAsmara/orbis/handlers"
	"github.com/YahyaAsmara/orbis/logger"
	"github.com/YahyaAsmara/orbis/services"
	"github.com/YahyaAsmara/orbis/storage"
	"github.com/YahyaAsmara/orbis/utils"
)

func main() {
	dotenvErr := godotenv.Load()
	l := logger.Setup()
	if dotenvErr != nil {
		l.Info("no .env file found, using default environment variables")
	}

	source, lister, routes := buildStores(l)

	world := services.NewWorldService(source)
	if _, err := world.Refresh(context.Background()); err != nil {
		l.Error("world_snapshot_error", "err", err)
		os.Exit(1)
	}

	cache := openRouteCache(l)
	catalog := services.NewModeCatalog(lister)
	routingService := services.NewRoutingService(world, catalog, cache, routes)

	opsAddr := utils.Getenv("OPS_ADDR", ":9090")
	go func() {
		l.Info("ops_listening", "addr", opsAddr)
		if err := http.ListenAndServe(opsAddr, handlers.NewOpsRouter(world)); err != nil {
			l.Error("ops_server_error", "err", err)
		}
	}()

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"*"}
	r.Use(cors.New(config))

	handlers.NewRouteHandler(routingService).RegisterRoutes(r)
	handlers.NewWorldHandler(world).RegisterRoutes(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	httpAddr := utils.Getenv("HTTP_ADDR", ":8080")
	l.Info("api_listening", "addr", httpAddr)
	if err := r.Run(httpAddr); err != nil {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}

// buildStores picks the world backend from WORLD_SOURCE. "postgres" serves
// the grid, the mode catalog and saved routes from the database; anything
// else reads the world file and keeps saved routes in memory.
func buildStores(l *slog.Logger) (services.GraphSource, services.ModeLister, storage.RouteStore) {
	if utils.Getenv("WORLD_SOURCE", "file") == "postgres" {
		db, err := utils.OpenPostgres(utils.BuildPostgresDSNFromEnv())
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		if err := storage.EnsureSchema(db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		l.Info("db_open_ok")
		store := storage.AttachDB(db)
		return store, store, store
	}

	path := utils.Getenv("WORLD_FILE", filepath.Join("data", "world.json"))
	fs, err := storage.OpenWorldFile(path)
	if err != nil {
		l.Error("world_file_error", "path", path, "err", err)
		os.Exit(1)
	}
	return fs, fs, storage.NewMemoryRouteStore()
}

// openRouteCache connects to Redis when REDIS_ADDR is set. Without it the
// engine recomputes every request, which is fine for small worlds.
func openRouteCache(l *slog.Logger) *storage.RouteCache {
	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("route_cache_disabled")
		return nil
	}
	if err := rc.Ping(context.Background()).Err(); err != nil {
		l.Error("redis_ping_error", "err", err)
	} else {
		l.Info("redis_ping_ok")
	}

	ttl := 300 * time.Second
	if raw := os.Getenv("ROUTE_CACHE_TTL_SECONDS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			ttl = time.Duration(parsed) * time.Second
		}
	}
	return storage.NewRouteCache(rc, ttl)
}
