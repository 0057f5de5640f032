package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/bakeoff/internal/adapters/http/api"
	"github.com/okian/bakeoff/internal/adapters/http/site"
	"github.com/okian/bakeoff/internal/adapters/http/swagger"
	service "github.com/okian/bakeoff/internal/app"
	"github.com/okian/bakeoff/internal/config"
	"github.com/okian/bakeoff/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

func TestConfigLoading(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			_ = os.Setenv("BAKEOFF_ADDR", ":8080")
			_ = os.Setenv("BAKEOFF_SEASON_WEEKS", "8")
			_ = os.Setenv("BAKEOFF_IDEMPOTENCY_SIZE", "50")
			defer func() {
				_ = os.Unsetenv("BAKEOFF_ADDR")
				_ = os.Unsetenv("BAKEOFF_SEASON_WEEKS")
				_ = os.Unsetenv("BAKEOFF_IDEMPOTENCY_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SeasonWeeks, convey.ShouldEqual, 8)
				convey.So(cfg.IdempotencySize, convey.ShouldEqual, 50)
				convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverMemory)
			})
		})

		convey.Convey("When a database driver has no DSN", func() {
			_ = os.Setenv("BAKEOFF_DB_DRIVER", "sqlite")
			defer func() { _ = os.Unsetenv("BAKEOFF_DB_DRIVER") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestOpenStore(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()
		log := logger.Get()

		convey.Convey("The memory driver needs no DSN", func() {
			store, err := openStore(ctx, cfg, log)
			convey.So(err, convey.ShouldBeNil)
			convey.So(store, convey.ShouldNotBeNil)
			convey.So(store.Close(), convey.ShouldBeNil)
		})

		convey.Convey("The sqlite driver opens a file database", func() {
			cfg.DBDriver = config.DriverSQLite
			cfg.DBDSN = filepath.Join(t.TempDir(), "league.db")
			store, err := openStore(ctx, cfg, log)
			convey.So(err, convey.ShouldBeNil)
			defer store.Close()

			counts, err := store.Counts(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(counts.Players, convey.ShouldEqual, 0)
		})

		convey.Convey("An unknown driver is rejected", func() {
			cfg.DBDriver = "oracle"
			_, err := openStore(ctx, cfg, log)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestApplicationWiring(t *testing.T) {
	convey.Convey("Given a started service behind the router", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithSeasonWeeks(8))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		router := api.NewServer(svc, logger.Get()).NewRouter(ctx, []string{"*"})
		swagger.Register(ctx, router)
		site.Register(ctx, router)

		convey.Convey("Then API and docs routes are both served", func() {
			for _, path := range []string{"/", "/healthz", "/stats", "/leaderboard", "/api-docs", "/openapi.yaml", "/assets/app.js"} {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then the configured season length is reported", func() {
			stats, err := svc.GetStats(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(stats["seasonWeeks"], convey.ShouldEqual, 8)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop returns when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
