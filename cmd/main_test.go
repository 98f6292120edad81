package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/skillgap/internal/config"
	"github.com/okian/skillgap/pkg/logger"
	"github.com/okian/skillgap/pkg/metrics"
)

func init() {
	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		panic(err)
	}
}

const extraRoles = `
roles:
  - role_name: Platform Engineer
    required_skills:
      - name: Kubernetes
        weight: 0.9
      - name: Go
        weight: 0.6
`

func TestMainComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		cfg := config.New()
		cfg.WorkerCount = 2
		cfg.QueueSize = 16

		convey.Convey("When building the service from the default config", func() {
			svc, err := newService(cfg, logger.Get())

			convey.Convey("Then the built-in roles are available", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.GetStats()["roles"], convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When a roles file is configured", func() {
			path := filepath.Join(t.TempDir(), "roles.yaml")
			convey.So(os.WriteFile(path, []byte(extraRoles), 0o600), convey.ShouldBeNil)
			cfg.RolesFile = path

			svc, err := newService(cfg, logger.Get())

			convey.Convey("Then its roles are merged over the built-in ones", func() {
				convey.So(err, convey.ShouldBeNil)
				role, err := svc.Role(context.Background(), "platform engineer")
				convey.So(err, convey.ShouldBeNil)
				convey.So(role.RequiredSkills, convey.ShouldHaveLength, 2)

				_, err = svc.Role(context.Background(), "Backend Developer")
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the roles file is missing", func() {
			cfg.RolesFile = filepath.Join(t.TempDir(), "absent.yaml")
			svc, err := newService(cfg, logger.Get())

			convey.Convey("Then service creation fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(svc, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing the metrics updaters", func() {
			svc, err := newService(cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then they return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
				defer cancel()

				convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
				convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
			})

			convey.Convey("And a single update does not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainHandler(t *testing.T) {
	convey.Convey("Given the assembled HTTP handler", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.WorkerCount = 2
		cfg.QueueSize = 16

		svc, err := newService(cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		handler := newHandler(ctx, cfg, svc)

		convey.Convey("When requesting the health and docs endpoints", func() {
			for _, path := range []string{"/healthz", "/api-docs", "/openapi.yaml", "/roles", "/metrics"} {
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("When posting an analysis", func() {
			body := `{"role_name":"Backend Developer","skills":["Go",{"name":"SQL","confidence":0.9}]}`
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))

			convey.Convey("Then a bundle is returned", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rec.Body.String(), convey.ShouldContainSubstring, `"readiness"`)
			})
		})

		convey.Convey("When the configured skill limit is exceeded", func() {
			cfg.MaxSkills = 1
			limited := newHandler(ctx, cfg, svc)
			body := `{"role_name":"Backend Developer","skills":["Go","SQL"]}`
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))

			convey.Convey("Then the request is rejected", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("SKILLGAP_ADDR", ":8181")
		t.Setenv("SKILLGAP_WORKER_COUNT", "3")

		convey.Convey("When loading configuration", func() {
			cfg, err := config.Load(context.Background())

			convey.Convey("Then the overrides are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8181")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the config is invalid", func() {
			t.Setenv("SKILLGAP_LOG_FORMAT", "xml")

			convey.Convey("Then run fails before serving", func() {
				err := run(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "load config")
			})
		})
	})
}

func TestMainRunShutdown(t *testing.T) {
	convey.Convey("Given a running server", t, func() {
		t.Setenv("SKILLGAP_ADDR", "127.0.0.1:0")
		t.Setenv("SKILLGAP_WORKER_COUNT", "1")

		convey.Convey("When the context is canceled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.Convey("Then run returns cleanly", func() {
				convey.So(run(ctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestMetricsManager(t *testing.T) {
	convey.Convey("Given a metrics manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
		convey.So(manager, convey.ShouldNotBeNil)
	})
}
