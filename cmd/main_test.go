package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/romp/internal/adapters/http/api"
	"github.com/okian/romp/internal/adapters/sensors"
	service "github.com/okian/romp/internal/app"
	"github.com/okian/romp/internal/config"
	"github.com/okian/romp/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainWiring(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)

		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("ROMP_ADDR", ":8080")
			_ = os.Setenv("ROMP_DIFFICULTY", "easy")
			defer func() {
				_ = os.Unsetenv("ROMP_ADDR")
				_ = os.Unsetenv("ROMP_DIFFICULTY")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Difficulty, convey.ShouldEqual, "easy")
			})
		})

		convey.Convey("When wiring the service and routes the way main does", func() {
			ctx := context.Background()
			feed := sensors.NewFeed()
			svc := service.New(
				service.WithLogger(logger.Get()),
				service.WithSource(feed),
				service.WithPollInterval(10*time.Millisecond),
				service.WithChallengeTimeout(time.Second),
				service.WithDifficulty("medium"),
			)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			convey.Reset(svc.Stop)

			mux := http.NewServeMux()
			api.NewServer(svc, feed).Register(ctx, mux)
			srv := httptest.NewServer(mux)
			convey.Reset(srv.Close)

			convey.Convey("Then the health endpoint serves", func() {
				resp, err := http.Get(srv.URL + "/healthz")
				convey.So(err, convey.ShouldBeNil)
				defer resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And a full round works over HTTP", func() {
				resp, err := http.Post(srv.URL+"/session", "application/json", nil)
				convey.So(err, convey.ShouldBeNil)
				resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)

				resp, err = http.Post(srv.URL+"/session/end", "application/json", nil)
				convey.So(err, convey.ShouldBeNil)
				resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}
