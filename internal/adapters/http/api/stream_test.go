package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/romp/internal/adapters/http/api"
	sensors "github.com/okian/romp/internal/adapters/sensors"
	service "github.com/okian/romp/internal/app"
	"github.com/okian/romp/internal/domain/model"
	"github.com/okian/romp/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestStream(t *testing.T) {
	Convey("Given the stream endpoint over a live feed", t, func() {
		ctx := context.Background()
		feed := sensors.NewFeed()
		mock := &mockService{
			status: service.Status{ChallengeActive: true, Kind: "run", Performance: 0.3},
		}
		mux := http.NewServeMux()
		api.NewServer(mock, feed).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		Reset(srv.Close)

		wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		So(err, ShouldBeNil)
		if resp != nil {
			resp.Body.Close()
		}
		Reset(func() { _ = conn.Close() })

		Convey("When sending a sample frame", func() {
			sample := model.SensorSample{Accelerometer: model.Vec3{Z: 2.2}}
			avail := model.Availability{Accelerometer: true}
			So(conn.WriteJSON(map[string]any{"sample": sample, "availability": avail}), ShouldBeNil)

			Convey("Then the feed picks it up", func() {
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					if feed.Snapshot(ctx).Accelerometer.Z == 2.2 {
						break
					}
					time.Sleep(5 * time.Millisecond)
				}
				So(feed.Snapshot(ctx).Accelerometer.Z, ShouldEqual, 2.2)
				So(feed.Availability(ctx).Accelerometer, ShouldBeTrue)
			})
		})

		Convey("When waiting for a status frame", func() {
			So(conn.SetReadDeadline(time.Now().Add(2*time.Second)), ShouldBeNil)
			var st struct {
				ChallengeActive bool    `json:"challenge_active"`
				Kind            string  `json:"kind"`
				Performance     float64 `json:"performance"`
			}

			Convey("Then the round status is pushed", func() {
				So(conn.ReadJSON(&st), ShouldBeNil)
				So(st.ChallengeActive, ShouldBeTrue)
				So(st.Kind, ShouldEqual, "run")
				So(st.Performance, ShouldEqual, 0.3)
			})
		})
	})
}
