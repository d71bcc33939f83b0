package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/romp/internal/domain/model"
	"github.com/okian/romp/pkg/logger"
)

// statusFrame is the subset of the status stream the simulator reads.
type statusFrame struct {
	SessionID       string  `json:"session_id"`
	SessionScore    int     `json:"session_score"`
	ChallengeActive bool    `json:"challenge_active"`
	Kind            string  `json:"kind"`
	Instruction     string  `json:"instruction"`
	Performance     float64 `json:"performance"`
}

// sampleFrame is one outbound stream message.
type sampleFrame struct {
	Sample       *model.SensorSample `json:"sample,omitempty"`
	Availability *model.Availability `json:"availability,omitempty"`
}

// Run plays one scenario against a running service and reports whether the
// generated challenge completed.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	log := logger.Named("simulate")
	gen, ok := Scenarios[config.Scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, config.Scenario)
	}
	stats := &Stats{StartTime: time.Now()}

	client := &http.Client{Timeout: config.Timeout}
	if err := checkHealth(ctx, client, config.BaseURL); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	conn, err := dialStream(ctx, config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("stream dial failed: %w", err)
	}
	defer conn.Close()

	// Declare sensors before the challenge is generated so the catalog
	// sees the full set.
	avail := Availability()
	if err := conn.WriteJSON(sampleFrame{Availability: &avail}); err != nil {
		return nil, fmt.Errorf("availability frame failed: %w", err)
	}

	if err := post(ctx, client, config.BaseURL+"/session", nil); err != nil {
		return nil, fmt.Errorf("session start failed: %w", err)
	}
	var challenge struct {
		Kind        string `json:"kind"`
		Instruction string `json:"instruction"`
	}
	if err := post(ctx, client, config.BaseURL+"/challenge", &challenge); err != nil {
		return nil, fmt.Errorf("challenge start failed: %w", err)
	}
	stats.ChallengeKind = challenge.Kind
	log.Info(ctx, "challenge received",
		logger.String("kind", challenge.Kind),
		logger.String("instruction", challenge.Instruction),
		logger.String("scenario", config.Scenario),
	)

	// Reader: watch status frames for the challenge resolving.
	resolved := make(chan statusFrame, 1)
	go func() {
		sawActive := false
		for {
			var st statusFrame
			if err := conn.ReadJSON(&st); err != nil {
				close(resolved)
				return
			}
			stats.StatusFrames++
			if st.ChallengeActive {
				sawActive = true
				continue
			}
			if sawActive {
				resolved <- st
				return
			}
		}
	}()

	// Writer: play the scenario until the challenge resolves or we give up.
	ticker := time.NewTicker(config.SampleRate)
	defer ticker.Stop()
	deadline := time.NewTimer(config.MaxRun)
	defer deadline.Stop()
	started := time.Now()

	var final statusFrame
loop:
	for {
		select {
		case <-ctx.Done():
			return stats, fmt.Errorf("simulation cancelled: %w", ctx.Err())
		case <-deadline.C:
			break loop
		case st, ok := <-resolved:
			if ok {
				final = st
				stats.Completed = true
			}
			break loop
		case <-ticker.C:
			sample := gen(time.Since(started))
			if err := conn.WriteJSON(sampleFrame{Sample: &sample}); err != nil {
				break loop
			}
			stats.FramesSent++
			if config.Verbose {
				log.Debug(ctx, "sample streamed", logger.Int("frames", stats.FramesSent))
			}
		}
	}

	var record struct {
		ID    string `json:"id"`
		Score int    `json:"score"`
	}
	if err := post(ctx, client, config.BaseURL+"/session/end", &record); err != nil {
		return stats, fmt.Errorf("session end failed: %w", err)
	}
	stats.Score = record.Score
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "simulation finished",
		logger.String("kind", stats.ChallengeKind),
		logger.Bool("completed", stats.Completed),
		logger.Int("score", stats.Score),
		logger.Int("framesSent", stats.FramesSent),
		logger.Int("statusFrames", stats.StatusFrames),
		logger.Float64("lastPerformance", final.Performance),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// checkHealth verifies the service is reachable before streaming.
func checkHealth(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("building health request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// dialStream opens the sample stream WebSocket.
func dialStream(ctx context.Context, baseURL string) (*websocket.Conn, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/stream"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", u.String(), err)
	}
	return conn, nil
}

// post issues a POST with an empty body and optionally decodes the JSON
// response into out.
func post(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %s returned status %d", ErrRequestFailed, url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
