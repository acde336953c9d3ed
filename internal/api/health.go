package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/models/entities"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck pings one backing service
type HealthCheck struct {
	Backend string
	Ping    func(ctx context.Context) error
}

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Pings every backing service concurrently. 503 when any is down.
// @Tags Misc
// @Produce json
// @Success 200 {object} entities.HealthCheckResponse
// @Failure 503 {object} entities.HealthCheckResponse
// @Router /healthCheck [get]
func HealthCheckHandler(checks map[string]HealthCheck, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		var (
			mu         sync.Mutex
			components = make(map[string]entities.ComponentStatus, len(checks))
		)

		// failures land in components; the goroutines never return an error
		var g errgroup.Group
		for name, check := range checks {
			g.Go(func() error {
				start := time.Now()
				status := entities.ComponentStatus{Status: string(constants.APIStatusOk), Backend: check.Backend}
				if err := check.Ping(ctx); err != nil {
					status.Status = string(constants.APIStatusDown)
					status.Details = err.Error()
				}
				status.LatencyMS = time.Since(start).Milliseconds()

				mu.Lock()
				components[name] = status
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		overall := string(constants.APIStatusOk)
		for _, c := range components {
			if c.Status != string(constants.APIStatusOk) {
				overall = string(constants.APIStatusDown)
				break
			}
		}

		code := http.StatusOK
		if overall != string(constants.APIStatusOk) {
			code = http.StatusServiceUnavailable
		}

		common.WriteJSON(w, code, entities.HealthCheckResponse{
			Status:     overall,
			Components: components,
			UpSince:    upSince.UTC(),
			Uptime:     time.Since(upSince).Round(time.Second).String(),
		})
	}
}
