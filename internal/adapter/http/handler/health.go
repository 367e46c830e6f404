package handler

import (
	"context"
	"net/http"
	"time"

	"payment-webhook/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

type dependencyStatus struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthCheck handles GET /health. Each dependency gets its own deadline so
// one hung backend cannot stall the probe.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps := make(map[string]dependencyStatus, len(checkers))
		allHealthy := true

		for _, checker := range checkers {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			start := time.Now()
			err := checker.Check(ctx)
			cancel()

			st := dependencyStatus{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				st.Status = "unhealthy"
				st.Error = err.Error()
				allHealthy = false
			}
			deps[checker.Name()] = st
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
