package app

import (
	"time"

	"github.com/shandysiswandi/gootp/internal/pkg/clock"
	"github.com/shandysiswandi/gootp/internal/pkg/router"
)

type healthResponse struct {
	Timestamp string `json:"timestamp"`
}

func (healthResponse) Message() string { return "Server is running" }

func healthHandler(clk clock.Clocker) router.Handler {
	return func(*router.Request) (any, error) {
		return healthResponse{Timestamp: clk.Now().UTC().Format(time.RFC3339Nano)}, nil
	}
}
