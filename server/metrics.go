package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "departures_http_request_duration_seconds",
		Help: "Time spent serving HTTP requests",
	}, []string{"route", "status"})
)

func init() {
	prometheus.MustRegister(requestDuration)
}

func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	requestDuration.WithLabelValues(c.Route().Path, statusClass(status)).Observe(time.Since(start).Seconds())

	if c.Path() != "/health" && c.Path() != "/metrics" {
		s.Logger.Infow("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
		)
	}

	return err
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
