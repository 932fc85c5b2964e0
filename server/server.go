package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tidbyt.dev/departures"
	"tidbyt.dev/departures/model"
	"tidbyt.dev/departures/parse"
	"tidbyt.dev/departures/stations"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ErrorResponse struct {
	Error      string             `json:"error"`
	Message    string             `json:"message"`
	Candidates []stations.Station `json:"candidates,omitempty"`
}

type StationResponse struct {
	Code       string             `json:"code"`
	Name       string             `json:"name"`
	Departures []*model.Departure `json:"departures"`
}

// Server exposes departure queries over HTTP.
type Server struct {
	Resolver *departures.Resolver
	Stations *stations.Directory
	Logger   *zap.SugaredLogger

	app *fiber.App
}

func New(resolver *departures.Resolver, directory *stations.Directory, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &Server{
		Resolver: resolver,
		Stations: directory,
		Logger:   logger,
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
	}

	s.app.Use(s.observe)
	s.app.Use(cors.New())

	s.app.Get("/health", s.GetHealth)
	s.app.Get("/stations", s.GetStations)
	s.app.Get("/stations/:code/departures", s.GetStationDepartures)
	s.app.Get("/departures/:from", s.GetDepartures)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.Logger.Infow("listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) GetHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Version: departures.Version,
	})
}

func (s *Server) GetStations(c *fiber.Ctx) error {
	return c.JSON(s.Stations.List())
}

func (s *Server) GetStationDepartures(c *fiber.Ctx) error {
	code := strings.ToUpper(c.Params("code"))
	if !s.Stations.Valid(code) {
		return unknownStation(c, code)
	}

	station, err := s.Resolver.LoadStation(c.UserContext(), code)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(StationResponse{
		Code:       station.Code,
		Name:       station.Name,
		Departures: station.Departures.All(),
	})
}

// Renders the upcoming trains report as plain text. The destination
// is taken from the "to" query parameter.
func (s *Server) GetDepartures(c *fiber.Ctx) error {
	from := strings.ToUpper(c.Params("from"))
	to := strings.ToUpper(c.Query("to"))
	if !s.Stations.Valid(from) {
		return unknownStation(c, from)
	}

	report, err := s.Resolver.Upcoming(c.UserContext(), from, to)
	if err != nil {
		return s.errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "public, max-age=60")
	return c.SendString(report.Text())
}

func unknownStation(c *fiber.Ctx, code string) error {
	return c.Status(http.StatusNotFound).JSON(ErrorResponse{
		Error:   "Unknown station",
		Message: fmt.Sprintf("no station with code %q", code),
	})
}

func (s *Server) errorResponse(c *fiber.Ctx, err error) error {
	var disambiguation *departures.DisambiguationError

	switch {
	case errors.As(err, &disambiguation):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Error:      "Ambiguous destination",
			Message:    err.Error(),
			Candidates: disambiguation.Candidates,
		})
	case errors.Is(err, departures.ErrLookupFailure), errors.Is(err, parse.ErrMalformed):
		// Path codes are validated before resolving.
		s.Logger.Warnw("bad upstream document", "path", c.Path(), "error", err)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Error:   "Bad upstream document",
			Message: err.Error(),
		})
	case errors.Is(err, departures.ErrNoUpcomingTrains):
		return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "No upcoming trains",
			Message: err.Error(),
		})
	}

	s.Logger.Errorw("request failed", "path", c.Path(), "error", err)

	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "Internal error",
		Message: err.Error(),
	})
}
