// Package server exposes the floor-plan conversion pipeline over HTTP.
package server

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	floorplan "github.com/flywave/go-floorplan"
	"github.com/flywave/go-floorplan/store"
)

// Server wires the data store and the converter behind the HTTP routes.
type Server struct {
	app       *fiber.App
	cfg       *Config
	extractor *store.Extractor
	converter *floorplan.Converter
	logger    *log.Logger
}

// New loads the apartment CSV named by the config and builds the fiber
// app around it.
func New(cfg *Config) (*Server, error) {
	ex, err := store.NewExtractor(cfg.CSVPath)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:       cfg,
		extractor: ex,
		converter: floorplan.NewConverter(),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "server",
		}),
	}
	s.app = s.newApp()
	return s, nil
}

func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
		AppName:      "go-floorplan",
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New())

	app.Get("/", s.handleRoot)
	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	app.Get("/apartments", s.handleList)
	app.Get("/apartment/:id", s.handleApartment)
	app.Get("/apartment/:id/glb", s.handleGLB)
	app.Head("/apartment/:id/glb", s.handleGLB)
	app.Get("/apartment/:id/polygons", s.handlePolygons)
	app.Get("/apartment/:id/statistics", s.handleStatistics)

	return app
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving HTTP on the configured port.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	s.logger.Info("listening", "addr", addr, "env", s.cfg.Environment)
	return s.app.Listen(addr)
}

func (s *Server) handleRoot(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "go-floorplan API",
		"endpoints": fiber.Map{
			"/apartments":               "list apartment ids",
			"/apartment/:id":            "apartment data as JSON",
			"/apartment/:id/glb":        "apartment as GLB 3D model",
			"/apartment/:id/polygons":   "apartment 2D polygons",
			"/apartment/:id/statistics": "apartment element statistics",
		},
	})
}

func (s *Server) handleList(c fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 0 {
		limit = 10
	}
	ids := s.extractor.ApartmentIDs(limit)
	return c.JSON(fiber.Map{"apartment_ids": ids, "total": len(ids)})
}

func (s *Server) handleApartment(c fiber.Ctx) error {
	id := c.Params("id")
	plan, ok := s.extractor.Apartment(id)
	if !ok {
		return s.notFound(c, id)
	}
	return c.JSON(fiber.Map{
		"apartment_id":   plan.ApartmentID,
		"areas":          elementsJSON(plan.Areas),
		"separators":     elementsJSON(plan.Separators),
		"openings":       elementsJSON(plan.Openings),
		"total_elements": plan.TotalElements(),
	})
}

func (s *Server) handleGLB(c fiber.Ctx) error {
	id := c.Params("id")
	plan, ok := s.extractor.Apartment(id)
	if !ok {
		return s.notFound(c, id)
	}
	blob, err := s.converter.ConvertPlan(plan)
	if err != nil {
		if errors.Is(err, floorplan.ErrEmptyScene) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("apartment %s has no renderable geometry", id),
			})
		}
		s.logger.Error("glb conversion failed", "apartment", id, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, "model/gltf-binary")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=apartment_%s.glb", id))
	return c.Send(blob)
}

// handlePolygons serves the raw 2D rings for clients that extrude on
// their own.
func (s *Server) handlePolygons(c fiber.Ctx) error {
	id := c.Params("id")
	plan, ok := s.extractor.Apartment(id)
	if !ok {
		return s.notFound(c, id)
	}

	areas := make([]fiber.Map, 0, len(plan.Areas))
	for _, el := range plan.Areas {
		areas = append(areas, fiber.Map{
			"id":          el.AreaID,
			"type":        el.EntitySubtype,
			"roomtype":    el.RoomType,
			"zoning":      el.Zoning,
			"elevation":   el.Elevation,
			"height":      el.Height,
			"coordinates": el.Coordinates(),
		})
	}
	return c.JSON(fiber.Map{
		"apartment_id": id,
		"areas":        areas,
		"separators":   ringsJSON(plan.Separators),
		"openings":     ringsJSON(plan.Openings),
	})
}

func (s *Server) handleStatistics(c fiber.Ctx) error {
	id := c.Params("id")
	stats, ok := s.extractor.Statistics(id)
	if !ok {
		return s.notFound(c, id)
	}
	return c.JSON(stats)
}

func (s *Server) notFound(c fiber.Ctx, id string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": fmt.Sprintf("apartment %s not found", id),
	})
}

func elementsJSON(els []*floorplan.Element) []fiber.Map {
	out := make([]fiber.Map, 0, len(els))
	for _, el := range els {
		out = append(out, fiber.Map{
			"entity_type":    el.EntityType,
			"entity_subtype": el.EntitySubtype,
			"roomtype":       el.RoomType,
			"zoning":         el.Zoning,
			"elevation":      el.Elevation,
			"height":         el.Height,
			"area_id":        el.AreaID,
			"unit_id":        el.UnitID,
			"coordinates":    el.Coordinates(),
		})
	}
	return out
}

func ringsJSON(els []*floorplan.Element) []fiber.Map {
	out := make([]fiber.Map, 0, len(els))
	for _, el := range els {
		out = append(out, fiber.Map{
			"type":        el.EntitySubtype,
			"elevation":   el.Elevation,
			"height":      el.Height,
			"coordinates": el.Coordinates(),
		})
	}
	return out
}
