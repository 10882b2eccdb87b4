package http

import (
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/benchpoint/benchpoint/internal/core/domain"
	"github.com/benchpoint/benchpoint/internal/core/usecases"
	"github.com/benchpoint/benchpoint/internal/pkg/metrics"
)

// maxImageBytes caps marker image uploads (the Fiber body limit in main
// backs this up at the transport level).
const maxImageBytes = 8 << 20

type createMarkerBody struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Lat         string `json:"lat" form:"lat"`
	Lng         string `json:"lng" form:"lng"`
}

// CreateMarkerHandler creates a marker for the authenticated user.
// Accepts multipart form data (with an optional "image" part) or JSON.
func CreateMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body createMarkerBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "Missing required fields: title, lat, lng.")
		}
		if body.Title == "" || body.Lat == "" || body.Lng == "" {
			return errBadRequest(c, "Missing required fields: title, lat, lng.")
		}

		lat, latErr := strconv.ParseFloat(body.Lat, 64)
		lng, lngErr := strconv.ParseFloat(body.Lng, 64)
		if latErr != nil || lngErr != nil {
			return errBadRequest(c, "lat and lng must be valid coordinates")
		}

		in := usecases.CreateMarker{
			Title:       body.Title,
			Description: body.Description,
			Lat:         lat,
			Lng:         lng,
		}

		if fh, err := c.FormFile("image"); err == nil && fh != nil {
			if fh.Size > maxImageBytes {
				return errBadRequest(c, "image too large")
			}
			f, err := fh.Open()
			if err != nil {
				return errBadRequest(c, "could not read image")
			}
			data := make([]byte, fh.Size)
			if _, err := io.ReadFull(f, data); err != nil {
				_ = f.Close()
				return errBadRequest(c, "could not read image")
			}
			_ = f.Close()
			in.Image = data
			in.ImageContentType = fh.Header.Get(fiber.HeaderContentType)
			metrics.ImageUploadBytes.Observe(float64(fh.Size))
		}

		marker, err := deps.Markers.Create(c.UserContext(), actorID(c), in)
		if err != nil {
			return serviceError(c, err)
		}

		metrics.MarkersCreated.Inc()
		return c.Status(fiber.StatusCreated).JSON(marker)
	}
}

// NearbyMarkersHandler returns markers within r meters of a point,
// nearest first. lat and lng are required (zero is a valid coordinate,
// so absence is detected on the raw query string); r defaults to 5000
// when absent or unparseable, and an explicit non-positive radius is
// rejected.
func NearbyMarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		latRaw := c.Query("lat")
		lngRaw := c.Query("lng")
		if latRaw == "" || lngRaw == "" {
			return errBadRequest(c, "Invalid search parameters. Requires valid lat, lng, and r (radius in meters).")
		}

		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil {
			return errBadRequest(c, "Invalid search parameters. Requires valid lat, lng, and r (radius in meters).")
		}

		radius := usecases.DefaultRadiusMeters
		if raw := c.Query("r"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				radius = n
			}
		}

		start := time.Now()
		markers, err := deps.Markers.Nearby(c.UserContext(), lat, lng, float64(radius))
		if err != nil {
			return serviceError(c, err)
		}
		metrics.NearbyQueryDuration.Observe(time.Since(start).Seconds())

		if markers == nil {
			markers = []domain.Marker{}
		}
		return c.JSON(markers)
	}
}

// MyMarkersHandler returns the authenticated user's markers, newest first.
func MyMarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		markers, err := deps.Markers.ByOwner(c.UserContext(), actorID(c))
		if err != nil {
			return serviceError(c, err)
		}
		if markers == nil {
			markers = []domain.Marker{}
		}
		return c.JSON(markers)
	}
}

// GetMarkerHandler returns a single marker by id. Reads are public.
func GetMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseMarkerID(c)
		if err != nil {
			return errBadRequest(c, "Invalid marker ID format.")
		}

		marker, err := deps.Markers.ByID(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(marker)
	}
}

type updateMarkerBody struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// UpdateMarkerHandler applies a partial update to an owned marker.
// Coordinates are all-or-nothing: a lone latitude or longitude never
// moves the marker.
func UpdateMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseMarkerID(c)
		if err != nil {
			return errBadRequest(c, "Invalid marker ID format.")
		}

		var body updateMarkerBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		upd := &domain.MarkerUpdate{
			Title:       body.Title,
			Description: body.Description,
			Lat:         body.Latitude,
			Lng:         body.Longitude,
		}

		marker, err := deps.Markers.Update(c.UserContext(), actorID(c), id, upd)
		if err != nil {
			return serviceError(c, err)
		}

		metrics.MarkersUpdated.Inc()
		return c.JSON(marker)
	}
}

// DeleteMarkerHandler hard-deletes an owned marker.
func DeleteMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseMarkerID(c)
		if err != nil {
			return errBadRequest(c, "Invalid marker ID format.")
		}

		if err := deps.Markers.Delete(c.UserContext(), actorID(c), id); err != nil {
			return serviceError(c, err)
		}

		metrics.MarkersDeleted.Inc()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func parseMarkerID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
