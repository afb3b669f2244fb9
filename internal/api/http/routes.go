package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/raincheck/raincheck/internal/geocode"
	"github.com/raincheck/raincheck/internal/route"
	"github.com/raincheck/raincheck/internal/store"
)

var validate = validator.New()

// advisoryResponse is the consumer-facing view of the current cycle.
// State distinguishes "loading" (no cycle has completed), "ready",
// "stale" (a newer cycle failed, the last good advisory is shown) and
// "error" (no cycle has ever succeeded).
type advisoryResponse struct {
	State      string          `json:"state"`
	Advisory   *route.Advisory `json:"advisory,omitempty"`
	Display    *Display        `json:"display,omitempty"`
	ComputedAt *time.Time      `json:"computedAt,omitempty"`
	CycleID    string          `json:"cycleId,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *route.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/advisory", func(c *fiber.Ctx) error {
		return c.JSON(currentAdvisory(service))
	})

	v1.Get("/advisory/preview", func(c *fiber.Ctx) error {
		var q previewQuery
		q.Start = c.Query("start")
		q.End = c.Query("end")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := service.Preview(c.Context(), q.Start, q.End)
		if err != nil {
			if errors.Is(err, geocode.ErrGeocodingFailed) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute advisory")
		}

		display := Present(res.Advisory)
		return c.JSON(advisoryResponse{
			State:      "ready",
			Advisory:   &res.Advisory,
			Display:    &display,
			ComputedAt: &res.ComputedAt,
			CycleID:    res.CycleID,
		})
	})

	v1.Get("/advisory/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		results, err := service.History(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no advisories in requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch advisory history")
		}

		type entry struct {
			CycleID    string         `json:"cycleId"`
			ComputedAt time.Time      `json:"computedAt"`
			Advisory   route.Advisory `json:"advisory"`
		}
		entries := make([]entry, 0, len(results))
		for _, res := range results {
			entries = append(entries, entry{
				CycleID:    res.CycleID,
				ComputedAt: res.ComputedAt,
				Advisory:   res.Advisory,
			})
		}

		return c.JSON(fiber.Map{
			"from":       req.From,
			"to":         req.To,
			"advisories": entries,
		})
	})

	v1.Get("/route", func(c *fiber.Ctx) error {
		res, err := service.Latest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no route data yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch route data")
		}

		return c.JSON(fiber.Map{
			"startLabel":   res.Snapshot.StartLabel,
			"endLabel":     res.Snapshot.EndLabel,
			"samplePoints": res.Snapshot.SamplePoints,
			"timeline":     res.Route,
			"computedAt":   res.ComputedAt,
		})
	})
}

func currentAdvisory(service *route.Service) advisoryResponse {
	res, err := service.Latest()
	if err != nil {
		if lastErr, _ := service.LastError(); lastErr != nil {
			return advisoryResponse{State: "error", Message: lastErr.Error()}
		}
		return advisoryResponse{State: "loading"}
	}

	state := "ready"
	if lastErr, at := service.LastError(); lastErr != nil && at.After(res.ComputedAt) {
		state = "stale"
	}

	display := Present(res.Advisory)
	return advisoryResponse{
		State:      state,
		Advisory:   &res.Advisory,
		Display:    &display,
		ComputedAt: &res.ComputedAt,
		CycleID:    res.CycleID,
	}
}

// previewQuery holds the endpoints for an ad-hoc advisory computation.
type previewQuery struct {
	Start string `validate:"required"`
	End   string `validate:"required"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
