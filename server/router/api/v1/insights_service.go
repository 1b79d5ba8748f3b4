package v1

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/vendora/vendora/insights"
)

const (
	defaultReportDays = 30
	maxReportDays     = 365
)

func (s *APIV1Service) registerInsightRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/insights")
	g.GET("/overview", s.insightReport(func(ctx context.Context, storeID int32, w insights.Window) (any, error) {
		return s.Engine.Overview(ctx, storeID, w)
	}))
	g.GET("/revenue", s.insightReport(func(ctx context.Context, storeID int32, w insights.Window) (any, error) {
		return s.Engine.Revenue(ctx, storeID, w)
	}))
	g.GET("/customers", s.insightReport(func(ctx context.Context, storeID int32, w insights.Window) (any, error) {
		return s.Engine.Customers(ctx, storeID, w)
	}))
	g.GET("/inventory", s.insightReport(func(ctx context.Context, storeID int32, w insights.Window) (any, error) {
		return s.Engine.Inventory(ctx, storeID, w)
	}))
	g.GET("/marketing", s.insightReport(func(ctx context.Context, storeID int32, w insights.Window) (any, error) {
		return s.Engine.Marketing(ctx, storeID, w)
	}))
	g.GET("/actions", s.insightReport(func(ctx context.Context, storeID int32, _ insights.Window) (any, error) {
		return s.Engine.Actions(ctx, storeID, time.Now())
	}))
}

// insightReport adapts one engine computation into an echo handler with the
// shared ?days=N parsing.
func (s *APIV1Service) insightReport(run func(ctx context.Context, storeID int32, w insights.Window) (any, error)) echo.HandlerFunc {
	return func(c *echo.Context) error {
		storeID, err := resolveStoreID(c)
		if err != nil {
			return err
		}
		days := defaultReportDays
		if raw := c.QueryParam("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > maxReportDays {
				return echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 365")
			}
			days = n
		}
		report, err := run(c.Request().Context(), storeID, insights.LastNDays(days, time.Now()))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, report)
	}
}
