package http

import (
	"time"

	"menu-portal/internal/shared/metrics"
	"menu-portal/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// FrameOptionsMiddleware allows the portal to be framed by same-origin pages only
func FrameOptionsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderXFrameOptions, "SAMEORIGIN")
		return c.Next()
	}
}

// RequestContextMiddleware copies the request id assigned by the requestid middleware
// into the Go context so loggers pick it up
func RequestContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
			ctx = utils.WithRequestID(ctx, id)
		}
		ctx = utils.WithComponent(ctx, "http")
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// MetricsMiddleware records request counts and latency by method, route and status
func MetricsMiddleware(collector *metrics.Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		collector.RecordHTTPRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
