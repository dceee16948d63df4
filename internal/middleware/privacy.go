package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"matchos/internal/metrics"
	"matchos/internal/privacy"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// SkipPrivacyFilter marks the current response as exempt from PrivacyFilter.
// Only routes that never reach end users may call it.
func SkipPrivacyFilter(c fiber.Ctx) {
	c.Locals(skipFilterKey, true)
}

func filterSkipped(c fiber.Ctx) bool {
	skip, _ := c.Locals(skipFilterKey).(bool)
	return skip
}

// PrivacyFilter projects every JSON response body for the requesting viewer.
// A JSON body it cannot decode is replaced with a 500.
func PrivacyFilter(m *metrics.Metrics, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if filterSkipped(c) {
			return nil
		}

		resp := c.Response()
		if !bytes.HasPrefix(resp.Header.ContentType(), []byte(fiber.MIMEApplicationJSON)) {
			return nil
		}
		if len(resp.Header.Peek(fiber.HeaderContentEncoding)) > 0 {
			logger.Warn("skipping privacy filter on encoded body", zap.String("path", c.Path()))
			return nil
		}

		body := resp.Body()
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}

		start := time.Now()
		value, err := privacy.Decode(body)
		if err != nil {
			logger.Error("response body is not valid JSON, withholding it",
				zap.String("path", c.Path()), zap.Error(err))
			if m != nil {
				m.ObserveFilterFailure()
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to prepare response",
			})
		}

		projected, report := privacy.ProjectWithReport(value, ViewerFrom(c))
		out, err := json.Marshal(projected)
		if err != nil {
			return errors.Join(fiber.ErrInternalServerError, err)
		}
		resp.SetBody(out)

		if m != nil {
			m.ObserveProjection(report, time.Since(start))
		}
		return nil
	}
}

// RequestMetrics counts every served request by method and status.
func RequestMetrics(m *metrics.Metrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		m.ObserveRequest(c.Method(), status)
		return err
	}
}
