// Package handler serves the pricing API over fiber.
package handler

import "log/slog"

// BaseHandler holds what every handler shares: a logger and the mapping of
// service errors to HTTP errors.
type BaseHandler struct {
	logger *slog.Logger
}
