// Package service validates pricing requests, builds pool snapshots and
// prices them, from caller-supplied or on-chain reserves.
package service

import "log/slog"

// BaseService provides common dependencies for service types.
type BaseService struct {
	logger *slog.Logger
}
