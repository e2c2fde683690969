// Package middlewarex holds the HTTP middleware chain shared by all servers.
package middlewarex

import (
	"melidash/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
