// Package modules runs long-lived servers inside an errgroup with graceful shutdown.
package modules

import "melidash/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
