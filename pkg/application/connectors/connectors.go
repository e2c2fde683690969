// Package connectors lazily opens shared clients for external stores.
package connectors

import "melidash/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
