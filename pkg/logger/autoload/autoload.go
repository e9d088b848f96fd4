// Package autoload initializes the global logger from LOG_* environment
// variables as a side effect of being imported.
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/thehungryunicorn/booking-agent/pkg/logger"
)

func init() {
	var cfg logx.Config
	// Missing or malformed env vars fall back to the defaults.
	_ = envconfig.Process("LOG", &cfg)
	logx.Init(cfg)
}
