package cli

import "time"

// Formats lists the supported output formats.
var Formats = []string{"table", "json"}

// Config holds CLI configuration
type Config struct {
	BackendURL     string        `json:"backend_url"`
	Format         string        `json:"format"`
	Quiet          bool          `json:"quiet"`
	NoColor        bool          `json:"no_color"`
	RequestTimeout time.Duration `json:"request_timeout"`
	Timezone       string        `json:"timezone"`
}
