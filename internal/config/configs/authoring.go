package configs

import (
	"net/url"
	"time"
)

// Authoring configures the client for the authoring API, the secondary
// catalog tier and the source of truth for sync imports.
type Authoring struct {
	// BaseURL is the root of the authoring HTTP API.
	BaseURL url.URL `env:"BASE_URL" envDefault:"http://localhost:3333/api"`
	// Timeout bounds every single request to the authoring API.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"2s"`
}
