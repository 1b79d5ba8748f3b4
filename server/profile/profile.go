// Package profile holds runtime configuration resolved from flags and
// environment variables.
package profile

import (
	"fmt"

	"github.com/spf13/viper"
)

// Profile is the runtime configuration of the server.
type Profile struct {
	// Addr is the listen address, e.g. ":8081".
	Addr string
	// Driver is the database driver: sqlite or mysql.
	Driver string
	// DSN is the database connection string.
	DSN string
	// Data is the directory for local state (sqlite db, product index).
	Data string
	// OpenRouterAPIKey enables the assistant when set.
	OpenRouterAPIKey string
	// AIModel is the model slug sent to OpenRouter.
	AIModel string
}

func (p *Profile) Validate() error {
	switch p.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported driver %q", p.Driver)
	}
	if p.Driver == "mysql" && p.DSN == "" {
		return fmt.Errorf("dsn is required for mysql")
	}
	return nil
}

// FromViper reads the profile from the given viper instance. Keys are bound
// to VENDORA_* environment variables by cmd.
func FromViper(v *viper.Viper) (*Profile, error) {
	p := &Profile{
		Addr:             v.GetString("addr"),
		Driver:           v.GetString("driver"),
		DSN:              v.GetString("dsn"),
		Data:             v.GetString("data"),
		OpenRouterAPIKey: v.GetString("openrouter-api-key"),
		AIModel:          v.GetString("ai-model"),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
