package ratelimit

import (
	"fmt"
	"time"
)

// Preset names one rate-limited action together with its budget.
//
// Presets are value types so call sites can pass them around and tests can
// construct ad-hoc ones without touching shared state.
type Preset struct {
	// Name identifies the action ("login", "contact", ...). It is used as
	// the key prefix and as the metrics label.
	Name string

	// Limit is the maximum number of requests per window.
	Limit int

	// Window is the fixed window length.
	Window time.Duration
}

// Default presets for the site's protected actions. Login and contact are
// deliberately strict; the API preset covers general authenticated traffic.
var (
	// LoginPreset limits credential attempts to 5 per 15 minutes per client.
	LoginPreset = Preset{Name: "login", Limit: 5, Window: 15 * time.Minute}

	// ContactPreset limits contact form submissions to 3 per hour per client.
	ContactPreset = Preset{Name: "contact", Limit: 3, Window: time.Hour}

	// UploadPreset limits exam file uploads to 10 per hour per client.
	UploadPreset = Preset{Name: "upload", Limit: 10, Window: time.Hour}

	// APIPreset limits general API traffic to 100 per minute per client.
	APIPreset = Preset{Name: "api", Limit: 100, Window: time.Minute}
)

// Validate checks that the preset is usable.
func (p Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset name must not be empty")
	}
	if p.Limit <= 0 {
		return fmt.Errorf("preset %q: limit must be positive, got %d", p.Name, p.Limit)
	}
	if p.Window <= 0 {
		return fmt.Errorf("preset %q: window must be positive, got %s", p.Name, p.Window)
	}
	return nil
}

// Key builds the store key for a client under this preset. Distinct actions
// never share a window even for the same client.
func (p Preset) Key(clientID string) string {
	return p.Name + ":" + clientID
}
