package model

import (
	"time"

	"github.com/google/uuid"
)

// Theme is the color scheme chosen by a browser profile.
type Theme string

const (
	// ThemeLight is the default theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark theme.
	ThemeDark Theme = "dark"
)

// ParseTheme maps stored text to a Theme. Anything other than "dark" is light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preference holds the durable settings of one browser profile.
type Preference struct {
	ProfileID uuid.UUID
	Theme     Theme
	UpdatedAt time.Time
}

// InitMeta stamps the preference with the current time.
func (p *Preference) InitMeta() {
	p.UpdatedAt = time.Now()
}
