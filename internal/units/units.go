// Package units converts between stored and displayed weights. Weights are
// persisted in kilograms only; pounds exist purely at the presentation
// boundary, so a conversion bug can never corrupt stored data.
package units

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Unit is a display unit for weights.
type Unit string

const (
	Kilograms Unit = "kg"
	Pounds    Unit = "lb"
)

// lbToKg is the international avoirdupois pound in kilograms.
const lbToKg = 0.45359237

// Parse maps a stored preference string to a Unit, defaulting to kilograms
// for anything unrecognized.
func Parse(s string) Unit {
	if strings.EqualFold(strings.TrimSpace(s), string(Pounds)) {
		return Pounds
	}
	return Kilograms
}

// Toggle returns the other unit.
func (u Unit) Toggle() Unit {
	if u == Pounds {
		return Kilograms
	}
	return Pounds
}

// FromKg converts a stored kilogram weight into this unit.
func (u Unit) FromKg(kg float64) float64 {
	if u == Pounds {
		return kg / lbToKg
	}
	return kg
}

// ToKg converts a weight entered in this unit into kilograms for storage.
func (u Unit) ToKg(w float64) float64 {
	if u == Pounds {
		return w * lbToKg
	}
	return w
}

// Format renders a stored kilogram weight for display in this unit, one
// decimal place plus the unit suffix.
func (u Unit) Format(kg float64) string {
	return fmt.Sprintf("%.1f %s", u.FromKg(kg), u)
}

// FormatBare renders the numeric part only, for input field prefill.
func (u Unit) FormatBare(kg float64) string {
	return strconv.FormatFloat(u.FromKg(kg), 'f', 1, 64)
}

// ParseWeight parses a user-entered weight in this unit and returns
// kilograms for storage.
func (u Unit) ParseWeight(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing weight %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("parsing weight %q: negative weight", s)
	}
	return u.ToKg(v), nil
}

// ProfileSource yields the stored unit preference for the signed-in user.
type ProfileSource interface {
	DefaultUnitsPreference(ctx context.Context) (string, error)
}

// Load reads the user's preferred unit from the profile. Lookup failures
// fall back to kilograms rather than blocking the session; weights are
// stored in kilograms, so the fallback is safe.
func Load(ctx context.Context, src ProfileSource, log *slog.Logger) Unit {
	pref, err := src.DefaultUnitsPreference(ctx)
	if err != nil {
		log.Warn("loading unit preference failed, defaulting to kg", "error", err)
		return Kilograms
	}
	return Parse(pref)
}
