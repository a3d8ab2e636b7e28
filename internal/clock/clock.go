// Package clock parses and formats local wall-clock times of the form HH:MM.
package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Noon is the default time of birth when none is stated.
const Noon = "12:00"

// ErrHostZone is returned by LoadZone for "Local", whose rules come from the host.
var ErrHostZone = errors.New("host-dependent zone")

// LoadZone loads an IANA zone by name. Unlike time.LoadLocation it refuses
// "Local", so the same name resolves the same way on every machine.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "Local" {
		return nil, fmt.Errorf("zone %q: %w", name, ErrHostZone)
	}
	return time.LoadLocation(name)
}

// Parse reads "H:MM", "HH:MM" or "HH:MM:SS". Seconds are accepted and dropped.
func Parse(s string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return 0, 0, false
		}
	}
	return h, m, true
}

// Minutes converts "HH:MM" to minutes after midnight.
func Minutes(s string) (int, bool) {
	h, m, ok := Parse(s)
	if !ok {
		return 0, false
	}
	return h*60 + m, true
}

// Format renders minutes after midnight as zero-padded "HH:MM".
func Format(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
