package clock

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in     string
		h, m   int
		wantOK bool
	}{
		{"00:30", 0, 30, true},
		{"9:05", 9, 5, true},
		{" 23:59 ", 23, 59, true},
		{"12:00:45", 12, 0, true},
		{"24:00", 0, 0, false},
		{"10:60", 0, 0, false},
		{"noon", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, c := range cases {
		h, m, ok := Parse(c.in)
		if ok != c.wantOK || (ok && (h != c.h || m != c.m)) {
			t.Errorf("Parse(%q) = %d,%d,%v", c.in, h, m, ok)
		}
	}
}

func TestFormatAndMinutes(t *testing.T) {
	if got := Format(0); got != "00:00" {
		t.Errorf("Format(0) = %q", got)
	}
	if got := Format(23*60 + 59); got != "23:59" {
		t.Errorf("Format(1439) = %q", got)
	}
	if m, ok := Minutes("01:15"); !ok || m != 75 {
		t.Errorf("Minutes(01:15) = %d,%v", m, ok)
	}
}

func TestLoadZone(t *testing.T) {
	loc, err := LoadZone(" Asia/Kolkata ")
	if err != nil || loc.String() != "Asia/Kolkata" {
		t.Fatalf("LoadZone = %v, %v", loc, err)
	}
	if _, err := LoadZone("Local"); !errors.Is(err, ErrHostZone) {
		t.Errorf("expected ErrHostZone, got %v", err)
	}
	if _, err := LoadZone("Nowhere/Place"); err == nil {
		t.Error("expected error for unknown zone")
	}
}
