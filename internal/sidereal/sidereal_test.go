package sidereal

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeRange(t *testing.T) {
	for _, in := range []float64{-720.5, -360, -0.0000001, 0, 359.9999, 360, 725.25, 1e6} {
		got := Normalize(in)
		if got < 0 || got >= 360 {
			t.Fatalf("Normalize(%v) = %v, outside [0,360)", in, got)
		}
	}
	if got := Normalize(-30); got != 330 {
		t.Errorf("Normalize(-30) = %v, want 330", got)
	}
}

func TestToSiderealAlwaysNormalized(t *testing.T) {
	m := DefaultModel()
	start := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		ts := start.Add(time.Duration(i) * 97 * 24 * time.Hour)
		for _, trop := range []float64{0, 5, 23.9, 180, 359.99} {
			got := ToSidereal(trop, m.Ayanamsha(ts))
			if got < 0 || got >= 360 {
				t.Fatalf("sidereal(%v @ %s) = %v", trop, ts, got)
			}
		}
	}
}

func TestAyanamshaLinear(t *testing.T) {
	m := DefaultModel()
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := m.Ayanamsha(j2000); math.Abs(got-23.853) > 1e-9 {
		t.Fatalf("ayanamsha at J2000 = %v, want 23.853", got)
	}
	later := j2000.Add(time.Duration(365.25*100*24) * time.Hour)
	want := 23.853 + 100*50.29/3600
	if got := m.Ayanamsha(later); math.Abs(got-want) > 1e-6 {
		t.Errorf("ayanamsha after 100y = %v, want %v", got, want)
	}
}

func TestNakshatraOf(t *testing.T) {
	n := NakshatraOf(0)
	if n.Index != 0 || n.Name != "Ashwini" || n.Pada != 1 {
		t.Errorf("0° = %+v", n)
	}
	n = NakshatraOf(158.9)
	if n.Index != 11 || n.Name != "Uttara Phalguni" || n.Pada != 4 {
		t.Errorf("158.9° = %+v", n)
	}
	n = NakshatraOf(359.999)
	if n.Index != 26 || n.Pada != 4 {
		t.Errorf("359.999° = %+v", n)
	}
	if n := NakshatraOf(NakshatraSpan * 1.5); math.Abs(n.Elapsed-0.5) > 1e-9 {
		t.Errorf("elapsed = %v, want 0.5", n.Elapsed)
	}
}

func TestSignOfAndDistance(t *testing.T) {
	if s := SignOf(158.9); s.Index != 5 || s.Name != "Kanya" {
		t.Errorf("SignOf(158.9) = %+v", s)
	}
	if d := SignDistance(10, 1); d != 3 {
		t.Errorf("SignDistance(10,1) = %d, want 3", d)
	}
	if d := SignDistance(4, 4); d != 0 {
		t.Errorf("SignDistance(4,4) = %d, want 0", d)
	}
}

func TestMeanNodeAtJ2000(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := MeanNode(j2000); math.Abs(got-125.04452) > 1e-6 {
		t.Errorf("MeanNode(J2000) = %v", got)
	}
}
