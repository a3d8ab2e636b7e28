package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/prasanthkuna/vedaos/internal/golden"
)

var kolkataFlags = []string{"--dob", "1992-10-24", "--tob", "00:30", "--tz", "Asia/Kolkata"}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VEDAOS_CONFIG", filepath.Join(home, "absent.yaml"))
	for _, k := range []string{"VEDAOS_DB", "VEDAOS_EPHEMERIS_BACKEND", "VEDAOS_EPHEMERIS_ADDR", "VEDAOS_EPHEMERIS_TIMEOUT_MS", "VEDAOS_DEFAULT_ZONE"} {
		t.Setenv(k, "")
	}

	resetFlags(RootCmd)
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&bytes.Buffer{})
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func decode(t *testing.T, s string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), v); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, s)
	}
}

func TestNatalCommand(t *testing.T) {
	out, err := run(t, append([]string{"natal", "--no-store"}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("natal: %v", err)
	}
	var core struct {
		BirthUTC      string `json:"birthUtc"`
		MoonNakshatra struct {
			Index int `json:"index"`
			Pada  int `json:"pada"`
		} `json:"moonNakshatra"`
		Longitudes map[string]float64 `json:"longitudes"`
	}
	decode(t, out, &core)
	if core.BirthUTC != "1992-10-23T19:00:00Z" || core.MoonNakshatra.Index != 11 || core.MoonNakshatra.Pada != 4 {
		t.Errorf("core = %+v", core)
	}
	if len(core.Longitudes) != 9 {
		t.Errorf("longitudes = %v", core.Longitudes)
	}
}

func TestNatalFromProfileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	doc := "dob: \"1992-10-24\"\ntobLocal: \"00:30\"\ntzIana: Asia/Kolkata\nlat: 17.385\nlon: 78.4867\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "natal", "--no-store", "--profile", path)
	if err != nil {
		t.Fatalf("natal: %v", err)
	}
	if !strings.Contains(out, `"sunriseUtc"`) {
		t.Errorf("expected sunrise with a birth location:\n%s", out)
	}
}

func TestMissingDOB(t *testing.T) {
	if _, err := run(t, "natal", "--no-store", "--tob", "00:30"); err == nil {
		t.Fatal("expected error without a birth date")
	}
}

func TestDashaAt(t *testing.T) {
	out, err := run(t, append([]string{"dasha", "--no-store", "--at", "2026-06-01"}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("dasha: %v", err)
	}
	var pd struct {
		MD, AD, PD string
	}
	decode(t, out, &pd)
	if pd.MD == "" || pd.AD == "" || pd.PD == "" {
		t.Errorf("pd = %+v", pd)
	}
}

func TestDashaList(t *testing.T) {
	out, err := run(t, append([]string{"dasha", "--no-store", "--until", "2030-01-01", "--antar"}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("dasha: %v", err)
	}
	var mds []struct {
		Lord        string `json:"lord"`
		Antardashas []any  `json:"antardashas"`
	}
	decode(t, out, &mds)
	if len(mds) == 0 || mds[0].Lord != "Sun" || len(mds[0].Antardashas) != 9 {
		t.Errorf("mds = %+v", mds)
	}
}

func TestJourneyThenRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	out, err := run(t, append([]string{"journey", "--db", db, "--mode", "full15y", "--as-of", "2026-06-01"}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("journey: %v", err)
	}
	var j struct {
		Mode     string `json:"mode"`
		Segments []any  `json:"segments"`
	}
	decode(t, out, &j)
	if j.Mode != "full15y" || len(j.Segments) == 0 {
		t.Fatalf("journey = %s", out)
	}

	out, err = run(t, append([]string{"runs", "--db", db}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	var runs []struct {
		ID   string `json:"runId"`
		Kind string `json:"kind"`
	}
	decode(t, out, &runs)
	if len(runs) != 1 || runs[0].Kind != "journey" {
		t.Fatalf("runs = %s", out)
	}

	out, err = run(t, "runs", "--db", db, runs[0].ID)
	if err != nil {
		t.Fatalf("runs <id>: %v", err)
	}
	if !strings.Contains(out, `"activeSegmentId"`) {
		t.Errorf("stored result = %s", out)
	}

	out, err = run(t, append([]string{"runs", "--db", db, "--provenance"}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("runs --provenance: %v", err)
	}
	if !strings.Contains(out, `"journey"`) {
		t.Errorf("provenance = %s", out)
	}
}

func TestRunsRejectsNoStore(t *testing.T) {
	if _, err := run(t, append([]string{"runs", "--no-store"}, kolkataFlags...)...); err == nil {
		t.Fatal("expected error with --no-store")
	}
}

func TestRiskAndRectify(t *testing.T) {
	out, err := run(t, append([]string{"risk", "--no-store"}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("risk: %v", err)
	}
	var risk struct {
		Level    string `json:"riskLevel"`
		NextStep string `json:"nextStep"`
	}
	decode(t, out, &risk)
	if risk.Level != "high" || risk.NextStep != "rectification_required" {
		t.Errorf("risk = %+v", risk)
	}

	out, err = run(t, append([]string{"rectify", "--no-store", "--answers", "5", "--mode-input", "exact_time"}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("rectify: %v", err)
	}
	var r struct {
		Start      string  `json:"windowStart"`
		End        string  `json:"windowEnd"`
		Confidence float64 `json:"confidence"`
	}
	decode(t, out, &r)
	if r.Start != "00:20" || r.End != "00:40" || r.Confidence != 0.82 {
		t.Errorf("rectification = %+v", r)
	}
}

func TestWeeklyAndMonthly(t *testing.T) {
	out, err := run(t, append([]string{"weekly", "--no-store", "--start", "2026-06-03"}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	var set struct {
		Start    string `json:"startUtc"`
		Friction []any  `json:"friction"`
		Support  []any  `json:"support"`
		Slots    []any  `json:"muhurthaLite"`
	}
	decode(t, out, &set)
	if set.Start != "2026-05-31T18:30:00Z" || len(set.Friction) == 0 || len(set.Support) == 0 || len(set.Slots) != 2 {
		t.Errorf("weekly = %s", out)
	}
	if !strings.Contains(out, `"theme": "Relationship clarity and boundaries"`) {
		t.Errorf("weekly theme missing:\n%s", out)
	}

	out, err = run(t, append([]string{"monthly", "--no-store", "--start", "2026-06-01"}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	var m struct {
		Start string `json:"startUtc"`
		Best  []any  `json:"bestDates"`
	}
	decode(t, out, &m)
	if m.Start != "2026-05-31T18:30:00Z" || m.Best == nil {
		t.Errorf("monthly = %s", out)
	}
}

func TestWeeklyCurrentCity(t *testing.T) {
	args := append([]string{"weekly", "--no-store", "--start", "2026-06-03",
		"--current-tz", "Europe/London", "--current-lat", "51.5072", "--current-lon", "-0.1276"}, kolkataFlags...)
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	var set struct {
		Start   string `json:"startUtc"`
		Zone    string `json:"zone"`
		Sunrise string `json:"referenceSunriseUtc"`
	}
	decode(t, out, &set)
	if set.Zone != "Europe/London" || set.Start != "2026-05-31T23:00:00Z" || !strings.HasPrefix(set.Sunrise, "2026-06-01T0") {
		t.Errorf("weekly = %+v", set)
	}

	if _, err := run(t, "weekly", "--no-store", "--dob", "1992-10-24", "--current-lat", "51.5"); err == nil {
		t.Error("expected error for a current latitude without longitude")
	}
}

func TestAtmakarakaCommand(t *testing.T) {
	out, err := run(t, append([]string{"atmakaraka", "--no-store"}, kolkataFlags...)...)
	if err != nil {
		t.Fatalf("atmakaraka: %v", err)
	}
	var pr struct {
		Planet       string `json:"planet"`
		NarrativeKey string `json:"narrativeKey"`
	}
	decode(t, out, &pr)
	if pr.Planet == "" || pr.NarrativeKey != "atma_"+strings.ToLower(pr.Planet) {
		t.Errorf("primer = %+v", pr)
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var names []string
	decode(t, out, &names)
	if len(names) == 0 {
		t.Fatal("no schema names")
	}

	out, err = run(t, "schema", "weekly")
	if err != nil {
		t.Fatalf("schema weekly: %v", err)
	}
	if !strings.Contains(out, `"muhurthaLite"`) {
		t.Errorf("weekly schema = %s", out)
	}

	if _, err := run(t, "schema", "nope"); err == nil {
		t.Error("expected error for unknown schema")
	}
}

func TestVerifyCommand(t *testing.T) {
	src := filepath.Join("..", "golden", "testdata", "natal_golden.json")
	if _, err := run(t, "verify", "--fixture", src); err != nil {
		t.Fatalf("verify: %v", err)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(t.TempDir(), "golden.json")
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "verify", "--fixture", dst, "--capture", "moon_landing", "--dob", "1969-07-20", "--tob", "20:17", "--tz", "UTC"); err != nil {
		t.Fatalf("verify --capture: %v", err)
	}
	f, err := golden.LoadFixture(dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Cases) != 6 || f.Cases[5].Name != "moon_landing" {
		t.Errorf("cases = %d", len(f.Cases))
	}
}
