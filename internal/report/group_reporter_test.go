package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"eventlog/pkg/models"
)

type fakeSource map[string][]models.LogEvent

func (f fakeSource) Group(name string) ([]models.LogEvent, error) {
	events, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("group %q: %w", name, models.ErrNotFound)
	}
	return events, nil
}

type captureRenderer struct {
	rows []Row
}

func (c *captureRenderer) Render(rows []Row) error {
	c.rows = rows
	return nil
}

func sampleSource() fakeSource {
	return fakeSource{
		"g": {
			{ID: "c", Group: "g", Data: "third", Level: models.LevelError, Time: 1800},
			{ID: "a", Group: "g", Data: "first", Level: models.LevelLog, Time: 1000},
			{ID: "b", Group: "g", Data: "second", Level: models.LevelWarn, Time: 1500},
		},
		"empty": {},
	}
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows(sampleSource()["g"])

	wantIDs := []string{"a", "b", "c"}
	wantTime := []string{"1s", "1s 500ms", "1s 800ms"}
	wantStart := []string{"", "500ms", "800ms"}
	wantLast := []string{"", "500ms", "300ms"}
	wantLevel := []string{"log", "warn", "error"}

	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	for i, r := range rows {
		if r.ID != wantIDs[i] || r.Time != wantTime[i] || r.TimeSinceStart != wantStart[i] ||
			r.TimeSinceLast != wantLast[i] || r.Level != wantLevel[i] {
			t.Errorf("row %d = %+v", i, r)
		}
	}
	if rows[0].Data != "first" {
		t.Errorf("row 0 data = %v", rows[0].Data)
	}
}

func TestBuildRowsStableTies(t *testing.T) {
	rows := BuildRows([]models.LogEvent{
		{ID: "x", Time: 5},
		{ID: "y", Time: 5},
		{ID: "z", Time: 1},
	})
	got := []string{rows[0].ID, rows[1].ID, rows[2].ID}
	if strings.Join(got, ",") != "z,x,y" {
		t.Errorf("order = %v, want z,x,y", got)
	}
}

func TestShowUsesRenderer(t *testing.T) {
	capture := &captureRenderer{}
	r := NewReporter(sampleSource(), capture, nil)

	if err := r.Show("g"); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if len(capture.rows) != 3 {
		t.Errorf("rendered %d rows", len(capture.rows))
	}
}

func TestShowFallback(t *testing.T) {
	var lines [][]any
	printer := NewLinePrinter(func(args ...any) { lines = append(lines, args) })
	r := NewReporter(sampleSource(), nil, printer)

	if err := r.Show("g"); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if len(lines) != 3 || lines[0][0] != "a" {
		t.Errorf("fallback lines = %v", lines)
	}
}

func TestShowNotFound(t *testing.T) {
	r := NewReporter(sampleSource(), &captureRenderer{}, nil)
	for _, g := range []string{"missing", "empty"} {
		if err := r.Show(g); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Show(%q) error = %v, want ErrNotFound", g, err)
		}
	}
}

func TestRenderers(t *testing.T) {
	rows := BuildRows(sampleSource()["g"])

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewTableRenderer(&buf).Render(rows); err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 4 || !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[3], "300ms") {
			t.Errorf("table output:\n%s", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewJSONRenderer(&buf).Render(rows); err != nil {
			t.Fatal(err)
		}
		var decoded []Row
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatal(err)
		}
		if len(decoded) != 3 || decoded[2].TimeSinceLast != "300ms" {
			t.Errorf("decoded = %+v", decoded)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewYAMLRenderer(&buf).Render(rows); err != nil {
			t.Fatal(err)
		}
		var decoded []Row
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatal(err)
		}
		if len(decoded) != 3 || decoded[1].TimeSinceStart != "500ms" {
			t.Errorf("decoded = %+v", decoded)
		}
	})
}

func TestNewRenderer(t *testing.T) {
	var buf bytes.Buffer
	for _, f := range []string{"", "table", "json", "yaml"} {
		if _, err := NewRenderer(f, &buf); err != nil {
			t.Errorf("NewRenderer(%q): %v", f, err)
		}
	}
	if _, err := NewRenderer("xml", &buf); err == nil {
		t.Error("expected error for xml")
	}
}
