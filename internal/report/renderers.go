package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

var headers = []string{"ID", "TIME", "SINCE START", "SINCE LAST", "DATA", "LEVEL"}

// TableRenderer writes aligned columns
type TableRenderer struct {
	w io.Writer
}

// NewTableRenderer creates a table renderer on w
func NewTableRenderer(w io.Writer) *TableRenderer {
	return &TableRenderer{w: w}
}

// Render writes the header and one line per row
func (t *TableRenderer) Render(rows []Row) error {
	tw := tabwriter.NewWriter(t.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%v\t%s\n",
			r.ID, r.Time, r.TimeSinceStart, r.TimeSinceLast, r.Data, r.Level)
	}
	return tw.Flush()
}

// JSONRenderer writes rows as an indented JSON array
type JSONRenderer struct {
	w io.Writer
}

// NewJSONRenderer creates a JSON renderer on w
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{w: w}
}

// Render encodes the rows
func (j *JSONRenderer) Render(rows []Row) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// YAMLRenderer writes rows as a YAML sequence
type YAMLRenderer struct {
	w io.Writer
}

// NewYAMLRenderer creates a YAML renderer on w
func NewYAMLRenderer(w io.Writer) *YAMLRenderer {
	return &YAMLRenderer{w: w}
}

// Render encodes the rows
func (y *YAMLRenderer) Render(rows []Row) error {
	enc := yaml.NewEncoder(y.w)
	defer enc.Close()
	return enc.Encode(rows)
}

// LinePrinter is the fallback renderer: each row is printed on its own
type LinePrinter struct {
	print func(args ...any)
}

// NewLinePrinter renders every row with print
func NewLinePrinter(print func(args ...any)) *LinePrinter {
	return &LinePrinter{print: print}
}

// Render prints rows individually
func (p *LinePrinter) Render(rows []Row) error {
	for _, r := range rows {
		p.print(r.ID, r.Time, r.TimeSinceStart, r.TimeSinceLast, r.Data, r.Level)
	}
	return nil
}

// NewRenderer picks a renderer by format name: table, json or yaml
func NewRenderer(format string, w io.Writer) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return NewTableRenderer(w), nil
	case "json":
		return NewJSONRenderer(w), nil
	case "yaml", "yml":
		return NewYAMLRenderer(w), nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}
