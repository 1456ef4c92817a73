// Package layout describes ruled notebook paper and turns a page template into
// the row regions that are segmented one text line at a time.
package layout

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/charseg-mcp/internal/imaging"
)

// ErrUnknownTemplate is returned by Lookup for names that are not registered.
var ErrUnknownTemplate = errors.New("unknown template")

// Column is one writing area on the page.
type Column struct {
	Top   int `yaml:"top" json:"top"`
	Left  int `yaml:"left" json:"left"`
	Right int `yaml:"right" json:"right"`
}

// Template is a page layout: one or more columns sharing the same ruling.
type Template struct {
	Name       string   `yaml:"name" json:"name"`
	Columns    []Column `yaml:"columns" json:"columns"`
	FontSize   int      `yaml:"font_size,omitempty" json:"font_size,omitempty"`
	LineHeight float64  `yaml:"line_height" json:"line_height"`
	LineCount  int      `yaml:"line_count" json:"line_count"`
	NextPage   string   `yaml:"next_page,omitempty" json:"next_page,omitempty"`
}

// Row is the region of one ruled line in one column.
type Row struct {
	Column int            `json:"column"`
	Line   int            `json:"line"`
	Region imaging.Region `json:"region"`
}

// Rows returns every line of every column, column by column, top to bottom.
// Line i of a column spans [top + i*LineHeight, top + (i+1)*LineHeight),
// with both edges rounded to the nearest pixel.
func (t Template) Rows() []Row {
	rows := make([]Row, 0, len(t.Columns)*t.LineCount)
	for c, col := range t.Columns {
		for i := 0; i < t.LineCount; i++ {
			rows = append(rows, Row{
				Column: c,
				Line:   i,
				Region: imaging.Region{
					Top:    col.Top + int(math.Round(float64(i)*t.LineHeight)),
					Bottom: col.Top + int(math.Round(float64(i+1)*t.LineHeight)),
					Left:   col.Left,
					Right:  col.Right,
				},
			})
		}
	}
	return rows
}

// Regions returns the regions of Rows in the same order.
func (t Template) Regions() []imaging.Region {
	rows := t.Rows()
	out := make([]imaging.Region, len(rows))
	for i, r := range rows {
		out[i] = r.Region
	}
	return out
}

// Validate checks that the template describes at least one usable row.
func (t Template) Validate() error {
	if t.Name == "" {
		return errors.New("template name is required")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("template %s: at least one column is required", t.Name)
	}
	for i, c := range t.Columns {
		if c.Right <= c.Left {
			return fmt.Errorf("template %s: column %d has right (%d) <= left (%d)", t.Name, i, c.Right, c.Left)
		}
	}
	if t.LineHeight <= 0 {
		return fmt.Errorf("template %s: line_height must be positive, got %g", t.Name, t.LineHeight)
	}
	if t.LineCount <= 0 {
		return fmt.Errorf("template %s: line_count must be positive, got %d", t.Name, t.LineCount)
	}
	return nil
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// Parse reads a YAML document with a top-level "templates" list.
func Parse(data []byte) ([]Template, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	for _, t := range f.Templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Templates, nil
}

// Load reads templates from a YAML file.
func Load(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	return Parse(data)
}

// Marshal writes templates in the format Parse reads.
func Marshal(templates []Template) ([]byte, error) {
	return yaml.Marshal(templateFile{Templates: templates})
}
