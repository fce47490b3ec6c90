package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"Mansoor88-6/macro-plus/internal/models"

	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Stdout is where Print writes. Tests replace it.
var Stdout io.Writer = os.Stdout

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (use yaml or json)", s)
	}
}

// MacroDetail is the output of the `show` command.
type MacroDetail struct {
	Name     string      `yaml:"name"     json:"name"`
	Created  string      `yaml:"created"  json:"created"`
	Duration float64     `yaml:"duration" json:"duration"`
	Speed    float64     `yaml:"speed"    json:"speed"`
	Repeat   int         `yaml:"repeat"   json:"repeat"`
	Events   []EventLine `yaml:"events,omitempty" json:"events,omitempty"`
}

// EventLine is one event in a compact, human readable form.
type EventLine struct {
	At     float64 `yaml:"at"               json:"at"`
	Type   string  `yaml:"type"             json:"type"`
	Key    string  `yaml:"key,omitempty"    json:"key,omitempty"`
	X      *int    `yaml:"x,omitempty"      json:"x,omitempty"`
	Y      *int    `yaml:"y,omitempty"      json:"y,omitempty"`
	Button string  `yaml:"button,omitempty" json:"button,omitempty"`
	Action string  `yaml:"action,omitempty" json:"action,omitempty"`
}

// NewMacroDetail builds the `show` output. Events are included only when withEvents is set.
func NewMacroDetail(m *models.Macro, withEvents bool) MacroDetail {
	d := MacroDetail{
		Name:     m.Name,
		Created:  m.CreatedAt.Format("2006-01-02 15:04:05"),
		Duration: models.Seconds(m.Duration()),
		Speed:    m.Speed,
		Repeat:   m.Repeat,
	}
	if !withEvents {
		return d
	}
	d.Events = make([]EventLine, 0, len(m.Events))
	for _, e := range m.Events {
		d.Events = append(d.Events, newEventLine(e))
	}
	return d
}

func newEventLine(e models.InputEvent) EventLine {
	line := EventLine{At: models.Seconds(e.Offset()), Type: string(e.Kind())}
	switch ev := e.(type) {
	case models.KeyDown:
		line.Key = string(ev.Key)
	case models.KeyUp:
		line.Key = string(ev.Key)
	case models.PointerMove:
		line.X, line.Y = intPtr(ev.X), intPtr(ev.Y)
	case models.PointerButton:
		line.X, line.Y = intPtr(ev.X), intPtr(ev.Y)
		line.Button = ev.Button.String()
		line.Action = "release"
		if ev.Pressed {
			line.Action = "press"
		}
	}
	return line
}

func intPtr(v int) *int { return &v }

// Print serializes v to Stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(Stdout, OutputFormat, v)
}

// Fprint serializes v to w in the given format.
func Fprint(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(w, v)
		}
		return PrintJSON(w, v)
	case FormatYAML:
		return PrintYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// PrintJSON serializes v to w as compact single-line JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to w as indented JSON.
func PrintPrettyJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to w as YAML.
func PrintYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
