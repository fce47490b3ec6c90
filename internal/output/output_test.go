package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"Mansoor88-6/macro-plus/internal/models"

	"gopkg.in/yaml.v3"
)

func sampleMacro() *models.Macro {
	return &models.Macro{
		Name:      "login",
		CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Speed:     2,
		Repeat:    3,
		Events: []models.InputEvent{
			models.KeyDown{Key: "a", At: 0},
			models.KeyUp{Key: "a", At: 100 * time.Millisecond},
			models.PointerMove{X: 10, Y: 20, At: 200 * time.Millisecond},
			models.PointerButton{X: 10, Y: 20, Button: models.ButtonSecondary, Pressed: true, At: 1500 * time.Millisecond},
		},
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintYAML(&buf, NewMacroDetail(sampleMacro(), true)); err != nil {
		t.Fatal(err)
	}

	output := buf.String()
	if strings.Count(output, "\n") <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", output)
	}

	var decoded MacroDetail
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Name != "login" {
		t.Errorf("name: got %q, want %q", decoded.Name, "login")
	}
	if decoded.Duration != 1.5 {
		t.Errorf("duration: got %v, want 1.5", decoded.Duration)
	}
	if len(decoded.Events) != 4 {
		t.Fatalf("events: got %d, want 4", len(decoded.Events))
	}
	click := decoded.Events[3]
	if click.Button != "secondary" || click.Action != "press" || click.X == nil || *click.X != 10 {
		t.Errorf("unexpected click line: %+v", click)
	}
}

func TestPrintJSON_SingleLine(t *testing.T) {
	var buf bytes.Buffer
	summaries := []models.MacroSummary{sampleMacro().Summary()}
	if err := PrintJSON(&buf, summaries); err != nil {
		t.Fatal(err)
	}

	output := strings.TrimSpace(buf.String())
	if strings.Contains(output, "\n") {
		t.Errorf("compact JSON should be a single line, got:\n%s", output)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded[0]["event_count"] != float64(4) {
		t.Errorf("event_count: got %v, want 4", decoded[0]["event_count"])
	}
}

func TestPrint_UsesOutputFormat(t *testing.T) {
	oldOut, oldFormat, oldPretty := Stdout, OutputFormat, PrettyOutput
	defer func() {
		Stdout, OutputFormat, PrettyOutput = oldOut, oldFormat, oldPretty
	}()

	var buf bytes.Buffer
	Stdout = &buf
	OutputFormat = FormatJSON
	PrettyOutput = true

	if err := Print(map[string]int{"count": 1}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "  \"count\": 1") {
		t.Errorf("expected indented JSON, got:\n%s", buf.String())
	}
}

func TestMacroDetail_OmitsEvents(t *testing.T) {
	detail := NewMacroDetail(sampleMacro(), false)
	if detail.Events != nil {
		t.Errorf("events should be omitted, got %d", len(detail.Events))
	}
	if detail.Created != "2024-05-01 09:30:00" {
		t.Errorf("created: got %q", detail.Created)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"yaml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
