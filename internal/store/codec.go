package store

import (
	"encoding/json"
	"fmt"
	"time"

	"Mansoor88-6/macro-plus/internal/models"
)

// legacyCreatedLayout is the zone-less ISO-8601 form written by older macro files
const legacyCreatedLayout = "2006-01-02T15:04:05.999999"

// eventRecord is the on-disk form of a single event
type eventRecord struct {
	Type      models.EventKind `json:"type"`
	Key       string           `json:"key,omitempty"`
	X         *int             `json:"x,omitempty"`
	Y         *int             `json:"y,omitempty"`
	Button    string           `json:"button,omitempty"`
	Pressed   *bool            `json:"pressed,omitempty"`
	Timestamp float64          `json:"timestamp"`
}

// macroFile is the on-disk form of a macro, one per file
type macroFile struct {
	Name       string        `json:"name"`
	Events     []eventRecord `json:"events"`
	Created    string        `json:"created"`
	Duration   float64       `json:"duration"`
	EventCount int           `json:"event_count"`
	Speed      *float64      `json:"speed,omitempty"`
	Repeat     *int          `json:"repeat,omitempty"`
}

func encodeMacro(m *models.Macro) ([]byte, error) {
	records := make([]eventRecord, 0, len(m.Events))
	for i, e := range m.Events {
		rec, err := encodeEvent(e)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		records = append(records, rec)
	}

	speed := m.Speed
	repeat := m.Repeat
	file := macroFile{
		Name:       m.Name,
		Events:     records,
		Created:    m.CreatedAt.Format(time.RFC3339Nano),
		Duration:   models.Seconds(m.Duration()),
		EventCount: len(records),
		Speed:      &speed,
		Repeat:     &repeat,
	}
	return json.MarshalIndent(file, "", "  ")
}

func encodeEvent(e models.InputEvent) (eventRecord, error) {
	rec := eventRecord{Type: e.Kind(), Timestamp: models.Seconds(e.Offset())}
	switch ev := e.(type) {
	case models.KeyDown:
		rec.Key = string(ev.Key)
	case models.KeyUp:
		rec.Key = string(ev.Key)
	case models.PointerMove:
		rec.X, rec.Y = intPtr(ev.X), intPtr(ev.Y)
	case models.PointerButton:
		rec.X, rec.Y = intPtr(ev.X), intPtr(ev.Y)
		rec.Button = ev.Button.Persisted()
		pressed := ev.Pressed
		rec.Pressed = &pressed
	default:
		return rec, fmt.Errorf("unsupported event %T", e)
	}
	return rec, nil
}

func decodeMacro(data []byte) (*models.Macro, error) {
	var file macroFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse macro file: %w", err)
	}
	if file.Name == "" {
		return nil, fmt.Errorf("macro file has no name")
	}

	events := make([]models.InputEvent, 0, len(file.Events))
	for i, rec := range file.Events {
		e, err := decodeEvent(rec)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, e)
	}

	m := &models.Macro{
		Name:   file.Name,
		Events: events,
		Speed:  1.0,
		Repeat: 1,
	}
	if file.Speed != nil && *file.Speed > 0 {
		m.Speed = *file.Speed
	}
	if file.Repeat != nil && *file.Repeat >= 0 {
		m.Repeat = *file.Repeat
	}
	if created, err := parseCreated(file.Created); err == nil {
		m.CreatedAt = created
	}
	return m, nil
}

// decodeSummary reads only the metadata needed for listings
func decodeSummary(data []byte) (models.MacroSummary, error) {
	var file macroFile
	if err := json.Unmarshal(data, &file); err != nil {
		return models.MacroSummary{}, fmt.Errorf("failed to parse macro file: %w", err)
	}
	if file.Name == "" {
		return models.MacroSummary{}, fmt.Errorf("macro file has no name")
	}
	count := file.EventCount
	if count == 0 {
		count = len(file.Events)
	}
	summary := models.MacroSummary{
		Name:            file.Name,
		EventCount:      count,
		DurationSeconds: file.Duration,
	}
	if created, err := parseCreated(file.Created); err == nil {
		summary.CreatedAt = created
	}
	return summary, nil
}

func decodeEvent(rec eventRecord) (models.InputEvent, error) {
	at := models.FromSeconds(rec.Timestamp)
	if at < 0 {
		return nil, fmt.Errorf("negative timestamp %v", rec.Timestamp)
	}

	switch rec.Type {
	case models.KindKeyDown:
		return models.KeyDown{Key: models.KeyID(rec.Key), At: at}, nil
	case models.KindKeyUp:
		return models.KeyUp{Key: models.KeyID(rec.Key), At: at}, nil
	case models.KindPointerMove:
		if rec.X == nil || rec.Y == nil {
			return nil, fmt.Errorf("mouse_move without coordinates")
		}
		return models.PointerMove{X: *rec.X, Y: *rec.Y, At: at}, nil
	case models.KindPointerButton:
		if rec.X == nil || rec.Y == nil {
			return nil, fmt.Errorf("mouse_click without coordinates")
		}
		button, err := models.ParseButton(rec.Button)
		if err != nil {
			return nil, err
		}
		pressed := rec.Pressed != nil && *rec.Pressed
		return models.PointerButton{X: *rec.X, Y: *rec.Y, Button: button, Pressed: pressed, At: at}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", rec.Type)
	}
}

func parseCreated(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(legacyCreatedLayout, s, time.Local)
}

func intPtr(v int) *int {
	return &v
}
