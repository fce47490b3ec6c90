package tray

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"image/png"
	"runtime"
	"testing"
	"time"

	"Mansoor88-6/macro-plus/internal/models"
	"Mansoor88-6/macro-plus/internal/service"
)

func TestTooltip(t *testing.T) {
	tests := []struct {
		name   string
		status service.Status
		want   string
	}{
		{
			name:   "nothing loaded",
			status: service.Status{State: service.StateIdle},
			want:   "MacroPlus: no macro loaded",
		},
		{
			name:   "recording",
			status: service.Status{State: service.StateRecording, EventCount: 12},
			want:   "MacroPlus: recording",
		},
		{
			name:   "playing unsaved",
			status: service.Status{State: service.StatePlaying, EventCount: 3},
			want:   "MacroPlus: playing unsaved macro",
		},
		{
			name: "loaded macro",
			status: service.Status{
				State: service.StateIdle, Macro: "login", EventCount: 40,
				DurationSeconds: 2.25, Speed: 1.5, Repeat: 0,
			},
			want: "MacroPlus: login, 40 events, 2.2s, speed 1.5x, repeat until stopped",
		},
		{
			name: "repeat count",
			status: service.Status{
				State: service.StateIdle, Macro: "m", EventCount: 1,
				DurationSeconds: 1, Speed: 1, Repeat: 3,
			},
			want: "MacroPlus: m, 1 events, 1.0s, speed 1x, 3 times",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tooltip("MacroPlus", tt.status); got != tt.want {
				t.Errorf("tooltip() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordLabel(t *testing.T) {
	if got := recordLabel(service.StateRecording); got != "Stop recording" {
		t.Errorf("recording label = %q", got)
	}
	if got := recordLabel(service.StateIdle); got != "Start recording" {
		t.Errorf("idle label = %q", got)
	}
}

func TestMenuLabel(t *testing.T) {
	s := models.MacroSummary{Name: "greet", EventCount: 7, DurationSeconds: 0.5, CreatedAt: time.Now()}
	if got := menuLabel(s); got != "greet (7 events, 0.5s)" {
		t.Errorf("menuLabel() = %q", got)
	}
}

func TestRepeatLabel(t *testing.T) {
	tests := map[int]string{0: "repeat until stopped", 1: "once", 5: "5 times"}
	for repeat, want := range tests {
		if got := repeatLabel(repeat); got != want {
			t.Errorf("repeatLabel(%d) = %q, want %q", repeat, got, want)
		}
	}
}

func TestIconFor(t *testing.T) {
	data := iconFor(service.StateRecording)
	if len(data) == 0 {
		t.Fatal("icon should not be empty")
	}
	if runtime.GOOS == "windows" {
		return
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("icon is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != iconSize || img.Bounds().Dy() != iconSize {
		t.Errorf("icon size = %v", img.Bounds())
	}
	center := color.NRGBAModel.Convert(img.At(iconSize/2, iconSize/2)).(color.NRGBA)
	if center != stateColors[service.StateRecording] {
		t.Errorf("center pixel = %v, want recording colour", center)
	}
	corner := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	if corner.A != 0 {
		t.Errorf("corner should be transparent, got %v", corner)
	}
}

func TestEncodeICO(t *testing.T) {
	data := encodeICO(dot(stateColors[service.StatePlaying]))

	pixels := iconSize * iconSize * 4
	mask := 4 * iconSize
	if want := 22 + 40 + pixels + mask; len(data) != want {
		t.Fatalf("ico length = %d, want %d", len(data), want)
	}
	if binary.LittleEndian.Uint16(data[2:]) != 1 || binary.LittleEndian.Uint16(data[4:]) != 1 {
		t.Error("ico header should declare one icon image")
	}
	if data[6] != iconSize || data[7] != iconSize {
		t.Errorf("ico entry size = %dx%d", data[6], data[7])
	}
	if off := binary.LittleEndian.Uint32(data[18:]); off != 22 {
		t.Errorf("image offset = %d, want 22", off)
	}
	if h := int32(binary.LittleEndian.Uint32(data[30:])); h != 2*iconSize {
		t.Errorf("bitmap height = %d, want %d", h, 2*iconSize)
	}
}
