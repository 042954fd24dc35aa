package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-planetarium/internal/camera"
	"github.com/litescript/ls-planetarium/internal/render"
	"github.com/litescript/ls-planetarium/internal/state"
)

var testTime = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func testFrame() render.Frame {
	return render.Frame{
		Now:       testTime,
		JulianDay: 2460390.0,
		Mode:      render.SkyProjected,
		Camera:    camera.CreateRADec(5.5, -5.25, 60),
		FovAngle:  60 / 343.774 * 180 / 3.141592653589793,
		Width:     800,
		Height:    600,
	}
}

func TestExportSnapshot(t *testing.T) {
	events := []state.Event{{Type: state.EventSnap, SimTime: testTime}}
	export := ExportSnapshot(testFrame(), events)

	if !export.SimTime.Equal(testTime) {
		t.Errorf("SimTime = %v, want %v", export.SimTime, testTime)
	}
	if export.Mode != "sky" {
		t.Errorf("Mode = %q, want sky", export.Mode)
	}
	if d := export.Camera.RA - 5.5; d > 1e-9 || d < -1e-9 {
		t.Errorf("RA = %v, want 5.5", export.Camera.RA)
	}
	if d := export.Camera.Dec + 5.25; d > 1e-9 || d < -1e-9 {
		t.Errorf("Dec = %v, want -5.25", export.Camera.Dec)
	}
	if export.Viewport != [2]int{800, 600} {
		t.Errorf("Viewport = %v", export.Viewport)
	}
	if len(export.Events) != 1 {
		t.Errorf("Events = %d, want 1", len(export.Events))
	}
}

func TestSnapshotExport_WriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportSnapshot(testFrame(), nil).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"sim_time", "julian_day", "mode", "camera", "fov_deg"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if _, ok := decoded["events"]; ok {
		t.Error("events should be omitted when empty")
	}
}

func TestWriteFramesCSV(t *testing.T) {
	f := testFrame()
	rows := []FrameRow{NewFrameRow(0, f), NewFrameRow(1, f)}

	var buf bytes.Buffer
	if err := WriteFramesCSV(&buf, rows); err != nil {
		t.Fatalf("WriteFramesCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "frame,sim_time,jd,mode") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "2024-03-20T12:00:00Z") {
		t.Errorf("row = %q, want RFC3339 sim time", lines[2])
	}
}

func TestWriteFramesCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFramesCSV(&buf, nil); err != nil {
		t.Fatalf("WriteFramesCSV: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q for no rows", buf.String())
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, testFrame())
	out := buf.String()

	for _, want := range []string{"Planetarium @ 2024-03-20T12:00:00Z", "sky", "05h30m00s", "-05:15:00", "800x600"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummary_Planet(t *testing.T) {
	f := testFrame()
	f.Mode = render.PlanetSurface3D
	f.Camera = camera.Create(45, 10, 360, 0, 0, 1)

	var buf bytes.Buffer
	WriteSummary(&buf, f)
	if !strings.Contains(buf.String(), "Lat") {
		t.Errorf("planet summary should show Lat:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "RA ") {
		t.Errorf("planet summary should not show RA:\n%s", buf.String())
	}
}

func TestWriteEvents(t *testing.T) {
	events := []state.Event{
		{Type: state.EventMoveStarted, SimTime: testTime, Zoom: 60},
		{Type: state.EventModeChanged, SimTime: testTime, OldMode: "sky", Mode: "planet"},
	}
	var buf bytes.Buffer
	WriteEvents(&buf, events)
	out := buf.String()

	if !strings.Contains(out, "MOVE_STARTED") {
		t.Errorf("missing event type:\n%s", out)
	}
	if !strings.Contains(out, "sky → planet") {
		t.Errorf("missing mode change detail:\n%s", out)
	}
	if !strings.Contains(out, "Total: 2 events") {
		t.Errorf("missing total:\n%s", out)
	}
}

func TestWriteEvents_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteEvents(&buf, nil)
	if !strings.Contains(buf.String(), "No events") {
		t.Errorf("got %q", buf.String())
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer string", 8, "much lo…"},
		{"héllo wörld", 5, "héll…"},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
