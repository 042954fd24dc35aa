// Package report writes headless views of the planetarium: JSON snapshots,
// text tables and CSV frame traces.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/litescript/ls-planetarium/internal/astro"
	"github.com/litescript/ls-planetarium/internal/render"
	"github.com/litescript/ls-planetarium/internal/state"
)

// SnapshotExport is the JSON-serializable representation of one frame.
type SnapshotExport struct {
	SimTime   time.Time     `json:"sim_time"`
	JulianDay float64       `json:"julian_day"`
	Mode      string        `json:"mode"`
	Galactic  bool          `json:"galactic"`
	Moving    bool          `json:"moving"`
	Camera    CameraExport  `json:"camera"`
	FovDeg    float64       `json:"fov_deg"`
	Viewport  [2]int        `json:"viewport"`
	Events    []state.Event `json:"events,omitempty"`
}

// CameraExport is a JSON-friendly camera representation.
type CameraExport struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RA       float64 `json:"ra_hours"`
	Dec      float64 `json:"dec_deg"`
	Zoom     float64 `json:"zoom"`
	Rotation float64 `json:"rotation"`
	Angle    float64 `json:"angle"`
	Target   string  `json:"target"`
}

// ExportSnapshot converts a frame and its recent events to an exportable
// format.
func ExportSnapshot(f render.Frame, events []state.Event) *SnapshotExport {
	cam := f.Camera
	return &SnapshotExport{
		SimTime:   f.Now,
		JulianDay: f.JulianDay,
		Mode:      f.Mode.String(),
		Galactic:  f.Galactic,
		Moving:    f.Moving,
		Camera: CameraExport{
			Lat:      cam.Lat,
			Lng:      cam.Lng,
			RA:       cam.RA(),
			Dec:      cam.Dec(),
			Zoom:     cam.Zoom,
			Rotation: cam.Rotation,
			Angle:    cam.Angle,
			Target:   cam.Target.String(),
		},
		FovDeg:   f.FovAngle,
		Viewport: [2]int{f.Width, f.Height},
		Events:   events,
	}
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// FrameRow is one line of a CSV frame trace.
type FrameRow struct {
	Frame   int     `csv:"frame"`
	SimTime string  `csv:"sim_time"`
	JD      float64 `csv:"jd"`
	Mode    string  `csv:"mode"`
	Lat     float64 `csv:"lat"`
	Lng     float64 `csv:"lng"`
	RA      float64 `csv:"ra_hours"`
	Dec     float64 `csv:"dec_deg"`
	Zoom    float64 `csv:"zoom"`
	FovDeg  float64 `csv:"fov_deg"`
	Moving  bool    `csv:"moving"`
}

// NewFrameRow summarizes a frame for the CSV trace.
func NewFrameRow(n int, f render.Frame) FrameRow {
	return FrameRow{
		Frame:   n,
		SimTime: f.Now.UTC().Format(time.RFC3339Nano),
		JD:      f.JulianDay,
		Mode:    f.Mode.String(),
		Lat:     f.Camera.Lat,
		Lng:     f.Camera.Lng,
		RA:      f.Camera.RA(),
		Dec:     f.Camera.Dec(),
		Zoom:    f.Camera.Zoom,
		FovDeg:  f.FovAngle,
		Moving:  f.Moving,
	}
}

// WriteFramesCSV writes frame rows with a header line.
func WriteFramesCSV(w io.Writer, rows []FrameRow) error {
	if len(rows) == 0 {
		return nil
	}
	return gocsv.Marshal(rows, w)
}

// WriteSummary writes a text table describing the frame.
func WriteSummary(w io.Writer, f render.Frame) {
	cam := f.Camera
	fmt.Fprintf(w, "Planetarium @ %s\n", f.Now.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	fmt.Fprintf(w, "%-12s %s\n", "Mode", f.Mode)
	fmt.Fprintf(w, "%-12s %.6f\n", "Julian day", f.JulianDay)
	if f.Mode == render.SkyProjected {
		fmt.Fprintf(w, "%-12s %s\n", "RA", astro.FormatHMS(cam.RA()))
		fmt.Fprintf(w, "%-12s %s\n", "Dec", astro.FormatDMSSign(cam.Dec()))
	} else {
		fmt.Fprintf(w, "%-12s %s\n", "Lat", astro.FormatDMSSign(cam.Lat))
		fmt.Fprintf(w, "%-12s %s\n", "Lng", astro.FormatDMS(cam.Lng))
		fmt.Fprintf(w, "%-12s %s\n", "Target", cam.Target)
	}
	fmt.Fprintf(w, "%-12s %.4g\n", "Zoom", cam.Zoom)
	fmt.Fprintf(w, "%-12s %.3f°\n", "FOV", f.FovAngle)
	fmt.Fprintf(w, "%-12s %.1f° / %.3f rad\n", "Rotation", cam.Rotation, cam.Angle)
	fmt.Fprintf(w, "%-12s %dx%d\n", "Viewport", f.Width, f.Height)
	if f.Galactic {
		fmt.Fprintf(w, "%-12s %s\n", "Grid", "galactic")
	}
	if f.Moving {
		fmt.Fprintf(w, "%-12s %s\n", "Status", "moving")
	}
}

// WriteEvents writes navigation events as a text table.
func WriteEvents(w io.Writer, events []state.Event) {
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}

	fmt.Fprintf(w, "%-20s %-15s %8s %8s %10s %s\n",
		"Sim time", "Event", "Lat", "Lng", "Zoom", "Detail")
	for _, e := range events {
		detail := e.Detail
		if e.Type == state.EventModeChanged {
			detail = e.OldMode + " → " + e.Mode
		}
		fmt.Fprintf(w, "%-20s %-15s %8.3f %8.3f %10.4g %s\n",
			e.SimTime.UTC().Format("2006-01-02 15:04:05"),
			truncateStr(string(e.Type), 15),
			e.Lat, e.Lng, e.Zoom,
			truncateStr(detail, 24),
		)
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(events))
}

// truncateStr shortens s to at most max runes.
func truncateStr(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
