package renderer

import (
	"math"
	"testing"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCameraRoundTrip(t *testing.T) {
	points := []board.FPoint{{X: 0, Y: 0}, {X: 150, Y: -40}, {X: -320.5, Y: 77}, {X: 1e4, Y: 2e4}}
	for steps := 0; steps < 4; steps++ {
		for _, flipH := range []bool{false, true} {
			for _, flipV := range []bool{false, true} {
				cam := Camera{
					X: 12, Y: -7, Zoom: 0.37,
					RotationSteps: steps, FlipH: flipH, FlipV: flipV,
					PivotX: 40, PivotY: 25,
					Width: 800, Height: 600,
				}
				for _, p := range points {
					sx, sy := cam.WorldToScreen(p)
					got := cam.ScreenToWorld(sx, sy)
					if !near(got.X, p.X) || !near(got.Y, p.Y) {
						t.Errorf("steps=%d flipH=%v flipV=%v: ScreenToWorld(WorldToScreen(%v)) = %v",
							steps, flipH, flipV, p, got)
					}
				}
			}
		}
	}
}

func TestCameraQuarterTurn(t *testing.T) {
	cam := Camera{Zoom: 1, RotationSteps: 1}
	got := cam.ToView(board.FPoint{X: 1, Y: 0})
	// clockwise on a Y-up board: +X ends up pointing down
	if !near(got.X, 0) || !near(got.Y, -1) {
		t.Errorf("ToView({1,0}) = %v, want {0,-1}", got)
	}

	cam = Camera{Zoom: 1, RotationSteps: 1, FlipH: true}
	got = cam.ToView(board.FPoint{X: 1, Y: 0})
	// flip is applied before the rotation
	if !near(got.X, 0) || !near(got.Y, 1) {
		t.Errorf("flipped ToView({1,0}) = %v, want {0,1}", got)
	}
}

func TestCameraZoomAboutKeepsAnchor(t *testing.T) {
	cam := Camera{X: 100, Y: 50, Zoom: 0.5, RotationSteps: 3, FlipV: true, Width: 640, Height: 480}
	anchor := board.FPoint{X: 210, Y: -35}
	sx0, sy0 := cam.WorldToScreen(anchor)

	cam.ZoomAbout(1.7, anchor)

	sx1, sy1 := cam.WorldToScreen(anchor)
	if !near(sx0, sx1) || !near(sy0, sy1) {
		t.Errorf("anchor moved from (%v,%v) to (%v,%v)", sx0, sy0, sx1, sy1)
	}
	if !near(cam.Zoom, 0.85) {
		t.Errorf("Zoom = %v, want 0.85", cam.Zoom)
	}
}

func TestCameraZoomClamped(t *testing.T) {
	cam := NewCamera(100, 100)
	cam.ZoomAbout(1e9, board.FPoint{})
	if cam.Zoom != MaxZoom {
		t.Errorf("Zoom = %v, want %v", cam.Zoom, MaxZoom)
	}
	cam.ZoomAbout(1e-12, board.FPoint{})
	if cam.Zoom != MinZoom {
		t.Errorf("Zoom = %v, want %v", cam.Zoom, MinZoom)
	}
	cam.ZoomAbout(-2, board.FPoint{})
	if cam.Zoom != MinZoom {
		t.Errorf("negative factor changed zoom to %v", cam.Zoom)
	}
}

func TestCameraPanFollowsPointer(t *testing.T) {
	cam := Camera{Zoom: 2, Width: 200, Height: 200}
	p := board.FPoint{X: 10, Y: 10}
	sx0, sy0 := cam.WorldToScreen(p)
	cam.Pan(30, -12)
	sx1, sy1 := cam.WorldToScreen(p)
	if !near(sx1-sx0, 30) || !near(sy1-sy0, -12) {
		t.Errorf("point moved by (%v,%v), want (30,-12)", sx1-sx0, sy1-sy0)
	}
}
