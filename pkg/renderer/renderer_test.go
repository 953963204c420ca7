package renderer

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile/brd2"
)

const (
	viewW = 800
	viewH = 600
)

// testBoard is a 1000 x 500 board with a top part U1 and a bottom part R1
func testBoard() *board.Board {
	b := board.New("test", "")
	b.Format = []board.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 500}, {X: 0, Y: 500}}
	b.Parts = []board.Part{
		{Name: "U1", Side: board.SideTop, P1: board.Point{X: 100, Y: 100}, P2: board.Point{X: 300, Y: 200}, EndOfPins: 2},
		{Name: "R1", Side: board.SideBottom, P1: board.Point{X: 600, Y: 300}, P2: board.Point{X: 700, Y: 400}, EndOfPins: 4},
	}
	b.Pins = []board.Pin{
		{Pos: board.Point{X: 150, Y: 150}, Part: 1, Side: board.SideTop, Net: "GND"},
		{Pos: board.Point{X: 250, Y: 150}, Part: 1, Side: board.SideTop, Net: "VCC"},
		{Pos: board.Point{X: 620, Y: 350}, Part: 2, Side: board.SideBottom, Net: "VCC"},
		{Pos: board.Point{X: 680, Y: 350}, Part: 2, Side: board.SideBottom, Net: "NET1"},
	}
	b.AttachNails()
	return b
}

func fitted(b *board.Board) *Renderer {
	r := New()
	r.SetBoard(b)
	r.ZoomToFit(viewW, viewH)
	return r
}

func pinScreen(r *Renderer, i int) (float64, float64) {
	cam := r.Camera()
	return cam.WorldToScreen(r.PinCenter(i))
}

func TestSetBoardBuildsGeometry(t *testing.T) {
	b := testBoard()
	r := New()
	r.SetBoard(b)
	if got := len(b.Geometry.Circles); got != 4 {
		t.Errorf("len(Circles) = %d, want 4", got)
	}
	cam := r.Camera()
	if cam.PivotX != 500 || cam.PivotY != 250 {
		t.Errorf("pivot = (%v,%v), want (500,250)", cam.PivotX, cam.PivotY)
	}
}

func TestZoomToFit(t *testing.T) {
	r := fitted(testBoard())
	cam := r.Camera()
	if !near(cam.Zoom, 0.72) {
		t.Errorf("Zoom = %v, want 0.72", cam.Zoom)
	}
	if cam.X != 500 || cam.Y != 250 {
		t.Errorf("centre = (%v,%v), want (500,250)", cam.X, cam.Y)
	}
}

func TestFitKeepsCornersVisible(t *testing.T) {
	b := testBoard()
	r := fitted(b)
	bb := b.RenderingBoundingBox()
	corners := []board.FPoint{bb.Min, bb.Max, {X: bb.Min.X, Y: bb.Max.Y}, {X: bb.Max.X, Y: bb.Min.Y}}

	for step := 0; step < 4; step++ {
		cam := r.Camera()
		for _, c := range corners {
			sx, sy := cam.WorldToScreen(c)
			if !r.IsElementVisible(sx, sy, 0) {
				t.Errorf("steps=%d: corner %v at (%v,%v) is off screen", step, c, sx, sy)
			}
		}
		r.RotateRight()
	}
}

func TestRotationCycle(t *testing.T) {
	r := fitted(testBoard())
	start := r.Camera()

	r.RotateRight()
	if got := r.Camera().RotationSteps; got != 1 {
		t.Fatalf("RotationSteps = %d, want 1", got)
	}
	if got := r.Camera().Zoom; !near(got, 0.54) {
		t.Errorf("rotated Zoom = %v, want 0.54", got)
	}
	for i := 0; i < 3; i++ {
		r.RotateRight()
	}
	if diff := cmp.Diff(start, r.Camera()); diff != "" {
		t.Errorf("four right turns mismatch (-want +got):\n%s", diff)
	}

	r.RotateLeft()
	if got := r.Camera().RotationSteps; got != 3 {
		t.Errorf("RotateLeft from 0 gives %d, want 3", got)
	}
}

func TestFlipTwiceIsIdentity(t *testing.T) {
	r := fitted(testBoard())
	start := r.Camera()

	r.ToggleFlipHorizontal()
	if !r.Camera().FlipH {
		t.Fatal("FlipH not set")
	}
	r.ToggleFlipHorizontal()
	r.ToggleFlipVertical()
	r.ToggleFlipVertical()
	if diff := cmp.Diff(start, r.Camera()); diff != "" {
		t.Errorf("double flip mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleMouseClick(t *testing.T) {
	r := fitted(testBoard())
	r.SetHighlightedNet("NET1")

	sx, sy := pinScreen(r, 1)
	if !r.HandleMouseClick(sx, sy) {
		t.Fatal("click on pin 1 missed")
	}
	if got := r.SelectedPin(); got != 1 {
		t.Errorf("SelectedPin() = %d, want 1", got)
	}
	if r.HighlightedNet() != "" {
		t.Error("selecting a pin kept the net highlight")
	}

	if r.HandleMouseClick(2, 2) {
		t.Error("click on empty corner hit a pin")
	}
	if got := r.SelectedPin(); got != -1 {
		t.Errorf("SelectedPin() after miss = %d, want -1", got)
	}
}

func TestHitTestFirstWinsOnTie(t *testing.T) {
	b := board.New("test", "")
	b.Format = []board.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	b.Parts = []board.Part{{Name: "J1", Side: board.SideTop, P1: board.Point{X: 40, Y: 40}, P2: board.Point{X: 60, Y: 60}, EndOfPins: 2}}
	b.Pins = []board.Pin{
		{Pos: board.Point{X: 50, Y: 50}, Part: 1, Side: board.SideTop, Net: "A"},
		{Pos: board.Point{X: 50, Y: 50}, Part: 1, Side: board.SideTop, Net: "B"},
	}
	r := fitted(b)

	sx, sy := pinScreen(r, 0)
	if got := r.HitTestPin(sx, sy); got != 0 {
		t.Errorf("HitTestPin() = %d, want 0", got)
	}
	if got := r.GetHoveredPin(sx, sy); got != 0 || r.HoveredPin() != 0 {
		t.Errorf("GetHoveredPin() = %d, HoveredPin() = %d, want 0", got, r.HoveredPin())
	}
}

func TestHitTestRectPad(t *testing.T) {
	b := board.New("test", "")
	b.Format = []board.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000}}
	b.Parts = []board.Part{{Name: "J1", Side: board.SideTop, P1: board.Point{X: 300, Y: 480}, P2: board.Point{X: 700, Y: 520}, EndOfPins: 1}}
	b.Pins = []board.Pin{{
		Pos: board.Point{X: 500, Y: 500}, Part: 1, Side: board.SideTop, Net: "A",
		Shape: board.PadRect, Size: board.Size{W: 400, H: 20},
	}}
	r := fitted(b)
	cam := r.Camera()

	tests := []struct {
		name string
		at   board.FPoint
		want int
	}{
		{"centre", board.FPoint{X: 500, Y: 500}, 0},
		{"along the long side", board.FPoint{X: 690, Y: 505}, 0},
		{"beside the short side", board.FPoint{X: 500, Y: 560}, -1},
		{"off the corner", board.FPoint{X: 690, Y: 530}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy := cam.WorldToScreen(tt.at)
			if got := r.HitTestPin(sx, sy); got != tt.want {
				t.Errorf("HitTestPin(%v) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestHitTestPart(t *testing.T) {
	r := fitted(testBoard())
	cam := r.Camera()

	sx, sy := cam.WorldToScreen(board.FPoint{X: 200, Y: 180})
	if got := r.HitTestPart(sx, sy); got != 0 {
		t.Errorf("HitTestPart(U1) = %d, want 0", got)
	}
	sx, sy = cam.WorldToScreen(board.FPoint{X: 450, Y: 450})
	if got := r.HitTestPart(sx, sy); got != -1 {
		t.Errorf("HitTestPart(empty) = %d, want -1", got)
	}
}

func TestPinColorPrecedence(t *testing.T) {
	r := fitted(testBoard())
	s := r.Settings()
	red := board.RGB(0.7, 0, 0)

	want := []board.Color{s.GroundColor, red, red, red}
	for i, w := range want {
		if diff := cmp.Diff(w, r.PinColor(i)); diff != "" {
			t.Errorf("idle pin %d color mismatch (-want +got):\n%s", i, diff)
		}
	}

	r.SelectPin(1)
	r.SetHighlightedPart(1)
	want = []board.Color{s.GroundColor, s.SameNetColor, s.SameNetColor, s.PartHighlightBorder}
	for i, w := range want {
		if diff := cmp.Diff(w, r.PinColor(i)); diff != "" {
			t.Errorf("selected pin %d color mismatch (-want +got):\n%s", i, diff)
		}
	}

	r.ClearSelection()
	r.ClearHighlights()
	s.OverridePinColors = true
	if diff := cmp.Diff(s.PinColor, r.PinColor(3)); diff != "" {
		t.Errorf("override color mismatch (-want +got):\n%s", diff)
	}
}

func TestPinColorUsesPolicyAlpha(t *testing.T) {
	b := testBoard()
	b.Dialect = boardfile.DialectBRD
	b.Geometry = board.Geometry{}
	r := fitted(b)
	if got := r.PinColor(3).A; !near(float64(got), float64(float32(0.8))) {
		t.Errorf("legacy pin alpha = %v, want 0.8", got)
	}
	// the bottom face is mirrored below the top one
	if got := r.PinCenter(2).Y; got != -350 {
		t.Errorf("mirrored pin y = %v, want -350", got)
	}
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		dialect  string
		mirrored bool
		pinAlpha float32
	}{
		{boardfile.DialectBRD, true, 0.8},
		{boardfile.DialectBRD2, false, 1},
		{boardfile.DialectKiCad, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			p := PolicyFor(tt.dialect)
			if p.Name != tt.dialect || p.Geometry.MirrorBottom != tt.mirrored || p.PinAlpha != tt.pinAlpha {
				t.Errorf("PolicyFor(%q) = %+v", tt.dialect, p)
			}
		})
	}
}

func TestRenderPassOrder(t *testing.T) {
	r := fitted(testBoard())
	r.Settings().ShowRatsnest = true
	r.SelectPin(2)
	r.SetHighlightedPart(0)

	dl := r.Render(viewW, viewH)
	if dl.Commands[0].Kind != KindClear {
		t.Fatalf("first command = %v, want clear", dl.Commands[0].Kind)
	}
	for i := 1; i < len(dl.Commands); i++ {
		if dl.Commands[i].Pass < dl.Commands[i-1].Pass {
			t.Fatalf("command %d pass %v follows %v", i, dl.Commands[i].Pass, dl.Commands[i-1].Pass)
		}
	}
	for _, pass := range []Pass{PassOutline, PassPartOutline, PassPins, PassRatsnest, PassPartHighlight} {
		if len(dl.Filter(pass)) == 0 {
			t.Errorf("pass %v drew nothing", pass)
		}
	}
	if got := len(dl.Filter(PassOutline)); got != 4 {
		t.Errorf("outline lines = %d, want 4", got)
	}
	// four pins plus the selection ring
	if dl.Stats.Circles != 5 {
		t.Errorf("Stats.Circles = %d, want 5", dl.Stats.Circles)
	}
}

func TestRenderEmpty(t *testing.T) {
	r := New()
	dl := r.Render(viewW, viewH)
	if len(dl.Commands) != 1 || dl.Commands[0].Kind != KindClear {
		t.Errorf("empty render = %+v, want a single clear", dl.Commands)
	}
}

func TestRenderCullsOffscreen(t *testing.T) {
	r := fitted(testBoard())
	r.Pan(1e5, 0)
	dl := r.Render(viewW, viewH)
	if dl.Stats.Circles != 0 || dl.Stats.Lines != 0 {
		t.Errorf("far pan drew %d circles and %d lines", dl.Stats.Circles, dl.Stats.Lines)
	}
	if dl.Stats.Culled == 0 {
		t.Error("nothing was culled")
	}
}

func TestHiddenLayers(t *testing.T) {
	r := fitted(testBoard())
	if !r.SetLayerVisible(LayerBottom, false) {
		t.Fatal("SetLayerVisible(bottom) reported unknown layer")
	}
	if r.SetLayerVisible("Silkscreen", false) {
		t.Error("SetLayerVisible accepted an unknown layer")
	}

	dl := r.Render(viewW, viewH)
	if dl.Stats.Circles != 2 {
		t.Errorf("Stats.Circles = %d, want 2 top pins", dl.Stats.Circles)
	}
	sx, sy := pinScreen(r, 2)
	if got := r.HitTestPin(sx, sy); got != -1 {
		t.Errorf("hidden pin was hit: %d", got)
	}

	r.HideAllLayers()
	dl = r.Render(viewW, viewH)
	if len(dl.Filter(PassOutline)) != 0 || dl.Stats.Circles != 0 {
		t.Error("HideAllLayers left geometry on screen")
	}
	r.ShowAllLayers()
	if !r.LayerVisible(LayerOutline) {
		t.Error("ShowAllLayers left the outline hidden")
	}
}

func TestZoomToNet(t *testing.T) {
	src := strings.Join([]string{
		"BRDOUT: 4 100 100", "0 0", "100 0", "100 100", "0 100",
		"NETS: 1", "0 GND",
		"PARTS: 1", "U1 10 10 90 90 0 1",
		"PINS: 2", "20 20 0 1", "80 80 0 1",
	}, "\n")
	b, err := brd2.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r := fitted(b)

	if !r.ZoomToNet("GND") {
		t.Fatal("ZoomToNet(GND) = false")
	}
	cam := r.Camera()
	if !near(cam.X, 50) || !near(cam.Y, 50) {
		t.Errorf("centre = (%v,%v), want (50,50)", cam.X, cam.Y)
	}
	if !near(cam.Zoom, 540.0/minFocusSize) {
		t.Errorf("Zoom = %v, want %v", cam.Zoom, 540.0/minFocusSize)
	}
	if r.HighlightedNet() != "GND" {
		t.Errorf("HighlightedNet() = %q, want GND", r.HighlightedNet())
	}
	if r.ZoomToNet("VCC") {
		t.Error("ZoomToNet(VCC) = true on a board without VCC")
	}
}

func TestZoomToPart(t *testing.T) {
	r := fitted(testBoard())
	if !r.ZoomToPart("R1") {
		t.Fatal("ZoomToPart(R1) = false")
	}
	cam := r.Camera()
	if !near(cam.X, 650) || !near(cam.Y, 350) {
		t.Errorf("centre = (%v,%v), want (650,350)", cam.X, cam.Y)
	}
	if r.HighlightedPart() != 1 {
		t.Errorf("HighlightedPart() = %d, want 1", r.HighlightedPart())
	}
	if r.ZoomToPart("Q9") {
		t.Error("ZoomToPart(Q9) = true")
	}
}

func TestZoomAnchorsOnCursor(t *testing.T) {
	r := fitted(testBoard())
	sx, sy := pinScreen(r, 1)
	r.Zoom(2.5, sx, sy)
	gx, gy := pinScreen(r, 1)
	if !near(gx, sx) || !near(gy, sy) {
		t.Errorf("pin moved from (%v,%v) to (%v,%v)", sx, sy, gx, gy)
	}
	if !near(r.Camera().Zoom, 1.8) {
		t.Errorf("Zoom = %v, want 1.8", r.Camera().Zoom)
	}
}

func TestClampHorizontal(t *testing.T) {
	r := fitted(testBoard())

	// narrower than the view: centred
	r.Pan(-300, 0)
	r.ClampHorizontal(viewW, viewH)
	if got := r.Camera().X; !near(got, 500) {
		t.Errorf("X = %v, want 500", got)
	}

	// wider than the view: clamped so no gap shows
	r.SetCamera(-1000, 250, 2)
	r.ClampHorizontal(viewW, viewH)
	if got := r.Camera().X; !near(got, 200) {
		t.Errorf("X = %v, want 200", got)
	}
	r.SetCamera(5000, 250, 2)
	r.ClampHorizontal(viewW, viewH)
	if got := r.Camera().X; !near(got, 800) {
		t.Errorf("X = %v, want 800", got)
	}
}

func TestRatsnest(t *testing.T) {
	b := board.New("test", "")
	b.Parts = []board.Part{{Name: "U1", Side: board.SideTop, EndOfPins: 6}}
	for i, net := range []string{"NET_A", "NET_A", "GND", "NET_A", "GND", "NET_A"} {
		b.Pins = append(b.Pins, board.Pin{Pos: board.Point{X: i * 10}, Part: 1, Side: board.SideTop, Net: net})
	}
	b.Nails = []board.Nail{{Probe: 1, Pos: board.Point{X: 500}, Side: board.SideTop, Net: "NET_A"}}
	b.AttachNails()

	centers := make([]board.FPoint, len(b.Pins))
	for i := range b.Pins {
		centers[i] = b.Pins[i].Pos.F()
	}
	wires := Ratsnest(b, centers)
	if len(wires) != 3 {
		t.Fatalf("len(wires) = %d, want 3", len(wires))
	}
	total := 0.0
	for _, w := range wires {
		if w.Net != "NET_A" {
			t.Errorf("wire on net %q", w.Net)
		}
		total += math.Abs(centers[w.A].X - centers[w.B].X)
	}
	if total != 50 {
		t.Errorf("tree length = %v, want 50", total)
	}
}

func TestNetClassification(t *testing.T) {
	tests := []struct {
		net        string
		ground, nc bool
	}{
		{"GND", true, false},
		{"AGND", true, false},
		{"GND_SENSE", true, false},
		{"VSS_IO", true, false},
		{"VCC", false, false},
		{"", false, true},
		{"NC", false, true},
		{"n/c", false, true},
		{"UNCONNECTED", false, true},
		{"NC_12", false, true},
		{"NCLK", false, false},
	}
	for _, tt := range tests {
		if got := IsGroundNet(tt.net); got != tt.ground {
			t.Errorf("IsGroundNet(%q) = %v, want %v", tt.net, got, tt.ground)
		}
		if got := IsNCNet(tt.net); got != tt.nc {
			t.Errorf("IsNCNet(%q) = %v, want %v", tt.net, got, tt.nc)
		}
	}
}

func TestThemes(t *testing.T) {
	r := New()
	r.SetTheme(ThemeLight)
	if r.Theme() != ThemeLight {
		t.Errorf("Theme() = %v, want light", r.Theme())
	}
	if got := r.Settings().BackgroundColor; got != board.RGB(0.96, 0.96, 0.96) {
		t.Errorf("light background = %v", got)
	}

	th, ok := ParseTheme("High-Contrast")
	if !ok || th != ThemeHighContrast {
		t.Errorf("ParseTheme(High-Contrast) = %v, %v", th, ok)
	}
	if _, ok := ParseTheme("neon"); ok {
		t.Error("ParseTheme(neon) succeeded")
	}
}

func TestApplyThemeSpec(t *testing.T) {
	r := New()
	on := true
	spec := ThemeSpec{
		Name:              "bench",
		Base:              ThemeLight,
		Colors:            map[string]board.Color{"pin": board.RGB(0, 0, 1)},
		Alphas:            map[string]float32{"outline": 0.5},
		OverridePinColors: &on,
	}
	if err := r.ApplyThemeSpec(spec); err != nil {
		t.Fatalf("ApplyThemeSpec() error = %v", err)
	}
	s := r.Settings()
	if s.PinColor != board.RGB(0, 0, 1) || s.OutlineAlpha != 0.5 || !s.OverridePinColors {
		t.Errorf("overrides not applied: pin=%v outline alpha=%v override=%v", s.PinColor, s.OutlineAlpha, s.OverridePinColors)
	}

	bad := []ThemeSpec{
		{Name: "x", Colors: map[string]board.Color{"silk": {}}},
		{Name: "x", Alphas: map[string]float32{"pin": 1.5}},
		{Name: "x", Alphas: map[string]float32{"glow": 0.1}},
	}
	for _, spec := range bad {
		before := *s
		if err := r.ApplyThemeSpec(spec); err == nil {
			t.Errorf("ApplyThemeSpec(%+v) succeeded", spec)
		}
		if diff := cmp.Diff(before, *s); diff != "" {
			t.Errorf("rejected theme changed settings (-want +got):\n%s", diff)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    board.Color
		wantErr bool
	}{
		{in: "#ff0000", want: board.RGB(1, 0, 0)},
		{in: "00ff00ff", want: board.RGB(0, 1, 0)},
		{in: "#0000ff00", want: board.Color{B: 1}},
		{in: "#fff", wantErr: true},
		{in: "#gg0000", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
