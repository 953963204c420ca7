package renderer

import (
	"math"
	"sort"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
)

// MaxRatsnestPins skips nets too large to be useful as airwires
const MaxRatsnestPins = 256

// Airwire joins two pins of the same net
type Airwire struct {
	A, B int // pin indices
	Net  string
}

// Ratsnest returns a minimum spanning tree of airwires for every net that
// has at least two real pins. Ground, NC and oversized nets are skipped.
// centers holds the drawn position of each pin.
func Ratsnest(b *board.Board, centers []board.FPoint) []Airwire {
	byNet := make(map[string][]int)
	for i := range b.Pins {
		net := b.Pins[i].Net
		if IsGroundNet(net) || IsNCNet(net) || b.IsProbePin(i) {
			continue
		}
		byNet[net] = append(byNet[net], i)
	}

	nets := make([]string, 0, len(byNet))
	for net, pins := range byNet {
		if len(pins) >= 2 && len(pins) <= MaxRatsnestPins {
			nets = append(nets, net)
		}
	}
	sort.Strings(nets)

	var wires []Airwire
	for _, net := range nets {
		wires = append(wires, prim(byNet[net], centers, net)...)
	}
	return wires
}

// prim grows the tree from the first pin, always adding the closest pin
// not yet connected.
func prim(pins []int, centers []board.FPoint, net string) []Airwire {
	n := len(pins)
	in := make([]bool, n)
	dist := make([]float64, n)
	from := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[0] = 0

	wires := make([]Airwire, 0, n-1)
	for k := 0; k < n; k++ {
		u := -1
		for i := 0; i < n; i++ {
			if !in[i] && (u < 0 || dist[i] < dist[u]) {
				u = i
			}
		}
		in[u] = true
		if k > 0 {
			wires = append(wires, Airwire{A: pins[from[u]], B: pins[u], Net: net})
		}
		cu := centers[pins[u]]
		for v := 0; v < n; v++ {
			if in[v] {
				continue
			}
			cv := centers[pins[v]]
			dx, dy := cu.X-cv.X, cu.Y-cv.Y
			if d := dx*dx + dy*dy; d < dist[v] {
				dist[v] = d
				from[v] = u
			}
		}
	}
	return wires
}
