package renderer

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile"
)

// Policy carries the per-dialect rendering differences
type Policy struct {
	Name      string
	Geometry  board.GeometryOptions
	PinAlpha  float32
	PartAlpha float32
}

// PolicyFor returns the policy for a board dialect. The legacy dialect
// shows both faces overlapped with the bottom mirrored, so its pins and
// parts are drawn slightly transparent.
func PolicyFor(dialect string) Policy {
	if dialect == boardfile.DialectBRD {
		return Policy{
			Name:      dialect,
			Geometry:  board.MirroredGeometryOptions(),
			PinAlpha:  0.8,
			PartAlpha: 0.7,
		}
	}
	return Policy{
		Name:      dialect,
		Geometry:  board.DefaultGeometryOptions(),
		PinAlpha:  1,
		PartAlpha: 1,
	}
}
