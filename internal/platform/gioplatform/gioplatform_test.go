package gioplatform

import (
	"testing"

	"gioui.org/io/pointer"
	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/viewport"
)

func TestViewportButtons(t *testing.T) {
	tests := []struct {
		name string
		in   pointer.Buttons
		want []int
	}{
		{"none", 0, nil},
		{"left", pointer.ButtonPrimary, []int{viewport.ButtonPrimary}},
		{"right pans by default", pointer.ButtonSecondary, []int{viewport.ButtonPan}},
		{"middle", pointer.ButtonTertiary, []int{viewport.ButtonMiddle}},
		{"chord", pointer.ButtonPrimary | pointer.ButtonTertiary, []int{viewport.ButtonPrimary, viewport.ButtonMiddle}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, viewportButtons(tt.in)); diff != "" {
				t.Errorf("viewportButtons() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
