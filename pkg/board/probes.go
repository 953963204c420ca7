package board

// AttachNails appends the two synthetic probe parts, bottom first, and turns
// every nail into a pin on the probe part for its side. Nails on either side
// that are not bottom nails go to the top probe part.
func (b *Board) AttachNails() {
	b.Parts = append(b.Parts,
		Part{Name: ProbePartName, Side: SideBottom, Type: SMD, Probe: true},
		Part{Name: ProbePartName, Side: SideTop, Type: SMD, Probe: true},
	)
	bottom := len(b.Parts) - 1
	top := len(b.Parts)

	for _, nail := range b.Nails {
		pin := Pin{
			Pos:   nail.Pos,
			Probe: nail.Probe,
			Side:  nail.Side,
			Net:   nail.Net,
			Part:  top,
		}
		if nail.Side == SideBottom {
			pin.Part = bottom
		}
		if pin.Net == "" {
			pin.Net = Unconnected
		}
		b.Pins = append(b.Pins, pin)
	}
}

// IsProbePin reports whether the pin at index was created from a nail
func (b *Board) IsProbePin(index int) bool {
	part := b.PartOf(&b.Pins[index])
	return part != nil && part.Probe
}
