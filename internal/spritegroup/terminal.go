package spritegroup

import "github.com/xtding233/grf-resolver/internal/layout"

// ProcessRegisters turns the layout template into a drawable layout.
//
// Without register preprocessing the template is returned as is and, when the
// template has stage sprites, *stage is replaced by the matching sprite offset.
// Otherwise registers and the stage are folded into the sprites and *stage is
// reset to 0. stage may be nil.
func (t *TileLayout) ProcessRegisters(regs layout.RegisterReader, stage *uint8) *layout.Processor {
	if !t.DTS.NeedsPreprocessing() {
		if stage != nil && t.DTS.ConsistentMaxOffset > 0 {
			*stage = layout.ConstructionStageOffset(*stage, t.DTS.ConsistentMaxOffset)
		}
		return layout.Static(t.DTS)
	}

	var actual uint8
	if stage != nil {
		actual = *stage
	}
	p := layout.Process(t.DTS, regs, actual)
	if stage != nil {
		*stage = 0
	}
	return p
}
