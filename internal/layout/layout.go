// Package layout holds tile sprite layouts produced by tile layout groups and
// the register preprocessing applied to them before drawing.
package layout

// Flags select which entries of a Registers block are applied to a sprite.
type Flags uint8

const (
	FlagDoDraw       Flags = 0x01 // draw only if the DoDraw register is non-zero
	FlagSprite       Flags = 0x02 // add the Sprite register to the sprite number
	FlagPalette      Flags = 0x04 // add the Palette register to the palette
	FlagCustomPal    Flags = 0x08 // palette comes from the mod file
	FlagBBXYOffset   Flags = 0x10 // parent sprites: add Parent[0..1] to the bounding box origin
	FlagBBZOffset    Flags = 0x20 // parent sprites: add Parent[2] to the bounding box origin
	FlagChildXOffset Flags = 0x10 // child sprites: add Child[0] to the x offset
	FlagChildYOffset Flags = 0x20 // child sprites: add Child[1] to the y offset

	KnownFlags Flags = 0x3F
)

// RegisterReader exposes the temporary registers written during resolution.
type RegisterReader interface {
	GetRegister(i uint32) int32
}

// Registers describes which temporary registers modify one layout entry.
type Registers struct {
	Flags   Flags
	DoDraw  uint8
	Sprite  uint8
	Palette uint8
	Parent  [3]uint8
	Child   [2]uint8

	// MaxSpriteOffset is the number of construction stage sprites that follow
	// the entry's sprite; zero means the entry has no stage sprites.
	MaxSpriteOffset uint8
}

// Seq is one sprite of a layout template.
type Seq struct {
	Sprite  uint32
	Palette uint32

	DeltaX, DeltaY, DeltaZ int8
	SizeX, SizeY, SizeZ    uint8

	// Child sprites are drawn relative to the preceding parent sprite.
	Child bool

	Regs *Registers
}

// DrawTileSprites is the immutable layout template of a tile layout group.
type DrawTileSprites struct {
	Ground Seq
	Seq    []Seq

	// ConsistentMaxOffset is the number of stage sprites shared by every entry,
	// or zero when the entries disagree.
	ConsistentMaxOffset uint8
}

// NeedsPreprocessing reports whether any entry reads registers.
func (d *DrawTileSprites) NeedsPreprocessing() bool {
	if d == nil {
		return false
	}
	if d.Ground.Regs != nil {
		return true
	}
	for i := range d.Seq {
		if d.Seq[i].Regs != nil {
			return true
		}
	}
	return false
}

// ConstructionStageOffset maps a construction stage (0-3) to a sprite offset
// for an entry with numSprites stage sprites.
func ConstructionStageOffset(stage uint8, numSprites uint8) uint8 {
	if numSprites == 0 {
		return 0
	}
	if numSprites > 4 {
		numSprites = 4
	}
	switch stage {
	case 0:
		return 0
	case 1:
		if numSprites > 2 {
			return 1
		}
		return 0
	case 2:
		if numSprites > 2 {
			return numSprites - 2
		}
		return 0
	default:
		return numSprites - 1
	}
}
