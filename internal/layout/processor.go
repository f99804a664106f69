package layout

// Sprite is a drawable sprite after preprocessing.
type Sprite struct {
	ID      uint32
	Palette uint32
	X, Y, Z int32
	SizeX   uint8
	SizeY   uint8
	SizeZ   uint8
	Child   bool
}

// Processor is the drawable layout handed to the renderer.
type Processor struct {
	Ground  Sprite
	Sprites []Sprite

	// Stage is the construction stage already folded into the sprites.
	Stage uint8
	// Processed is set when registers were applied.
	Processed bool
}

// Static copies a template without evaluating registers.
func Static(d *DrawTileSprites) *Processor {
	if d == nil {
		return &Processor{}
	}
	p := &Processor{Ground: fromSeq(d.Ground)}
	p.Sprites = make([]Sprite, 0, len(d.Seq))
	for _, s := range d.Seq {
		p.Sprites = append(p.Sprites, fromSeq(s))
	}
	return p
}

// Process applies register values and the construction stage to a template.
// Entries whose DoDraw register is zero are dropped; a dropped ground sprite
// becomes sprite 0.
func Process(d *DrawTileSprites, regs RegisterReader, stage uint8) *Processor {
	p := &Processor{Stage: stage, Processed: true}
	if d == nil {
		return p
	}
	if g, ok := apply(d.Ground, regs, stage); ok {
		p.Ground = g
	}
	p.Sprites = make([]Sprite, 0, len(d.Seq))
	for _, s := range d.Seq {
		if out, ok := apply(s, regs, stage); ok {
			p.Sprites = append(p.Sprites, out)
		}
	}
	return p
}

func fromSeq(s Seq) Sprite {
	return Sprite{
		ID:      s.Sprite,
		Palette: s.Palette,
		X:       int32(s.DeltaX),
		Y:       int32(s.DeltaY),
		Z:       int32(s.DeltaZ),
		SizeX:   s.SizeX,
		SizeY:   s.SizeY,
		SizeZ:   s.SizeZ,
		Child:   s.Child,
	}
}

func apply(s Seq, regs RegisterReader, stage uint8) (Sprite, bool) {
	out := fromSeq(s)
	r := s.Regs
	if r == nil {
		return out, true
	}
	read := func(i uint8) int32 {
		if regs == nil {
			return 0
		}
		return regs.GetRegister(uint32(i))
	}

	if r.Flags&FlagDoDraw != 0 && read(r.DoDraw) == 0 {
		return Sprite{}, false
	}
	if r.MaxSpriteOffset > 0 {
		out.ID += uint32(ConstructionStageOffset(stage, r.MaxSpriteOffset))
	}
	if r.Flags&FlagSprite != 0 {
		out.ID += uint32(read(r.Sprite))
	}
	if r.Flags&FlagPalette != 0 {
		out.Palette += uint32(read(r.Palette))
	}
	if s.Child {
		if r.Flags&FlagChildXOffset != 0 {
			out.X += read(r.Child[0])
		}
		if r.Flags&FlagChildYOffset != 0 {
			out.Y += read(r.Child[1])
		}
		return out, true
	}
	if r.Flags&FlagBBXYOffset != 0 {
		out.X += read(r.Parent[0])
		out.Y += read(r.Parent[1])
	}
	if r.Flags&FlagBBZOffset != 0 {
		out.Z += read(r.Parent[2])
	}
	return out, true
}
