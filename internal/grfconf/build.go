package grfconf

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/xtding233/grf-resolver/internal/globalvar"
	"github.com/xtding233/grf-resolver/internal/grf"
	"github.com/xtding233/grf-resolver/internal/layout"
	"github.com/xtding233/grf-resolver/internal/spritegroup"
)

var ErrUnknownGroup = errors.New("unknown group")

// Definition is a built mod file: its parameters, group arena and entry points.
type Definition struct {
	File     *grf.File
	Groups   *spritegroup.Set
	Roots    map[string]*spritegroup.Group
	Globals  *globalvar.Table
	MaxDepth int
	Version  string
}

// Build validates cfg and turns it into a group graph.
func Build(cfg RawConfig) (*Definition, error) {
	if err := ValidateRaw(cfg); err != nil {
		return nil, err
	}

	def := &Definition{
		File:     &grf.File{ID: grf.InvalidID, Name: cfg.Name, Params: append([]uint32(nil), cfg.Params...)},
		Groups:   spritegroup.NewSet(),
		Roots:    make(map[string]*spritegroup.Group, len(cfg.Roots)),
		Globals:  globalvar.New(cfg.Globals),
		MaxDepth: cfg.MaxDepth,
		Version:  cfg.Version,
	}
	if cfg.GRFID != nil {
		def.File.ID = *cfg.GRFID
	}

	// first pass: allocate every group so references can point forward
	for _, gc := range cfg.Groups {
		def.Groups.Add(&spritegroup.Group{Name: gc.Name})
	}
	get := func(name string) *spritegroup.Group {
		if name == "" {
			return nil
		}
		g, _ := def.Groups.Lookup(name)
		return g
	}

	for i, gc := range cfg.Groups {
		g := def.Groups.Get(i)
		switch {
		case gc.Deterministic != nil:
			g.Kind = spritegroup.KindDeterministic
			g.Deterministic = buildDeterministic(gc.Deterministic, get)
		case gc.Randomized != nil:
			g.Kind = spritegroup.KindRandomized
			g.Randomized = buildRandomized(gc.Randomized, get)
		case gc.Callback != nil:
			g.Kind = spritegroup.KindCallback
			g.Callback = spritegroup.CallbackResult(*gc.Callback)
		case gc.Real != nil:
			g.Kind = spritegroup.KindReal
			g.Real = &spritegroup.Real{}
			for _, n := range gc.Real.Loaded {
				g.Real.Loaded = append(g.Real.Loaded, get(n))
			}
			for _, n := range gc.Real.Loading {
				g.Real.Loading = append(g.Real.Loading, get(n))
			}
		case gc.Sprites != nil:
			g.Kind = spritegroup.KindResult
			g.Sprites = &spritegroup.SpriteSet{Sprite: gc.Sprites.First, NumSprites: gc.Sprites.Count}
		case gc.Layout != nil:
			g.Kind = spritegroup.KindTileLayout
			g.TileLayout = &spritegroup.TileLayout{DTS: buildLayout(gc.Layout)}
		}
	}

	for root, name := range cfg.Roots {
		def.Roots[root] = get(name)
	}
	return def, nil
}

func buildDeterministic(dc *DeterministicConfig, get func(string) *spritegroup.Group) *spritegroup.Deterministic {
	scope, _ := parseScope(dc.Scope)
	size, _ := parseSize(dc.Size)
	d := &spritegroup.Deterministic{
		Scope:   scope,
		Size:    size,
		Default: spritegroup.Target{Calculated: dc.Default.Calculated, Group: get(dc.Default.Group)},
	}
	for _, ac := range dc.Adjusts {
		op, _ := spritegroup.ParseOp(ac.Op)
		typ, _ := parseAdjustType(ac.Type)
		mask := uint32(0xFFFFFFFF)
		if ac.Mask != nil {
			mask = *ac.Mask
		}
		d.Adjusts = append(d.Adjusts, spritegroup.Adjust{
			Operation:  op,
			Type:       typ,
			Variable:   ac.Var,
			Parameter:  ac.Param,
			ShiftNum:   ac.Shift,
			AndMask:    mask,
			AddVal:     ac.Add,
			DivModVal:  ac.DivMod,
			Subroutine: get(ac.Call),
		})
	}
	for _, rc := range dc.Ranges {
		d.Ranges = append(d.Ranges, spritegroup.Range{
			Low:    rc.Low,
			High:   rc.High,
			Target: spritegroup.Target{Calculated: rc.Calculated, Group: get(rc.Group)},
		})
	}

	switch {
	case dc.Error != "":
		d.Error = get(dc.Error)
	case len(d.Ranges) > 0:
		d.Error = d.Ranges[0].Target.Group
	default:
		d.Error = d.Default.Group
	}
	return d
}

func buildRandomized(rc *RandomizedConfig, get func(string) *spritegroup.Group) *spritegroup.Randomized {
	scope, _ := parseScope(rc.Scope)
	cmp, _ := parseCmp(rc.Cmp)
	r := &spritegroup.Randomized{
		Scope:         scope,
		Count:         rc.Count,
		CmpMode:       cmp,
		Triggers:      rc.Triggers,
		LowestRandBit: rc.LowestBit,
	}
	for _, n := range rc.Groups {
		r.Groups = append(r.Groups, get(n))
	}
	return r
}

func buildLayout(lc *LayoutConfig) *layout.DrawTileSprites {
	d := &layout.DrawTileSprites{
		Ground:              buildSeq(lc.Ground),
		ConsistentMaxOffset: lc.ConsistentMaxOffset,
	}
	for _, s := range lc.Seq {
		d.Seq = append(d.Seq, buildSeq(s))
	}
	return d
}

func buildSeq(sc SeqConfig) layout.Seq {
	s := layout.Seq{
		Sprite:  sc.Sprite,
		Palette: sc.Palette,
		DeltaX:  sc.DX,
		DeltaY:  sc.DY,
		DeltaZ:  sc.DZ,
		SizeX:   sc.SX,
		SizeY:   sc.SY,
		SizeZ:   sc.SZ,
		Child:   sc.Child,
	}
	if rc := sc.Regs; rc != nil {
		flags, _, _ := parseFlags(rc.Flags)
		s.Regs = &layout.Registers{
			Flags:           flags,
			DoDraw:          rc.DoDraw,
			Sprite:          rc.Sprite,
			Palette:         rc.Palette,
			Parent:          rc.Parent,
			Child:           rc.Child,
			MaxSpriteOffset: rc.MaxSpriteOffset,
		}
	}
	return s
}

// Root returns the entry point called name, falling back to a group of that
// name. Unknown names are reported with the closest known name.
func (d *Definition) Root(name string) (*spritegroup.Group, error) {
	if g, ok := d.Roots[name]; ok {
		return g, nil
	}
	if g, ok := d.Groups.Lookup(name); ok {
		return g, nil
	}
	candidates := d.Groups.Names()
	for r := range d.Roots {
		candidates = append(candidates, r)
	}
	if s := suggest(name, candidates); s != "" {
		return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownGroup, name, s)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownGroup, name)
}

// RootNames lists the entry point names in sorted order.
func (d *Definition) RootNames() []string {
	out := make([]string, 0, len(d.Roots))
	for r := range d.Roots {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// suggest returns the candidate closest to name, if it is close enough to be
// a plausible typo.
func suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(name, c)
		if dist > suggestLimit(len(c)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && c < best) {
			best, bestDist = c, dist
		}
	}
	return best
}

func suggestLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// NewObject prepares a resolution of this definition. A nil regs allocates a
// private register file.
func (d *Definition) NewObject(regs *spritegroup.TempStore, callback spritegroup.CallbackID, param1, param2 uint32) *spritegroup.ResolverObject {
	obj := spritegroup.NewResolverObject(d.File, regs, callback, param1, param2)
	obj.Globals = d.Globals
	obj.MaxDepth = d.MaxDepth
	return obj
}
