package grfconf

// RawConfig is one YAML definition file: grfs/default.yaml or grfs/<name>.yaml.
type RawConfig struct {
	Version  string           `yaml:"version"`
	GRFID    *uint32          `yaml:"grfid,omitempty"`
	Name     string           `yaml:"name,omitempty"`
	Params   []uint32         `yaml:"params,omitempty"`
	Globals  map[uint8]uint32 `yaml:"globals,omitempty"`
	MaxDepth int              `yaml:"max_depth,omitempty"`
	// Roots name the entry points, e.g. "default" or "cb36".
	Roots  map[string]string `yaml:"roots,omitempty"`
	Groups []GroupConfig      `yaml:"groups,omitempty"`
	Notes  string             `yaml:"notes,omitempty"`
}

// GroupConfig defines one sprite group; exactly one variant must be set.
type GroupConfig struct {
	Name string `yaml:"name"`

	Deterministic *DeterministicConfig `yaml:"deterministic,omitempty"`
	Randomized    *RandomizedConfig    `yaml:"randomized,omitempty"`
	Callback      *uint16              `yaml:"callback,omitempty"`
	Real          *RealConfig          `yaml:"real,omitempty"`
	Sprites       *SpritesConfig       `yaml:"sprites,omitempty"`
	Layout        *LayoutConfig        `yaml:"layout,omitempty"`
}

type DeterministicConfig struct {
	Scope   string         `yaml:"scope,omitempty"` // "self" | "parent" | "relative"
	Size    string         `yaml:"size,omitempty"`  // "byte" | "word" | "dword"
	Adjusts []AdjustConfig `yaml:"adjusts"`
	Ranges  []RangeConfig  `yaml:"ranges,omitempty"`
	Default TargetConfig   `yaml:"default"`
	// Error defaults to the first range's group, or the default group.
	Error string `yaml:"error,omitempty"`
}

type AdjustConfig struct {
	Op     string  `yaml:"op"`
	Var    uint8   `yaml:"var"`
	Param  uint32  `yaml:"param,omitempty"`
	Shift  uint8   `yaml:"shift,omitempty"`
	Mask   *uint32 `yaml:"mask,omitempty"` // all bits when omitted
	Type   string  `yaml:"type,omitempty"` // "" | "none" | "div" | "mod"
	Add    uint32  `yaml:"add,omitempty"`
	DivMod uint32  `yaml:"divmod,omitempty"`
	// Call names the subroutine for var 0x7E.
	Call string `yaml:"call,omitempty"`
}

type TargetConfig struct {
	Group      string `yaml:"group,omitempty"`
	Calculated bool   `yaml:"calculated,omitempty"`
}

type RangeConfig struct {
	Low          uint32 `yaml:"low"`
	High         uint32 `yaml:"high"`
	TargetConfig `yaml:",inline"`
}

type RandomizedConfig struct {
	Scope     string   `yaml:"scope,omitempty"`
	Count     uint8    `yaml:"count,omitempty"`
	Cmp       string   `yaml:"cmp,omitempty"` // "any" | "all"
	Triggers  uint8    `yaml:"triggers,omitempty"`
	LowestBit uint8    `yaml:"lowest_bit,omitempty"`
	Groups    []string `yaml:"groups"`
}

type RealConfig struct {
	Loaded  []string `yaml:"loaded,omitempty"`
	Loading []string `yaml:"loading,omitempty"`
}

type SpritesConfig struct {
	First uint32 `yaml:"first"`
	Count uint32 `yaml:"count"`
}

type LayoutConfig struct {
	Ground              SeqConfig   `yaml:"ground"`
	Seq                 []SeqConfig `yaml:"seq,omitempty"`
	ConsistentMaxOffset uint8       `yaml:"consistent_max_offset,omitempty"`
}

type SeqConfig struct {
	Sprite  uint32           `yaml:"sprite"`
	Palette uint32           `yaml:"pal,omitempty"`
	DX      int8             `yaml:"dx,omitempty"`
	DY      int8             `yaml:"dy,omitempty"`
	DZ      int8             `yaml:"dz,omitempty"`
	SX      uint8            `yaml:"sx,omitempty"`
	SY      uint8            `yaml:"sy,omitempty"`
	SZ      uint8            `yaml:"sz,omitempty"`
	Child   bool             `yaml:"child,omitempty"`
	Regs    *RegistersConfig `yaml:"regs,omitempty"`
}

type RegistersConfig struct {
	Flags           []string `yaml:"flags"` // dodraw, sprite, palette, custom_palette, bb_xy, bb_z, child_x, child_y
	DoDraw          uint8    `yaml:"dodraw,omitempty"`
	Sprite          uint8    `yaml:"sprite,omitempty"`
	Palette         uint8    `yaml:"palette,omitempty"`
	Parent          [3]uint8 `yaml:"parent,omitempty"`
	Child           [2]uint8 `yaml:"child,omitempty"`
	MaxSpriteOffset uint8    `yaml:"max_sprite_offset,omitempty"`
}
