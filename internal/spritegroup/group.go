// Package spritegroup resolves sprite group graphs into callback values,
// sprite sets and tile layouts.
//
// Groups are built once by a loader and never mutated afterwards, so a graph can
// be shared by any number of concurrent resolutions as long as each one uses its
// own ResolverObject.
package spritegroup

import "github.com/xtding233/grf-resolver/internal/layout"

// Kind tags the variant held by a Group.
type Kind uint8

const (
	KindDeterministic Kind = iota
	KindRandomized
	KindCallback
	KindReal
	KindResult
	KindTileLayout
)

var kindNames = [...]string{"deterministic", "randomized", "callback", "real", "result", "tilelayout"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// CallbackResult is the 15-bit value returned by callback groups.
type CallbackResult uint16

// Group is one node of a sprite group graph. Exactly one of the variant fields
// matching Kind is set.
type Group struct {
	ID   int
	Name string
	Kind Kind

	Deterministic *Deterministic
	Randomized    *Randomized
	Callback      CallbackResult
	Real          *Real
	Sprites       *SpriteSet
	TileLayout    *TileLayout
}

// VarScope selects which object a group reads its variables from.
type VarScope uint8

const (
	ScopeSelf VarScope = iota
	ScopeParent
	ScopeRelative
	ScopeEnd
)

// Size is the integer width a deterministic chain is evaluated in.
type Size uint8

const (
	SizeByte Size = iota
	SizeWord
	SizeDword
)

// Op is the operation combining the accumulator with an adjusted value.
type Op uint8

const (
	OpAdd  Op = iota // a + b
	OpSub            // a - b
	OpSMin           // signed min
	OpSMax           // signed max
	OpUMin           // unsigned min
	OpUMax           // unsigned max
	OpSDiv           // signed a / b
	OpSMod           // signed a % b
	OpUDiv           // unsigned a / b
	OpUMod           // unsigned a % b
	OpMul            // a * b
	OpAnd            // a & b
	OpOr             // a | b
	OpXor            // a ^ b
	OpSto            // store a in temporary register b
	OpRst            // b
	OpStop           // store a in persistent register b
	OpRor            // rotate a right by b
	OpSCmp           // signed compare
	OpUCmp           // unsigned compare
	OpShl            // a << b
	OpShr            // unsigned a >> b
	OpSar            // signed a >> b
	OpEnd
)

var opNames = [...]string{
	"add", "sub", "smin", "smax", "umin", "umax", "sdiv", "smod", "udiv", "umod",
	"mul", "and", "or", "xor", "sto", "rst", "stop", "ror", "scmp", "ucmp", "shl", "shr", "sar",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// ParseOp looks up an operation by its short name.
func ParseOp(name string) (Op, bool) {
	for i, n := range opNames {
		if n == name {
			return Op(i), true
		}
	}
	return 0, false
}

// AdjustType is the optional divide/modulo step applied to a fetched value.
type AdjustType uint8

const (
	AdjustNone AdjustType = iota
	AdjustDiv
	AdjustMod
)

// Special variables handled by the deterministic resolver itself.
const (
	VarIndirect  uint8 = 0x7B // variable number from the parameter, parameter from the accumulator
	VarProcedure uint8 = 0x7E // call a subroutine group
)

// Adjust is one step of a deterministic chain.
type Adjust struct {
	Operation Op
	Type      AdjustType
	Variable  uint8
	Parameter uint32
	ShiftNum  uint8
	AndMask   uint32
	AddVal    uint32
	DivModVal uint32

	// Subroutine is called when Variable is VarProcedure.
	Subroutine *Group
}

// Target is what a range or the default of a deterministic group points at.
type Target struct {
	// Calculated returns the chain result as a callback value.
	Calculated bool
	Group      *Group
}

// Range maps the closed interval [Low, High] to a target.
type Range struct {
	Low, High uint32
	Target    Target
}

// Deterministic groups evaluate an adjustment chain and branch on the result.
type Deterministic struct {
	Scope   VarScope
	Size    Size
	Adjusts []Adjust
	// Ranges are disjoint and sorted by High.
	Ranges  []Range
	Default Target
	// Error is resolved when a variable is not available.
	Error *Group
}

// CmpMode decides how trigger bits are matched.
type CmpMode uint8

const (
	CmpAny CmpMode = iota
	CmpAll
)

// Randomized groups pick a child from the scope's random bits.
type Randomized struct {
	Scope         VarScope
	Count         uint8
	CmpMode       CmpMode
	Triggers      uint8
	LowestRandBit uint8
	// Groups has a power of two length.
	Groups []*Group
}

// Real groups hold alternative sprite sets; the resolver object picks one.
type Real struct {
	Loaded  []*Group
	Loading []*Group
}

// SpriteSet is a leaf group referencing a run of real sprites.
type SpriteSet struct {
	Sprite     uint32
	NumSprites uint32
}

// TileLayout groups yield a drawable layout.
type TileLayout struct {
	DTS *layout.DrawTileSprites
}
