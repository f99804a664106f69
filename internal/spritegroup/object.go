package spritegroup

import (
	"go.uber.org/zap"

	"github.com/xtding233/grf-resolver/internal/grf"
)

// CallbackID identifies the callback a resolution is run for.
type CallbackID uint16

const (
	CallbackNone          CallbackID = 0x00
	CallbackRandomTrigger CallbackID = 0x01
)

// DefaultMaxDepth bounds nested resolution when MaxDepth is not set.
const DefaultMaxDepth = 256

// GlobalVariables answers variables below 0x40 shared by all features.
type GlobalVariables interface {
	GetGlobalVariable(variable uint8, file *grf.File) (uint32, bool)
}

// RealSelector picks the sprite set a real group resolves to.
type RealSelector interface {
	ResolveReal(r *Real) *Group
}

// ResolverObject carries the state of one resolution request.
type ResolverObject struct {
	Callback       CallbackID
	CallbackParam1 uint32
	CallbackParam2 uint32

	// LastValue is the result of the last deterministic chain; variable 0x1C.
	LastValue uint32
	// Reseed marks the random bits consumed per scope by trigger callbacks.
	Reseed [ScopeEnd]uint32

	GRF       *grf.File
	Registers *TempStore
	Globals   GlobalVariables
	Profilers ProfilerLookup
	Scopes    ScopeProvider
	Real      RealSelector

	// ConstructionStage is updated by tile layout groups; nil if not applicable.
	ConstructionStage *uint8

	Root     *Group
	MaxDepth int
	Logger   *zap.Logger

	waitingRandomTriggers uint32
	usedRandomTriggers    uint32

	defaultScope  DefaultScope
	depth         int
	depthExceeded bool
}

// NewResolverObject prepares a resolution for file. A nil regs allocates a
// private register file.
func NewResolverObject(file *grf.File, regs *TempStore, callback CallbackID, param1, param2 uint32) *ResolverObject {
	if regs == nil {
		regs = NewTempStore()
	}
	return &ResolverObject{
		Callback:       callback,
		CallbackParam1: param1,
		CallbackParam2: param2,
		GRF:            file,
		Registers:      regs,
	}
}

func (o *ResolverObject) logger() *zap.Logger {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o.Logger
}

// Resolve resolves Root as a top-level request.
func (o *ResolverObject) Resolve() Result {
	return Resolve(o.Root, o, true)
}

// GetScope returns the scope resolver for scope, falling back to DefaultScope.
func (o *ResolverObject) GetScope(scope VarScope, relative uint8) ScopeResolver {
	if o.Scopes != nil {
		if s := o.Scopes.GetScope(scope, relative); s != nil {
			return s
		}
	}
	o.defaultScope.Logger = o.logger()
	return o.defaultScope
}

// ResolveReal picks the group of a real group: the first loaded set, else the
// first loading set.
func (o *ResolverObject) ResolveReal(r *Real) *Group {
	if o.Real != nil {
		return o.Real.ResolveReal(r)
	}
	return FirstLoaded(r)
}

// FirstLoaded is the default RealSelector policy.
func FirstLoaded(r *Real) *Group {
	if r == nil {
		return nil
	}
	if len(r.Loaded) > 0 {
		return r.Loaded[0]
	}
	if len(r.Loading) > 0 {
		return r.Loading[0]
	}
	return nil
}

// GetRegister reads a temporary register.
func (o *ResolverObject) GetRegister(i uint32) int32 {
	if o.Registers == nil {
		return 0
	}
	return o.Registers.GetRegister(i)
}

// SetRegister writes a temporary register.
func (o *ResolverObject) SetRegister(i uint32, v int32) {
	if o.Registers == nil {
		o.Registers = NewTempStore()
	}
	o.Registers.SetRegister(i, v)
}

// WaitingRandomTriggers returns the triggers a random trigger callback is run for.
func (o *ResolverObject) WaitingRandomTriggers() uint32 { return o.waitingRandomTriggers }

// SetWaitingRandomTriggers sets the triggers for a random trigger callback.
func (o *ResolverObject) SetWaitingRandomTriggers(triggers uint32) {
	o.waitingRandomTriggers = triggers
}

// AddUsedRandomTriggers records triggers matched by a randomized group.
func (o *ResolverObject) AddUsedRandomTriggers(triggers uint32) {
	o.usedRandomTriggers |= triggers
}

// UsedRandomTriggers returns the triggers matched so far.
func (o *ResolverObject) UsedRandomTriggers() uint32 { return o.usedRandomTriggers }

// ReseedSum returns the random bits to reseed over all scopes.
func (o *ResolverObject) ReseedSum() uint32 {
	var sum uint32
	for _, r := range o.Reseed {
		sum |= r
	}
	return sum
}

// ResetState clears the per-request state so the object can be reused.
// Registers are left untouched.
func (o *ResolverObject) ResetState() {
	o.LastValue = 0
	o.waitingRandomTriggers = 0
	o.usedRandomTriggers = 0
	o.Reseed = [ScopeEnd]uint32{}
	o.depth = 0
	o.depthExceeded = false
}

func (o *ResolverObject) enter(g *Group) bool {
	limit := o.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if o.depth >= limit {
		if !o.depthExceeded {
			o.depthExceeded = true
			o.logger().Warn("sprite group nesting too deep",
				zap.Int("limit", limit),
				zap.Int("group", g.ID),
				zap.String("name", g.Name),
				zap.Stringer("grf", o.GRF))
		}
		return false
	}
	o.depth++
	return true
}

func (o *ResolverObject) leave() { o.depth-- }
