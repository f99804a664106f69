package spritegroup

import "go.uber.org/zap"

// ScopeResolver supplies the variables of the object a group is evaluated for.
type ScopeResolver interface {
	GetRandomBits() uint32
	GetRandomTriggers() uint32
	// GetVariable returns false when the variable does not exist for the scope.
	GetVariable(variable uint8, parameter uint32) (uint32, bool)
	StorePSA(pos uint32, value int32)
}

// ScopeProvider returns the scope resolver for a group; returning nil selects
// the default scope.
type ScopeProvider interface {
	GetScope(scope VarScope, relative uint8) ScopeResolver
}

// DefaultScope has no random bits, no variables and no persistent storage.
type DefaultScope struct {
	Logger *zap.Logger
}

func (DefaultScope) GetRandomBits() uint32     { return 0 }
func (DefaultScope) GetRandomTriggers() uint32 { return 0 }
func (DefaultScope) StorePSA(uint32, int32)    {}

func (s DefaultScope) GetVariable(variable uint8, _ uint32) (uint32, bool) {
	if s.Logger != nil {
		s.Logger.Debug("unhandled scope variable", zap.Uint8("variable", variable))
	}
	return 0xFFFFFFFF, false
}

// StaticScope is a scope backed by fixed values, used by tools and tests.
type StaticScope struct {
	RandomBits     uint32
	RandomTriggers uint32
	// Vars holds variables that ignore their parameter.
	Vars map[uint8]uint32
	// ParamVars holds 60+x style variables keyed by variable then parameter.
	ParamVars map[uint8]map[uint32]uint32
	// PSA is the persistent storage; writes past its end are ignored.
	PSA []int32
}

func (s *StaticScope) GetRandomBits() uint32     { return s.RandomBits }
func (s *StaticScope) GetRandomTriggers() uint32 { return s.RandomTriggers }

func (s *StaticScope) GetVariable(variable uint8, parameter uint32) (uint32, bool) {
	if byParam, ok := s.ParamVars[variable]; ok {
		v, ok := byParam[parameter]
		if !ok {
			return 0xFFFFFFFF, false
		}
		return v, true
	}
	v, ok := s.Vars[variable]
	if !ok {
		return 0xFFFFFFFF, false
	}
	return v, true
}

func (s *StaticScope) StorePSA(pos uint32, value int32) {
	if uint64(pos) < uint64(len(s.PSA)) {
		s.PSA[pos] = value
	}
}

// Scopes maps each VarScope to a fixed resolver.
type Scopes map[VarScope]ScopeResolver

// GetScope implements ScopeProvider.
func (m Scopes) GetScope(scope VarScope, _ uint8) ScopeResolver {
	return m[scope]
}
