package spritegroup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xtding233/grf-resolver/internal/grf"
)

type globals map[uint8]uint32

func (g globals) GetGlobalVariable(v uint8, _ *grf.File) (uint32, bool) {
	val, ok := g[v]
	return val, ok
}

func TestGetVariableFixedIDs(t *testing.T) {
	regs := NewTempStore()
	regs.SetRegister(0x42, -2)
	obj := NewResolverObject(&grf.File{Params: []uint32{10, 20}}, regs, 0x33, 0x1111, 0x2222)
	obj.LastValue = 0xBEEF
	scope := &StaticScope{RandomBits: 0xAB, RandomTriggers: 0x05}

	cases := []struct {
		variable  uint8
		parameter uint32
		want      uint32
	}{
		{0x0C, 0, 0x33},
		{0x10, 0, 0x1111},
		{0x18, 0, 0x2222},
		{0x1C, 0, 0xBEEF},
		{0x5F, 0, 0xAB05},
		{0x7D, 0x42, 0xFFFFFFFE},
		{0x7D, 0x500, 0},
		{0x7F, 1, 20},
		{0x7F, 9, 0},
	}
	for _, c := range cases {
		v, ok := GetVariable(obj, scope, c.variable, c.parameter)
		assert.Truef(t, ok, "variable %#x", c.variable)
		assert.Equalf(t, c.want, v, "variable %#x", c.variable)
	}
}

func TestGetVariableWithoutFile(t *testing.T) {
	obj := NewResolverObject(nil, nil, CallbackNone, 0, 0)
	v, ok := GetVariable(obj, DefaultScope{}, 0x7F, 0)
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestGetVariableGlobalsThenScope(t *testing.T) {
	obj := NewResolverObject(nil, nil, CallbackNone, 0, 0)
	obj.Globals = globals{0x01: 2050}
	scope := &StaticScope{
		Vars:      map[uint8]uint32{0x02: 3, 0x40: 64},
		ParamVars: map[uint8]map[uint32]uint32{0x60: {5: 500}},
	}

	v, ok := GetVariable(obj, scope, 0x01, 0)
	assert.True(t, ok)
	assert.Equal(t, uint32(2050), v)

	// Not a known global: falls through to the scope.
	v, ok = GetVariable(obj, scope, 0x02, 0)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), v)

	v, ok = GetVariable(obj, scope, 0x40, 0)
	assert.True(t, ok)
	assert.Equal(t, uint32(64), v)

	v, ok = GetVariable(obj, scope, 0x60, 5)
	assert.True(t, ok)
	assert.Equal(t, uint32(500), v)

	_, ok = GetVariable(obj, scope, 0x60, 6)
	assert.False(t, ok)

	v, ok = GetVariable(obj, DefaultScope{}, 0x41, 0)
	assert.False(t, ok)
	assert.Equal(t, uint32(0xFFFFFFFF), v)
}

func TestTempStoreBounds(t *testing.T) {
	regs := NewTempStore()
	regs.SetRegister(0x10F, 9)
	regs.SetRegister(0x110, 9)
	assert.Equal(t, int32(9), regs.GetRegister(0x10F))
	assert.Equal(t, int32(0), regs.GetRegister(0x110))
	regs.Clear()
	assert.Equal(t, int32(0), regs.GetRegister(0x10F))
}

func TestSetAssignsIDs(t *testing.T) {
	s := NewSet()
	a := s.Add(&Group{Name: "a", Kind: KindCallback})
	b := s.Add(&Group{Kind: KindCallback})
	assert.Equal(t, 0, a.ID)
	assert.Equal(t, 1, b.ID)
	assert.Same(t, b, s.Get(1))
	assert.Nil(t, s.Get(2))
	g, ok := s.Lookup("a")
	assert.True(t, ok)
	assert.Same(t, a, g)
	assert.Equal(t, []string{"a"}, s.Names())
	assert.Equal(t, 2, s.Len())
}
