package spritegroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func random(lowest uint8, n int) *Group {
	r := &Randomized{LowestRandBit: lowest}
	for i := 0; i < n; i++ {
		r.Groups = append(r.Groups, cb(CallbackResult(i)))
	}
	return &Group{Kind: KindRandomized, Randomized: r}
}

func withBits(bits uint32) *ResolverObject {
	obj := NewResolverObject(nil, nil, CallbackNone, 0, 0)
	obj.Scopes = Scopes{ScopeSelf: &StaticScope{RandomBits: bits}}
	return obj
}

func TestRandomizedSelectsMaskedChild(t *testing.T) {
	g := random(0, 4)
	for _, bits := range []uint32{0b10, 0xFFF0 | 0b10, 0x80000002} {
		v, ok := Resolve(g, withBits(bits), true).CallbackValue()
		require.True(t, ok)
		assert.Equalf(t, CallbackResult(2), v, "bits %#x", bits)
	}
}

func TestRandomizedLowestBit(t *testing.T) {
	g := random(4, 4)
	v, _ := Resolve(g, withBits(0x3F), true).CallbackValue()
	assert.Equal(t, CallbackResult(3), v)
	v, _ = Resolve(g, withBits(0x0F), true).CallbackValue()
	assert.Equal(t, CallbackResult(0), v)
}

func TestRandomizedDefaultScopeHasNoBits(t *testing.T) {
	v, _ := Resolve(random(0, 8), NewResolverObject(nil, nil, CallbackNone, 0, 0), true).CallbackValue()
	assert.Equal(t, CallbackResult(0), v)
}

func TestRandomizedTriggerAnyReseeds(t *testing.T) {
	g := random(2, 4)
	g.Randomized.Triggers = 0b001
	g.Randomized.CmpMode = CmpAny

	obj := withBits(0)
	obj.Callback = CallbackRandomTrigger
	obj.SetWaitingRandomTriggers(0b101)

	Resolve(g, obj, true)
	assert.Equal(t, uint32(0b001), obj.UsedRandomTriggers())
	assert.Equal(t, uint32(3<<2), obj.Reseed[ScopeSelf])
	assert.Equal(t, uint32(3<<2), obj.ReseedSum())
}

func TestRandomizedTriggerAllRequiresEveryBit(t *testing.T) {
	g := random(0, 2)
	g.Randomized.Triggers = 0b011
	g.Randomized.CmpMode = CmpAll

	obj := withBits(0)
	obj.Callback = CallbackRandomTrigger
	obj.SetWaitingRandomTriggers(0b001)
	Resolve(g, obj, true)
	assert.Zero(t, obj.UsedRandomTriggers())
	assert.Zero(t, obj.ReseedSum())

	obj.SetWaitingRandomTriggers(0b111)
	Resolve(g, obj, true)
	assert.Equal(t, uint32(0b011), obj.UsedRandomTriggers())
	assert.Equal(t, uint32(1), obj.Reseed[ScopeSelf])
}

func TestRandomizedIgnoresTriggersOutsideTriggerCallback(t *testing.T) {
	g := random(0, 4)
	g.Randomized.Triggers = 0xFF

	obj := withBits(1)
	obj.SetWaitingRandomTriggers(0xFF)
	v, _ := Resolve(g, obj, true).CallbackValue()
	assert.Equal(t, CallbackResult(1), v)
	assert.Zero(t, obj.ReseedSum())

	obj.ResetState()
	assert.Zero(t, obj.WaitingRandomTriggers())
}

func TestRandomizedEmptyGroupList(t *testing.T) {
	g := &Group{Kind: KindRandomized, Randomized: &Randomized{}}
	assert.True(t, Resolve(g, withBits(3), true).Empty())
}
