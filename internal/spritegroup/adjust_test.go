package spritegroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval32(op Op, last, value uint32) uint32 {
	adj := &Adjust{Operation: op, AndMask: fullMask}
	return EvalAdjust[uint32, int32](adj, NewResolverObject(nil, nil, 0, 0, 0), DefaultScope{}, last, value)
}

func eval8(op Op, last uint8, value uint32) uint8 {
	adj := &Adjust{Operation: op, AndMask: fullMask}
	return EvalAdjust[uint8, int8](adj, NewResolverObject(nil, nil, 0, 0, 0), DefaultScope{}, last, value)
}

func neg(v int32) uint32 { return uint32(v) }

func TestEvalAdjustDword(t *testing.T) {
	cases := []struct {
		op          Op
		last, value uint32
		want        uint32
	}{
		{OpAdd, 5, 3, 8},
		{OpAdd, 0xFFFFFFFF, 2, 1},
		{OpSub, 3, 5, neg(-2)},
		{OpSMin, neg(-1), 2, neg(-1)},
		{OpSMax, neg(-1), 2, 2},
		{OpUMin, 5, 3, 3},
		{OpUMin, neg(-1), 2, 2},
		{OpUMax, neg(-1), 2, neg(-1)},
		{OpSDiv, neg(-7), 2, neg(-3)},
		{OpSMod, neg(-7), 2, neg(-1)},
		{OpUDiv, 7, 2, 3},
		{OpUMod, 7, 2, 1},
		{OpMul, 6, 7, 42},
		{OpAnd, 0b1100, 0b1010, 0b1000},
		{OpOr, 0b1100, 0b1010, 0b1110},
		{OpXor, 0b1100, 0b1010, 0b0110},
		{OpRst, 5, 9, 9},
		{OpRor, 1, 1, 0x80000000},
		{OpRor, 1, 33, 0x80000000},
		{OpRor, 0x12345678, 0, 0x12345678},
		{OpSCmp, neg(-1), 2, 0},
		{OpSCmp, 2, 2, 1},
		{OpSCmp, 2, neg(-1), 2},
		{OpUCmp, neg(-1), 2, 2},
		{OpUCmp, 1, 2, 0},
		{OpUCmp, 2, 2, 1},
		{OpShl, 1, 1, 2},
		{OpShl, 1, 33, 2},
		{OpShr, 0x80000000, 31, 1},
		{OpSar, 0x80000000, 31, neg(-1)},
		{OpSar, 0x40000000, 30, 1},
		{OpEnd, 5, 9, 9},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, eval32(c.op, c.last, c.value), "%s(%#x, %#x)", c.op, c.last, c.value)
	}
}

func TestEvalAdjustZeroOperands(t *testing.T) {
	for op := OpAdd; op < OpEnd; op++ {
		switch op {
		case OpSCmp, OpUCmp:
			assert.Equalf(t, uint32(1), eval32(op, 0, 0), "%s", op)
		default:
			assert.Equalf(t, uint32(0), eval32(op, 0, 0), "%s", op)
		}
	}
}

func TestEvalAdjustByte(t *testing.T) {
	assert.Equal(t, uint8(4), eval8(OpAdd, 250, 10))
	assert.Equal(t, uint8(0x80), eval8(OpSMin, 0x80, 1))
	assert.Equal(t, uint8(0x80), eval8(OpSDiv, 0x80, 0xFF))
	assert.Equal(t, uint8(0), eval8(OpSCmp, 0xFF, 1))
	assert.Equal(t, uint8(2), eval8(OpUCmp, 0xFF, 1))
	assert.Equal(t, uint8(0x10), eval8(OpUMin, 0x10, 0x1FF))
	assert.Equal(t, uint8(0xC0), eval8(OpSar, 0x80, 1))
	assert.Equal(t, uint8(0x02), eval8(OpShl, 0x81, 1))
	assert.Equal(t, uint8(0xFF), eval8(OpRst, 0, 0x12FF))

	adj := &Adjust{Operation: OpSub, AndMask: fullMask}
	got := EvalAdjust[uint16, int16](adj, NewResolverObject(nil, nil, 0, 0, 0), DefaultScope{}, 0, 1)
	assert.Equal(t, uint16(0xFFFF), got)
}

func TestEvalAdjustDivisionByZeroKeepsAccumulator(t *testing.T) {
	for _, op := range []Op{OpSDiv, OpSMod, OpUDiv, OpUMod} {
		for _, last := range []uint32{1, 12345, neg(-1), 0x80000000} {
			assert.Equalf(t, last, eval32(op, last, 0), "%s(%#x, 0)", op, last)
		}
		// 0x100 truncates to zero in byte width.
		assert.Equalf(t, uint8(7), eval8(op, 7, 0x100), "%s byte", op)
	}
}

func TestEvalAdjustShiftMaskAndDivMod(t *testing.T) {
	obj := NewResolverObject(nil, nil, 0, 0, 0)
	run := func(adj Adjust, last uint32, value uint32) uint32 {
		return EvalAdjust[uint32, int32](&adj, obj, DefaultScope{}, last, value)
	}

	assert.Equal(t, uint32(0xAB), run(Adjust{Operation: OpRst, ShiftNum: 8, AndMask: 0xFF}, 0, 0xABCD))
	assert.Equal(t, uint32(3), run(Adjust{Operation: OpRst, AndMask: fullMask, Type: AdjustDiv, AddVal: 5, DivModVal: 4}, 0, 10))
	assert.Equal(t, uint32(1), run(Adjust{Operation: OpRst, AndMask: fullMask, Type: AdjustMod, AddVal: 3, DivModVal: 4}, 0, 10))
	// Zero divisor leaves the masked value.
	assert.Equal(t, uint32(10), run(Adjust{Operation: OpRst, AndMask: fullMask, Type: AdjustDiv, DivModVal: 0}, 0, 10))

	// Narrow signed arithmetic is promoted before dividing.
	adj := &Adjust{Operation: OpRst, AndMask: 0xFF, Type: AdjustDiv, AddVal: 100, DivModVal: 2}
	assert.Equal(t, uint8(100), EvalAdjust[uint8, int8](adj, obj, DefaultScope{}, 0, 100))

	// The masked value is sign extended in byte width.
	adj = &Adjust{Operation: OpRst, AndMask: 0xFF, Type: AdjustDiv, DivModVal: 1}
	assert.Equal(t, uint8(0xFF), EvalAdjust[uint8, int8](adj, obj, DefaultScope{}, 0, 0xFF))
	assert.Equal(t, uint32(0xFF), EvalAdjust[uint32, int32](adj, obj, DefaultScope{}, 0, 0xFF))
}

func TestEvalAdjustStoreWritesAccumulatorAtValueIndex(t *testing.T) {
	regs := NewTempStore()
	obj := NewResolverObject(nil, regs, 0, 0, 0)
	adj := &Adjust{Operation: OpSto, AndMask: fullMask}

	got := EvalAdjust[uint32, int32](adj, obj, DefaultScope{}, 42, 5)
	assert.Equal(t, uint32(42), got)
	assert.Equal(t, int32(42), regs.GetRegister(5))
	assert.Equal(t, int32(0), regs.GetRegister(42))

	gotByte := EvalAdjust[uint8, int8](adj, obj, DefaultScope{}, 0xFF, 6)
	assert.Equal(t, uint8(0xFF), gotByte)
	assert.Equal(t, int32(-1), regs.GetRegister(6))

	// Out of range registers are ignored.
	EvalAdjust[uint32, int32](adj, obj, DefaultScope{}, 1, TempStoreSize)
	assert.Equal(t, int32(0), regs.GetRegister(TempStoreSize))
}

func TestEvalAdjustStorePersistent(t *testing.T) {
	scope := &StaticScope{PSA: make([]int32, 4)}
	obj := NewResolverObject(nil, nil, 0, 0, 0)
	adj := &Adjust{Operation: OpStop, AndMask: fullMask}

	got := EvalAdjust[uint32, int32](adj, obj, scope, neg(-3), 2)
	require.Equal(t, neg(-3), got)
	assert.Equal(t, []int32{0, 0, -3, 0}, scope.PSA)

	EvalAdjust[uint32, int32](adj, obj, scope, 9, 10)
	assert.Equal(t, []int32{0, 0, -3, 0}, scope.PSA)
}

func TestParseOp(t *testing.T) {
	for op := OpAdd; op < OpEnd; op++ {
		got, ok := ParseOp(op.String())
		require.True(t, ok)
		assert.Equal(t, op, got)
	}
	_, ok := ParseOp("pow")
	assert.False(t, ok)
}
