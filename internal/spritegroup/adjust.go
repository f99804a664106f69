package spritegroup

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// EvalAdjust applies one adjustment in the width given by U and its signed
// counterpart S. Intermediate signed arithmetic is done in 32 bits, so narrow
// widths behave like promoted C integers.
//
// The only side effects are the register write of OpSto and the persistent
// storage write of OpStop.
func EvalAdjust[U constraints.Unsigned, S constraints.Signed](adj *Adjust, obj *ResolverObject, scope ScopeResolver, last U, value uint32) U {
	value >>= adj.ShiftNum
	value &= adj.AndMask

	switch adj.Type {
	case AdjustDiv:
		if d := int32(S(adj.DivModVal)); d != 0 {
			value = uint32((int32(S(value)) + int32(S(adj.AddVal))) / d)
		}
	case AdjustMod:
		if d := int32(S(adj.DivModVal)); d != 0 {
			value = uint32((int32(S(value)) + int32(S(adj.AddVal))) % d)
		}
	}

	switch adj.Operation {
	case OpAdd:
		return U(uint32(last) + value)
	case OpSub:
		return U(uint32(last) - value)
	case OpSMin:
		return U(min(S(last), S(value)))
	case OpSMax:
		return U(max(S(last), S(value)))
	case OpUMin:
		return min(last, U(value))
	case OpUMax:
		return max(last, U(value))
	case OpSDiv:
		if S(value) == 0 {
			return last
		}
		return U(int32(S(last)) / int32(S(value)))
	case OpSMod:
		if S(value) == 0 {
			return last
		}
		return U(int32(S(last)) % int32(S(value)))
	case OpUDiv:
		if U(value) == 0 {
			return last
		}
		return last / U(value)
	case OpUMod:
		if U(value) == 0 {
			return last
		}
		return last % U(value)
	case OpMul:
		return U(uint32(last) * value)
	case OpAnd:
		return U(uint32(last) & value)
	case OpOr:
		return U(uint32(last) | value)
	case OpXor:
		return U(uint32(last) ^ value)
	case OpSto:
		obj.SetRegister(uint32(U(value)), int32(S(last)))
		return last
	case OpRst:
		return U(value)
	case OpStop:
		scope.StorePSA(uint32(U(value)), int32(S(last)))
		return last
	case OpRor:
		return U(bits.RotateLeft32(uint32(last), -int(uint32(U(value))&0x1F)))
	case OpSCmp:
		return compare[S, U](S(last), S(value))
	case OpUCmp:
		return compare[U, U](last, U(value))
	case OpShl:
		return U(uint32(last) << (uint32(U(value)) & 0x1F))
	case OpShr:
		return U(uint32(last) >> (uint32(U(value)) & 0x1F))
	case OpSar:
		return U(uint32(int32(S(last)) >> (uint32(U(value)) & 0x1F)))
	default:
		return U(value)
	}
}

// compare yields 0 for less, 1 for equal and 2 for greater.
func compare[T constraints.Integer, R constraints.Unsigned](a, b T) R {
	switch {
	case a == b:
		return 1
	case a < b:
		return 0
	default:
		return 2
	}
}

// evalSized dispatches EvalAdjust on the chain width.
func evalSized(size Size, adj *Adjust, obj *ResolverObject, scope ScopeResolver, last, value uint32) uint32 {
	switch size {
	case SizeByte:
		return uint32(EvalAdjust[uint8, int8](adj, obj, scope, uint8(last), value))
	case SizeWord:
		return uint32(EvalAdjust[uint16, int16](adj, obj, scope, uint16(last), value))
	default:
		return uint32(EvalAdjust[uint32, int32](adj, obj, scope, last, value))
	}
}
