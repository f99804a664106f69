package spritegroup

import "sort"

// binarySearchThreshold is the range count above which ranges are searched
// by binary search instead of linearly.
const binarySearchThreshold = 4

// procedureNoResult is fed into the chain when a subroutine yields no callback.
const procedureNoResult = 0xFFFF

func (d *Deterministic) resolve(obj *ResolverObject) Result {
	var last uint32
	scope := obj.GetScope(d.Scope, 0)

	for i := range d.Adjusts {
		adj := &d.Adjusts[i]

		var (
			value     uint32
			available = true
		)
		switch adj.Variable {
		case VarProcedure:
			// LastValue and Reseed are shared with the subroutine.
			if cb, ok := Resolve(adj.Subroutine, obj, false).CallbackValue(); ok {
				value = uint32(cb)
			} else {
				value = procedureNoResult
			}
		case VarIndirect:
			value, available = GetVariable(obj, scope, uint8(adj.Parameter), last)
		default:
			value, available = GetVariable(obj, scope, adj.Variable, adj.Parameter)
		}

		if !available {
			return Resolve(d.Error, obj, false)
		}
		last = evalSized(d.Size, adj, obj, scope, last, value)
	}

	obj.LastValue = last

	target := d.match(last)
	if target.Calculated {
		return callbackResult(CallbackResult(last & 0x7FFF))
	}
	return Resolve(target.Group, obj, false)
}

// match returns the target of the range containing v, or the default.
func (d *Deterministic) match(v uint32) Target {
	if len(d.Ranges) > binarySearchThreshold {
		return d.matchBinary(v)
	}
	return d.matchLinear(v)
}

func (d *Deterministic) matchLinear(v uint32) Target {
	for _, r := range d.Ranges {
		if r.Low <= v && v <= r.High {
			return r.Target
		}
	}
	return d.Default
}

func (d *Deterministic) matchBinary(v uint32) Target {
	i := sort.Search(len(d.Ranges), func(i int) bool { return d.Ranges[i].High >= v })
	if i < len(d.Ranges) && d.Ranges[i].Low <= v {
		return d.Ranges[i].Target
	}
	return d.Default
}
