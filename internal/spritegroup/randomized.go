package spritegroup

func (r *Randomized) resolve(obj *ResolverObject) Result {
	n := uint32(len(r.Groups))
	if n == 0 {
		return Result{}
	}
	scope := obj.GetScope(r.Scope, r.Count)

	if obj.Callback == CallbackRandomTrigger {
		match := r.Triggers & uint8(obj.WaitingRandomTriggers())
		var ok bool
		if r.CmpMode == CmpAny {
			ok = match != 0
		} else {
			ok = match == r.Triggers
		}
		if ok {
			obj.AddUsedRandomTriggers(uint32(match))
			if r.Scope < ScopeEnd {
				obj.Reseed[r.Scope] |= (n - 1) << r.LowestRandBit
			}
		}
	}

	mask := (n - 1) << r.LowestRandBit
	index := (scope.GetRandomBits() & mask) >> r.LowestRandBit
	return Resolve(r.Groups[index], obj, false)
}
