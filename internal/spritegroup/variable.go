package spritegroup

// GetVariable fetches a variable for a deterministic chain. The boolean is
// false when the scope does not know the variable.
func GetVariable(obj *ResolverObject, scope ScopeResolver, variable uint8, parameter uint32) (uint32, bool) {
	switch variable {
	case 0x0C:
		return uint32(obj.Callback), true
	case 0x10:
		return obj.CallbackParam1, true
	case 0x18:
		return obj.CallbackParam2, true
	case 0x1C:
		return obj.LastValue, true
	case 0x5F:
		return scope.GetRandomBits()<<8 | scope.GetRandomTriggers(), true
	case 0x7D:
		return uint32(obj.GetRegister(parameter)), true
	case 0x7F:
		if obj.GRF == nil {
			return 0, true
		}
		return obj.GRF.GetParam(parameter), true
	}

	if variable < 0x40 && obj.Globals != nil {
		if v, ok := obj.Globals.GetGlobalVariable(variable, obj.GRF); ok {
			return v, true
		}
	}
	return scope.GetVariable(variable, parameter)
}
