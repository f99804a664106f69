package spritegroup

const fullMask = 0xFFFFFFFF

func cb(v CallbackResult) *Group {
	return &Group{Kind: KindCallback, Callback: v}
}

func fetch(op Op, variable uint8, parameter uint32) Adjust {
	return Adjust{Operation: op, Variable: variable, Parameter: parameter, AndMask: fullMask}
}

func det(size Size, adjusts []Adjust, ranges []Range, def Target) *Group {
	return &Group{Kind: KindDeterministic, Deterministic: &Deterministic{
		Size:    size,
		Adjusts: adjusts,
		Ranges:  ranges,
		Default: def,
	}}
}

func to(g *Group) Target { return Target{Group: g} }

var calculated = Target{Calculated: true}
