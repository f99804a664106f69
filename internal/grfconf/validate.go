package grfconf

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/xtding233/grf-resolver/internal/spritegroup"
)

var ErrInvalidConfig = errors.New("config validation failed")

// ValidateRaw checks the invariants the resolver relies on: unique names,
// resolvable references, power of two random groups and sorted, disjoint
// ranges.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	names := make(map[string]bool, len(cfg.Groups))
	for i, g := range cfg.Groups {
		if g.Name == "" {
			errs = append(errs, fmt.Sprintf("groups[%d].name is required", i))
			continue
		}
		if names[g.Name] {
			errs = append(errs, fmt.Sprintf("group %q is defined twice", g.Name))
		}
		names[g.Name] = true
	}
	ref := func(where, name string) {
		if name != "" && !names[name] {
			errs = append(errs, fmt.Sprintf("%s references unknown group %q", where, name))
		}
	}

	if cfg.MaxDepth < 0 {
		errs = append(errs, "max_depth must be >= 0")
	}
	for root, name := range cfg.Roots {
		if name == "" {
			errs = append(errs, fmt.Sprintf("roots.%s must name a group", root))
		}
		ref("roots."+root, name)
	}

	for _, g := range cfg.Groups {
		at := fmt.Sprintf("group %q", g.Name)

		variants := 0
		for _, set := range []bool{g.Deterministic != nil, g.Randomized != nil, g.Callback != nil, g.Real != nil, g.Sprites != nil, g.Layout != nil} {
			if set {
				variants++
			}
		}
		if variants != 1 {
			errs = append(errs, at+" must define exactly one of deterministic, randomized, callback, real, sprites, layout")
			continue
		}

		switch {
		case g.Deterministic != nil:
			errs = append(errs, validateDeterministic(at, g.Deterministic, ref)...)
		case g.Randomized != nil:
			errs = append(errs, validateRandomized(at, g.Randomized, ref)...)
		case g.Callback != nil:
			if *g.Callback > 0x7FFF {
				errs = append(errs, at+": callback must be <= 0x7FFF")
			}
		case g.Real != nil:
			for i, n := range g.Real.Loaded {
				ref(fmt.Sprintf("%s.real.loaded[%d]", at, i), n)
			}
			for i, n := range g.Real.Loading {
				ref(fmt.Sprintf("%s.real.loading[%d]", at, i), n)
			}
		case g.Layout != nil:
			seqs := append([]SeqConfig{g.Layout.Ground}, g.Layout.Seq...)
			for i, s := range seqs {
				if s.Regs == nil {
					continue
				}
				if _, bad, ok := parseFlags(s.Regs.Flags); !ok {
					errs = append(errs, fmt.Sprintf("%s.layout entry %d: unknown flag %q", at, i, bad))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

func validateDeterministic(at string, d *DeterministicConfig, ref func(string, string)) []string {
	var errs []string
	if _, ok := parseScope(d.Scope); !ok {
		errs = append(errs, fmt.Sprintf("%s: scope must be one of: self, parent, relative", at))
	}
	if _, ok := parseSize(d.Size); !ok {
		errs = append(errs, fmt.Sprintf("%s: size must be one of: byte, word, dword", at))
	}
	for i, a := range d.Adjusts {
		where := fmt.Sprintf("%s.adjusts[%d]", at, i)
		if _, ok := spritegroup.ParseOp(a.Op); !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown op %q", where, a.Op))
		}
		typ, ok := parseAdjustType(a.Type)
		switch {
		case !ok:
			errs = append(errs, where+": type must be one of: none, div, mod")
		case typ != spritegroup.AdjustNone && a.DivMod == 0:
			errs = append(errs, where+": divmod must be non-zero for div/mod")
		}
		if a.Var == spritegroup.VarProcedure && a.Call == "" {
			errs = append(errs, where+": var 0x7E requires call")
		}
		if a.Call != "" && a.Var != spritegroup.VarProcedure {
			errs = append(errs, where+": call is only valid with var 0x7E")
		}
		ref(where, a.Call)
	}
	for i, r := range d.Ranges {
		where := fmt.Sprintf("%s.ranges[%d]", at, i)
		if r.Low > r.High {
			errs = append(errs, where+": low must be <= high")
		}
		if i > 0 && d.Ranges[i-1].High >= r.Low {
			errs = append(errs, where+": ranges must be sorted and must not overlap")
		}
		if r.Calculated && r.Group != "" {
			errs = append(errs, where+": group and calculated are exclusive")
		}
		ref(where, r.Group)
	}
	if d.Default.Calculated && d.Default.Group != "" {
		errs = append(errs, at+".default: group and calculated are exclusive")
	}
	ref(at+".default", d.Default.Group)
	ref(at+".error", d.Error)
	return errs
}

func validateRandomized(at string, r *RandomizedConfig, ref func(string, string)) []string {
	var errs []string
	if _, ok := parseScope(r.Scope); !ok {
		errs = append(errs, fmt.Sprintf("%s: scope must be one of: self, parent, relative", at))
	}
	if _, ok := parseCmp(r.Cmp); !ok {
		errs = append(errs, fmt.Sprintf("%s: cmp must be one of: any, all", at))
	}
	n := len(r.Groups)
	switch {
	case n == 0 || n > 256:
		errs = append(errs, fmt.Sprintf("%s: randomized needs 1..256 groups", at))
	case n&(n-1) != 0:
		errs = append(errs, fmt.Sprintf("%s: number of groups (%d) must be a power of two", at, n))
	case int(r.LowestBit)+bits.Len(uint(n-1)) > 32:
		errs = append(errs, fmt.Sprintf("%s: lowest_bit %d leaves no room for %d groups", at, r.LowestBit, n))
	}
	for i, name := range r.Groups {
		ref(fmt.Sprintf("%s.groups[%d]", at, i), name)
	}
	return errs
}
