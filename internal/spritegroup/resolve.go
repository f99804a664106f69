package spritegroup

import "github.com/xtding233/grf-resolver/internal/grf"

// Profiler receives resolve events for one mod file.
type Profiler interface {
	Active() bool
	BeginResolve(obj *ResolverObject)
	EndResolve(res Result)
	RecursiveResolve()
}

// ProfilerLookup finds the profiler attached to a mod file, or nil.
type ProfilerLookup interface {
	Profiler(file *grf.File) Profiler
}

// Resolve is the entry point for resolving g, including nested calls made by
// other groups. A nil group resolves to an empty result.
func Resolve(g *Group, obj *ResolverObject, topLevel bool) Result {
	if g == nil {
		return Result{}
	}
	if !obj.enter(g) {
		return Result{}
	}
	defer obj.leave()

	var p Profiler
	if obj.Profilers != nil {
		p = obj.Profilers.Profiler(obj.GRF)
	}
	switch {
	case p == nil || !p.Active():
		return g.resolve(obj)
	case topLevel:
		p.BeginResolve(obj)
		res := g.resolve(obj)
		p.EndResolve(res)
		return res
	default:
		p.RecursiveResolve()
		return g.resolve(obj)
	}
}

func (g *Group) resolve(obj *ResolverObject) Result {
	switch g.Kind {
	case KindDeterministic:
		return g.Deterministic.resolve(obj)
	case KindRandomized:
		return g.Randomized.resolve(obj)
	case KindCallback:
		return callbackResult(g.Callback)
	case KindReal:
		return Resolve(obj.ResolveReal(g.Real), obj, false)
	case KindResult:
		return Result{Kind: ResultSprites, Group: g}
	case KindTileLayout:
		return Result{Kind: ResultLayout, Group: g, Layout: g.TileLayout.ProcessRegisters(obj, obj.ConstructionStage)}
	default:
		return Result{}
	}
}
