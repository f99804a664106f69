package spritegroup

import (
	"fmt"

	"github.com/xtding233/grf-resolver/internal/layout"
)

// ResultKind tags the outcome of a resolution.
type ResultKind uint8

const (
	ResultNone ResultKind = iota
	ResultCallback
	ResultSprites
	ResultLayout
)

// Result is what resolving a group produces.
type Result struct {
	Kind     ResultKind
	Callback CallbackResult
	// Group is the sprite set or tile layout group that produced the result.
	Group  *Group
	Layout *layout.Processor
}

func callbackResult(v CallbackResult) Result {
	return Result{Kind: ResultCallback, Callback: v}
}

// Empty reports whether nothing was resolved.
func (r Result) Empty() bool { return r.Kind == ResultNone }

// CallbackValue returns the callback value, if the result is one.
func (r Result) CallbackValue() (CallbackResult, bool) {
	return r.Callback, r.Kind == ResultCallback
}

func (r Result) String() string {
	switch r.Kind {
	case ResultCallback:
		return fmt.Sprintf("callback 0x%04X", uint16(r.Callback))
	case ResultSprites:
		if r.Group != nil && r.Group.Sprites != nil {
			return fmt.Sprintf("sprites %d+%d", r.Group.Sprites.Sprite, r.Group.Sprites.NumSprites)
		}
		return "sprites"
	case ResultLayout:
		if r.Layout != nil {
			return fmt.Sprintf("layout (%d sprites)", len(r.Layout.Sprites))
		}
		return "layout"
	default:
		return "none"
	}
}
