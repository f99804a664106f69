package grfconf

import (
	"github.com/xtding233/grf-resolver/internal/layout"
	"github.com/xtding233/grf-resolver/internal/spritegroup"
)

func parseScope(s string) (spritegroup.VarScope, bool) {
	switch s {
	case "", "self":
		return spritegroup.ScopeSelf, true
	case "parent":
		return spritegroup.ScopeParent, true
	case "relative":
		return spritegroup.ScopeRelative, true
	}
	return 0, false
}

func parseSize(s string) (spritegroup.Size, bool) {
	switch s {
	case "byte":
		return spritegroup.SizeByte, true
	case "word":
		return spritegroup.SizeWord, true
	case "", "dword":
		return spritegroup.SizeDword, true
	}
	return 0, false
}

func parseAdjustType(s string) (spritegroup.AdjustType, bool) {
	switch s {
	case "", "none":
		return spritegroup.AdjustNone, true
	case "div":
		return spritegroup.AdjustDiv, true
	case "mod":
		return spritegroup.AdjustMod, true
	}
	return 0, false
}

func parseCmp(s string) (spritegroup.CmpMode, bool) {
	switch s {
	case "", "any":
		return spritegroup.CmpAny, true
	case "all":
		return spritegroup.CmpAll, true
	}
	return 0, false
}

var layoutFlags = map[string]layout.Flags{
	"dodraw":         layout.FlagDoDraw,
	"sprite":         layout.FlagSprite,
	"palette":        layout.FlagPalette,
	"custom_palette": layout.FlagCustomPal,
	"bb_xy":          layout.FlagBBXYOffset,
	"bb_z":           layout.FlagBBZOffset,
	"child_x":        layout.FlagChildXOffset,
	"child_y":        layout.FlagChildYOffset,
}

func parseFlags(names []string) (layout.Flags, string, bool) {
	var f layout.Flags
	for _, n := range names {
		v, ok := layoutFlags[n]
		if !ok {
			return 0, n, false
		}
		f |= v
	}
	return f, "", true
}
