package rpc

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/grf-resolver/internal/layout"
	"github.com/xtding233/grf-resolver/internal/profile"
	"github.com/xtding233/grf-resolver/internal/sim"
	"github.com/xtding233/grf-resolver/internal/spritegroup"
)

var resultKinds = map[spritegroup.ResultKind]string{
	spritegroup.ResultNone:     "none",
	spritegroup.ResultCallback: "callback",
	spritegroup.ResultSprites:  "sprites",
	spritegroup.ResultLayout:   "layout",
}

func encodeResult(res spritegroup.Result, obj *spritegroup.ResolverObject, stage *uint8) (*structpb.Struct, error) {
	out := map[string]any{
		"kind":          resultKinds[res.Kind],
		"result":        res.String(),
		"last_value":    obj.LastValue,
		"reseed":        obj.ReseedSum(),
		"used_triggers": obj.UsedRandomTriggers(),
	}
	switch res.Kind {
	case spritegroup.ResultCallback:
		out["callback"] = uint32(res.Callback)
	case spritegroup.ResultSprites:
		if res.Group != nil && res.Group.Sprites != nil {
			out["sprites"] = map[string]any{
				"first": res.Group.Sprites.Sprite,
				"count": res.Group.Sprites.NumSprites,
			}
		}
	case spritegroup.ResultLayout:
		if res.Layout != nil {
			out["layout"] = encodeLayout(res.Layout)
		}
	}
	if stage != nil && obj.ConstructionStage != nil {
		out["stage"] = uint32(*obj.ConstructionStage)
	}
	if res.Group != nil && res.Group.Name != "" {
		out["group"] = res.Group.Name
	}

	st, err := structpb.NewStruct(out)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return st, nil
}

func encodeLayout(p *layout.Processor) map[string]any {
	sprites := make([]any, 0, len(p.Sprites))
	for _, s := range p.Sprites {
		sprites = append(sprites, encodeSprite(s))
	}
	return map[string]any{
		"ground":    encodeSprite(p.Ground),
		"sprites":   sprites,
		"processed": p.Processed,
	}
}

func encodeSprite(s layout.Sprite) map[string]any {
	m := map[string]any{
		"sprite":  s.ID,
		"palette": s.Palette,
		"x":       s.X,
		"y":       s.Y,
		"z":       s.Z,
	}
	if s.Child {
		m["child"] = true
	} else {
		m["size"] = []any{uint32(s.SizeX), uint32(s.SizeY), uint32(s.SizeZ)}
	}
	return m
}

func encodeReport(rep sim.Report) (*structpb.Struct, error) {
	outcomes := make([]any, 0, len(rep.Outcomes))
	for _, o := range rep.Outcomes {
		outcomes = append(outcomes, map[string]any{
			"result": o.Result,
			"count":  o.Count,
			"share":  o.Share,
		})
	}
	st, err := structpb.NewStruct(map[string]any{
		"trials":   rep.Trials,
		"outcomes": outcomes,
		"reseeded": rep.Reseeded,
		"callbacks": map[string]any{
			"count":  rep.Callbacks.Count,
			"min":    rep.Callbacks.Min,
			"max":    rep.Callbacks.Max,
			"mean":   rep.Callbacks.Mean,
			"stddev": rep.Callbacks.StdDev,
			"p50":    rep.Callbacks.P50,
			"p90":    rep.Callbacks.P90,
			"p99":    rep.Callbacks.P99,
		},
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return st, nil
}

func encodeSummary(sum profile.Summary) (*structpb.Struct, error) {
	callbacks := make(map[string]any, len(sum.Callbacks))
	for id, cs := range sum.Callbacks {
		callbacks[fmt.Sprintf("0x%02X", id)] = map[string]any{
			"count":    cs.Count,
			"subs":     cs.Subs,
			"total_us": cs.Total.Microseconds(),
			"results":  stringCounts(cs.Results),
		}
	}
	st, err := structpb.NewStruct(map[string]any{
		"grf":       sum.GRF,
		"calls":     sum.Calls,
		"callbacks": callbacks,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return st, nil
}

func stringCounts(m map[string]int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
