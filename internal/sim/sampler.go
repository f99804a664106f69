// Package sim samples the outcomes of a root group over random bits.
package sim

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/xtding233/grf-resolver/internal/spritegroup"
)

var ErrNoFactory = errors.New("sampler has no object factory")

// checkEvery is how many trials run between context checks.
const checkEvery = 1024

// Params describes the request every trial resolves.
type Params struct {
	Trials int
	// Triggers are the waiting random triggers for CallbackRandomTrigger runs.
	Triggers uint32
}

// Outcome is one distinct result and how often it came up.
type Outcome struct {
	Result string  `yaml:"result"`
	Count  int     `yaml:"count"`
	Share  float64 `yaml:"share"`
}

// Report is the outcome distribution of a sampling run.
type Report struct {
	Trials   int       `yaml:"trials"`
	Outcomes []Outcome `yaml:"outcomes"`
	// Callbacks summarizes the callback values among the results.
	Callbacks Stats `yaml:"callbacks"`
	// Reseeded counts trials that consumed random bits through triggers.
	Reseeded int `yaml:"reseeded,omitempty"`
}

// Sampler resolves a root repeatedly, each time with fresh random bits in
// every scope.
type Sampler struct {
	// NewObject returns the resolver object for one trial; its Root is set
	// by Run.
	NewObject func() *spritegroup.ResolverObject
	RNG       RandomSource
	Logger    *zap.Logger
}

// NewSampler returns a sampler with the default RNG. A nil logger disables
// logging.
func NewSampler(newObject func() *spritegroup.ResolverObject, rng RandomSource, logger *zap.Logger) *Sampler {
	if rng == nil {
		rng = DefaultRNG()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{NewObject: newObject, RNG: rng, Logger: logger}
}

// Run resolves root p.Trials times. Outcomes are ordered by count, most
// frequent first.
func (s *Sampler) Run(ctx context.Context, root *spritegroup.Group, p Params) (Report, error) {
	if s.NewObject == nil {
		return Report{}, ErrNoFactory
	}
	if p.Trials <= 0 {
		return Report{}, nil
	}
	rng := s.RNG
	if rng == nil {
		rng = DefaultRNG()
	}

	counts := make(map[string]int)
	var (
		callbacks []int
		reseeded  int
	)
	for i := 0; i < p.Trials; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
		}

		obj := s.NewObject()
		obj.Root = root
		bits := &randomBits{base: obj.Scopes}
		for sc := range bits.bits {
			bits.bits[sc] = rng.Uint32()
		}
		obj.Scopes = bits
		if obj.Callback == spritegroup.CallbackRandomTrigger {
			obj.SetWaitingRandomTriggers(p.Triggers)
		}

		res := obj.Resolve()
		counts[res.String()]++
		if v, ok := res.CallbackValue(); ok {
			callbacks = append(callbacks, int(v))
		}
		if obj.ReseedSum() != 0 {
			reseeded++
		}
	}

	rep := Report{
		Trials:    p.Trials,
		Outcomes:  make([]Outcome, 0, len(counts)),
		Callbacks: summarize(callbacks),
		Reseeded:  reseeded,
	}
	for r, c := range counts {
		rep.Outcomes = append(rep.Outcomes, Outcome{Result: r, Count: c, Share: float64(c) / float64(p.Trials)})
	}
	sort.Slice(rep.Outcomes, func(i, j int) bool {
		a, b := rep.Outcomes[i], rep.Outcomes[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Result < b.Result
	})

	s.Logger.Debug("sampling finished",
		zap.Int("trials", p.Trials),
		zap.Int("outcomes", len(rep.Outcomes)),
		zap.Int("reseeded", reseeded))
	return rep, nil
}

// randomBits overrides the random bits of every scope of an object.
type randomBits struct {
	base spritegroup.ScopeProvider
	bits [spritegroup.ScopeEnd]uint32
}

func (r *randomBits) GetScope(scope spritegroup.VarScope, relative uint8) spritegroup.ScopeResolver {
	var inner spritegroup.ScopeResolver
	if r.base != nil {
		inner = r.base.GetScope(scope, relative)
	}
	if inner == nil {
		inner = spritegroup.DefaultScope{}
	}
	var bits uint32
	if scope < spritegroup.ScopeEnd {
		bits = r.bits[scope]
	}
	return bitsScope{ScopeResolver: inner, bits: bits}
}

type bitsScope struct {
	spritegroup.ScopeResolver
	bits uint32
}

func (s bitsScope) GetRandomBits() uint32 { return s.bits }
