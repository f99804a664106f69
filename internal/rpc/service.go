// Package rpc exposes sprite group resolution over gRPC. Messages are
// google.protobuf.Struct values, so no generated code is needed.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/grf-resolver/internal/grfconf"
	"github.com/xtding233/grf-resolver/internal/profile"
	"github.com/xtding233/grf-resolver/internal/sim"
	"github.com/xtding233/grf-resolver/internal/spritegroup"
)

const (
	ServiceName   = "grfresolve.v1.Resolver"
	ResolveMethod = "/" + ServiceName + "/Resolve"
	SampleMethod  = "/" + ServiceName + "/Sample"
	ProfileMethod = "/" + ServiceName + "/Profile"
)

// maxTrials bounds a single Sample request.
const maxTrials = 1_000_000

// ResolverServer is the server API of the Resolver service.
type ResolverServer interface {
	Resolve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Sample(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Profile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Definitions looks up built definitions by name.
type Definitions interface {
	Definition(name string) (*grfconf.Definition, error)
}

// Service implements ResolverServer on top of a definition source.
type Service struct {
	defs      Definitions
	profilers *profile.Registry
	logger    *zap.Logger

	// profiled resolutions share one profiler per file
	mu sync.Mutex
}

// NewService creates the service. profilers may be nil.
func NewService(defs Definitions, profilers *profile.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{defs: defs, profilers: profilers, logger: logger}
}

// Register adds the service to s.
func Register(s grpc.ServiceRegistrar, srv ResolverServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Resolve resolves one root for one request.
//
// Request fields: grf, root (default "default"), callback, param1, param2,
// random_bits, random_triggers, waiting_triggers, stage, vars and registers
// (objects keyed by number, e.g. {"0x40": 3}).
func (s *Service) Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := parseRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	def, root, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	obj := req.object(def)
	obj.Root = root
	obj.Logger = s.logger

	var res spritegroup.Result
	if p := s.profiler(def); p != nil {
		obj.Profilers = s.profilers
		s.mu.Lock()
		res = obj.Resolve()
		s.mu.Unlock()
	} else {
		res = obj.Resolve()
	}

	s.logger.Debug("resolved",
		zap.String("grf", req.GRF),
		zap.String("root", req.Root),
		zap.Stringer("result", res))
	return encodeResult(res, obj, req.stage)
}

// Sample resolves a root many times with random bits and returns the outcome
// distribution. Extra request fields: trials, seed.
func (s *Service) Sample(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := parseRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.Trials <= 0 || req.Trials > maxTrials {
		return nil, status.Errorf(codes.InvalidArgument, "trials must be in 1..%d", maxTrials)
	}
	def, root, err := s.lookup(req)
	if err != nil {
		return nil, err
	}

	var rng sim.RandomSource
	if req.HasSeed {
		rng = sim.NewSeededRNG(req.Seed)
	}
	sampler := sim.NewSampler(func() *spritegroup.ResolverObject { return req.object(def) }, rng, s.logger)
	rep, err := sampler.Run(ctx, root, sim.Params{Trials: req.Trials, Triggers: req.WaitingTriggers})
	if err != nil {
		return nil, status.FromContextError(err).Err()
	}
	return encodeReport(rep)
}

// Profile starts or stops recording the resolutions of one definition.
// Request fields: grf, action ("start" or "stop"). Stopping returns the
// summary of the recorded calls.
func (s *Service) Profile(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.profilers == nil {
		return nil, status.Error(codes.Unimplemented, "profiling is disabled")
	}
	f := in.GetFields()
	name := f["grf"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "grf is required")
	}
	def, _, err := s.lookup(request{GRF: name, Root: ""})
	if err != nil {
		return nil, err
	}

	switch action := f["action"].GetStringValue(); action {
	case "start":
		s.mu.Lock()
		s.profilers.Attach(def.File).Start()
		s.mu.Unlock()
		s.logger.Info("profiling started", zap.String("grf", name))
		return structpb.NewStruct(map[string]any{"grf": def.File.String(), "active": true})
	case "stop":
		p := s.profiler(def)
		if p == nil {
			return nil, status.Errorf(codes.FailedPrecondition, "%s is not being profiled", name)
		}
		s.mu.Lock()
		calls := p.Stop()
		s.mu.Unlock()
		s.profilers.Detach(def.File)
		s.logger.Info("profiling stopped", zap.String("grf", name), zap.Int("calls", len(calls)))
		return encodeSummary(profile.Summarize(def.File, calls))
	default:
		return nil, status.Errorf(codes.InvalidArgument, "action must be start or stop, got %q", action)
	}
}

func (s *Service) profiler(def *grfconf.Definition) *profile.Profiler {
	if s.profilers == nil {
		return nil
	}
	p, _ := s.profilers.Profiler(def.File).(*profile.Profiler)
	return p
}

func (s *Service) lookup(req request) (*grfconf.Definition, *spritegroup.Group, error) {
	def, err := s.defs.Definition(req.GRF)
	if err != nil {
		if errors.Is(err, grfconf.ErrUnknownGRF) {
			return nil, nil, status.Error(codes.NotFound, err.Error())
		}
		if errors.Is(err, grfconf.ErrInvalidConfig) {
			return nil, nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		s.logger.Error("definition load failed", zap.String("grf", req.GRF), zap.Error(err))
		return nil, nil, status.Error(codes.Internal, err.Error())
	}
	if req.Root == "" {
		return def, nil, nil
	}
	root, err := def.Root(req.Root)
	if err != nil {
		return nil, nil, status.Error(codes.NotFound, err.Error())
	}
	return def, root, nil
}

type request struct {
	GRF             string
	Root            string
	Callback        spritegroup.CallbackID
	Param1, Param2  uint32
	RandomBits      uint32
	RandomTriggers  uint32
	WaitingTriggers uint32
	Vars            map[uint8]uint32
	Registers       map[uint32]int32
	Trials          int
	Seed            uint64
	HasSeed         bool
	stage           *uint8
}

func (r request) object(def *grfconf.Definition) *spritegroup.ResolverObject {
	regs := spritegroup.NewTempStore()
	for i, v := range r.Registers {
		regs.SetRegister(i, v)
	}
	obj := def.NewObject(regs, r.Callback, r.Param1, r.Param2)
	scope := &spritegroup.StaticScope{
		RandomBits:     r.RandomBits,
		RandomTriggers: r.RandomTriggers,
		Vars:           r.Vars,
	}
	obj.Scopes = spritegroup.Scopes{
		spritegroup.ScopeSelf:     scope,
		spritegroup.ScopeParent:   scope,
		spritegroup.ScopeRelative: scope,
	}
	obj.SetWaitingRandomTriggers(r.WaitingTriggers)
	if r.stage != nil {
		st := *r.stage
		obj.ConstructionStage = &st
	}
	return obj
}

func parseRequest(in *structpb.Struct) (request, error) {
	req := request{Root: "default"}
	if in == nil {
		return req, errors.New("empty request")
	}
	f := in.GetFields()

	req.GRF = f["grf"].GetStringValue()
	if req.GRF == "" {
		return req, errors.New("grf is required")
	}
	if r := f["root"].GetStringValue(); r != "" {
		req.Root = r
	}

	var err error
	num := func(key string, bitSize int) uint64 {
		v, ok := f[key]
		if !ok || err != nil {
			return 0
		}
		var n uint64
		n, err = number(v, bitSize)
		if err != nil {
			err = fmt.Errorf("%s: %w", key, err)
		}
		return n
	}
	req.Callback = spritegroup.CallbackID(num("callback", 16))
	req.Param1 = uint32(num("param1", 32))
	req.Param2 = uint32(num("param2", 32))
	req.RandomBits = uint32(num("random_bits", 32))
	req.RandomTriggers = uint32(num("random_triggers", 32))
	req.WaitingTriggers = uint32(num("waiting_triggers", 32))
	req.Trials = int(num("trials", 32))
	if _, ok := f["seed"]; ok {
		req.Seed = num("seed", 64)
		req.HasSeed = true
	}
	if _, ok := f["stage"]; ok {
		st := uint8(num("stage", 2))
		req.stage = &st
	}
	if err != nil {
		return req, err
	}

	if v, ok := f["vars"]; ok {
		req.Vars = make(map[uint8]uint32)
		for k, val := range v.GetStructValue().GetFields() {
			id, err := strconv.ParseUint(k, 0, 8)
			if err != nil {
				return req, fmt.Errorf("vars: bad variable %q", k)
			}
			n, err := number(val, 32)
			if err != nil {
				return req, fmt.Errorf("vars.%s: %w", k, err)
			}
			req.Vars[uint8(id)] = uint32(n)
		}
	}
	if v, ok := f["registers"]; ok {
		req.Registers = make(map[uint32]int32)
		for k, val := range v.GetStructValue().GetFields() {
			id, err := strconv.ParseUint(k, 0, 32)
			if err != nil || id >= spritegroup.TempStoreSize {
				return req, fmt.Errorf("registers: bad register %q", k)
			}
			n, err := register(val)
			if err != nil {
				return req, fmt.Errorf("registers.%s: %w", k, err)
			}
			req.Registers[uint32(id)] = n
		}
	}
	return req, nil
}

// register reads a signed 32 bit register value.
func register(v *structpb.Value) (int32, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("want a 32 bit integer, got %v", n)
		}
		return int32(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(k.StringValue, 0, 32)
		return int32(n), err
	default:
		return 0, errors.New("want a number")
	}
}

// number reads a non-negative integer that fits in bitSize bits.
func number(v *structpb.Value, bitSize int) (uint64, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n < 0 || n != float64(uint64(n)) {
			return 0, fmt.Errorf("want a non-negative integer, got %v", n)
		}
		u := uint64(n)
		if bitSize < 64 && u >= 1<<bitSize {
			return 0, fmt.Errorf("%d does not fit in %d bits", u, bitSize)
		}
		return u, nil
	case *structpb.Value_StringValue:
		// large values such as seeds may be sent as strings, e.g. "0xFFFFFFFF"
		return strconv.ParseUint(k.StringValue, 0, bitSize)
	default:
		return 0, errors.New("want a number")
	}
}
