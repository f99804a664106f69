package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xtding233/grf-resolver/internal/grfconf"
	"github.com/xtding233/grf-resolver/internal/profile"
	"github.com/xtding233/grf-resolver/internal/sim"
	"github.com/xtding233/grf-resolver/internal/spritegroup"
)

// version is injected at build time.
var version = "dev"

// assignments collects repeated key=value flags.
type assignments map[uint64]int64

func (a assignments) String() string {
	parts := make([]string, 0, len(a))
	for k, v := range a {
		parts = append(parts, fmt.Sprintf("0x%X=%d", k, v))
	}
	return strings.Join(parts, ",")
}

func (a assignments) Set(s string) error {
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("want key=value, got %q", kv)
		}
		key, err := strconv.ParseUint(strings.TrimSpace(k), 0, 32)
		if err != nil {
			return fmt.Errorf("bad key %q", k)
		}
		val, err := strconv.ParseInt(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return fmt.Errorf("bad value %q", v)
		}
		a[key] = val
	}
	return nil
}

type output struct {
	GRF       string           `yaml:"grf"`
	Root      string           `yaml:"root"`
	Result    string           `yaml:"result"`
	LastValue uint32           `yaml:"last_value"`
	Reseed    uint32           `yaml:"reseed,omitempty"`
	Stage     *uint8           `yaml:"stage,omitempty"`
	Sample    *sim.Report      `yaml:"sample,omitempty"`
	Profile   *profile.Summary `yaml:"profile,omitempty"`
}

func main() {
	var (
		configDir   string
		grfName     string
		rootName    string
		callback    uint
		param1      uint
		param2      uint
		randomBits  uint
		triggers    uint
		waiting     uint
		stage       int
		trials      int
		seed        uint64
		profilePath string
		scaleBy     float64
		scaleIn     string
		scaleOut    string
		verbose     bool
		showVersion bool
	)
	vars, regs := assignments{}, assignments{}
	flag.StringVar(&configDir, "config", "config", "base directory holding grfs/*.yaml")
	flag.StringVar(&grfName, "grf", "", "definition name (grfs/<name>.yaml)")
	flag.StringVar(&rootName, "root", "default", "root or group to resolve")
	flag.UintVar(&callback, "callback", 0, "callback id (variable 0x0C)")
	flag.UintVar(&param1, "p1", 0, "callback parameter 1 (variable 0x10)")
	flag.UintVar(&param2, "p2", 0, "callback parameter 2 (variable 0x18)")
	flag.UintVar(&randomBits, "bits", 0, "random bits of every scope")
	flag.UintVar(&triggers, "triggers", 0, "random triggers of every scope")
	flag.UintVar(&waiting, "waiting", 0, "waiting random triggers for callback 0x01")
	flag.IntVar(&stage, "stage", -1, "construction stage 0-3, -1 for none")
	flag.IntVar(&trials, "trials", 0, "sample the root this many times with random bits")
	flag.Uint64Var(&seed, "seed", 0, "seed for -trials; 0 uses a random seed")
	flag.StringVar(&profilePath, "profile", "", "write a CSV profile of the resolution to this file")
	flag.Float64Var(&scaleBy, "scale", 0, "resample the -in PNG sprite by this factor into -out and exit")
	flag.StringVar(&scaleIn, "in", "", "input PNG for -scale")
	flag.StringVar(&scaleOut, "out", "", "output PNG for -scale")
	flag.Var(vars, "var", "scope variable as id=value, e.g. 0x40=3 (repeatable)")
	flag.Var(regs, "reg", "temporary register as index=value (repeatable)")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("grfresolve %s\n", version)
		return
	}
	if scaleBy > 0 {
		if scaleIn == "" || scaleOut == "" {
			log.Fatal("-scale needs -in and -out")
		}
		w, h, err := scaleFile(scaleIn, scaleOut, float32(scaleBy))
		if err != nil {
			log.Fatalf("scale %s: %v", scaleIn, err)
		}
		fmt.Printf("wrote %s (%dx%d)\n", scaleOut, w, h)
		return
	}
	if grfName == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := newLogger(verbose)
	defer func() { _ = logger.Sync() }()

	def, err := grfconf.NewLoader(configDir).Load(grfName)
	if err != nil {
		log.Fatalf("load %s: %v", grfName, err)
	}
	root, err := def.Root(rootName)
	if err != nil {
		log.Fatal(err)
	}

	scope := &spritegroup.StaticScope{
		RandomBits:     uint32(randomBits),
		RandomTriggers: uint32(triggers),
		Vars:           make(map[uint8]uint32, len(vars)),
	}
	for k, v := range vars {
		if k > 0xFF {
			log.Fatalf("variable 0x%X out of range", k)
		}
		scope.Vars[uint8(k)] = uint32(v)
	}
	newObject := func() *spritegroup.ResolverObject {
		rs := spritegroup.NewTempStore()
		for k, v := range regs {
			rs.SetRegister(uint32(k), int32(v))
		}
		obj := def.NewObject(rs, spritegroup.CallbackID(callback), uint32(param1), uint32(param2))
		obj.Scopes = spritegroup.Scopes{
			spritegroup.ScopeSelf:     scope,
			spritegroup.ScopeParent:   scope,
			spritegroup.ScopeRelative: scope,
		}
		obj.SetWaitingRandomTriggers(uint32(waiting))
		obj.Logger = logger
		if stage >= 0 {
			st := uint8(stage)
			obj.ConstructionStage = &st
		}
		return obj
	}

	profilers := profile.NewRegistry(logger)
	var prof *profile.Profiler
	if profilePath != "" {
		prof = profilers.Attach(def.File)
		prof.Start()
	}

	obj := newObject()
	obj.Root = root
	obj.Profilers = profilers
	res := obj.Resolve()

	out := output{
		GRF:       def.File.String(),
		Root:      rootName,
		Result:    res.String(),
		LastValue: obj.LastValue,
		Reseed:    obj.ReseedSum(),
		Stage:     obj.ConstructionStage,
	}

	if prof != nil {
		calls := prof.Stop()
		if err := writeProfile(profilePath, def, calls); err != nil {
			log.Fatal(err)
		}
		sum := profile.Summarize(def.File, calls)
		out.Profile = &sum
	}

	if trials > 0 {
		var rng sim.RandomSource
		if seed != 0 {
			rng = sim.NewSeededRNG(seed)
		}
		rep, err := sim.NewSampler(newObject, rng, logger).Run(context.Background(), root, sim.Params{Trials: trials, Triggers: uint32(waiting)})
		if err != nil {
			log.Fatal(err)
		}
		out.Sample = &rep
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
	_ = enc.Close()
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return logger
}

func writeProfile(path string, def *grfconf.Definition, calls []profile.Call) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if err := profile.WriteCSV(f, def.File, calls); err != nil {
		_ = f.Close()
		return fmt.Errorf("profile: %w", err)
	}
	return f.Close()
}
