// Package profile records resolve calls per mod file.
package profile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xtding233/grf-resolver/internal/grf"
	"github.com/xtding233/grf-resolver/internal/spritegroup"
)

// Call is one top-level resolution.
type Call struct {
	Seq      int           `yaml:"seq"`
	Callback uint16        `yaml:"callback"`
	Param1   uint32        `yaml:"param1"`
	Param2   uint32        `yaml:"param2"`
	Root     string        `yaml:"root,omitempty"`
	Duration time.Duration `yaml:"duration"`
	// Subs counts nested group resolutions.
	Subs   int    `yaml:"subs"`
	Result string `yaml:"result"`
}

// Profiler collects calls for one mod file. Resolutions of the same file must
// not run concurrently while the profiler is active.
type Profiler struct {
	File *grf.File

	mu      sync.Mutex
	active  bool
	cur     Call
	started time.Time
	calls   []Call
	logger  *zap.Logger
	now     func() time.Time
}

// New returns an inactive profiler for file.
func New(file *grf.File, logger *zap.Logger) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiler{File: file, logger: logger.With(zap.Stringer("grf", file)), now: time.Now}
}

// Start activates the profiler and drops previous calls.
func (p *Profiler) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = true
	p.calls = nil
	p.logger.Info("profiling started")
}

// Stop deactivates the profiler and returns the recorded calls.
func (p *Profiler) Stop() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = false
	p.logger.Info("profiling stopped", zap.Int("calls", len(p.calls)))
	return append([]Call(nil), p.calls...)
}

func (p *Profiler) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *Profiler) BeginResolve(obj *spritegroup.ResolverObject) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cur = Call{
		Seq:      len(p.calls),
		Callback: uint16(obj.Callback),
		Param1:   obj.CallbackParam1,
		Param2:   obj.CallbackParam2,
	}
	if obj.Root != nil {
		p.cur.Root = obj.Root.Name
	}
	p.started = p.now()
}

func (p *Profiler) EndResolve(res spritegroup.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cur.Duration = p.now().Sub(p.started)
	p.cur.Result = resultText(res)
	p.calls = append(p.calls, p.cur)
	p.logger.Debug("resolved",
		zap.Uint16("callback", p.cur.Callback),
		zap.String("root", p.cur.Root),
		zap.Int("subs", p.cur.Subs),
		zap.String("result", p.cur.Result),
		zap.Duration("duration", p.cur.Duration))
}

func (p *Profiler) RecursiveResolve() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cur.Subs++
}

// Calls returns a copy of the recorded calls.
func (p *Profiler) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

func resultText(res spritegroup.Result) string {
	if v, ok := res.CallbackValue(); ok {
		return strconv.Itoa(int(v))
	}
	return res.String()
}

var csvHeader = []string{"seq", "grf", "callback", "param1", "param2", "root", "microseconds", "subs", "result"}

// WriteCSV writes calls in the profiler's CSV layout.
func WriteCSV(w io.Writer, file *grf.File, calls []Call) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	id := fmt.Sprintf("%08X", grf.InvalidID)
	if file != nil {
		id = fmt.Sprintf("%08X", file.ID)
	}
	for _, c := range calls {
		rec := []string{
			strconv.Itoa(c.Seq),
			id,
			fmt.Sprintf("0x%02X", c.Callback),
			strconv.FormatUint(uint64(c.Param1), 10),
			strconv.FormatUint(uint64(c.Param2), 10),
			c.Root,
			strconv.FormatInt(c.Duration.Microseconds(), 10),
			strconv.Itoa(c.Subs),
			c.Result,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary aggregates calls per callback id.
type Summary struct {
	GRF       string                 `yaml:"grf"`
	Calls     int                    `yaml:"calls"`
	Callbacks map[uint16]CallbackSum `yaml:"callbacks"`
}

// CallbackSum aggregates the calls of one callback id.
type CallbackSum struct {
	Count   int            `yaml:"count"`
	Subs    int            `yaml:"subs"`
	Total   time.Duration  `yaml:"total"`
	Results map[string]int `yaml:"results"`
}

// Summarize aggregates calls.
func Summarize(file *grf.File, calls []Call) Summary {
	s := Summary{GRF: file.String(), Calls: len(calls), Callbacks: make(map[uint16]CallbackSum)}
	for _, c := range calls {
		cs := s.Callbacks[c.Callback]
		if cs.Results == nil {
			cs.Results = make(map[string]int)
		}
		cs.Count++
		cs.Subs += c.Subs
		cs.Total += c.Duration
		cs.Results[c.Result]++
		s.Callbacks[c.Callback] = cs
	}
	return s
}

// WriteYAML writes a summary as YAML.
func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
