// Package globalvar implements the table of variables below 0x40 that every
// feature shares.
package globalvar

import (
	"sync"

	"github.com/xtding233/grf-resolver/internal/grf"
)

// Well known global variables.
const (
	VarDate        uint8 = 0x00 // current date
	VarYear        uint8 = 0x01 // current year minus 1920
	VarMonth       uint8 = 0x02
	VarClimate     uint8 = 0x03
	VarDayOfYear   uint8 = 0x09
	VarTTDPlatform uint8 = 0x0B
	VarVersion     uint8 = 0x0D
	VarGRFFeatures uint8 = 0x1E
	VarTicksPerDay uint8 = 0x22
	VarLongDate    uint8 = 0x23
	VarLongYear    uint8 = 0x24
)

// Table answers global variables from fixed values, optionally overridden per
// mod file. It is safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	values map[uint8]uint32
	perGRF map[uint32]map[uint8]uint32
}

// New creates a table holding values.
func New(values map[uint8]uint32) *Table {
	t := &Table{
		values: make(map[uint8]uint32, len(values)),
		perGRF: make(map[uint32]map[uint8]uint32),
	}
	for k, v := range values {
		t.values[k] = v
	}
	return t
}

// Set changes a shared value.
func (t *Table) Set(variable uint8, value uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[variable] = value
}

// SetFor overrides a value for one mod file.
func (t *Table) SetFor(grfID uint32, variable uint8, value uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.perGRF[grfID]
	if !ok {
		m = make(map[uint8]uint32)
		t.perGRF[grfID] = m
	}
	m[variable] = value
}

// GetGlobalVariable returns false for variables at or above 0x40 and for
// variables the table does not hold.
func (t *Table) GetGlobalVariable(variable uint8, file *grf.File) (uint32, bool) {
	if variable >= 0x40 {
		return 0, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if file != nil {
		if v, ok := t.perGRF[file.ID][variable]; ok {
			return v, true
		}
	}
	v, ok := t.values[variable]
	return v, ok
}
