package globalvar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xtding233/grf-resolver/internal/grf"
)

func TestTableLookup(t *testing.T) {
	tbl := New(map[uint8]uint32{VarYear: 130, VarClimate: 1})
	tbl.SetFor(0xAA, VarClimate, 3)

	v, ok := tbl.GetGlobalVariable(VarYear, nil)
	assert.True(t, ok)
	assert.Equal(t, uint32(130), v)

	v, _ = tbl.GetGlobalVariable(VarClimate, &grf.File{ID: 0xAA})
	assert.Equal(t, uint32(3), v)
	v, _ = tbl.GetGlobalVariable(VarClimate, &grf.File{ID: 0xBB})
	assert.Equal(t, uint32(1), v)

	_, ok = tbl.GetGlobalVariable(VarMonth, nil)
	assert.False(t, ok)

	tbl.Set(0x40, 1)
	_, ok = tbl.GetGlobalVariable(0x40, nil)
	assert.False(t, ok)
}
