package grf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetParam(t *testing.T) {
	f := &File{ID: 0x4D4C0101, Params: []uint32{7, 9}}
	assert.Equal(t, uint32(7), f.GetParam(0))
	assert.Equal(t, uint32(9), f.GetParam(1))
	assert.Equal(t, uint32(0), f.GetParam(2))
	assert.Equal(t, uint32(0), f.GetParam(0xFFFFFFFF))

	var none *File
	assert.Equal(t, uint32(0), none.GetParam(0))
	assert.Equal(t, "<none>", none.String())
}

func TestString(t *testing.T) {
	assert.Equal(t, "4D4C0101", (&File{ID: 0x4D4C0101}).String())
	assert.Equal(t, "00000001 (trees)", (&File{ID: 1, Name: "trees"}).String())
}
