package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/grf-resolver/internal/spritegroup"
)

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestParseRequest(t *testing.T) {
	req, err := parseRequest(mustStruct(t, map[string]any{
		"grf":              "depot",
		"callback":         0x36,
		"param1":           "0xFFFFFFFF",
		"random_bits":      0x55,
		"waiting_triggers": 3,
		"seed":             "18446744073709551615",
		"vars":             map[string]any{"0x40": 1, "65": 2},
		"registers":        map[string]any{"0x100": -5, "1": -(1 << 31), "2": "0x7FFFFFFF"},
	}))
	require.NoError(t, err)

	assert.Equal(t, "default", req.Root)
	assert.Equal(t, spritegroup.CallbackID(0x36), req.Callback)
	assert.Equal(t, uint32(0xFFFFFFFF), req.Param1)
	assert.Equal(t, uint32(0x55), req.RandomBits)
	assert.Equal(t, uint32(3), req.WaitingTriggers)
	assert.True(t, req.HasSeed)
	assert.Equal(t, uint64(18446744073709551615), req.Seed)
	assert.Equal(t, map[uint8]uint32{0x40: 1, 0x41: 2}, req.Vars)
	assert.Equal(t, map[uint32]int32{0x100: -5, 1: -1 << 31, 2: 0x7FFFFFFF}, req.Registers)
	assert.Nil(t, req.stage)
}

func TestParseRequestRejects(t *testing.T) {
	for name, m := range map[string]map[string]any{
		"fraction":  {"grf": "a", "param1": 1.5},
		"too wide":  {"grf": "a", "callback": 0x10000},
		"bool":      {"grf": "a", "param2": true},
		"bad var":   {"grf": "a", "vars": map[string]any{"0x100": 1}},
		"var value": {"grf": "a", "vars": map[string]any{"0x40": "x"}},
		"reg value": {"grf": "a", "registers": map[string]any{"0": true}},
		"reg frac":  {"grf": "a", "registers": map[string]any{"0": 1.5}},
		"reg high":  {"grf": "a", "registers": map[string]any{"0": 1 << 31}},
		"reg low":   {"grf": "a", "registers": map[string]any{"0": -(1 << 31) - 1}},
		"reg text":  {"grf": "a", "registers": map[string]any{"0": "0x80000000"}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseRequest(mustStruct(t, m))
			assert.Error(t, err)
		})
	}

	_, err := parseRequest(nil)
	assert.Error(t, err)
}
