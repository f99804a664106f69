package grfconf

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rootCallback(t *testing.T, def *Definition) uint16 {
	t.Helper()
	root, err := def.Root("default")
	require.NoError(t, err)
	obj := def.NewObject(nil, 0, 0, 0)
	obj.Root = root
	v, ok := obj.Resolve().CallbackValue()
	require.True(t, ok)
	return uint16(v)
}

func TestStoreLoadsOnce(t *testing.T) {
	dir := writeTree(t, map[string]string{"default.yaml": defaultYAML, "trains.yaml": trainsYAML})
	s := NewStore(NewLoader(dir), nil)

	a, err := s.Definition("trains")
	require.NoError(t, err)
	b, err := s.Definition("trains")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, []string{"trains"}, s.Names())

	_, err = s.Definition("nope")
	assert.ErrorIs(t, err, ErrUnknownGRF)
}

func TestStoreReloadKeepsPreviousOnError(t *testing.T) {
	dir := writeTree(t, map[string]string{"default.yaml": defaultYAML, "trains.yaml": trainsYAML})
	l := NewLoader(dir)
	s := NewStore(l, nil)

	before, err := s.Definition("trains")
	require.NoError(t, err)
	assert.Equal(t, uint16(7), rootCallback(t, before))

	require.NoError(t, os.WriteFile(l.Paths().GRFPath("trains"), []byte("roots: {default: missing}\n"), 0o644))
	s.Reload()
	after, err := s.Definition("trains")
	require.NoError(t, err)
	assert.Same(t, before, after)

	require.NoError(t, os.WriteFile(l.Paths().GRFPath("trains"), []byte("params: [0, 0]\nroots: {default: fallback}\n"), 0o644))
	s.Reload()
	after, err = s.Definition("trains")
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, uint16(0x7FFF), rootCallback(t, after))
}

func TestStoreWatchReloads(t *testing.T) {
	dir := writeTree(t, map[string]string{"default.yaml": defaultYAML, "trains.yaml": trainsYAML})
	l := NewLoader(dir)
	s := NewStore(l, nil)
	before, err := s.Definition("trains")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err = s.Watch(ctx, []string{"trains"}, 10*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(l.Paths().GRFPath("trains"), []byte("roots: {default: fallback}\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(l.Paths().GRFPath("trains"), later, later))

	assert.Eventually(t, func() bool {
		def, err := s.Definition("trains")
		return err == nil && def != before
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStoreWatchFollowsLaterLoads(t *testing.T) {
	dir := writeTree(t, map[string]string{"trams.yaml": "roots: {default: x}\ngroups: [{name: x, callback: 1}]\n"})
	l := NewLoader(dir)
	s := NewStore(l, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := s.Watch(ctx, nil, 10*time.Millisecond)
	require.NoError(t, err)

	def, err := s.Definition("trams")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), rootCallback(t, def))

	path := l.Paths().GRFPath("trams")
	require.NoError(t, os.WriteFile(path, []byte("roots: {default: x}\ngroups: [{name: x, callback: 2}]\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	assert.Eventually(t, func() bool {
		def, err := s.Definition("trams")
		if err != nil {
			return false
		}
		obj := def.NewObject(nil, 0, 0, 0)
		obj.Root = def.Roots["default"]
		v, ok := obj.Resolve().CallbackValue()
		return ok && v == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStoreWatchRejectsUnknownPreload(t *testing.T) {
	s := NewStore(NewLoader(t.TempDir()), nil)
	_, err := s.Watch(context.Background(), []string{"nope"}, time.Hour)
	assert.ErrorIs(t, err, ErrUnknownGRF)
}
