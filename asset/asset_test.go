// SPDX-License-Identifier: EPL-2.0

package asset_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/spatial/asset"
	"github.com/ik5/spatial/audio"
	"github.com/ik5/spatial/internal/audiotest"
)

func TestHandle(t *testing.T) {
	t.Parallel()

	require.True(t, asset.Handle{}.IsZero())
	require.False(t, asset.NewHandle().IsZero())
	require.NotEqual(t, asset.NewHandle(), asset.NewHandle())

	require.Equal(t, asset.HandleFor("sounds/a.wav"), asset.HandleFor("sounds/./a.wav"))
	require.NotEqual(t, asset.HandleFor("sounds/a.wav"), asset.HandleFor("sounds/b.wav"))
	require.Len(t, asset.HandleFor("x").String(), 36)
}

func TestStoreEvents(t *testing.T) {
	t.Parallel()

	s := asset.NewStore()
	b := &audio.Buffer{Samples: []int16{1, 2}, SampleRate: 8000, Channels: 1}

	h := s.Add(b)
	s.Set(h, b)
	require.True(t, s.Remove(h))
	require.False(t, s.Remove(h))

	other := asset.NewHandle()
	s.Set(other, b)

	got, ok := s.Get(other)
	require.True(t, ok)
	require.Same(t, b, got)
	require.Equal(t, 1, s.Len())

	require.Equal(t, []asset.Event{
		{Kind: asset.Created, Handle: h},
		{Kind: asset.Modified, Handle: h},
		{Kind: asset.Removed, Handle: h},
		{Kind: asset.Created, Handle: other},
	}, s.Drain())
	require.Empty(t, s.Drain())

	require.Equal(t, "created", asset.Created.String())
	require.Equal(t, "removed", asset.Removed.String())
	require.Equal(t, "unknown", asset.EventKind(0).String())
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoaderDecode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	samples := audiotest.Int16Ramp(800, -400)
	writeFile(t, filepath.Join(dir, "tone.WAV"), audiotest.WAV(8000, 2, samples))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("not audio"))
	writeFile(t, filepath.Join(dir, "broken.wav"), []byte("RIFF but not really"))

	l := asset.NewLoader(asset.NewStore(), nil)

	b, err := l.Decode(filepath.Join(dir, "tone.WAV"))
	require.NoError(t, err)
	require.Equal(t, 8000, b.SampleRate)
	require.Equal(t, 2, b.Channels)
	require.Equal(t, samples, b.Samples)

	b, err = l.Decode(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	require.Nil(t, b)

	_, err = l.Decode(filepath.Join(dir, "broken.wav"))
	require.Error(t, err)

	_, err = l.Decode(filepath.Join(dir, "missing.wav"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.wav")
	writeFile(t, path, audiotest.WAV(22050, 1, audiotest.Int16Ramp(100, 0)))

	store := asset.NewStore()
	l := asset.NewLoader(store, nil)

	h, ok := l.Load(path)
	require.True(t, ok)
	require.Equal(t, asset.HandleFor(path), h)

	// reloading the same path modifies the asset
	h2, ok := l.Load(path)
	require.True(t, ok)
	require.Equal(t, h, h2)
	require.Equal(t, []asset.Event{
		{Kind: asset.Created, Handle: h},
		{Kind: asset.Modified, Handle: h},
	}, store.Drain())

	_, ok = l.Load(filepath.Join(dir, "nothing.mid"))
	require.False(t, ok)
	require.Empty(t, store.Drain())
}

func TestLoadFolder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.wav"), audiotest.WAV(8000, 1, audiotest.Int16Ramp(10, 0)))
	writeFile(t, filepath.Join(dir, "sub", "b.wav"), audiotest.WAV(8000, 2, audiotest.Int16Ramp(20, 0)))
	writeFile(t, filepath.Join(dir, "sub", "bad.wav"), []byte("junk"))
	writeFile(t, filepath.Join(dir, "readme.md"), []byte("# hi"))

	store := asset.NewStore()
	l := asset.NewLoader(store, nil)

	handles, err := l.LoadFolder(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, handles, 2)
	require.Contains(t, handles, "a.wav")
	require.Contains(t, handles, "sub/b.wav")
	require.Equal(t, 2, store.Len())

	b, ok := store.Get(handles["sub/b.wav"])
	require.True(t, ok)
	require.Equal(t, 2, b.Channels)

	_, err = l.LoadFolder(context.Background(), filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestLoadFolderCanceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.wav"), audiotest.WAV(8000, 1, audiotest.Int16Ramp(10, 0)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := asset.NewLoader(asset.NewStore(), nil)
	handles, err := l.LoadFolder(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, handles)
}

func TestDefaultDecoders(t *testing.T) {
	t.Parallel()

	exts := asset.DefaultDecoders().Extensions()
	for _, ext := range []string{"wav", "mp3", "ogg", "aiff", "aif", "flac"} {
		require.Contains(t, exts, ext)
	}
}
