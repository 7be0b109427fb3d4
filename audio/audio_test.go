// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/ik5/spatial/audio"
	"github.com/ik5/spatial/internal/audiotest"
)

type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(r io.Reader) (audio.Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

type failingDecoder struct{}

func (failingDecoder) Decode(r io.Reader) (audio.Source, error) {
	return nil, errors.New("decode failed")
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	t.Parallel()

	registry := audio.NewRegistry()
	decoder := &mockDecoder{name: "wav"}

	registry.Register("wav", decoder)

	got, ok := registry.Lookup("wav")
	if !ok {
		t.Fatal("Lookup() failed to retrieve registered decoder")
	}
	if got != decoder {
		t.Error("Lookup() returned different decoder instance")
	}
}

func TestRegistry_LookupNormalizesExtension(t *testing.T) {
	t.Parallel()

	registry := audio.NewRegistry()
	decoder := &mockDecoder{name: "ogg"}
	registry.Register(".OGG", decoder)

	for _, ext := range []string{"ogg", ".ogg", "OGG", ".Ogg"} {
		got, ok := registry.Lookup(ext)
		if !ok || got != decoder {
			t.Errorf("Lookup(%q) = %v, %v; want registered decoder", ext, got, ok)
		}
	}
}

func TestRegistry_LookupMissing(t *testing.T) {
	t.Parallel()

	registry := audio.NewRegistry()
	registry.Register("wav", failingDecoder{})

	if _, ok := registry.Lookup("mid"); ok {
		t.Error("Lookup() returned ok=true for unregistered extension")
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	registry := audio.NewRegistry()
	first := &mockDecoder{name: "first"}
	second := &mockDecoder{name: "second"}

	registry.Register("wav", first)
	registry.Register("wav", second)

	got, _ := registry.Lookup("wav")
	if got != second {
		t.Error("Register() did not replace the previous decoder")
	}
	if exts := registry.Extensions(); len(exts) != 1 {
		t.Errorf("Extensions() = %v, want a single entry", exts)
	}
}

func TestRegistry_ExtensionsSorted(t *testing.T) {
	t.Parallel()

	registry := audio.NewRegistry()
	for _, ext := range []string{"wav", "flac", "ogg", "mp3"} {
		registry.Register(ext, &mockDecoder{name: ext})
	}

	got := registry.Extensions()
	want := []string{"flac", "mp3", "ogg", "wav"}
	if len(got) != len(want) {
		t.Fatalf("Extensions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Extensions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := audio.NewRegistry()
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register(string(rune('a'+i)), &mockDecoder{})
		}()
		go func() {
			defer wg.Done()
			registry.Lookup(string(rune('a' + i)))
		}()
	}

	wg.Wait()

	if n := len(registry.Extensions()); n != 10 {
		t.Errorf("Extensions() has %d entries, want 10", n)
	}
}
