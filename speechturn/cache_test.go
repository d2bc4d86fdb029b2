package speechturn

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/kbukum/speechturn/encryption"
	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/storage/local"
)

func newTestCache(t *testing.T) *AudioCache {
	t.Helper()
	store, err := local.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("local.NewStorage: %v", err)
	}
	return NewAudioCache(store, "audio", time.Minute, nil)
}

func TestValidAudioFilename(t *testing.T) {
	tests := map[string]bool{
		"0123456789abcdef0123456789abcdef.wav": true,
		"0123456789abcdef0123456789abcdef.mp3": true,
		"0123456789ABCDEF0123456789ABCDEF.wav": false,
		"0123456789abcdef0123456789abcde.wav":  false,
		"../etc/passwd":                        false,
		"0123456789abcdef0123456789abcdef.ogg": false,
	}
	for name, want := range tests {
		if got := ValidAudioFilename(name); got != want {
			t.Errorf("ValidAudioFilename(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCachePutOpen(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	name, err := c.Put(ctx, []byte("RIFFdata"), "wav")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !ValidAudioFilename(name) {
		t.Fatalf("generated name %q is not valid", name)
	}
	other, _ := c.Put(ctx, []byte("x"), "wav")
	if other == name {
		t.Fatal("names must not collide")
	}

	rc, err := c.Open(ctx, name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "RIFFdata" {
		t.Fatalf("data = %q", data)
	}
}

func TestCacheOpenMissing(t *testing.T) {
	c := newTestCache(t)
	for _, name := range []string{"0123456789abcdef0123456789abcdef.wav", "../../secret"} {
		if _, err := c.Open(context.Background(), name); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			t.Errorf("Open(%q) err = %v, want NOT_FOUND", name, err)
		}
	}
}

func TestCacheSweep(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	name, _ := c.Put(ctx, []byte("old"), "wav")

	if n, err := c.Sweep(ctx); err != nil || n != 0 {
		t.Fatalf("fresh sweep = %d, %v", n, err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	n, err := c.Sweep(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expired sweep = %d, %v", n, err)
	}
	if _, err := c.Open(ctx, name); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("swept file still readable: %v", err)
	}
}

func TestCacheRejectsUnknownExtension(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.Put(context.Background(), []byte("x"), "ogg"); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestCacheEncryptsAtRest(t *testing.T) {
	dir := t.TempDir()
	store, err := local.NewStorage(dir)
	if err != nil {
		t.Fatalf("local.NewStorage: %v", err)
	}
	enc, err := encryption.New("audio-key")
	if err != nil {
		t.Fatalf("encryption.New: %v", err)
	}
	c := NewAudioCache(store, "audio", time.Minute, nil, WithEncryptor(enc))
	ctx := context.Background()
	plain := []byte("RIFF-plain-voice")

	name, err := c.Put(ctx, plain, "wav")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	raw, err := store.Download(ctx, "audio/"+name)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	stored, _ := io.ReadAll(raw)
	raw.Close()
	if bytes.Contains(stored, plain) {
		t.Fatal("plaintext stored at rest")
	}

	rc, err := c.Open(ctx, name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, plain) {
		t.Fatalf("Open = %q", got)
	}

	// A cache with another key cannot serve the file.
	other, _ := encryption.New("other-key")
	if _, err := NewAudioCache(store, "audio", time.Minute, nil, WithEncryptor(other)).Open(ctx, name); !apperrors.HasCode(err, apperrors.ErrCodeInternal) {
		t.Fatalf("wrong key err = %v", err)
	}
}
