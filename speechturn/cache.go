package speechturn

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/speechturn/encryption"
	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/storage"
)

// DefaultAudioTTL is how long a cached audio file survives.
const DefaultAudioTTL = 15 * time.Minute

var audioFilename = regexp.MustCompile(`^[a-f0-9]{32}\.(wav|mp3)$`)

// ValidAudioFilename reports whether name could have been produced by AudioCache.Put.
func ValidAudioFilename(name string) bool {
	return audioFilename.MatchString(name)
}

// AudioContentType returns the MIME type served for a cached file.
func AudioContentType(filename string) string {
	if strings.HasSuffix(filename, ".mp3") {
		return "audio/mpeg"
	}
	return "audio/wav"
}

// AudioCache stores synthesized audio under unguessable names and evicts it after a TTL.
type AudioCache struct {
	store  storage.Storage
	prefix string
	ttl    time.Duration
	now    func() time.Time
	log    *logger.Logger
	// enc seals files at rest when set.
	enc encryption.Encryptor
}

// CacheOption configures an AudioCache.
type CacheOption func(*AudioCache)

// WithEncryptor seals cached files with enc.
func WithEncryptor(enc encryption.Encryptor) CacheOption {
	return func(c *AudioCache) { c.enc = enc }
}

// NewAudioCache creates a cache under prefix in store. A zero ttl uses DefaultAudioTTL.
func NewAudioCache(store storage.Storage, prefix string, ttl time.Duration, log *logger.Logger, opts ...CacheOption) *AudioCache {
	if ttl <= 0 {
		ttl = DefaultAudioTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	c := &AudioCache{
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		ttl:    ttl,
		now:    time.Now,
		log:    log.WithComponent("audio-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the retention window.
func (c *AudioCache) TTL() time.Duration { return c.ttl }

func (c *AudioCache) key(filename string) string {
	if c.prefix == "" {
		return filename
	}
	return path.Join(c.prefix, filename)
}

// Put writes data under a fresh random name with the given extension and
// returns the filename. Expired entries are swept after every write.
func (c *AudioCache) Put(ctx context.Context, data []byte, ext string) (string, error) {
	filename := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	if !ValidAudioFilename(filename) {
		return "", apperrors.InvalidInput("format", "unsupported audio format "+ext)
	}
	if c.enc != nil {
		sealed, err := c.enc.Seal(data)
		if err != nil {
			return "", apperrors.Internal(err)
		}
		data = sealed
	}
	if err := c.store.Upload(ctx, c.key(filename), bytes.NewReader(data)); err != nil {
		return "", err
	}
	if n, err := c.Sweep(ctx); err != nil {
		c.log.Warn("audio cache sweep failed", logger.ErrorFields("sweep", err))
	} else if n > 0 {
		c.log.Debug("audio cache swept", map[string]interface{}{"removed": n})
	}
	return filename, nil
}

// Open returns the cached file. Unknown, malformed and swept names are NotFound.
func (c *AudioCache) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	if !ValidAudioFilename(filename) {
		return nil, apperrors.NotFound("audio file", "")
	}
	rc, err := c.store.Download(ctx, c.key(filename))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.NotFound("audio file", filename)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if c.enc == nil {
		return rc, nil
	}
	defer rc.Close()
	sealed, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	data, err := c.enc.Open(sealed)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Sweep deletes cache entries older than the TTL and returns how many were
// removed. Entries that vanish between listing and deletion are ignored.
func (c *AudioCache) Sweep(ctx context.Context) (int, error) {
	prefix := c.prefix
	if prefix != "" {
		prefix += "/"
	}
	files, err := c.store.List(ctx, prefix)
	if err != nil {
		return 0, err
	}

	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for _, f := range files {
		if !ValidAudioFilename(path.Base(f.Path)) || !f.LastModified.Before(cutoff) {
			continue
		}
		if err := c.store.Delete(ctx, f.Path); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// RunSweeper sweeps every interval until ctx is cancelled.
func (c *AudioCache) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Sweep(ctx); err != nil && ctx.Err() == nil {
				c.log.Warn("periodic audio sweep failed", logger.ErrorFields("sweep", err))
			}
		}
	}
}
