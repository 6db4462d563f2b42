package emitter

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/francoishill/grunt-process-includes/internal/cache"
	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/utils"
)

// DefaultMemoSize bounds the in-run fingerprint memo
const DefaultMemoSize = 1024

// MD5Hasher hashes content with MD5 and encodes it as lower-case hex
type MD5Hasher struct{}

// Sum implements domain.Hasher
func (MD5Hasher) Sum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprinter computes content digests of files. The file is always read;
// the memo and the optional persistent store are keyed by a cheap digest of
// the bytes so only the MD5 computation is saved.
type Fingerprinter struct {
	fs     domain.FileSystem
	hasher domain.Hasher
	memo   *lru.Cache[string, string]
	store  domain.FingerprintCache
	logger *utils.Logger
}

// FingerprinterOptions configures a Fingerprinter
type FingerprinterOptions struct {
	Hasher   domain.Hasher
	Store    domain.FingerprintCache
	MemoSize int
	Logger   *utils.Logger
}

// NewFingerprinter creates a Fingerprinter reading through fsys
func NewFingerprinter(fsys domain.FileSystem, opts FingerprinterOptions) (*Fingerprinter, error) {
	if opts.Hasher == nil {
		opts.Hasher = MD5Hasher{}
	}
	if opts.MemoSize <= 0 {
		opts.MemoSize = DefaultMemoSize
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	memo, err := lru.New[string, string](opts.MemoSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create fingerprint memo: %w", err)
	}

	return &Fingerprinter{
		fs:     fsys,
		hasher: opts.Hasher,
		memo:   memo,
		store:  opts.Store,
		logger: opts.Logger.WithComponent("fingerprint"),
	}, nil
}

// Fingerprint returns the hex digest of the file at path
func (f *Fingerprinter) Fingerprint(ctx context.Context, path string) (string, error) {
	data, err := f.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	key := cache.ContentKey(data)

	if digest, ok := f.memo.Get(key); ok {
		return digest, nil
	}

	if f.store != nil {
		digest, err := f.store.Get(ctx, key)
		switch {
		case err == nil:
			f.memo.Add(key, digest)
			return digest, nil
		case !errors.Is(err, domain.ErrCacheMiss):
			f.logger.Warn().Err(err).Str("path", path).Msg("Fingerprint cache read failed")
		}
	}

	digest := f.hasher.Sum(data)
	f.memo.Add(key, digest)

	if f.store != nil {
		if err := f.store.Set(ctx, key, digest); err != nil {
			f.logger.Warn().Err(err).Str("path", path).Msg("Fingerprint cache write failed")
		}
	}

	return digest, nil
}
