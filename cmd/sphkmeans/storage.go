package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/sphkmeans/blobstore"
	miniostore "github.com/hupe1980/sphkmeans/blobstore/minio"
	s3store "github.com/hupe1980/sphkmeans/blobstore/s3"
	"github.com/hupe1980/sphkmeans/corpus"
	"github.com/hupe1980/sphkmeans/internal/config"
	"github.com/hupe1980/sphkmeans/resource"
)

var schemes = []string{"s3", "minio"}

// location is a parsed path argument. scheme is empty for local files.
type location struct {
	scheme string
	bucket string
	name   string
}

func parseLocation(path string) (location, error) {
	for _, scheme := range schemes {
		rest, ok := strings.CutPrefix(path, scheme+"://")
		if !ok {
			continue
		}
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return location{}, fmt.Errorf("invalid path %q: want %s://bucket/key", path, scheme)
		}
		return location{scheme: scheme, bucket: bucket, name: key}, nil
	}
	return location{name: path}, nil
}

func (l location) storeKey() string {
	return l.scheme + "://" + l.bucket
}

// storage resolves path arguments to blob stores, creating one remote store
// per bucket on first use.
type storage struct {
	cfg    *config.Config
	rc     *resource.Controller
	local  blobstore.Store
	stores map[string]blobstore.Store
}

func newStorage(cfg *config.Config, rc *resource.Controller) *storage {
	return &storage{
		cfg:    cfg,
		rc:     rc,
		local:  blobstore.NewLocalStore(""),
		stores: make(map[string]blobstore.Store),
	}
}

func (s *storage) store(ctx context.Context, loc location) (blobstore.Store, error) {
	if loc.scheme == "" {
		return s.local, nil
	}
	if st, ok := s.stores[loc.storeKey()]; ok {
		return st, nil
	}

	var (
		st  blobstore.Store
		err error
	)
	switch loc.scheme {
	case "s3":
		st, err = s.newS3(ctx, loc.bucket)
	case "minio":
		st, err = s.newMinIO(loc.bucket)
	default:
		err = fmt.Errorf("unsupported scheme %q", loc.scheme)
	}
	if err != nil {
		return nil, err
	}
	s.stores[loc.storeKey()] = st
	return st, nil
}

func (s *storage) newS3(ctx context.Context, bucket string) (blobstore.Store, error) {
	c := s.cfg.S3
	opts := []s3store.Option{
		s3store.WithPrefix(c.Prefix),
		s3store.WithRegion(c.Region),
		s3store.WithEndpoint(c.Endpoint),
		s3store.WithPathStyle(c.PathStyle),
	}
	if c.PartSizeMiB > 0 {
		opts = append(opts, s3store.WithPartSize(c.PartSizeMiB<<20))
	}
	return s3store.New(ctx, bucket, opts...)
}

func (s *storage) newMinIO(bucket string) (blobstore.Store, error) {
	c := s.cfg.MinIO
	if c.Endpoint == "" {
		return nil, errors.New("minio.endpoint is not configured")
	}
	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.Secure,
		Region: c.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	return miniostore.NewStore(client, bucket, c.Prefix), nil
}

// open returns a decompressed, rate limited reader for path.
func (s *storage) open(ctx context.Context, path string) (io.ReadCloser, error) {
	loc, err := parseLocation(path)
	if err != nil {
		return nil, err
	}
	st, err := s.store(ctx, loc)
	if err != nil {
		return nil, err
	}
	raw, err := st.Open(ctx, loc.name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	dec, err := corpus.Decompress(loc.name, s.rc.Reader(ctx, raw))
	if err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &blobReader{ReadCloser: dec, raw: raw}, nil
}

type blobReader struct {
	io.ReadCloser
	raw io.Closer
}

func (r *blobReader) Close() error {
	return errors.Join(r.ReadCloser.Close(), r.raw.Close())
}

// create writes path through fn. The blob is discarded if fn fails.
func (s *storage) create(ctx context.Context, path string, fn func(io.Writer) error) error {
	loc, err := parseLocation(path)
	if err != nil {
		return err
	}
	st, err := s.store(ctx, loc)
	if err != nil {
		return err
	}
	w, err := st.Create(ctx, loc.name)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc, err := corpus.Compress(loc.name, w)
	if err != nil {
		_ = blobstore.Abort(w)
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(enc); err != nil {
		_ = enc.Close()
		_ = blobstore.Abort(w)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		_ = blobstore.Abort(w)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
