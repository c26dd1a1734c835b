// Package s3 implements accessor.Backend over an S3-compatible bucket,
// grounded on aws-sdk-go-v2 usage in marmos91/dittofs's and
// scttfrdmn/objectfs's storage layers.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// Config describes how to reach and authenticate against the bucket.
type Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Backend is an accessor.Backend backed by a single S3 bucket/prefix.
type Backend struct {
	name   string
	bucket string
	prefix string
	client *s3.Client
}

// New constructs a Backend, resolving AWS credentials/region per cfg.
func New(ctx context.Context, name string, cfg Config) (*Backend, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &ovlerrors.BackendConstruction{Cause: err}
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &Backend{
		name:   name,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		client: client,
	}, nil
}

func (b *Backend) key(p string) string {
	p = strings.TrimPrefix(p, "/")
	if b.prefix == "" {
		return p
	}
	if p == "" {
		return b.prefix
	}
	return b.prefix + "/" + p
}

func (b *Backend) Info() accessor.Info {
	return accessor.Info{
		Scheme: "s3",
		Root:   b.bucket + "/" + b.prefix,
		Name:   b.name,
		Capabilities: accessor.CapRead | accessor.CapWrite | accessor.CapRange |
			accessor.CapDelimiterListing,
	}
}

func mapErr(p string, err error) error {
	if err == nil {
		return nil
	}
	var nf *s3types.NoSuchKey
	if errors.As(err, &nf) {
		return ovlerrors.ErrNotExist
	}
	var nsk *s3types.NotFound
	if errors.As(err, &nsk) {
		return ovlerrors.ErrNotExist
	}
	return &ovlerrors.IO{Path: p, Cause: err}
}

func (b *Backend) Stat(ctx context.Context, p string) (accessor.Metadata, error) {
	if p == "" || p == "/" {
		return accessor.Metadata{IsDir: true}, nil
	}
	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &b.bucket, Key: awsStr(b.key(p))})
	if err != nil {
		return accessor.Metadata{}, mapErr(p, err)
	}
	meta := accessor.Metadata{IsDir: false}
	if out.ContentLength != nil {
		meta.Size = uint64(*out.ContentLength)
	}
	if out.LastModified != nil {
		meta.LastModified = *out.LastModified
	}
	return meta, nil
}

func (b *Backend) Read(ctx context.Context, p string, rng accessor.Range) (accessor.Metadata, accessor.Reader, error) {
	input := &s3.GetObjectInput{Bucket: &b.bucket, Key: awsStr(b.key(p))}
	if rng.Offset > 0 || rng.Count > 0 {
		var end string
		if rng.Count > 0 {
			end = fmt.Sprintf("%d", rng.Offset+rng.Count-1)
		}
		input.Range = awsStr(fmt.Sprintf("bytes=%d-%s", rng.Offset, end))
	}
	out, err := b.client.GetObject(ctx, input)
	if err != nil {
		return accessor.Metadata{}, nil, mapErr(p, err)
	}
	data, err := io.ReadAll(out.Body)
	out.Body.Close()
	if err != nil {
		return accessor.Metadata{}, nil, &ovlerrors.IO{Path: p, Cause: err}
	}
	meta := accessor.Metadata{}
	if out.ContentLength != nil {
		meta.Size = uint64(*out.ContentLength)
	}
	if out.LastModified != nil {
		meta.LastModified = *out.LastModified
	}
	return meta, &seekReader{r: bytes.NewReader(data)}, nil
}

type seekReader struct{ r *bytes.Reader }

func (r *seekReader) Read(p []byte) (int, error)      { return r.r.Read(p) }
func (r *seekReader) Seek(o int64, w int) (int64, error) { return r.r.Seek(o, w) }
func (r *seekReader) Close() error                     { return nil }

func (b *Backend) Write(ctx context.Context, p string, opts accessor.WriteOptions) (accessor.Writer, error) {
	return &objectWriter{backend: b, ctx: ctx, path: p}, nil
}

type objectWriter struct {
	backend *Backend
	ctx     context.Context
	path    string
	buf     bytes.Buffer
	aborted bool
}

func (w *objectWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *objectWriter) Abort() error                { w.aborted = true; return nil }
func (w *objectWriter) Close() error {
	if w.aborted {
		return nil
	}
	_, err := w.backend.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: &w.backend.bucket,
		Key:    awsStr(w.backend.key(w.path)),
		Body:   bytes.NewReader(w.buf.Bytes()),
	})
	return mapErr(w.path, err)
}

// Append has no native S3 equivalent and is not supported: it always
// returns ErrNotSupported, and CapAppend is not advertised in Info.
func (b *Backend) Append(ctx context.Context, p string, opts accessor.AppendOptions) (accessor.Appender, error) {
	return nil, ovlerrors.ErrNotSupported
}

func (b *Backend) CreateDir(ctx context.Context, p string) error {
	key := b.key(p)
	if !strings.HasSuffix(key, "/") {
		key += "/"
	}
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{Bucket: &b.bucket, Key: &key, Body: bytes.NewReader(nil)})
	return mapErr(p, err)
}

func (b *Backend) List(ctx context.Context, p string) (accessor.Pager, error) {
	prefix := b.key(p)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &listPager{backend: b, ctx: ctx, prefix: prefix}, nil
}

type listPager struct {
	backend *Backend
	ctx     context.Context
	prefix  string
	token   *string
	done    bool
}

func (pg *listPager) Next(ctx context.Context) ([]accessor.Entry, error) {
	if pg.done {
		return nil, nil
	}
	out, err := pg.backend.client.ListObjectsV2(pg.ctx, &s3.ListObjectsV2Input{
		Bucket:            &pg.backend.bucket,
		Prefix:            &pg.prefix,
		Delimiter:         awsStr("/"),
		ContinuationToken: pg.token,
	})
	if err != nil {
		return nil, &ovlerrors.IO{Path: pg.prefix, Cause: err}
	}
	names := map[string]bool{}
	for _, cp := range out.CommonPrefixes {
		if cp.Prefix == nil {
			continue
		}
		names[strings.TrimSuffix(strings.TrimPrefix(*cp.Prefix, pg.prefix), "/")] = true
	}
	for _, obj := range out.Contents {
		if obj.Key == nil || *obj.Key == pg.prefix {
			continue
		}
		names[strings.TrimPrefix(*obj.Key, pg.prefix)] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		if n != "" {
			sorted = append(sorted, n)
		}
	}
	sort.Strings(sorted)
	entries := make([]accessor.Entry, 0, len(sorted))
	for _, n := range sorted {
		entries = append(entries, accessor.Entry{Name: n, Path: "/" + strings.TrimSuffix(pg.prefix, "/") + "/" + n})
	}
	if out.IsTruncated != nil && *out.IsTruncated {
		pg.token = out.NextContinuationToken
	} else {
		pg.done = true
	}
	return entries, nil
}

func awsStr(s string) *string { return &s }
