// Package upload stores submitted images on a storage disk.
//
//	in := upload.New(storage.Default())
//	rel, err := in.Ingest(ctx, fh, upload.Dir(upload.CategoryDir, 5), "category_image", true)
//	// rel == "upload/category/5/category_image_<uuid>.png"
//
// Raster images are resized to a fixed thumbnail; SVG files are stored untouched.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/storage"
)

// AssetPrefix is the top-level directory every upload lives under; it is
// also the URL prefix the files are served from.
const AssetPrefix = "upload"

// Destination segments below the public asset root.
const (
	CategoryDir = AssetPrefix + "/category"
	ProductDir  = AssetPrefix + "/product"
)

// Thumbnail size every raster upload is resized to.
const (
	Width  = 100
	Height = 59
)

// Dir returns the per-entity directory, e.g. Dir(CategoryDir, 5) == "upload/category/5".
func Dir(segment string, id uint) string {
	return path.Join(segment, strconv.FormatUint(uint64(id), 10))
}

// IOError reports a failure to read the upload or write it to the disk.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("upload: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Ingestor writes images to a disk.
type Ingestor struct {
	disk          storage.Disk
	width, height int
	token         func() string
}

// Option customizes an Ingestor.
type Option func(*Ingestor)

// WithSize overrides the thumbnail dimensions.
func WithSize(width, height int) Option {
	return func(in *Ingestor) { in.width, in.height = width, height }
}

// WithToken overrides the unique filename suffix generator.
func WithToken(fn func() string) Option {
	return func(in *Ingestor) { in.token = fn }
}

// New returns an Ingestor writing to disk.
func New(disk storage.Disk, opts ...Option) *Ingestor {
	in := &Ingestor{disk: disk, width: Width, height: Height, token: uuid.NewString}
	for _, o := range opts {
		o(in)
	}
	return in
}

// Discard removes a previously ingested file. Missing files are not an error.
func (in *Ingestor) Discard(ctx context.Context, rel string) error {
	if err := in.disk.Delete(ctx, rel); err != nil {
		return &IOError{Op: "delete", Path: rel, Err: err}
	}
	return nil
}

// Ingest stores fh under basePath and returns its path relative to the disk root.
// The filename is prefix, then "_<token>" when unique is set, then the
// original extension.
func (in *Ingestor) Ingest(ctx context.Context, fh *multipart.FileHeader, basePath, prefix string, unique bool) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", &IOError{Op: "open", Path: fh.Filename, Err: err}
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", &IOError{Op: "read", Path: fh.Filename, Err: err}
	}

	mt := mimetype.Detect(data)
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fh.Filename), "."))
	if ext == "" {
		ext = strings.TrimPrefix(mt.Extension(), ".")
	}

	name := prefix
	if unique {
		name += "_" + in.token()
	}
	if ext != "" {
		name += "." + ext
	}
	rel := path.Join(basePath, name)

	kind := "raster"
	body := data
	if mt.Is("image/svg+xml") {
		kind = "vector"
	} else {
		body, err = in.thumbnail(data, ext)
		if err != nil {
			metrics.RecordUpload(kind, err)
			return "", &IOError{Op: "resize", Path: fh.Filename, Err: err}
		}
	}

	if err := in.disk.MakeDirectory(ctx, basePath); err != nil {
		metrics.RecordUpload(kind, err)
		return "", &IOError{Op: "mkdir", Path: basePath, Err: err}
	}
	if err := in.disk.Put(ctx, rel, bytes.NewReader(body)); err != nil {
		metrics.RecordUpload(kind, err)
		return "", &IOError{Op: "write", Path: rel, Err: err}
	}

	metrics.RecordUpload(kind, nil)
	return rel, nil
}

// thumbnail resizes data to the configured size, re-encoded in the format
// its extension names. Formats imaging cannot encode are stored as-is.
func (in *Ingestor) thumbnail(data []byte, ext string) ([]byte, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	img = imaging.Resize(img, in.width, in.height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}
