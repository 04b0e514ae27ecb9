package upload_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/storage"
	"github.com/shashiranjanraj/catalog/pkg/upload"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func fixedToken() string { return "tok" }

func TestDir(t *testing.T) {
	assert.Equal(t, "upload/category/5", upload.Dir(upload.CategoryDir, 5))
	assert.Equal(t, "upload/product/12", upload.Dir(upload.ProductDir, 12))
}

func TestIngestResizesRaster(t *testing.T) {
	root := t.TempDir()
	in := upload.New(storage.NewLocalDisk(root, ""), upload.WithToken(fixedToken))

	rel, err := in.Ingest(context.Background(), fileHeader(t, "Cover.PNG", pngOf(t, 640, 480)),
		upload.Dir(upload.CategoryDir, 5), "category_image", true)
	require.NoError(t, err)
	assert.Equal(t, "upload/category/5/category_image_tok.png", rel)

	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, upload.Width, cfg.Width)
	assert.Equal(t, upload.Height, cfg.Height)
}

func TestIngestStoresSVGAsIs(t *testing.T) {
	root := t.TempDir()
	in := upload.New(storage.NewLocalDisk(root, ""), upload.WithToken(fixedToken))
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="800" height="600"></svg>`)

	rel, err := in.Ingest(context.Background(), fileHeader(t, "logo.svg", svg),
		upload.Dir(upload.ProductDir, 3), "product_image", true)
	require.NoError(t, err)
	assert.Equal(t, "upload/product/3/product_image_tok.svg", rel)

	got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, svg, got)
}

func TestIngestWithoutUniqueSuffix(t *testing.T) {
	in := upload.New(storage.NewLocalDisk(t.TempDir(), ""))
	rel, err := in.Ingest(context.Background(), fileHeader(t, "a.png", pngOf(t, 4, 4)),
		upload.Dir(upload.ProductDir, 1), "product_image", false)
	require.NoError(t, err)
	assert.Equal(t, "upload/product/1/product_image.png", rel)
}

func TestIngestUniqueNamesDiffer(t *testing.T) {
	in := upload.New(storage.NewLocalDisk(t.TempDir(), ""))
	fh := fileHeader(t, "a.png", pngOf(t, 4, 4))

	a, err := in.Ingest(context.Background(), fh, "upload/category/1", "category_image", true)
	require.NoError(t, err)
	b, err := in.Ingest(context.Background(), fh, "upload/category/1", "category_image", true)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

type brokenDisk struct{ storage.Disk }

func (brokenDisk) MakeDirectory(context.Context, string) error { return errors.New("read-only file system") }
func (brokenDisk) Put(context.Context, string, io.Reader) error { return errors.New("unreachable") }

func TestIngestWriteFailureIsIOError(t *testing.T) {
	in := upload.New(brokenDisk{})
	_, err := in.Ingest(context.Background(), fileHeader(t, "a.png", pngOf(t, 4, 4)),
		"upload/category/1", "category_image", true)

	var ioErr *upload.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "mkdir", ioErr.Op)
	assert.Contains(t, err.Error(), "read-only file system")
}

func TestIngestUndecodableRaster(t *testing.T) {
	in := upload.New(storage.NewLocalDisk(t.TempDir(), ""))
	_, err := in.Ingest(context.Background(), fileHeader(t, "a.png", []byte("not really a png")),
		"upload/category/1", "category_image", true)

	var ioErr *upload.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "resize", ioErr.Op)
}

func TestDiscard(t *testing.T) {
	root := t.TempDir()
	in := upload.New(storage.NewLocalDisk(root, ""), upload.WithToken(fixedToken))
	ctx := context.Background()

	rel, err := in.Ingest(ctx, fileHeader(t, "a.png", pngOf(t, 4, 4)), "upload/product/2", "product_image", true)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, filepath.FromSlash(rel)))

	require.NoError(t, in.Discard(ctx, rel))
	assert.NoFileExists(t, filepath.Join(root, filepath.FromSlash(rel)))
	assert.NoError(t, in.Discard(ctx, rel))
}
