package bind_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/bind"
)

type productForm struct {
	ID          int64                 `form:"id"`
	Name        *string               `form:"product_name"`
	Description string                `form:"product_description"`
	CategoryID  *int64                `form:"category_id"`
	Image       *multipart.FileHeader `form:"product_image"`
}

func multipartRequest(t *testing.T, fields map[string]string, fileField, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/update_product", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFormMultipart(t *testing.T) {
	req := multipartRequest(t, map[string]string{
		"id":                  "7",
		"product_name":        "Pen",
		"product_description": "Blue ink",
		"category_id":         "3",
	}, "product_image", "pen.png", []byte("fake"))

	var f productForm
	errs, err := bind.Form(req, &f)
	require.NoError(t, err)
	assert.Empty(t, errs)

	assert.Equal(t, int64(7), f.ID)
	require.NotNil(t, f.Name)
	assert.Equal(t, "Pen", *f.Name)
	assert.Equal(t, "Blue ink", f.Description)
	require.NotNil(t, f.CategoryID)
	assert.Equal(t, int64(3), *f.CategoryID)
	require.NotNil(t, f.Image)
	assert.Equal(t, "pen.png", f.Image.Filename)
}

func TestFormQueryString(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/get_product?category_id=12", nil)

	var f productForm
	errs, err := bind.Form(req, &f)
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.NotNil(t, f.CategoryID)
	assert.Equal(t, int64(12), *f.CategoryID)
	assert.Nil(t, f.Name)
}

func TestFormBlankOptionalStaysNil(t *testing.T) {
	form := url.Values{"product_name": {""}, "category_id": {" "}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var f productForm
	errs, err := bind.Form(req, &f)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Nil(t, f.Name)
	assert.Nil(t, f.CategoryID)
}

func TestFormIntegerTypeError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/get_product_by_id?id=abc&category_id=1.5", nil)

	var f productForm
	errs, err := bind.Form(req, &f)
	require.NoError(t, err)
	assert.Equal(t, []string{"The id field must be an integer."}, errs["id"])
	assert.Equal(t, []string{"The category_id field must be an integer."}, errs["category_id"])
	assert.Zero(t, f.ID)
	assert.Nil(t, f.CategoryID)
}

func TestFormRejectsNonPointer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := bind.Form(req, productForm{})
	assert.Error(t, err)
}

func TestFormTooLarge(t *testing.T) {
	config.Set("MAX_UPLOAD_BYTES", "64")
	t.Cleanup(func() { config.Set("MAX_UPLOAD_BYTES", "") })

	req := multipartRequest(t, nil, "product_image", "big.png", bytes.Repeat([]byte("x"), 4096))

	var f productForm
	_, err := bind.Form(req, &f)
	assert.ErrorIs(t, err, bind.ErrTooLarge)
}

func TestJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ dropdown { id } }"}`))

	var body struct {
		Query string `json:"query"`
	}
	require.NoError(t, bind.JSON(req, &body))
	assert.Equal(t, "{ dropdown { id } }", body.Query)

	bad := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{`))
	assert.Error(t, bind.JSON(bad, &body))
}
