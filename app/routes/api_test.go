package routes_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/routes"
	_ "github.com/shashiranjanraj/catalog/database/migrations"
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/migration"
	"github.com/shashiranjanraj/catalog/pkg/router"
	"github.com/shashiranjanraj/catalog/pkg/storage"
)

type app struct {
	t    *testing.T
	h    http.Handler
	root string
}

func newApp(t *testing.T) *app {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, migration.New(db, nil).Run())
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	root := t.TempDir()
	r := router.New()
	require.NoError(t, routes.Register(r, routes.Deps{DB: db, Disk: storage.NewLocalDisk(root, "")}))
	return &app{t: t, h: r, root: root}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 300, 200))))
	return buf.Bytes()
}

type file struct {
	field, name string
	body        []byte
}

func (a *app) post(path string, fields map[string]string, files ...file) (int, map[string]any) {
	a.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(a.t, err)
		_, err = fw.Write(f.body)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req)
}

func (a *app) get(path string, query url.Values) (int, map[string]any) {
	a.t.Helper()
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *app) do(req *http.Request) (int, map[string]any) {
	a.t.Helper()
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	var out map[string]any
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func (a *app) category(name string) float64 {
	a.t.Helper()
	code, out := a.post("/api/insert_category", map[string]string{"category_name": name},
		file{"category_image", "cover.png", pngBytes(a.t)})
	require.Equal(a.t, http.StatusOK, code, out)
	return out["category_id"].(float64)
}

func (a *app) product(name string, categoryID float64) (int, map[string]any) {
	a.t.Helper()
	return a.post("/api/insert_product", map[string]string{
		"product_name":        name,
		"product_description": name + " description",
		"category_id":         jsonNum(categoryID),
	}, file{"product_image", "p.png", pngBytes(a.t)})
}

func jsonNum(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func errorsOf(out map[string]any) map[string]any {
	errs, _ := out["errors"].(map[string]any)
	return errs
}

func TestInsertCategoryThenFetch(t *testing.T) {
	a := newApp(t)

	code, out := a.post("/api/insert_category", map[string]string{"category_name": "Books"},
		file{"category_image", "cover.png", pngBytes(t)})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "SUCCESS", out["status"])
	assert.Equal(t, "Category created successfully.", out["message"])
	assert.EqualValues(t, 1, out["category_id"])

	code, out = a.get("/api/get_category_by_id", url.Values{"id": {"1"}})
	require.Equal(t, http.StatusOK, code)
	data := out["data"].(map[string]any)
	assert.Equal(t, "Books", data["name"])
	assert.Equal(t, "ON", data["status"])

	img, _ := data["image"].(string)
	require.Regexp(t, `^upload/category/1/category_image_[0-9a-f-]+\.png$`, img)
	assert.FileExists(t, filepath.Join(a.root, filepath.FromSlash(img)))

	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+img, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestInsertCategoryValidation(t *testing.T) {
	a := newApp(t)

	code, out := a.post("/api/insert_category", nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "FAIL", out["status"])
	assert.Equal(t, "Validation failed.", out["message"])
	errs := errorsOf(out)
	assert.Equal(t, []any{"The category_name field is required."}, errs["category_name"])
	assert.Equal(t, []any{"The category_image field is required."}, errs["category_image"])

	a.category("Books")
	code, out = a.post("/api/insert_category", map[string]string{"category_name": "Books"},
		file{"category_image", "cover.png", pngBytes(t)})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []any{"The category_name has already been taken."}, errorsOf(out)["category_name"])

	code, out = a.post("/api/insert_category", map[string]string{"category_name": "Notes"},
		file{"category_image", "notes.txt", []byte("plain text")})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, errorsOf(out)["category_image"], "The category_image must be an image.")

	_, err := os.Stat(filepath.Join(a.root, "upload", "category", "2"))
	assert.True(t, os.IsNotExist(err), "rejected requests must not write files")
}

func TestUpdateCategory(t *testing.T) {
	a := newApp(t)
	id := a.category("Books")
	a.category("Music")

	code, out := a.post("/api/update_category", map[string]string{"id": jsonNum(id), "category_name": "Books"})
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, "Category updated successfully.", out["message"])
	assert.EqualValues(t, id, out["category_id"])

	code, out = a.post("/api/update_category", map[string]string{"id": jsonNum(id), "category_name": "Music"})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []any{"The category_name has already been taken."}, errorsOf(out)["category_name"])

	code, out = a.post("/api/update_category", map[string]string{"id": "99"})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []any{"The selected id is invalid."}, errorsOf(out)["id"])

	code, out = a.post("/api/update_category", map[string]string{"id": jsonNum(id), "status": "MAYBE"})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.NotEmpty(t, errorsOf(out)["status"])
}

func TestStatusOffHidesCategory(t *testing.T) {
	a := newApp(t)
	books := a.category("Books")
	a.category("Music")

	code, _ := a.post("/api/update_category", map[string]string{"id": jsonNum(books), "status": "OFF"})
	require.Equal(t, http.StatusOK, code)

	_, list := a.get("/api/get_category", nil)
	names := func(out map[string]any) []string {
		var n []string
		for _, row := range out["data"].([]any) {
			n = append(n, row.(map[string]any)["name"].(string))
		}
		return n
	}
	assert.Equal(t, []string{"Music"}, names(list))

	_, first := a.get("/api/get_categories", nil)
	_, second := a.get("/api/get_categories", nil)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Music"}, names(first))

	_, one := a.get("/api/get_category_by_id", url.Values{"id": {jsonNum(books)}})
	assert.Equal(t, "OFF", one["data"].(map[string]any)["status"])
}

func TestEmptyListsReportNotFound(t *testing.T) {
	a := newApp(t)

	code, out := a.get("/api/get_category", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Category data not found.", out["message"])
	assert.NotContains(t, out, "data")

	code, out = a.get("/api/get_product", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Product data not found.", out["message"])

	code, out = a.get("/api/get_category_by_id", url.Values{"id": {"7"}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Category data not found.", out["message"])
}

func TestProductNamesAreScopedToCategory(t *testing.T) {
	a := newApp(t)
	books := a.category("Books")
	pens := a.category("Pens")

	code, out := a.product("Classic", books)
	require.Equal(t, http.StatusOK, code, out)
	assert.EqualValues(t, 1, out["product_id"])

	code, out = a.product("Classic", pens)
	require.Equal(t, http.StatusOK, code, out)

	code, out = a.product("Classic", books)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []any{"The product_name has already been taken for the selected category."},
		errorsOf(out)["product_name"])

	code, out = a.product("Orphan", 42)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []any{"The selected category_id is invalid."}, errorsOf(out)["category_id"])
}

func TestProductListAndUpdate(t *testing.T) {
	a := newApp(t)
	books := a.category("Books")
	pens := a.category("Pens")
	_, novel := a.product("Novel", books)
	a.product("Fountain", pens)

	_, out := a.get("/api/get_product", url.Values{"category_id": {jsonNum(books)}})
	rows := out["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Novel", rows[0].(map[string]any)["name"])
	assert.Equal(t, "Books", rows[0].(map[string]any)["category_name"])

	id := jsonNum(novel["product_id"].(float64))
	code, out := a.post("/api/update_product", map[string]string{"id": id, "product_name": "Novel"})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []any{"The status field is required."}, errorsOf(out)["status"])

	code, out = a.post("/api/update_product", map[string]string{"id": id, "status": "OFF"})
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, "Product updated successfully.", out["message"])

	_, out = a.get("/api/get_product", url.Values{"category_id": {jsonNum(books)}})
	assert.Equal(t, "Product data not found.", out["message"])

	_, out = a.get("/api/get_product_by_id", url.Values{"id": {id}})
	assert.Equal(t, "OFF", out["data"].(map[string]any)["status"])
}

func TestMovingProductKeepsNamesUniquePerCategory(t *testing.T) {
	a := newApp(t)
	books := a.category("Books")
	pens := a.category("Pens")
	office := a.category("Office")
	_, pen := a.product("Pen", books)
	a.product("Pen", pens)
	id := jsonNum(pen["product_id"].(float64))

	code, out := a.post("/api/update_product", map[string]string{
		"id": id, "status": "ON", "category_id": jsonNum(pens),
	})
	require.Equal(t, http.StatusUnprocessableEntity, code, out)
	assert.Equal(t, []any{"The product_name has already been taken for the selected category."},
		errorsOf(out)["product_name"])
	assert.NotContains(t, errorsOf(out), "category_id")

	code, out = a.post("/api/update_product", map[string]string{
		"id": id, "status": "ON", "category_id": jsonNum(pens), "product_name": "Spare Pen",
	})
	require.Equal(t, http.StatusOK, code, out)

	code, out = a.post("/api/update_product", map[string]string{
		"id": id, "status": "ON", "category_id": jsonNum(office),
	})
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, "Product updated successfully.", out["message"])
}

func TestInsertProductRequiresImage(t *testing.T) {
	a := newApp(t)
	books := a.category("Books")

	code, out := a.post("/api/insert_product", map[string]string{
		"product_name":        "Pen",
		"product_description": "blue",
		"category_id":         jsonNum(books),
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "FAIL", out["status"])
	assert.Equal(t, []any{"The product_image field is required."}, errorsOf(out)["product_image"])
}

func TestProductListForUnknownCategory(t *testing.T) {
	a := newApp(t)
	books := a.category("Books")
	a.product("Pen", books)

	code, out := a.get("/api/get_product", url.Values{"category_id": {"99"}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "SUCCESS", out["status"])
	assert.Equal(t, "Product data not found.", out["message"])
	assert.NotContains(t, out, "data")
}

func TestUpdateCategoryZeroID(t *testing.T) {
	a := newApp(t)
	a.category("Books")

	code, out := a.post("/api/update_category", map[string]string{"id": "0", "category_name": "Music"})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []any{"The selected id is invalid."}, errorsOf(out)["id"])
}

func TestUserRequiresToken(t *testing.T) {
	a := newApp(t)

	code, out := a.get("/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized.", out["message"])

	tok, err := auth.GenerateToken(5, "admin", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	code, out = a.do(req)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 5, out["user_id"])
	assert.Equal(t, "admin", out["role"])
}

func TestGraphQL(t *testing.T) {
	a := newApp(t)
	a.category("Books")

	code, out := a.get("/graphql", url.Values{"query": {"{ dropdown { id name } }"}})
	require.Equal(t, http.StatusOK, code)
	items := out["data"].(map[string]any)["dropdown"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Books", items[0].(map[string]any)["name"])
}
