package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	_ "github.com/shashiranjanraj/catalog/database/migrations"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, migration.New(db, nil).Run())
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func category(t *testing.T, repo *repositories.CategoryRepository, name, status string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Status: status}
	require.NoError(t, repo.Create(context.Background(), c, nil))
	return c
}

func TestCategoryCreateAttachesImageUnderID(t *testing.T) {
	repo := repositories.NewCategoryRepository(openDB(t))
	ctx := context.Background()

	first := category(t, repo, "Books", models.StatusOn)

	var seen uint
	c := &models.Category{Name: "Pens", Status: models.StatusOn}
	require.NoError(t, repo.Create(ctx, c, func(id uint) (string, error) {
		seen = id
		return "upload/category/2/category_image_x.png", nil
	}))

	assert.Greater(t, c.ID, first.ID)
	assert.Equal(t, c.ID, seen)

	got, err := repo.Find(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Image)
	assert.Equal(t, "upload/category/2/category_image_x.png", *got.Image)
	assert.Equal(t, "ON", got.Status)
}

func TestCategoryCreateRollsBackOnAttachError(t *testing.T) {
	repo := repositories.NewCategoryRepository(openDB(t))
	ctx := context.Background()

	boom := errors.New("disk full")
	err := repo.Create(ctx, &models.Category{Name: "Books", Status: models.StatusOn}, func(uint) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategoryListingsSkipOff(t *testing.T) {
	repo := repositories.NewCategoryRepository(openDB(t))
	ctx := context.Background()

	a := category(t, repo, "A", models.StatusOn)
	category(t, repo, "B", models.StatusOff)
	c := category(t, repo, "C", models.StatusOn)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []uint{a.ID, c.ID}, []uint{list[0].ID, list[1].ID})

	dd, err := repo.Dropdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.DropdownItem{{ID: a.ID, Name: "A"}, {ID: c.ID, Name: "C"}}, dd)

	again, err := repo.Dropdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, dd, again)
}

func TestCategoryFindIgnoresStatusAndMissing(t *testing.T) {
	repo := repositories.NewCategoryRepository(openDB(t))
	ctx := context.Background()

	off := category(t, repo, "Hidden", models.StatusOff)
	got, err := repo.Find(ctx, off.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "OFF", got.Status)

	missing, err := repo.Find(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCategoryUpdate(t *testing.T) {
	repo := repositories.NewCategoryRepository(openDB(t))
	ctx := context.Background()
	c := category(t, repo, "Books", models.StatusOn)

	attached := false
	err := repo.Update(ctx, c.ID, map[string]any{"status": models.StatusOff}, func(id uint) (string, error) {
		attached = true
		return "upload/category/1/new.png", nil
	})
	require.NoError(t, err)
	assert.True(t, attached)

	got, err := repo.Find(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", got.Name)
	assert.Equal(t, "OFF", got.Status)
	assert.Equal(t, "upload/category/1/new.png", *got.Image)

	err = repo.Update(ctx, 999, map[string]any{"status": models.StatusOn}, func(uint) (string, error) {
		t.Fatal("attach must not run for a missing row")
		return "", nil
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProductJoinAndFilter(t *testing.T) {
	db := openDB(t)
	cats := repositories.NewCategoryRepository(db)
	repo := repositories.NewProductRepository(db)
	ctx := context.Background()

	books := category(t, cats, "Books", models.StatusOn)
	pens := category(t, cats, "Pens", models.StatusOn)

	for _, p := range []*models.Product{
		{Name: "Novel", Description: "d", CategoryID: books.ID, Status: models.StatusOn},
		{Name: "Ballpoint", Description: "d", CategoryID: pens.ID, Status: models.StatusOn},
		{Name: "Retired", Description: "d", CategoryID: pens.ID, Status: models.StatusOff},
	} {
		require.NoError(t, repo.Create(ctx, p, nil))
	}

	all, err := repo.ListActive(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Novel", all[0].Name)
	require.NotNil(t, all[0].CategoryName)
	assert.Equal(t, "Books", *all[0].CategoryName)

	onlyPens, err := repo.ListActive(ctx, &pens.ID)
	require.NoError(t, err)
	require.Len(t, onlyPens, 1)
	assert.Equal(t, "Ballpoint", onlyPens[0].Name)

	none := uint(999)
	empty, err := repo.ListActive(ctx, &none)
	require.NoError(t, err)
	assert.Empty(t, empty)

	retired, err := repo.Find(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, retired)
	assert.Equal(t, "OFF", retired.Status)
	assert.Equal(t, "Pens", *retired.CategoryName)
}

func TestProductNameUniquePerCategory(t *testing.T) {
	db := openDB(t)
	cats := repositories.NewCategoryRepository(db)
	repo := repositories.NewProductRepository(db)
	ctx := context.Background()

	a := category(t, cats, "A", models.StatusOn)
	b := category(t, cats, "B", models.StatusOn)

	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Pen", Description: "d", CategoryID: a.ID, Status: models.StatusOn}, nil))
	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Pen", Description: "d", CategoryID: b.ID, Status: models.StatusOn}, nil))
	assert.Error(t, repo.Create(ctx, &models.Product{Name: "Pen", Description: "d", CategoryID: a.ID, Status: models.StatusOn}, nil))
}

func TestProductCascadesWithCategory(t *testing.T) {
	db := openDB(t)
	cats := repositories.NewCategoryRepository(db)
	repo := repositories.NewProductRepository(db)
	ctx := context.Background()

	c := category(t, cats, "Books", models.StatusOn)
	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Novel", Description: "d", CategoryID: c.ID, Status: models.StatusOn}, nil))

	require.NoError(t, db.Delete(&models.Category{}, c.ID).Error)

	var n int64
	require.NoError(t, db.Model(&models.Product{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestProductRequiresExistingCategory(t *testing.T) {
	repo := repositories.NewProductRepository(openDB(t))
	err := repo.Create(context.Background(), &models.Product{Name: "Orphan", Description: "d", CategoryID: 42, Status: models.StatusOn}, nil)
	assert.Error(t, err)
}
