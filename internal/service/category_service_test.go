package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newCategoryTestService(t *testing.T, name string) (*CategoryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCategoryService(repository.NewCategoryRepository(db)), db
}

func TestCategoryCRUD(t *testing.T) {
	svc, _ := newCategoryTestService(t, "category_crud")

	created, err := svc.Create(CreateCategoryInput{
		Slug:      "electronics",
		NameJSON:  map[string]interface{}{"zh-CN": "数码", "en-US": "Electronics"},
		SortOrder: 1,
	})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	if _, err := svc.Create(CreateCategoryInput{Slug: "electronics", NameJSON: map[string]interface{}{"zh-CN": "重复"}}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	got, err := svc.GetBySlug(" electronics ")
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("unexpected category %d", got.ID)
	}
	if _, err := svc.GetBySlug("missing"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	updated, err := svc.Update(created.ID, CreateCategoryInput{
		Slug:      "digital",
		NameJSON:  map[string]interface{}{"zh-CN": "数码产品"},
		SortOrder: 2,
	})
	if err != nil {
		t.Fatalf("update category failed: %v", err)
	}
	if updated.Slug != "digital" || updated.SortOrder != 2 {
		t.Fatalf("unexpected updated category: %+v", updated)
	}
	if _, err := svc.Update(9999, CreateCategoryInput{Slug: "x"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete category failed: %v", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound after delete, got %v", err)
	}
}

func TestDeleteCategoryInUse(t *testing.T) {
	svc, db := newCategoryTestService(t, "category_in_use")

	category, err := svc.Create(CreateCategoryInput{Slug: "bags", NameJSON: map[string]interface{}{"zh-CN": "箱包"}})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{CategoryID: category.ID, Slug: "backpack", TitleJSON: models.JSON{"zh-CN": "背包"}, IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if err := svc.Delete(category.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}
}
