package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/queue"
	"github.com/lumishop/lumishop/internal/realtime"
	"github.com/lumishop/lumishop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newProductTestService(t *testing.T, name string) (*ProductService, *gorm.DB, *models.Category, *realtime.Hub) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	category := models.Category{Slug: "test-category", NameJSON: models.JSON{"zh-CN": "测试分类"}}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	hub := realtime.NewHub()
	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		hub,
		queueClient,
	)
	return svc, db, &category, hub
}

func TestRestockTransition(t *testing.T) {
	cases := []struct {
		oldCount int
		newCount int
		want     bool
	}{
		{0, 5, true},
		{0, 1, true},
		{5, 10, false},
		{0, 0, false},
		{3, 0, false},
		{1, 2, false},
	}
	for _, tc := range cases {
		if got := restockTransition(tc.oldCount, tc.newCount); got != tc.want {
			t.Fatalf("restockTransition(%d, %d) = %v, want %v", tc.oldCount, tc.newCount, got, tc.want)
		}
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, category, _ := newProductTestService(t, "product_create")

	input := ProductInput{
		CategoryID:   category.ID,
		Slug:         "earphones",
		TitleJSON:    models.JSON{"zh-CN": "无线耳机"},
		PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(199.00)),
		CountInStock: 10,
		IsActive:     true,
	}

	product, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.ID == 0 {
		t.Fatalf("expected product id assigned")
	}

	if _, err := svc.Create(input); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken for duplicate slug, got %v", err)
	}

	missing := input
	missing.Slug = "another"
	missing.CategoryID = 9999
	if _, err := svc.Create(missing); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	negative := input
	negative.Slug = "negative-stock"
	negative.CountInStock = -1
	if _, err := svc.Create(negative); !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("expected ErrQuantityInvalid, got %v", err)
	}
}

func TestSetStock(t *testing.T) {
	svc, db, category, hub := newProductTestService(t, "product_set_stock")

	product := models.Product{
		CategoryID:  category.ID,
		Slug:        "backpack",
		TitleJSON:   models.JSON{"zh-CN": "背包"},
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(99)),
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if _, err := svc.SetStock(product.ID, -1); !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("expected ErrQuantityInvalid, got %v", err)
	}
	if _, err := svc.SetStock(9999, 5); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	subscriber := realtime.NewSubscriber(product.ID, 4)
	hub.Register(subscriber)
	defer hub.Unregister(subscriber)

	// 0 -> 20 补货，订阅者恰好收到一条到货事件
	updated, err := svc.SetStock(product.ID, 20)
	if err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
	if updated.CountInStock != 20 {
		t.Fatalf("expected stock 20, got %d", updated.CountInStock)
	}
	select {
	case msg := <-subscriber.Messages():
		if msg.Event != "product_restock" {
			t.Fatalf("unexpected event %q", msg.Event)
		}
		var payload struct {
			ProductID    uint `json:"product_id"`
			CountInStock int  `json:"count_in_stock"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			t.Fatalf("unmarshal restock payload failed: %v", err)
		}
		if payload.ProductID != product.ID || payload.CountInStock != 20 {
			t.Fatalf("unexpected restock payload %+v", payload)
		}
	default:
		t.Fatalf("expected restock broadcast on 0 -> 20")
	}

	// 有货状态下继续调整，不再是到货，也不再广播
	if _, err := svc.SetStock(product.ID, 5); err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
	select {
	case msg := <-subscriber.Messages():
		t.Fatalf("expected no broadcast on 20 -> 5, got %+v", msg)
	default:
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if got.CountInStock != 5 {
		t.Fatalf("expected persisted stock 5, got %d", got.CountInStock)
	}
}

func TestUpdateProductSlugConflict(t *testing.T) {
	svc, db, category, _ := newProductTestService(t, "product_update")

	first := models.Product{CategoryID: category.ID, Slug: "first", TitleJSON: models.JSON{"zh-CN": "甲"}, IsActive: true}
	second := models.Product{CategoryID: category.ID, Slug: "second", TitleJSON: models.JSON{"zh-CN": "乙"}, IsActive: true}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	input := ProductInput{
		CategoryID:  category.ID,
		Slug:        "first",
		TitleJSON:   models.JSON{"zh-CN": "乙改"},
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsActive:    true,
	}
	if _, err := svc.Update(second.ID, input); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	input.Slug = "second-renamed"
	updated, err := svc.Update(second.ID, input)
	if err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	if updated.Slug != "second-renamed" {
		t.Fatalf("expected renamed slug, got %s", updated.Slug)
	}
}

func TestGetBySlugOnlyActive(t *testing.T) {
	svc, db, category, _ := newProductTestService(t, "product_get_slug")

	product := models.Product{CategoryID: category.ID, Slug: "hidden", TitleJSON: models.JSON{"zh-CN": "下架品"}, IsActive: false}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if _, err := svc.GetBySlug("hidden", true); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for inactive product, got %v", err)
	}
	got, err := svc.GetBySlug("hidden", false)
	if err != nil {
		t.Fatalf("expected inactive product visible to admin, got %v", err)
	}
	if got.ID != product.ID {
		t.Fatalf("unexpected product %d", got.ID)
	}
}
