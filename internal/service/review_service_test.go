package service

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/queue"
	"github.com/lumishop/lumishop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newReviewTestService(t *testing.T, name string) (*ReviewService, *gorm.DB, *models.Product) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Review{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	category := models.Category{Slug: "test-category", NameJSON: models.JSON{"zh-CN": "测试分类"}}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID:   category.ID,
		Slug:         "test-product",
		TitleJSON:    models.JSON{"zh-CN": "测试商品"},
		PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		CountInStock: 10,
		IsActive:     true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	svc := NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
		queueClient,
	)
	return svc, db, &product
}

func loadProduct(t *testing.T, db *gorm.DB, id uint) *models.Product {
	t.Helper()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return &product
}

func TestCreateReviewValidation(t *testing.T) {
	svc, _, product := newReviewTestService(t, "review_create")

	if _, err := svc.Create(1, CreateReviewInput{ProductID: product.ID, Rating: 0}); !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("expected ErrReviewRatingInvalid, got %v", err)
	}
	if _, err := svc.Create(1, CreateReviewInput{ProductID: product.ID, Rating: 6}); !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("expected ErrReviewRatingInvalid, got %v", err)
	}
	if _, err := svc.Create(1, CreateReviewInput{ProductID: 9999, Rating: 5}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	review, err := svc.Create(1, CreateReviewInput{ProductID: product.ID, Rating: 5, Title: " 很好 ", Comment: "推荐"})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if review.Status != constants.ReviewStatusPending {
		t.Fatalf("expected pending status, got %s", review.Status)
	}
	if review.Title != "很好" {
		t.Fatalf("expected trimmed title, got %q", review.Title)
	}
	if review.VerifiedPurchase {
		t.Fatalf("expected unverified purchase without paid order")
	}

	if _, err := svc.Create(1, CreateReviewInput{ProductID: product.ID, Rating: 4}); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists for duplicate, got %v", err)
	}
}

func TestCreateReviewMarksVerifiedPurchase(t *testing.T) {
	svc, db, product := newReviewTestService(t, "review_verified")

	now := time.Now()
	order := models.Order{
		OrderNo: "LS-TEST-1",
		UserID:  3,
		Status:  constants.OrderStatusPaid,
		PaidAt:  &now,
		Items: []models.OrderItem{
			{ProductID: product.ID, Quantity: 1, UnitPrice: product.PriceAmount, TotalPrice: product.PriceAmount},
		},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	review, err := svc.Create(3, CreateReviewInput{ProductID: product.ID, Rating: 5})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if !review.VerifiedPurchase {
		t.Fatalf("expected verified purchase with paid order")
	}
}

func TestRatingAggregatesFollowModeration(t *testing.T) {
	svc, db, product := newReviewTestService(t, "review_aggregate")

	ratings := map[uint]int{1: 5, 2: 4, 3: 3}
	reviews := make(map[uint]*models.Review, len(ratings))
	for userID, rating := range ratings {
		review, err := svc.Create(userID, CreateReviewInput{ProductID: product.ID, Rating: rating})
		if err != nil {
			t.Fatalf("create review failed: %v", err)
		}
		reviews[userID] = review
	}

	// 待审评价不参与聚合
	if got := loadProduct(t, db, product.ID); got.Rating != 0 || got.NumReviews != 0 {
		t.Fatalf("expected zero aggregates before approval, got rating=%v count=%d", got.Rating, got.NumReviews)
	}

	for _, review := range reviews {
		if _, err := svc.SetStatus(review.ID, constants.ReviewStatusApproved, ""); err != nil {
			t.Fatalf("approve review failed: %v", err)
		}
	}

	got := loadProduct(t, db, product.ID)
	if math.Abs(got.Rating-4.0) > 1e-9 {
		t.Fatalf("expected rating 4.0, got %v", got.Rating)
	}
	if got.NumReviews != 3 || got.TotalRatings != 3 {
		t.Fatalf("expected 3 approved reviews, got num=%d total=%d", got.NumReviews, got.TotalRatings)
	}

	// 删除 3 分评价后均分升到 4.5
	if err := svc.Delete(0, reviews[3].ID, true); err != nil {
		t.Fatalf("delete review failed: %v", err)
	}
	got = loadProduct(t, db, product.ID)
	if math.Abs(got.Rating-4.5) > 1e-9 {
		t.Fatalf("expected rating 4.5 after delete, got %v", got.Rating)
	}
	if got.NumReviews != 2 {
		t.Fatalf("expected 2 approved reviews after delete, got %d", got.NumReviews)
	}

	// 驳回 4 分评价，只剩 5 分
	if _, err := svc.SetStatus(reviews[2].ID, constants.ReviewStatusRejected, "图片模糊"); err != nil {
		t.Fatalf("reject review failed: %v", err)
	}
	got = loadProduct(t, db, product.ID)
	if math.Abs(got.Rating-5.0) > 1e-9 {
		t.Fatalf("expected rating 5.0 after reject, got %v", got.Rating)
	}
	if got.NumReviews != 1 {
		t.Fatalf("expected 1 approved review after reject, got %d", got.NumReviews)
	}
}

func TestRatingAggregatesResetWhenNoApproved(t *testing.T) {
	svc, db, product := newReviewTestService(t, "review_reset")

	review, err := svc.Create(1, CreateReviewInput{ProductID: product.ID, Rating: 4})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if _, err := svc.SetStatus(review.ID, constants.ReviewStatusApproved, ""); err != nil {
		t.Fatalf("approve review failed: %v", err)
	}
	if got := loadProduct(t, db, product.ID); got.NumReviews != 1 {
		t.Fatalf("expected 1 approved review, got %d", got.NumReviews)
	}

	if err := svc.Delete(1, review.ID, false); err != nil {
		t.Fatalf("delete own review failed: %v", err)
	}
	got := loadProduct(t, db, product.ID)
	if got.Rating != 0 || got.NumReviews != 0 {
		t.Fatalf("expected aggregates reset, got rating=%v count=%d", got.Rating, got.NumReviews)
	}
}

func TestUpdateReviewBacksToPending(t *testing.T) {
	svc, db, product := newReviewTestService(t, "review_update")

	review, err := svc.Create(1, CreateReviewInput{ProductID: product.ID, Rating: 5})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if _, err := svc.SetStatus(review.ID, constants.ReviewStatusApproved, ""); err != nil {
		t.Fatalf("approve review failed: %v", err)
	}

	updated, err := svc.Update(1, review.ID, UpdateReviewInput{Rating: 3, Comment: "用了一周降级评价"})
	if err != nil {
		t.Fatalf("update review failed: %v", err)
	}
	if updated.Status != constants.ReviewStatusPending {
		t.Fatalf("expected pending after edit, got %s", updated.Status)
	}

	// 编辑后回到待审，聚合随之清掉
	got := loadProduct(t, db, product.ID)
	if got.Rating != 0 || got.NumReviews != 0 {
		t.Fatalf("expected aggregates recomputed after edit, got rating=%v count=%d", got.Rating, got.NumReviews)
	}

	if _, err := svc.Update(2, review.ID, UpdateReviewInput{Rating: 4}); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound for other user's review, got %v", err)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, product := newReviewTestService(t, "review_status")

	review, err := svc.Create(1, CreateReviewInput{ProductID: product.ID, Rating: 5})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if _, err := svc.SetStatus(review.ID, "archived", ""); !errors.Is(err, ErrReviewStatusInvalid) {
		t.Fatalf("expected ErrReviewStatusInvalid, got %v", err)
	}
	if _, err := svc.SetStatus(9999, constants.ReviewStatusApproved, ""); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestMarkHelpful(t *testing.T) {
	svc, db, product := newReviewTestService(t, "review_helpful")

	review, err := svc.Create(1, CreateReviewInput{ProductID: product.ID, Rating: 5})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if err := svc.MarkHelpful(review.ID); err != nil {
		t.Fatalf("mark helpful failed: %v", err)
	}
	if err := svc.MarkHelpful(review.ID); err != nil {
		t.Fatalf("mark helpful failed: %v", err)
	}

	var got models.Review
	if err := db.First(&got, review.ID).Error; err != nil {
		t.Fatalf("load review failed: %v", err)
	}
	if got.HelpfulVotes != 2 {
		t.Fatalf("expected 2 helpful votes, got %d", got.HelpfulVotes)
	}

	if err := svc.MarkHelpful(9999); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}
