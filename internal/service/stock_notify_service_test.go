package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newStockNotifyTestService(t *testing.T, name string) (*StockNotifyService, *gorm.DB, *models.Product) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.StockSubscription{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	category := models.Category{Slug: "test-category", NameJSON: models.JSON{"zh-CN": "测试分类"}}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID:   category.ID,
		Slug:         "sold-out",
		TitleJSON:    models.JSON{"zh-CN": "缺货商品"},
		PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		CountInStock: 0,
		IsActive:     true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	// 邮件通道关闭，派发时直接标记已提醒
	emailSvc := NewEmailService(&config.EmailConfig{Enabled: false})
	svc := NewStockNotifyService(
		repository.NewStockSubscriptionRepository(db),
		repository.NewProductRepository(db),
		emailSvc,
		&config.StockNotifyConfig{DispatchBatchSize: 100},
	)
	return svc, db, &product
}

func TestSubscribeValidation(t *testing.T) {
	svc, db, product := newStockNotifyTestService(t, "stock_subscribe")

	if err := svc.Subscribe(product.ID, "not-an-email"); !errors.Is(err, ErrSubscribeEmailInvalid) {
		t.Fatalf("expected ErrSubscribeEmailInvalid, got %v", err)
	}
	if err := svc.Subscribe(9999, "a@example.com"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	if err := svc.Subscribe(product.ID, " Buyer@Example.COM "); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	var sub models.StockSubscription
	if err := db.Where("product_id = ?", product.ID).First(&sub).Error; err != nil {
		t.Fatalf("load subscription failed: %v", err)
	}
	if sub.Email != "buyer@example.com" {
		t.Fatalf("expected normalized email, got %q", sub.Email)
	}

	// 有货商品不能订阅
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("count_in_stock", 3).Error; err != nil {
		t.Fatalf("update stock failed: %v", err)
	}
	if err := svc.Subscribe(product.ID, "late@example.com"); !errors.Is(err, ErrProductInStock) {
		t.Fatalf("expected ErrProductInStock, got %v", err)
	}
}

func TestSubscribeAgainResetsNotified(t *testing.T) {
	svc, db, product := newStockNotifyTestService(t, "stock_resubscribe")

	if err := svc.Subscribe(product.ID, "buyer@example.com"); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	now := time.Now()
	if err := db.Model(&models.StockSubscription{}).
		Where("product_id = ?", product.ID).
		Updates(map[string]interface{}{"notified": true, "notified_at": now}).Error; err != nil {
		t.Fatalf("mark notified failed: %v", err)
	}

	if err := svc.Subscribe(product.ID, "buyer@example.com"); err != nil {
		t.Fatalf("re-subscribe failed: %v", err)
	}
	var sub models.StockSubscription
	if err := db.Where("product_id = ?", product.ID).First(&sub).Error; err != nil {
		t.Fatalf("load subscription failed: %v", err)
	}
	if sub.Notified {
		t.Fatalf("expected notified reset after re-subscribe")
	}

	var count int64
	if err := db.Model(&models.StockSubscription{}).Where("product_id = ?", product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count subscriptions failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single subscription row, got %d", count)
	}
}

func TestUnsubscribe(t *testing.T) {
	svc, db, product := newStockNotifyTestService(t, "stock_unsubscribe")

	if err := svc.Subscribe(product.ID, "buyer@example.com"); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := svc.Unsubscribe(product.ID, "Buyer@example.com"); err != nil {
		t.Fatalf("unsubscribe failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.StockSubscription{}).Where("product_id = ?", product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count subscriptions failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected subscription removed, got %d", count)
	}

	if err := svc.Unsubscribe(product.ID, "bad"); !errors.Is(err, ErrSubscribeEmailInvalid) {
		t.Fatalf("expected ErrSubscribeEmailInvalid, got %v", err)
	}
}

func TestDispatchMarksNotified(t *testing.T) {
	svc, db, product := newStockNotifyTestService(t, "stock_dispatch")

	if err := svc.Subscribe(product.ID, "a@example.com"); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := svc.Subscribe(product.ID, "b@example.com"); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// 仍然缺货，放弃本轮派发
	sent, err := svc.Dispatch(product.ID)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if sent != 0 {
		t.Fatalf("expected no sends while out of stock, got %d", sent)
	}
	var pending int64
	if err := db.Model(&models.StockSubscription{}).Where("product_id = ? AND notified = ?", product.ID, false).Count(&pending).Error; err != nil {
		t.Fatalf("count pending failed: %v", err)
	}
	if pending != 2 {
		t.Fatalf("expected 2 pending subscriptions, got %d", pending)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("count_in_stock", 5).Error; err != nil {
		t.Fatalf("update stock failed: %v", err)
	}

	// 邮件通道关闭时标记已提醒但不计入发送数
	sent, err = svc.Dispatch(product.ID)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if sent != 0 {
		t.Fatalf("expected 0 sends with disabled email channel, got %d", sent)
	}
	if err := db.Model(&models.StockSubscription{}).Where("product_id = ? AND notified = ?", product.ID, false).Count(&pending).Error; err != nil {
		t.Fatalf("count pending failed: %v", err)
	}
	if pending != 0 {
		t.Fatalf("expected all subscriptions marked notified, got %d pending", pending)
	}

	// 已提醒的订阅不会被重复派发
	if _, err := svc.Dispatch(product.ID); err != nil {
		t.Fatalf("repeat dispatch failed: %v", err)
	}

	if _, err := svc.Dispatch(9999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

// countingEmailSender 记录每个收件人的发送次数，指定地址一律失败
type countingEmailSender struct {
	calls    map[string]int
	failAddr string
}

func (s *countingEmailSender) SendRestockEmail(toEmail string, input RestockEmailInput, locale string) error {
	s.calls[toEmail]++
	if toEmail == s.failAddr {
		return errors.New("smtp send failed")
	}
	return nil
}

func TestDispatchLeavesFailedSendsPending(t *testing.T) {
	svc, db, product := newStockNotifyTestService(t, "stock_dispatch_fail")
	sender := &countingEmailSender{calls: map[string]int{}, failAddr: "fail@example.com"}
	svc.emailSvc = sender

	if err := svc.Subscribe(product.ID, "fail@example.com"); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := svc.Subscribe(product.ID, "ok@example.com"); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("count_in_stock", 5).Error; err != nil {
		t.Fatalf("update stock failed: %v", err)
	}

	sent, err := svc.Dispatch(product.ID)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 successful send, got %d", sent)
	}
	// 发送失败的订阅本轮只尝试一次，留给下次补货
	if got := sender.calls["fail@example.com"]; got != 1 {
		t.Fatalf("expected single attempt for failing address, got %d", got)
	}
	if got := sender.calls["ok@example.com"]; got != 1 {
		t.Fatalf("expected single attempt for succeeding address, got %d", got)
	}

	var failed models.StockSubscription
	if err := db.Where("product_id = ? AND email = ?", product.ID, "fail@example.com").First(&failed).Error; err != nil {
		t.Fatalf("load subscription failed: %v", err)
	}
	if failed.Notified || failed.NotifiedAt != nil {
		t.Fatalf("expected failed send to stay pending, got notified=%v", failed.Notified)
	}
	var ok models.StockSubscription
	if err := db.Where("product_id = ? AND email = ?", product.ID, "ok@example.com").First(&ok).Error; err != nil {
		t.Fatalf("load subscription failed: %v", err)
	}
	if !ok.Notified {
		t.Fatalf("expected successful send marked notified")
	}

	// 下一次派发重试仍然 pending 的订阅
	sent, err = svc.Dispatch(product.ID)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if sent != 0 {
		t.Fatalf("expected 0 sends on retry round, got %d", sent)
	}
	if got := sender.calls["fail@example.com"]; got != 2 {
		t.Fatalf("expected retry on next dispatch, got %d attempts", got)
	}
}

func TestPickProductTitle(t *testing.T) {
	if got := pickProductTitle(models.JSON{"zh-CN": "耳机"}, "slug"); got != "耳机" {
		t.Fatalf("expected zh-CN title, got %q", got)
	}
	if got := pickProductTitle(models.JSON{"fr-FR": "écouteurs"}, "slug"); got != "écouteurs" {
		t.Fatalf("expected fallback to any locale, got %q", got)
	}
	if got := pickProductTitle(nil, "slug"); got != "slug" {
		t.Fatalf("expected slug fallback, got %q", got)
	}
	if got := pickProductTitle(models.JSON{"zh-CN": "  "}, "slug"); got != "slug" {
		t.Fatalf("expected slug fallback for blank title, got %q", got)
	}
}
