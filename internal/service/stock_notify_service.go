package service

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/logger"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/repository"
)

// restockEmailSender 到货邮件发送入口
type restockEmailSender interface {
	SendRestockEmail(toEmail string, input RestockEmailInput, locale string) error
}

// StockNotifyService 到货提醒服务
type StockNotifyService struct {
	subRepo     repository.StockSubscriptionRepository
	productRepo repository.ProductRepository
	emailSvc    restockEmailSender
	cfg         *config.StockNotifyConfig
}

// NewStockNotifyService 创建到货提醒服务
func NewStockNotifyService(
	subRepo repository.StockSubscriptionRepository,
	productRepo repository.ProductRepository,
	emailSvc restockEmailSender,
	cfg *config.StockNotifyConfig,
) *StockNotifyService {
	return &StockNotifyService{
		subRepo:     subRepo,
		productRepo: productRepo,
		emailSvc:    emailSvc,
		cfg:         cfg,
	}
}

// Subscribe 登记到货提醒。仅缺货商品可订阅，重复订阅会重置提醒状态
func (s *StockNotifyService) Subscribe(productID uint, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrSubscribeEmailInvalid
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductNotFound
	}
	if product.CountInStock > 0 {
		return ErrProductInStock
	}

	return s.subRepo.Upsert(&models.StockSubscription{
		ProductID: productID,
		Email:     email,
	})
}

// Unsubscribe 取消到货提醒
func (s *StockNotifyService) Unsubscribe(productID uint, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrSubscribeEmailInvalid
	}
	return s.subRepo.DeleteByProductAndEmail(productID, email)
}

// Dispatch 给商品的待提醒订阅者逐批发送到货邮件，返回成功发送数。
// 发送成功才标记 notified，失败的订阅留待下次补货重试
func (s *StockNotifyService) Dispatch(productID uint) (int, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, ErrProductNotFound
	}
	if product.CountInStock <= 0 {
		// 补货后又被买空，放弃本轮提醒
		return 0, nil
	}

	batchSize := s.cfg.DispatchBatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	input := RestockEmailInput{
		ProductName:  pickProductTitle(product.TitleJSON, product.Slug),
		ProductSlug:  product.Slug,
		CountInStock: product.CountInStock,
	}

	sent := 0
	attempted := make(map[uint]struct{})
	for {
		pending, err := s.subRepo.ListPending(productID, batchSize)
		if err != nil {
			return sent, err
		}
		if len(pending) == 0 {
			return sent, nil
		}

		progressed := false
		notifiedIDs := make([]uint, 0, len(pending))
		for _, sub := range pending {
			// 每个订阅本轮只试一次，发送失败的仍是 pending，留给下次补货
			if _, tried := attempted[sub.ID]; tried {
				continue
			}
			attempted[sub.ID] = struct{}{}
			progressed = true

			if err := s.emailSvc.SendRestockEmail(sub.Email, input, constants.LocaleZhCN); err != nil {
				if errors.Is(err, ErrEmailServiceDisabled) || errors.Is(err, ErrEmailServiceNotConfigured) {
					// 邮件通道没配好时直接标记，避免队列任务反复堆积
					notifiedIDs = append(notifiedIDs, sub.ID)
					continue
				}
				logger.Warnw("restock_email_failed", "product_id", productID, "email", sub.Email, "error", err)
				continue
			}
			notifiedIDs = append(notifiedIDs, sub.ID)
			sent++
		}

		if !progressed {
			// 这一批全是刚失败过的订阅，本轮到此为止
			return sent, nil
		}
		if len(notifiedIDs) > 0 {
			if _, err := s.subRepo.MarkNotified(notifiedIDs, time.Now()); err != nil {
				return sent, err
			}
		}
	}
}

// AdminList 管理端订阅列表
func (s *StockNotifyService) AdminList(filter repository.StockSubscriptionListFilter) ([]models.StockSubscription, int64, error) {
	return s.subRepo.List(filter)
}

// pickProductTitle 从多语言标题里取第一个可用值，取不到时回退 slug
func pickProductTitle(title models.JSON, fallback string) string {
	if title != nil {
		for _, key := range constants.SupportedLocales {
			if val, ok := title[key]; ok {
				if str, ok := val.(string); ok && strings.TrimSpace(str) != "" {
					return strings.TrimSpace(str)
				}
			}
		}
		for _, val := range title {
			if str, ok := val.(string); ok && strings.TrimSpace(str) != "" {
				return strings.TrimSpace(str)
			}
		}
	}
	return fallback
}
