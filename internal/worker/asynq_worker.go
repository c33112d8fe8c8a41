package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/lumishop/lumishop/internal/logger"
	"github.com/lumishop/lumishop/internal/provider"
	"github.com/lumishop/lumishop/internal/queue"
	"github.com/lumishop/lumishop/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskRestockNotify, c.handleRestockNotify)
	mux.HandleFunc(queue.TaskWelcomeCoupon, c.handleWelcomeCoupon)
	mux.HandleFunc(queue.TaskReviewNotifyAdmin, c.handleReviewNotifyAdmin)
}

// handleRestockNotify 商品补货后给订阅者发送到货邮件
func (c *Consumer) handleRestockNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.RestockNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_restock_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_restock_notify_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	if c.StockNotifyService == nil {
		logger.Warnw("worker_restock_notify_skip_service_nil", "product_id", payload.ProductID)
		return nil
	}

	sent, err := c.StockNotifyService.Dispatch(payload.ProductID)
	if err != nil {
		logger.Warnw("worker_restock_notify_dispatch_failed", "product_id", payload.ProductID, "sent", sent, "error", err)
		return err
	}
	logger.Infow("worker_restock_notify_dispatched", "product_id", payload.ProductID, "sent", sent)
	return nil
}

// handleWelcomeCoupon 注册后发放新人优惠券并通知用户
func (c *Consumer) handleWelcomeCoupon(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.WelcomeCouponPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_welcome_coupon_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_welcome_coupon_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	if c.CouponService == nil {
		logger.Warnw("worker_welcome_coupon_skip_service_nil", "user_id", payload.UserID)
		return nil
	}

	coupon, err := c.CouponService.IssueWelcomeCoupon(payload.UserID)
	if err != nil {
		logger.Warnw("worker_welcome_coupon_issue_failed", "user_id", payload.UserID, "error", err)
		return err
	}
	if coupon == nil {
		return nil
	}

	if c.EmailService != nil && c.UserRepo != nil {
		user, err := c.UserRepo.GetByID(payload.UserID)
		if err != nil {
			logger.Warnw("worker_welcome_coupon_fetch_user_failed", "user_id", payload.UserID, "error", err)
		} else if user != nil {
			if err := c.EmailService.SendWelcomeCouponEmail(user.Email, coupon, user.Locale); err != nil {
				logger.Warnw("worker_welcome_coupon_email_failed", "user_id", payload.UserID, "error", err)
			}
		}
	}
	logger.Infow("worker_welcome_coupon_issued", "user_id", payload.UserID, "coupon_code", coupon.Code)
	return nil
}

// handleReviewNotifyAdmin 有新评论时通知管理员审核
func (c *Consumer) handleReviewNotifyAdmin(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.ReviewNotifyAdminPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_review_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.ReviewID == 0 {
		logger.Debugw("worker_review_notify_skip_invalid_payload", "review_id", payload.ReviewID)
		return nil
	}

	adminEmail := ""
	if c.Config != nil {
		adminEmail = strings.TrimSpace(c.Config.Email.AdminEmail)
	}
	if adminEmail == "" || c.EmailService == nil {
		logger.Debugw("worker_review_notify_skip_no_receiver", "review_id", payload.ReviewID)
		return nil
	}

	review, err := c.ReviewRepo.GetByID(payload.ReviewID)
	if err != nil {
		logger.Warnw("worker_review_notify_fetch_failed", "review_id", payload.ReviewID, "error", err)
		return err
	}
	if review == nil {
		logger.Debugw("worker_review_notify_skip_review_not_found", "review_id", payload.ReviewID)
		return nil
	}

	productName := ""
	if product, err := c.ProductRepo.GetByID(review.ProductID); err == nil && product != nil {
		productName = product.Slug
	}

	input := service.ReviewModerationEmailInput{
		ReviewID:    review.ID,
		ProductName: productName,
		Rating:      review.Rating,
		Comment:     review.Comment,
	}
	if err := c.EmailService.SendReviewModerationEmail(adminEmail, input, ""); err != nil {
		logger.Warnw("worker_review_notify_email_failed", "review_id", payload.ReviewID, "error", err)
		return err
	}
	return nil
}
