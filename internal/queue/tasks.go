package queue

import (
	"encoding/json"

	"github.com/lumishop/lumishop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskRestockNotify 补货到货通知任务
	TaskRestockNotify = constants.TaskRestockNotify
	// TaskWelcomeCoupon 注册欢迎券发放任务
	TaskWelcomeCoupon = constants.TaskWelcomeCoupon
	// TaskReviewNotifyAdmin 新评价待审提醒任务
	TaskReviewNotifyAdmin = constants.TaskReviewNotifyAdmin
)

// RestockNotifyPayload 到货通知任务载荷
type RestockNotifyPayload struct {
	ProductID uint `json:"product_id"`
}

// WelcomeCouponPayload 欢迎券任务载荷
type WelcomeCouponPayload struct {
	UserID uint `json:"user_id"`
}

// ReviewNotifyAdminPayload 新评价提醒任务载荷
type ReviewNotifyAdminPayload struct {
	ReviewID  uint `json:"review_id"`
	ProductID uint `json:"product_id"`
}

// NewRestockNotifyTask 创建到货通知任务
func NewRestockNotifyTask(payload RestockNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRestockNotify, body), nil
}

// NewWelcomeCouponTask 创建欢迎券任务
func NewWelcomeCouponTask(payload WelcomeCouponPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWelcomeCoupon, body), nil
}

// NewReviewNotifyAdminTask 创建新评价提醒任务
func NewReviewNotifyAdminTask(payload ReviewNotifyAdminPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReviewNotifyAdmin, body), nil
}
