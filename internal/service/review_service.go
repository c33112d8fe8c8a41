package service

import (
	"math"
	"strings"

	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/logger"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/queue"
	"github.com/lumishop/lumishop/internal/repository"

	"gorm.io/gorm"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
}

// NewReviewService 创建评价服务
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	queueClient *queue.Client,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		queueClient: queueClient,
	}
}

// CreateReviewInput 创建评价入参
type CreateReviewInput struct {
	ProductID uint
	Rating    int
	Title     string
	Comment   string
	Images    []string
}

// Create 创建评价。新评价进入 pending 状态，不影响商品评分聚合
func (s *ReviewService) Create(userID uint, input CreateReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewRatingInvalid
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.reviewRepo.GetByUserAndProduct(userID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	verified, err := s.orderRepo.ExistsPaidByUserAndProduct(userID, input.ProductID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:        input.ProductID,
		UserID:           userID,
		Rating:           input.Rating,
		Title:            strings.TrimSpace(input.Title),
		Comment:          strings.TrimSpace(input.Comment),
		Images:           input.Images,
		VerifiedPurchase: verified,
		Status:           constants.ReviewStatusPending,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueReviewNotifyAdmin(queue.ReviewNotifyAdminPayload{
		ReviewID:  review.ID,
		ProductID: review.ProductID,
	}); err != nil {
		logger.Warnw("review_notify_admin_enqueue_failed", "review_id", review.ID, "error", err)
	}

	return review, nil
}

// UpdateReviewInput 更新评价入参
type UpdateReviewInput struct {
	Rating  int
	Title   string
	Comment string
	Images  []string
}

// Update 用户编辑自己的评价。编辑后回到 pending 待审，并在同一事务内重算聚合
func (s *ReviewService) Update(userID, reviewID uint, input UpdateReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewRatingInvalid
	}

	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil || review.UserID != userID {
		return nil, ErrReviewNotFound
	}

	wasApproved := review.Status == constants.ReviewStatusApproved
	review.Rating = input.Rating
	review.Title = strings.TrimSpace(input.Title)
	review.Comment = strings.TrimSpace(input.Comment)
	review.Images = input.Images
	review.Status = constants.ReviewStatusPending

	err = s.reviewRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Update(review); err != nil {
			return err
		}
		if wasApproved {
			return s.recomputeAggregates(tx, review.ProductID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Delete 删除评价。用户只能删自己的；已通过的评价删除后同事务重算聚合
func (s *ReviewService) Delete(userID, reviewID uint, isAdmin bool) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if !isAdmin && review.UserID != userID {
		return ErrReviewNotFound
	}

	wasApproved := review.Status == constants.ReviewStatusApproved
	return s.reviewRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Delete(review.ID); err != nil {
			return err
		}
		if wasApproved {
			return s.recomputeAggregates(tx, review.ProductID)
		}
		return nil
	})
}

// SetStatus 审核评价。状态变化与聚合重算在同一事务内完成
func (s *ReviewService) SetStatus(reviewID uint, status string, adminResponse string) (*models.Review, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized != constants.ReviewStatusApproved && normalized != constants.ReviewStatusRejected {
		return nil, ErrReviewStatusInvalid
	}

	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	statusChanged := review.Status != normalized
	review.Status = normalized
	if response := strings.TrimSpace(adminResponse); response != "" {
		review.AdminResponse = response
	}

	err = s.reviewRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Update(review); err != nil {
			return err
		}
		if statusChanged {
			return s.recomputeAggregates(tx, review.ProductID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// MarkHelpful 点赞评价
func (s *ReviewService) MarkHelpful(reviewID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	return s.reviewRepo.IncrementHelpfulVotes(reviewID)
}

// ListByProduct 查询商品的已通过评价
func (s *ReviewService) ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
		Status:    constants.ReviewStatusApproved,
	})
}

// ListByUser 查询用户自己的评价（含待审与已拒）
func (s *ReviewService) ListByUser(userID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.List(repository.ReviewListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
}

// AdminList 管理端评价列表
func (s *ReviewService) AdminList(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}

// recomputeAggregates 按已通过评价全量重算商品评分聚合。
// 无已通过评价时评分归零
func (s *ReviewService) recomputeAggregates(tx *gorm.DB, productID uint) error {
	avg, count, err := s.reviewRepo.WithTx(tx).AggregateApproved(productID)
	if err != nil {
		return err
	}
	rating := math.Round(avg*100) / 100
	if count == 0 {
		rating = 0
	}
	return s.productRepo.WithTx(tx).UpdateRatingAggregates(productID, rating, count)
}
