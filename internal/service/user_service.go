package service

import (
	"context"
	"strings"

	"github.com/lumishop/lumishop/internal/cache"
	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/repository"
)

// UserService 管理端用户管理服务
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// AdminList 管理端用户列表
func (s *UserService) AdminList(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// SetStatus 批量启用/禁用用户。禁用会让已签发的 token 失效
func (s *UserService) SetStatus(userIDs []uint, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return ErrUserStatusInvalid
	}
	if len(userIDs) == 0 {
		return nil
	}
	if err := s.userRepo.BatchUpdateStatus(userIDs, status); err != nil {
		return err
	}
	for _, id := range userIDs {
		_ = cache.DelUserAuthState(context.Background(), id)
	}
	return nil
}
