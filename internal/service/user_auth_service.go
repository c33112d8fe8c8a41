package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/lumishop/lumishop/internal/cache"
	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/logger"
	"github.com/lumishop/lumishop/internal/models"
	"github.com/lumishop/lumishop/internal/queue"
	"github.com/lumishop/lumishop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 买家注册、登录与资料维护
type UserAuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	queueClient *queue.Client
}

// NewUserAuthService 创建买家认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, queueClient *queue.Client) *UserAuthService {
	return &UserAuthService{cfg: cfg, userRepo: userRepo, queueClient: queueClient}
}

// UserJWTClaims 买家 token 声明，带版本号供改密后作废旧 token
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 签发买家 token，expireHours<=0 时取配置默认值
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	hours := expireHours
	if hours <= 0 {
		hours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseUserJWT 校验并解析买家 token，仅接受 HS256
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &UserJWTClaims{}, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UserJWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的 token")
	}
	return claims, nil
}

// recordLogin 签发 token 并落库最近登录时间，同步刷新缓存里的认证快照
func (s *UserAuthService) recordLogin(user *models.User, expireHours int) (string, time.Time, error) {
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return token, expiresAt, nil
}

// Register 注册新买家并直接登录。成功后异步发放新人优惠券
func (s *UserAuthService) Register(email, password, locale string) (*models.User, string, time.Time, error) {
	addr, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, "", time.Time{}, err
	}

	if exist, err := s.userRepo.GetByEmail(addr); err != nil {
		return nil, "", time.Time{}, err
	} else if exist != nil {
		return nil, "", time.Time{}, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Email:        addr,
		PasswordHash: string(hashed),
		DisplayName:  resolveNicknameFromEmail(addr),
		Locale:       resolveUserLocale(locale),
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.recordLogin(user, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if s.queueClient != nil && s.cfg.Coupon.WelcomeEnabled {
		if err := s.queueClient.EnqueueWelcomeCoupon(queue.WelcomeCouponPayload{UserID: user.ID}); err != nil {
			logger.Warnw("welcome_coupon_enqueue_failed", "user_id", user.ID, "error", err)
		}
	}

	return user, token, expiresAt, nil
}

// Login 买家登录
func (s *UserAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	return s.LoginWithRememberMe(email, password, false)
}

// LoginWithRememberMe 买家登录，rememberMe 拉长 token 有效期
func (s *UserAuthService) LoginWithRememberMe(email, password string, rememberMe bool) (*models.User, string, time.Time, error) {
	addr, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(addr)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	// 账号不存在与密码错误返回同一个错误，不泄露邮箱是否注册过
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	expireHours := resolveUserJWTExpireHours(s.cfg.UserJWT)
	if rememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.UserJWT)
	}
	token, expiresAt, err := s.recordLogin(user, expireHours)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// ChangePassword 改密，同时作废改密前签发的全部 token
func (s *UserAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.mustGetUser(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	user.PasswordHash = string(hashed)
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// UpdateProfile 更新昵称与界面语言，nil 字段不动
func (s *UserAuthService) UpdateProfile(userID uint, nickname, locale *string) (*models.User, error) {
	user, err := s.mustGetUser(userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if nickname != nil {
		if trimmed := strings.TrimSpace(*nickname); trimmed != "" {
			user.DisplayName = trimmed
			changed = true
		}
	}
	if locale != nil {
		if trimmed := strings.TrimSpace(*locale); trimmed != "" {
			user.Locale = resolveUserLocale(trimmed)
			changed = true
		}
	}
	if !changed {
		return user, nil
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID 查询买家资料
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	return s.mustGetUser(id)
}

func (s *UserAuthService) mustGetUser(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(email))
	if addr == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return "", ErrInvalidEmail
	}
	return addr, nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours <= 0 {
		return resolveUserJWTExpireHours(cfg)
	}
	return cfg.RememberMeExpireHours
}

// resolveNicknameFromEmail 默认昵称取邮箱 @ 前缀
func resolveNicknameFromEmail(email string) string {
	if local, _, found := strings.Cut(email, "@"); found && strings.TrimSpace(local) != "" {
		return strings.TrimSpace(local)
	}
	return email
}

// resolveUserLocale 不在支持列表里的语言回退 zh-CN
func resolveUserLocale(locale string) string {
	normalized := normalizeLocale(locale)
	for _, supported := range constants.SupportedLocales {
		if normalized == supported {
			return normalized
		}
	}
	return constants.LocaleZhCN
}
