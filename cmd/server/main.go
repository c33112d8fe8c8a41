package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/lumishop/lumishop/internal/app"
	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/logger"
	"github.com/lumishop/lumishop/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	checkJWTSecrets(cfg, stdLog)
	setupDatabase(cfg, stdLog)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

// checkJWTSecrets 生产模式拒绝弱密钥启动，开发模式只提示
func checkJWTSecrets(cfg *config.Config, stdLog *log.Logger) {
	if !isWeakSecret(cfg.JWT.SecretKey) && !isWeakSecret(cfg.UserJWT.SecretKey) {
		return
	}
	if cfg.Server.Mode == "release" {
		stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
	}
	stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
}

// setupDatabase 建连、迁移并按需初始化默认管理员
func setupDatabase(cfg *config.Config, stdLog *log.Logger) {
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	adminUser := os.Getenv("LS_DEFAULT_ADMIN_USERNAME")
	adminPass := os.Getenv("LS_DEFAULT_ADMIN_PASSWORD")
	if cfg.Server.Mode == "release" && adminPass == "" {
		stdLog.Printf("警告: 未设置 LS_DEFAULT_ADMIN_PASSWORD，已跳过默认管理员初始化")
		return
	}
	if err := models.InitDefaultAdmin(adminUser, adminPass); err != nil {
		stdLog.Printf("警告: 初始化默认管理员失败: %v", err)
	}
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
