package worker

import (
	"context"
	"errors"

	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 队列消费服务，包装 asynq.Server 以接入统一生命周期
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 创建队列消费服务并注册全部任务处理器
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}

	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server: asynq.NewServer(opt, serverCfg),
		mux:    mux,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string { return "worker" }

// Start 阻塞消费，直到 Stop 触发 Shutdown
func (s *Service) Start(_ context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	return s.server.Run(s.mux)
}

// Stop 优雅停止，等在途任务跑完
func (s *Service) Stop(context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}
