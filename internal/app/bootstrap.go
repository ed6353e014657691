package app

import (
	"errors"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/devserver"
	"github.com/storefront-next/internal/models"
)

// BuildRunner 构建联调后端服务运行器
func BuildRunner(cfg *config.Config) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if models.DB == nil {
		return nil, errors.New("database not initialized")
	}

	var sessions devserver.SessionStore
	if cache.Enabled() {
		sessions = devserver.NewRedisSessionStore(cfg.Payment.SessionTTLHours)
	} else {
		sessions = devserver.NewMemorySessionStore(cfg.Payment.SessionTTLHours)
	}

	handler := devserver.NewHandler(models.DB, sessions, cfg.Payment)
	engine := devserver.SetupRouter(cfg, handler)
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	return NewRunner(NewHTTPService(addr, engine)), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	runner, err := BuildRunner(opts.Config)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr)
	return RunWithOptions(runner, opts)
}
