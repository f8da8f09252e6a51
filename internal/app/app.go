package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkbot/internal/config"
	"github.com/MrSnakeDoc/linkbot/internal/dispatch"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/platforms"
	"github.com/MrSnakeDoc/linkbot/internal/redis"
	redisstore "github.com/MrSnakeDoc/linkbot/internal/store/redis"
	"github.com/MrSnakeDoc/linkbot/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	plugin := config.NewPluginSource(cfg)
	if err := plugin.Check(); err != nil {
		loggerClient.Warn("plugin options unreadable, using environment fallback", logger.Error(err))
	}

	list, err := platforms.Build(cfg.PlatformOrder, platforms.Settings{
		UserAgent:   cfg.UserAgent,
		GitTimeout:  cfg.GitTimeout,
		BilibiliAPI: cfg.BilibiliAPI,
		GitHubAPI:   cfg.GitHubAPI,
		GiteeAPI:    cfg.GiteeAPI,
		YouTubeAPI:  cfg.YouTubeAPI,
		Keys:        plugin,
	})
	if err != nil {
		loggerClient.Errorf("Invalid platform configuration: %v", err)
		os.Exit(1)
	}
	warnMissingYouTubeKey(list, plugin, loggerClient)

	var (
		opts        []dispatch.Option
		redisClient *goredis.Client
		cache       *redisstore.ReplyCache
	)
	if cfg.CacheEnabled {
		// Fail fast: an enabled cache that cannot reach Redis is a misconfiguration.
		redisClient, err = redis.New(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		cache = redisstore.NewReplyCache(redisClient, cfg.CacheTTL)
		opts = append(opts, dispatch.WithCache(cache))
		loggerClient.Info("reply cache enabled", logger.Duration("ttl", cfg.CacheTTL))
	} else {
		loggerClient.Info("reply cache disabled")
	}

	dispatcher, err := dispatch.New(list, loggerClient, opts...)
	if err != nil {
		loggerClient.Errorf("Failed to build dispatcher: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("link previews enabled", logger.Strings("platforms", dispatcher.Platforms()))

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		Dispatcher:   dispatcher,
		ReplyCache:   cache,
		YouTubeKey:   plugin,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
	}
}

// warnMissingYouTubeKey logs once at startup; every YouTube link will get the
// apology until a key is configured.
func warnMissingYouTubeKey(list []platforms.Platform, keys platforms.KeySource, log logger.Logger) {
	for _, p := range list {
		if p.Name() == platforms.NameYouTube && keys.YouTubeKey() == "" {
			log.Warn("youtube_key is not configured, YouTube links will not be previewed")
			return
		}
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ linkbot stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
