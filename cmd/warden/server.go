package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/wardenbot/warden/automod/cachestore"
	"github.com/wardenbot/warden/automod/commands"
	"github.com/wardenbot/warden/automod/countstore"
	"github.com/wardenbot/warden/automod/engine"
	"github.com/wardenbot/warden/automod/rules"
	"github.com/wardenbot/warden/automod/setstore"
	"github.com/wardenbot/warden/chat"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	gatewayHost string
	botToken    string
	logger      *slog.Logger
	engine      *engine.Engine
	commands    *commands.Handler
	rdb         *redis.Client
	lastSeq     int64
}

type Config struct {
	GatewayHost     string
	APIHost         string
	BotToken        string
	OwnerID         int64
	LogChannelID    int64
	RedisURL        string
	SlackWebhookURL string
	SetsFileJSON    string
	APIRateLimit    int
	Logger          *slog.Logger
}

func NewServer(config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if !strings.HasPrefix(config.GatewayHost, "ws") {
		return nil, fmt.Errorf("specified gateway host must include 'ws://' or 'wss://'")
	}
	if config.OwnerID <= 0 {
		return nil, fmt.Errorf("owner principal identifier must be a positive integer")
	}
	if config.LogChannelID <= 0 {
		return nil, fmt.Errorf("log channel identifier must be a positive integer")
	}
	owner := chat.Snowflake(config.OwnerID)
	logChannel := chat.Snowflake(config.LogChannelID)

	client := chat.NewAPIClient(config.APIHost, config.BotToken, config.APIRateLimit)

	// verify the credential before subscribing to anything
	self, err := client.Me(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("connecting to platform failed (bad token?): %w", err)
	}
	logger.Info("authenticated with platform", "self", self.ID, "username", self.Username)

	sets := setstore.NewMemSetStore()
	if config.SetsFileJSON != "" {
		if err := sets.LoadFromFileJSON(config.SetsFileJSON); err != nil {
			return nil, fmt.Errorf("initializing in-process setstore: %v", err)
		}
		logger.Info("loaded set config from JSON", "path", config.SetsFileJSON)
	}
	// the owner is always allow-listed at startup
	if err := sets.AddToSet(context.TODO(), setstore.AllowListSetName, owner.String()); err != nil {
		return nil, fmt.Errorf("seeding allow-list: %v", err)
	}

	var counters countstore.CountStore
	var cache cachestore.CacheStore
	var rdb *redis.Client
	if config.RedisURL != "" {
		// generic client, for cursor state
		opt, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL: %v", err)
		}
		rdb = redis.NewClient(opt)
		// check redis connection
		_, err = rdb.Ping(context.TODO()).Result()
		if err != nil {
			return nil, fmt.Errorf("redis ping failed: %v", err)
		}

		cnt, err := countstore.NewRedisCountStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis countstore: %v", err)
		}
		counters = cnt

		cache = cachestore.NewRedisCacheStore(rdb, 30*time.Minute)
	} else {
		counters = countstore.NewMemCountStore()
		cache = cachestore.NewMemCacheStore(5_000, 30*time.Minute)
	}

	eng := engine.Engine{
		Logger:          logger,
		Client:          client,
		Rules:           rules.DefaultRules(),
		Counters:        counters,
		Sets:            sets,
		Cache:           cache,
		Notifier:        &engine.DirectMessageNotifier{Client: client},
		AuditLog:        &engine.ChannelAuditLogger{Client: client, ChannelID: logChannel},
		SelfID:          self.ID,
		SlackWebhookURL: config.SlackWebhookURL,
	}

	cmds := &commands.Handler{
		Logger:         logger,
		Client:         client,
		Sets:           sets,
		Owner:          owner,
		AuditChannelID: logChannel,
	}

	s := &Server{
		gatewayHost: config.GatewayHost,
		botToken:    config.BotToken,
		logger:      logger,
		engine:      &eng,
		commands:    cmds,
		rdb:         rdb,
	}

	return s, nil
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

var cursorKey = "warden/seq"

func (s *Server) ReadLastCursor(ctx context.Context) (int64, error) {
	// if redis isn't configured, just skip
	if s.rdb == nil {
		s.logger.Info("redis not configured, skipping cursor read")
		return 0, nil
	}

	val, err := s.rdb.Get(ctx, cursorKey).Int64()
	if err == redis.Nil {
		s.logger.Info("no pre-existing cursor in redis")
		return 0, nil
	}
	s.logger.Info("successfully found prior subscription cursor seq in redis", "seq", val)
	return val, err
}

func (s *Server) PersistCursor(ctx context.Context) error {
	// if redis isn't configured, just skip
	if s.rdb == nil {
		return nil
	}
	seq := atomic.LoadInt64(&s.lastSeq)
	if seq <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, cursorKey, seq, 14*24*time.Hour).Err()
}

// this method runs in a loop, persisting the current cursor state every 5 seconds
func (s *Server) RunPersistCursor(ctx context.Context) error {

	// if redis isn't configured, just skip
	if s.rdb == nil {
		return nil
	}
	ticker := time.NewTicker(5 * time.Second)
	for {
		select {
		case <-ctx.Done():
			if atomic.LoadInt64(&s.lastSeq) >= 1 {
				s.logger.Info("persisting final cursor seq value", "seq", s.lastSeq)
				if err := s.PersistCursor(ctx); err != nil {
					s.logger.Error("failed to persist cursor", "err", err)
				}
			}
			return nil
		case <-ticker.C:
			if atomic.LoadInt64(&s.lastSeq) >= 1 {
				if err := s.PersistCursor(ctx); err != nil {
					s.logger.Error("failed to persist cursor", "err", err)
				}
			}
		}
	}
}
