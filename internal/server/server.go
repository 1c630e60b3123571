package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/kazhutha/internal/config"
	"github.com/palemoky/kazhutha/internal/server/core"
	"github.com/palemoky/kazhutha/internal/server/handler"
	"github.com/palemoky/kazhutha/internal/server/storage"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 来源验证在 handleWebSocket 中由 OriginChecker 完成
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	EnableCompression: false,
}

// Server WebSocket 服务器
type Server struct {
	config  *config.Config
	redis   *redis.Client // 未启用 Redis 时为 nil
	service *core.Service
	handler *handler.Handler

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 安全组件
	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter
	ipFilter       *IPFilter

	// 连接控制
	maxConnections int
	semaphore      chan struct{}

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	httpServer *http.Server
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	s := &Server{
		config:  cfg,
		clients: make(map[string]*Client),
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		ipFilter:       NewIPFilter(cfg.Security.AllowedIPs, cfg.Security.BlockedIPs),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}

	deps := core.Deps{Clients: s}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			s.rateLimiter.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}

		s.redis = rdb
		deps.RoomStore = storage.NewRedisStore(rdb)
		deps.StatsStore = storage.NewStatsStore(rdb)
		log.Printf("🗄️ 已连接 Redis %s", cfg.Redis.Addr)
	} else {
		log.Println("🗄️ 未启用 Redis，房间快照和战绩不会持久化")
	}

	s.service = core.New(core.OptionsFromConfig(&cfg.Game), deps)
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.service.PurgeStaleMirrors(ctx); err != nil {
			log.Printf("⚠️ 清理残留房间快照失败: %v", err)
		}
	}
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:  s,
		Service: s.service,
	})

	log.Printf("🔒 安全配置: 连接限制=%d/s, 消息限制=%d/s, 最大连接数=%d",
		cfg.Security.RateLimit.MaxPerSecond, cfg.Security.MessageLimit.MaxPerSecond, cfg.Server.MaxConnections)

	return s, nil
}

// Service 游戏引擎
func (s *Server) Service() *core.Service {
	return s.service
}

// Router 注册 HTTP 路由
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWebSocket)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/rooms", s.handleRooms).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	return r
}

// Start 启动服务器，阻塞直到 ctx 取消或监听失败
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	go s.service.Run(ctx)
	go s.monitorStats(ctx)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d, 默认编码: %s)", addr, runtime.NumCPU(), s.config.Server.Codec)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleRooms 房间概要
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Rooms().Summary())
}

// handleLeaderboard 输的次数排行
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	store := s.service.StatsStore()
	if store == nil {
		http.Error(w, "Stats disabled", http.StatusServiceUnavailable)
		return
	}

	limit := defaultLeaderboardLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	entries, err := store.GetLeaderboard(ctx, limit)
	if err != nil {
		log.Printf("获取排行榜失败: %v", err)
		http.Error(w, "Stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("写入响应失败: %v", err)
	}
}
