package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 5000
	defaultMaxConnections = 2000
	defaultCodec          = "json"
	defaultRedisAddr      = "localhost:6379"

	defaultMaxPlayers      = 6
	defaultMinPlayers      = 2
	defaultMaxNameLength   = 20
	defaultSessionTTL      = 600  // 10 分钟
	defaultSweepInterval   = 60   // 1 分钟
	defaultEndedGrace      = 300  // 5 分钟
	defaultAbandonedGrace  = 600  // 10 分钟
	defaultWaitingTTL      = 7200 // 2 小时
	defaultEndDeleteDelay  = 30
	defaultHostEndCooldown = 10
	defaultShutdownTimeout = 30

	defaultRateMaxPerSecond    = 10
	defaultRateMaxPerMinute    = 60
	defaultRateBanDuration     = 60
	defaultMessageMaxPerSecond = 20
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
	LogFile        string `yaml:"log_file"` // 为空时输出到 stdout
	Codec          string `yaml:"codec"`    // json / protobuf，客户端可通过 ?codec= 覆盖
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置，时长单位均为秒
type GameConfig struct {
	MaxPlayers      int `yaml:"max_players"`
	MinPlayers      int `yaml:"min_players"`
	MaxNameLength   int `yaml:"max_name_length"`
	SessionTTL      int `yaml:"session_ttl"`       // 断线重连窗口
	SweepInterval   int `yaml:"sweep_interval"`    // 清理周期
	EndedGrace      int `yaml:"ended_grace"`       // 已结束房间保留时间
	AbandonedGrace  int `yaml:"abandoned_grace"`   // 全员离线房间保留时间
	WaitingTTL      int `yaml:"waiting_ttl"`       // 未开局房间最长等待时间
	EndDeleteDelay  int `yaml:"end_delete_delay"`  // 房主结束后延迟删除
	HostEndCooldown int `yaml:"host_end_cooldown"` // 房主结束操作冷却
	ShutdownTimeout int `yaml:"shutdown_timeout"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"`
	AllowedIPs     []string           `yaml:"allowed_ips"` // 非空时只允许这些 IP
	BlockedIPs     []string           `yaml:"blocked_ips"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
}

// RateLimitConfig 连接速率限制
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 秒
}

// MessageLimitConfig 消息速率限制
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// SessionTTLDuration 返回断线重连窗口
func (c *GameConfig) SessionTTLDuration() time.Duration { return seconds(c.SessionTTL) }

// SweepIntervalDuration 返回清理周期
func (c *GameConfig) SweepIntervalDuration() time.Duration { return seconds(c.SweepInterval) }

// EndedGraceDuration 返回已结束房间的保留时间
func (c *GameConfig) EndedGraceDuration() time.Duration { return seconds(c.EndedGrace) }

// AbandonedGraceDuration 返回全员离线房间的保留时间
func (c *GameConfig) AbandonedGraceDuration() time.Duration { return seconds(c.AbandonedGrace) }

// WaitingTTLDuration 返回未开局房间的最长等待时间
func (c *GameConfig) WaitingTTLDuration() time.Duration { return seconds(c.WaitingTTL) }

// EndDeleteDelayDuration 返回房主结束游戏后的删除延迟
func (c *GameConfig) EndDeleteDelayDuration() time.Duration { return seconds(c.EndDeleteDelay) }

// HostEndCooldownDuration 返回房主结束操作的冷却时间
func (c *GameConfig) HostEndCooldownDuration() time.Duration { return seconds(c.HostEndCooldown) }

// ShutdownTimeoutDuration 返回优雅关闭的最长等待时间
func (c *GameConfig) ShutdownTimeoutDuration() time.Duration { return seconds(c.ShutdownTimeout) }

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration { return seconds(c.BanDuration) }

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg
}

// applyDefaults 设置默认值
//
//nolint:gocyclo // flat list of zero-value checks
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = defaultMaxConnections
	}
	if cfg.Server.Codec == "" {
		cfg.Server.Codec = defaultCodec
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = defaultRedisAddr
	}

	g := &cfg.Game
	if g.MaxPlayers == 0 {
		g.MaxPlayers = defaultMaxPlayers
	}
	if g.MinPlayers == 0 {
		g.MinPlayers = defaultMinPlayers
	}
	if g.MaxNameLength == 0 {
		g.MaxNameLength = defaultMaxNameLength
	}
	if g.SessionTTL == 0 {
		g.SessionTTL = defaultSessionTTL
	}
	if g.SweepInterval == 0 {
		g.SweepInterval = defaultSweepInterval
	}
	if g.EndedGrace == 0 {
		g.EndedGrace = defaultEndedGrace
	}
	if g.AbandonedGrace == 0 {
		g.AbandonedGrace = defaultAbandonedGrace
	}
	if g.WaitingTTL == 0 {
		g.WaitingTTL = defaultWaitingTTL
	}
	if g.EndDeleteDelay == 0 {
		g.EndDeleteDelay = defaultEndDeleteDelay
	}
	if g.HostEndCooldown == 0 {
		g.HostEndCooldown = defaultHostEndCooldown
	}
	if g.ShutdownTimeout == 0 {
		g.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &cfg.Security
	if len(s.AllowedOrigins) == 0 {
		s.AllowedOrigins = []string{"*"}
	}
	if s.RateLimit.MaxPerSecond == 0 {
		s.RateLimit.MaxPerSecond = defaultRateMaxPerSecond
	}
	if s.RateLimit.MaxPerMinute == 0 {
		s.RateLimit.MaxPerMinute = defaultRateMaxPerMinute
	}
	if s.RateLimit.BanDuration == 0 {
		s.RateLimit.BanDuration = defaultRateBanDuration
	}
	if s.MessageLimit.MaxPerSecond == 0 {
		s.MessageLimit.MaxPerSecond = defaultMessageMaxPerSecond
	}
}

// applyEnv 环境变量覆盖配置文件
func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v, ok := envInt("SERVER_PORT"); ok {
		cfg.Server.Port = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v, ok := envInt("GAME_SESSION_TTL"); ok {
		cfg.Game.SessionTTL = v
	}
	if v := os.Getenv("SECURITY_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Security.AllowedOrigins = origins
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
