package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 8080
  max_connections: 500
  codec: protobuf

redis:
  enabled: true
  addr: "redis:6379"
  password: "secret"
  db: 1

game:
  max_players: 5
  session_ttl: 300
  sweep_interval: 30
  ended_grace: 120
  end_delete_delay: 15
  host_end_cooldown: 5

security:
  allowed_origins:
    - "http://localhost:3000"
    - "https://example.com"
  blocked_ips:
    - "10.0.0.9"
  rate_limit:
    max_per_second: 20
    max_per_minute: 120
    ban_duration: 120
  message_limit:
    max_per_second: 50
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Server.MaxConnections)
	assert.Equal(t, "protobuf", cfg.Server.Codec)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 5, cfg.Game.MaxPlayers)
	assert.Equal(t, 300, cfg.Game.SessionTTL)
	assert.Equal(t, 15, cfg.Game.EndDeleteDelay)
	assert.Len(t, cfg.Security.AllowedOrigins, 2)
	assert.Equal(t, []string{"10.0.0.9"}, cfg.Security.BlockedIPs)
	assert.Empty(t, cfg.Security.AllowedIPs)

	// 未填写的字段使用默认值
	assert.Equal(t, defaultMinPlayers, cfg.Game.MinPlayers)
	assert.Equal(t, defaultWaitingTTL, cfg.Game.WaitingTTL)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: :::"), 0o600))

	cfg, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "empty.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`{}`), 0o600))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultMaxConnections, cfg.Server.MaxConnections)
	assert.Equal(t, defaultCodec, cfg.Server.Codec)
	assert.Equal(t, defaultRedisAddr, cfg.Redis.Addr)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, defaultMaxPlayers, cfg.Game.MaxPlayers)
	assert.Equal(t, defaultSessionTTL, cfg.Game.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
}

func TestDefault(t *testing.T) {
	// Not parallel: Default() reads environment variables

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Game.SessionTTLDuration())
}

func TestGameConfig_DurationMethods(t *testing.T) {
	t.Parallel()

	cfg := &GameConfig{
		SessionTTL:      600,
		SweepInterval:   60,
		EndedGrace:      300,
		AbandonedGrace:  600,
		WaitingTTL:      7200,
		EndDeleteDelay:  30,
		HostEndCooldown: 10,
		ShutdownTimeout: 45,
	}

	assert.Equal(t, 10*time.Minute, cfg.SessionTTLDuration())
	assert.Equal(t, time.Minute, cfg.SweepIntervalDuration())
	assert.Equal(t, 5*time.Minute, cfg.EndedGraceDuration())
	assert.Equal(t, 10*time.Minute, cfg.AbandonedGraceDuration())
	assert.Equal(t, 2*time.Hour, cfg.WaitingTTLDuration())
	assert.Equal(t, 30*time.Second, cfg.EndDeleteDelayDuration())
	assert.Equal(t, 10*time.Second, cfg.HostEndCooldownDuration())
	assert.Equal(t, 45*time.Second, cfg.ShutdownTimeoutDuration())
}

func TestRateLimitConfig_BanDurationTime(t *testing.T) {
	t.Parallel()

	cfg := &RateLimitConfig{BanDuration: 120}
	assert.Equal(t, 120*time.Second, cfg.BanDurationTime())
}

func TestLoadFromEnv(t *testing.T) {
	// Not parallel because it modifies environment variables

	t.Setenv("SERVER_HOST", "env-host")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("REDIS_ADDR", "env-redis:6380")
	t.Setenv("GAME_SESSION_TTL", "120")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.com, http://b.com")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "env.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`{}`), 0o600))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "env-host", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "env-redis:6380", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 120, cfg.Game.SessionTTL)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.Security.AllowedOrigins)
}
