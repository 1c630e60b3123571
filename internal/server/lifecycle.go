package server

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
)

const (
	monitorInterval       = 30 * time.Second
	shutdownCheckInterval = time.Second
)

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats(ctx context.Context) {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		summary := s.service.Rooms().Summary()

		log.Printf("📊 [监控] 在线: %d | 房间: %d (进行中 %d) | 待重连: %d | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
			s.GetOnlineCount(),
			summary.Total,
			summary.Active,
			s.service.Sessions().Len(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// EnterMaintenanceMode 进入维护模式：拒绝新连接和新房间
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	s.BroadcastToLobby(codec.MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    protocol.ErrCodeServerMaintenance,
		Message: "👷🏻‍♂️ 维护模式：停止新的房间创建",
	}))

	log.Println("🔧 进入维护模式：停止新连接和房间创建")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 优雅关闭：等待进行中的对局结束，最多等待 timeout
func (s *Server) GracefulShutdown(timeout time.Duration) {
	s.EnterMaintenanceMode()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(shutdownCheckInterval)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		active := s.service.Rooms().Summary().Active
		if active == 0 {
			log.Println("✅ 所有对局已结束")
			break
		}
		log.Printf("⏳ 等待 %d 个对局结束...", active)
		<-ticker.C
	}

	if active := s.service.Rooms().Summary().Active; active > 0 {
		log.Printf("⚠️ 超时，仍有 %d 个对局进行中，强制关闭", active)
	}

	s.Shutdown()
}

// Shutdown 关闭服务器：停止 HTTP 监听，回收所有房间和计时器，断开所有连接
func (s *Server) Shutdown() {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Printf("HTTP 服务关闭失败: %v", err)
		}
		cancel()
	}

	// 先回收房间，让仍在线的玩家收到 room_closed
	s.service.Close()

	s.clientsMu.RLock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.RUnlock()

	s.rateLimiter.Close()

	if s.redis != nil {
		_ = s.redis.Close()
	}

	log.Println("服务器已关闭")
}
