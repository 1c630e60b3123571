package server

import (
	"log"
	"net/http"

	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
	"github.com/palemoky/kazhutha/internal/types"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := GetClientIP(r)

	// 维护模式检查（最优先）
	if s.IsMaintenanceMode() {
		log.Printf("🔧 维护模式，拒绝新连接: %s", clientIP)
		http.Error(w, "Server is under maintenance, please try again later",
			http.StatusServiceUnavailable)
		return
	}

	// 连接数限制，连接结束时释放
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.Printf("🚫 达到最大连接数限制 (%d), IP: %s", s.maxConnections, clientIP)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}
	release := func() { <-s.semaphore }

	if !s.ipFilter.IsAllowed(clientIP) {
		release()
		log.Printf("🚫 IP %s 被过滤器拒绝", clientIP)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if !s.originChecker.Check(r) {
		release()
		log.Printf("🚫 来源验证失败: %s (IP: %s)", r.Header.Get("Origin"), clientIP)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	if !s.rateLimiter.Allow(clientIP) {
		release()
		log.Printf("🚫 IP %s 请求过于频繁", clientIP)
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	// 编码协商：?codec=protobuf 使用二进制帧，其余回退到配置默认值
	name := r.URL.Query().Get("codec")
	if name == "" {
		name = s.config.Server.Codec
	}
	frameCodec := codec.ByName(name)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		release()
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn, frameCodec)
	client.IP = clientIP
	client.release = release
	s.registerClient(client)

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		ConnectionID: client.ID,
	}))

	log.Printf("✅ 连接 %s 已建立 (IP: %s, 编码: %s)", client.ID, clientIP, frameCodec.Name())

	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端并释放连接名额
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	_, ok := s.clients[client.ID]
	delete(s.clients, client.ID)
	s.clientsMu.Unlock()

	if ok {
		client.Close()
		if client.release != nil {
			client.release()
		}
		log.Printf("❌ 连接 %s 已断开", client.ID)
	}
}

// GetClientByID 按连接 ID 查找客户端
func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}
