//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/kazhutha/internal/types"
)

// MockServer 实现 types.ServerInterface 的 mock
type MockServer struct {
	mock.Mock
}

func (m *MockServer) IsMaintenanceMode() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockServer) GetOnlineCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockServer) GetClientByID(id string) types.ClientInterface {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(types.ClientInterface)
}

// ClientDirectory 按连接 ID 保存客户端的简单实现
type ClientDirectory struct {
	mu      sync.RWMutex
	clients map[string]types.ClientInterface
}

// NewClientDirectory 创建客户端目录
func NewClientDirectory(clients ...types.ClientInterface) *ClientDirectory {
	d := &ClientDirectory{clients: make(map[string]types.ClientInterface)}
	for _, c := range clients {
		d.Add(c)
	}
	return d
}

// Add 注册客户端
func (d *ClientDirectory) Add(c types.ClientInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clients[c.GetID()] = c
}

// Remove 注销客户端
func (d *ClientDirectory) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.clients, id)
}

func (d *ClientDirectory) IsMaintenanceMode() bool { return false }

func (d *ClientDirectory) GetOnlineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.clients)
}

func (d *ClientDirectory) GetClientByID(id string) types.ClientInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if c, ok := d.clients[id]; ok {
		return c
	}
	return nil
}
