package core

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/palemoky/kazhutha/internal/apperrors"
	"github.com/palemoky/kazhutha/internal/config"
	"github.com/palemoky/kazhutha/internal/game/room"
	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
	"github.com/palemoky/kazhutha/internal/server/session"
	"github.com/palemoky/kazhutha/internal/types"
)

// storeTimeout Redis 镜像写入的超时
const storeTimeout = 2 * time.Second

// Options 引擎参数
type Options struct {
	Limits          room.Limits
	Cleanup         room.CleanupPolicy
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	EndDeleteDelay  time.Duration
	HostEndCooldown time.Duration
	MaxNameLength   int
	Now             func() time.Time
}

// OptionsFromConfig 从游戏配置构建引擎参数
func OptionsFromConfig(cfg *config.GameConfig) Options {
	return Options{
		Limits: room.Limits{MaxPlayers: cfg.MaxPlayers, MinPlayers: cfg.MinPlayers},
		Cleanup: room.CleanupPolicy{
			EndedGrace:     cfg.EndedGraceDuration(),
			AbandonedGrace: cfg.AbandonedGraceDuration(),
			WaitingTTL:     cfg.WaitingTTLDuration(),
		},
		SessionTTL:      cfg.SessionTTLDuration(),
		SweepInterval:   cfg.SweepIntervalDuration(),
		EndDeleteDelay:  cfg.EndDeleteDelayDuration(),
		HostEndCooldown: cfg.HostEndCooldownDuration(),
		MaxNameLength:   cfg.MaxNameLength,
	}
}

// Deps 引擎依赖，存储为 nil 时跳过对应的写入
type Deps struct {
	Clients    types.ServerInterface
	RoomStore  types.RoomStore
	StatsStore types.StatsStore
}

// Service 游戏引擎服务：把玩家意图路由到房间目录和会话注册表，
// 并把结果按接收者过滤后推送给房间内的连接
type Service struct {
	opts     Options
	now      func() time.Time
	rooms    *room.Manager
	sessions *session.Registry

	clients    types.ServerInterface
	roomStore  types.RoomStore
	statsStore types.StatsStore

	cooldowns  map[string]time.Time // connID -> 上次结束游戏的时间
	cooldownMu sync.Mutex

	closeOnce sync.Once
}

// New 创建引擎服务
func New(opts Options, deps Deps) *Service {
	if opts.Limits.MaxPlayers == 0 {
		opts.Limits = room.DefaultLimits
	}
	if opts.MaxNameLength == 0 {
		opts.MaxNameLength = 20
	}
	if opts.SweepInterval == 0 {
		opts.SweepInterval = time.Minute
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Service{
		opts:       opts,
		now:        now,
		rooms:      room.NewManager(opts.Limits, now),
		clients:    deps.Clients,
		roomStore:  deps.RoomStore,
		statsStore: deps.StatsStore,
		cooldowns:  make(map[string]time.Time),
	}
	s.sessions = session.NewRegistry(opts.SessionTTL, now, s.expireSession)
	return s
}

// Rooms 房间目录
func (s *Service) Rooms() *room.Manager {
	return s.rooms
}

// Sessions 会话注册表
func (s *Service) Sessions() *session.Registry {
	return s.sessions
}

// StatsStore 战绩存储，未启用时为 nil
func (s *Service) StatsStore() types.StatsStore {
	return s.statsStore
}

// validateName 去掉首尾空白后检查长度
func (s *Service) validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > s.opts.MaxNameLength {
		return "", apperrors.ErrInvalidName
	}
	return name, nil
}

// sessionOf 返回连接在房间内对应的会话 ID，不在房间时为空
func sessionOf(r *room.Room, connID string) string {
	if p := r.PlayerByConnection(connID); p != nil {
		return p.SessionID
	}
	return ""
}

// send 向指定连接发送消息，连接不存在时忽略
func (s *Service) send(connID string, msg *protocol.Message) {
	if connID == "" || s.clients == nil {
		return
	}
	if c := s.clients.GetClientByID(connID); c != nil {
		c.SendMessage(msg)
	}
}

// broadcast 向房间内每个在线玩家推送按其身份过滤后的快照
// skipSession 非空时跳过该玩家
func (s *Service) broadcast(r *room.Room, skipSession string, build func(view *protocol.RoomView) any, msgType protocol.MessageType) {
	for _, p := range r.Players {
		if !p.Connected || p.SessionID == skipSession {
			continue
		}
		view := room.FilterForPlayer(r, p.SessionID)
		s.send(p.ConnectionID, codec.MustNewMessage(msgType, build(view)))
	}
}

// persist 把房间快照异步写入 Redis
func (s *Service) persist(r *room.Room) {
	s.persistWithTTL(r, 0)
}

// persistWithTTL 写入快照，ttl 大于 0 时随后缩短快照的过期时间
func (s *Service) persistWithTTL(r *room.Room, ttl time.Duration) {
	if s.roomStore == nil {
		return
	}
	data := r.ToRoomData()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := s.roomStore.SaveRoom(ctx, data.ID, data); err != nil {
			log.Printf("⚠️ 保存房间 %s 快照失败: %v", data.ID, err)
			return
		}
		if ttl <= 0 {
			return
		}
		if err := s.roomStore.SetRoomExpiration(ctx, data.ID, ttl); err != nil {
			log.Printf("⚠️ 设置房间 %s 快照过期失败: %v", data.ID, err)
		}
	}()
}

// PurgeStaleMirrors 删除目录中不存在的房间快照，返回删除数量
// 进程重启后 Redis 里残留的快照没有对应的内存房间
func (s *Service) PurgeStaleMirrors(ctx context.Context) (int, error) {
	if s.roomStore == nil {
		return 0, nil
	}
	ids, err := s.roomStore.GetAllRoomIDs(ctx)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, id := range ids {
		if s.rooms.Get(id) != nil {
			continue
		}
		if err := s.roomStore.DeleteRoom(ctx, id); err != nil {
			return purged, err
		}
		purged++
	}
	if purged > 0 {
		log.Printf("🧹 已清理 %d 个残留房间快照", purged)
	}
	return purged, nil
}

// unpersist 删除房间快照
func (s *Service) unpersist(roomID string) {
	if s.roomStore == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := s.roomStore.DeleteRoom(ctx, roomID); err != nil {
			log.Printf("⚠️ 删除房间 %s 快照失败: %v", roomID, err)
		}
	}()
}
