package room

import "time"

// 回收原因
const (
	ReclaimEmpty          = "empty"
	ReclaimEnded          = "ended"
	ReclaimAbandoned      = "abandoned"
	ReclaimWaitingTimeout = "waiting_timeout"
	ReclaimHostEnded      = "host_ended"
	ReclaimShutdown       = "shutdown"
)

// CleanupPolicy 房间回收策略
type CleanupPolicy struct {
	EndedGrace     time.Duration // 结束后保留多久，让客户端看到结算画面
	AbandonedGrace time.Duration // 全员断线后保留多久
	WaitingTTL     time.Duration // 大厅最长等待时间
}

// ReclaimReason 判断房间是否应被回收，不需要回收时返回空字符串
func (r *Room) ReclaimReason(now time.Time, p CleanupPolicy) string {
	if r.IsEmpty() {
		return ReclaimEmpty
	}

	if r.Phase == PhaseEnded {
		endedAt := r.EndedAt
		if endedAt.IsZero() {
			endedAt = r.LastActivityAt
		}
		if now.Sub(endedAt) > p.EndedGrace {
			return ReclaimEnded
		}
	}

	if r.AllDisconnected() && now.Sub(r.LastActivityAt) > p.AbandonedGrace {
		return ReclaimAbandoned
	}

	if r.Phase == PhaseWaiting && now.Sub(r.CreatedAt) > p.WaitingTTL {
		return ReclaimWaitingTimeout
	}

	return ""
}
