package room

// Phase 房间阶段
type Phase string

const (
	PhaseWaiting Phase = "waiting" // 大厅，尚未开局
	PhaseActive  Phase = "active"  // 对局中（GameOver 后仍保持 active，直到房主结束或被回收）
	PhaseEnded   Phase = "ended"   // 房主已结束，终态
)
