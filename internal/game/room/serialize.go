package room

import (
	"github.com/palemoky/kazhutha/internal/server/storage"
)

// ToRoomData 将 Room 转换为可序列化的快照，只记录手牌张数
func (r *Room) ToRoomData() *storage.RoomData {
	data := &storage.RoomData{
		ID:             r.ID,
		Phase:          string(r.Phase),
		Players:        make([]storage.PlayerData, 0, len(r.Players)),
		CurrentTurn:    r.CurrentTurn,
		RoundNumber:    r.RoundNumber,
		LeadSuit:       string(r.LeadSuit),
		PileSize:       len(r.CenterPile),
		GameOver:       r.GameOver,
		EndReason:      r.EndReason,
		EndedBy:        r.EndedBy,
		CreatedAt:      r.CreatedAt.Unix(),
		LastActivityAt: r.LastActivityAt.Unix(),
	}
	if host := r.Host(); host != nil {
		data.HostID = host.ID
	}
	if r.Loser != nil {
		data.LoserName = r.Loser.Name
	}
	if !r.EndedAt.IsZero() {
		data.EndedAt = r.EndedAt.Unix()
	}

	for _, p := range r.Players {
		data.Players = append(data.Players, storage.PlayerData{
			ID:        p.ID,
			Name:      p.Name,
			HandCount: len(p.Hand),
			IsSafe:    p.IsSafe,
			IsHost:    p.IsHost,
			Connected: p.Connected,
		})
	}

	return data
}
