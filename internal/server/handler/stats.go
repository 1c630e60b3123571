package handler

import (
	"github.com/palemoky/kazhutha/internal/protocol"
	"github.com/palemoky/kazhutha/internal/protocol/codec"
	"github.com/palemoky/kazhutha/internal/types"
)

// handleGetStats 查询玩家战绩
func (h *Handler) handleGetStats(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParseStringOr(msg, func(name string) protocol.GetStatsPayload {
		return protocol.GetStatsPayload{PlayerName: name}
	})
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	reply(client, protocol.MsgError, h.service.GetStats(client, payload.PlayerName))
}
