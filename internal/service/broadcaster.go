package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	Broadcast(msgType string, payload interface{})
}

// MsgGameRecorded is sent to results feed subscribers after scoring
const MsgGameRecorded = "game_recorded"
