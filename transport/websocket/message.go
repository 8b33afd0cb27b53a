package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-local/transport/view"
)

const (
	actionState = "game:state"
	actionPlay  = "game:play"
	actionUndo  = "game:undo"
	actionReset = "game:reset"

	// actionError answers a message that could not be decoded.
	actionError = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Cell *int `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Game  *view.Game `json:"game,omitempty"`
	Error string     `json:"error,omitempty"`
}
