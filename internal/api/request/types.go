package request

import "encoding/json"

// PromptRequest is the request body for POST /prompt. BoardValues stays raw
// so its shape can be validated before decoding.
type PromptRequest struct {
	BoardValues json.RawMessage `json:"boardValues"`
}

// MoveRequest is the request body for moving the board
type MoveRequest struct {
	Direction string `json:"direction"`
}
