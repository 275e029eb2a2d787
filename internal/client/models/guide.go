package models

import "encoding/json"

// Guide and Match are passed through the client unchanged; their shape is
// owned by the server.
type (
	Guide = json.RawMessage
	Match = json.RawMessage
)
