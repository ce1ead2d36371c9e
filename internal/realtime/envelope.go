// AngelaMos | 2026
// envelope.go

package realtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

const (
	EventJoinHaven  = "join_haven"
	EventJoined     = "joined"
	EventNewMessage = "new_message"
	EventError      = "error"
)

var errBadHavenID = errors.New("haven_id must be a positive integer")

// Envelope is the frame format in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinedPayload struct {
	HavenID int64 `json:"haven_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func HavenRoom(havenID int64) string {
	return "haven_" + strconv.FormatInt(havenID, 10)
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// parseJoin accepts {"haven_id": 5} as well as {"haven_id": "5"}.
func parseJoin(data json.RawMessage) (int64, error) {
	var payload struct {
		HavenID json.RawMessage `json:"haven_id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, errBadHavenID
	}

	raw := bytes.TrimSpace(payload.HavenID)
	if len(raw) == 0 {
		return 0, errBadHavenID
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, errBadHavenID
		}
		text = strings.TrimSpace(text)
	}

	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadHavenID
	}
	return id, nil
}
