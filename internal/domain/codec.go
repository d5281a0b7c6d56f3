package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeState renders the state as indented JSON.
func EncodeState(state *SyncState) (string, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(data), nil
}

// DecodeState parses a state document. Blank documents decode to an empty
// state. Field names match case-insensitively, so documents written with
// PascalCase keys still load.
func DecodeState(body string) (*SyncState, error) {
	var state SyncState
	if strings.TrimSpace(body) == "" {
		return &state, nil
	}
	if err := json.Unmarshal([]byte(body), &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}
