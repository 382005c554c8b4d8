package models

import (
	"encoding/json"
	"fmt"
)

// Version is the unit exchanged with the server: a numbered batch of
// operations. It is built during sync and discarded once merged.
type Version struct {
	Version    uint64      `json:"version"`
	Operations []Operation `json:"operations"`
}

// Encode serializes the version into the blob stored by the server
func (v *Version) Encode() ([]byte, error) {
	if v.Operations == nil {
		v.Operations = []Operation{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version %d: %w", v.Version, err)
	}
	return data, nil
}

// DecodeVersion parses a blob produced by Encode
func DecodeVersion(data []byte) (*Version, error) {
	var v Version
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal version: %w", err)
	}
	if v.Version == 0 {
		return nil, fmt.Errorf("version number must start at 1")
	}
	return &v, nil
}
