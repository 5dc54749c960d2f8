package storage

import (
	"encoding/json"
	"fmt"
)

// CurrentCodecVersion tags hall of fame payloads.
const CurrentCodecVersion = 1

type hallPayload struct {
	CodecVersion int          `json:"codec_version"`
	Entries      []HallRecord `json:"entries"`
}

// EncodeHallOfFame serializes hall entries for storage.
func EncodeHallOfFame(entries []HallRecord) ([]byte, error) {
	return json.Marshal(hallPayload{CodecVersion: CurrentCodecVersion, Entries: entries})
}

// DecodeHallOfFame parses a payload written by EncodeHallOfFame.
func DecodeHallOfFame(data []byte) ([]HallRecord, error) {
	var payload hallPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload.CodecVersion != CurrentCodecVersion {
		return nil, fmt.Errorf("%w: codec %d, want %d", ErrVersionMismatch, payload.CodecVersion, CurrentCodecVersion)
	}
	return payload.Entries, nil
}

func copyHall(entries []HallRecord) []HallRecord {
	out := make([]HallRecord, len(entries))
	for i, e := range entries {
		e.Genes = append([]float64(nil), e.Genes...)
		out[i] = e
	}
	return out
}
