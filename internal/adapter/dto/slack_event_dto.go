// Package dto holds the raw wire shapes of inbound webhook payloads.
// Payloads are converted to domain entities at the boundary so the rest
// of the pipeline never probes untyped maps.
package dto

import (
	"encoding/json"
	"fmt"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
)

// EventEnvelope is the top-level Events API payload.
type EventEnvelope struct {
	Type      string      `json:"type"`
	Challenge string      `json:"challenge,omitempty"`
	TeamID    string      `json:"team_id,omitempty"`
	EventID   string      `json:"event_id,omitempty"`
	EventTime int64       `json:"event_time,omitempty"`
	Event     *InnerEvent `json:"event,omitempty"`
}

// InnerEvent is the nested event of an event_callback envelope. Fields
// for sub-types other than file_shared are left to decode as zero
// values; only file_shared is consumed downstream.
type InnerEvent struct {
	Type      string `json:"type"`
	FileID    string `json:"file_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	EventTS   string `json:"event_ts,omitempty"`
}

// ParseInboundEvent decodes a webhook body into a typed InboundEvent.
// A JSON error or an envelope without a type is malformed (400). An
// unknown sub-event parses into a callback with no FileShare, and an
// unknown top-level type into a bare event; both get acknowledged and
// discarded.
func ParseInboundEvent(body []byte) (*entity.InboundEvent, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding event payload: %w", err)
	}

	switch envelope.Type {
	case string(entity.EventTypeURLVerification):
		return &entity.InboundEvent{
			Type:      entity.EventTypeURLVerification,
			Challenge: envelope.Challenge,
		}, nil

	case string(entity.EventTypeCallback):
		event := &entity.InboundEvent{Type: entity.EventTypeCallback}
		if inner := envelope.Event; inner != nil && inner.Type == "file_shared" &&
			inner.FileID != "" && inner.ChannelID != "" {
			event.FileShare = &entity.FileShareEvent{
				FileID:    inner.FileID,
				ChannelID: inner.ChannelID,
				UserID:    inner.UserID,
				EventTS:   inner.EventTS,
			}
		}
		return event, nil

	default:
		if envelope.Type == "" {
			return nil, fmt.Errorf("event payload has no type")
		}
		// Other top-level types (app_rate_limited and the like) are
		// acknowledged and ignored.
		return &entity.InboundEvent{Type: entity.EventType(envelope.Type)}, nil
	}
}
