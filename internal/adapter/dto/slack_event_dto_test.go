package dto

import (
	"testing"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
)

func TestParseInboundEvent_URLVerification(t *testing.T) {
	body := []byte(`{"type":"url_verification","challenge":"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P"}`)

	event, err := ParseInboundEvent(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != entity.EventTypeURLVerification {
		t.Errorf("Type = %q, want url_verification", event.Type)
	}
	if event.Challenge != "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P" {
		t.Errorf("unexpected challenge: %q", event.Challenge)
	}
}

func TestParseInboundEvent_FileShared(t *testing.T) {
	body := []byte(`{
		"type": "event_callback",
		"event_id": "Ev12345",
		"event": {
			"type": "file_shared",
			"file_id": "F12345",
			"channel_id": "C12345",
			"user_id": "U12345",
			"event_ts": "1700000000.000100"
		}
	}`)

	event, err := ParseInboundEvent(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != entity.EventTypeCallback {
		t.Fatalf("Type = %q, want event_callback", event.Type)
	}
	if event.FileShare == nil {
		t.Fatal("expected FileShare to be set")
	}
	if event.FileShare.FileID != "F12345" {
		t.Errorf("FileID = %q, want F12345", event.FileShare.FileID)
	}
	if event.FileShare.ChannelID != "C12345" {
		t.Errorf("ChannelID = %q, want C12345", event.FileShare.ChannelID)
	}
	if event.FileShare.EventTS != "1700000000.000100" {
		t.Errorf("EventTS = %q, want 1700000000.000100", event.FileShare.EventTS)
	}
}

func TestParseInboundEvent_IgnoredSubEvent(t *testing.T) {
	body := []byte(`{"type":"event_callback","event":{"type":"message","event_ts":"1700000000.000100"}}`)

	event, err := ParseInboundEvent(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.FileShare != nil {
		t.Error("expected no FileShare for message events")
	}
}

func TestParseInboundEvent_UnknownTopLevelType(t *testing.T) {
	body := []byte(`{"type":"app_rate_limited","minute_rate_limited":1700000000}`)

	event, err := ParseInboundEvent(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != entity.EventType("app_rate_limited") {
		t.Errorf("Type = %q, want app_rate_limited", event.Type)
	}
	if event.FileShare != nil {
		t.Error("expected no FileShare for non-callback events")
	}
}

func TestParseInboundEvent_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"type":`},
		{name: "missing type", body: `{"challenge":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseInboundEvent([]byte(tt.body)); err == nil {
				t.Error("expected error for malformed payload")
			}
		})
	}
}
