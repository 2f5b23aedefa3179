package dto

import "time"

// LiveMessageType distinguishes the frames sent on the live stream.
type LiveMessageType string

const (
	LiveMessageReady      LiveMessageType = "ready"
	LiveMessageInvalidate LiveMessageType = "invalidate"
)

// LiveMessage is one frame of the live stream. Invalidate frames name the tag whose views should refetch.
type LiveMessage struct {
	Type          LiveMessageType `json:"type"`
	Tag           string          `json:"tag,omitempty"`
	InvalidatedAt time.Time       `json:"invalidatedAt,omitempty"`
}
