package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamDashboardSelect = "stream:dashboard:select"
	StreamDashboardDone   = "stream:dashboard:done"
)

// SelectionEvent - выбор района на карте (клик по полигону)
type SelectionEvent struct {
	SessionID   uuid.UUID `json:"session_id"`
	Region      string    `json:"region"`
	RequestedAt time.Time `json:"requested_at"`
}

// HasRegion проверяет, что событие несёт непустую метку района
func (e *SelectionEvent) HasRegion() bool {
	return e.Region != ""
}

// DashboardEvent - пересчитанный дашборд для сессии
type DashboardEvent struct {
	SessionID uuid.UUID   `json:"session_id"`
	Region    string      `json:"region"`
	Selected  *Region     `json:"selected,omitempty"`
	Dashboard interface{} `json:"dashboard,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
