// Package events provides event management functionality.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	// Mission lifecycle
	MissionStarted     EventType = "MISSION_STARTED"
	MissionFinished    EventType = "MISSION_FINISHED"
	MissionExited      EventType = "MISSION_EXITED"
	ScenarioLoadFailed EventType = "SCENARIO_LOAD_FAILED"

	// Playback
	DayAdvanced     EventType = "DAY_ADVANCED"
	AutoPlayChanged EventType = "AUTOPLAY_CHANGED"

	// Trading
	TradeExecuted EventType = "TRADE_EXECUTED"
	TradeRejected EventType = "TRADE_REJECTED"

	ErrorOccurred EventType = "ERROR_OCCURRED"
)

// AllTypes lists every event type the simulation emits
func AllTypes() []EventType {
	return []EventType{
		MissionStarted,
		MissionFinished,
		MissionExited,
		ScenarioLoadFailed,
		DayAdvanced,
		AutoPlayChanged,
		TradeExecuted,
		TradeRejected,
		ErrorOccurred,
	}
}

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}

// SessionID returns the session the event belongs to, or "" for system events
func (e *Event) SessionID() string {
	if e.Data == nil {
		return ""
	}
	id, _ := e.Data["session_id"].(string)
	return id
}
