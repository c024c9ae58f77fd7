package events

import "encoding/json"

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// MissionStartedData contains data for MissionStarted events
type MissionStartedData struct {
	SessionID     string  `json:"session_id"`
	MissionID     string  `json:"mission_id"`
	Symbol        string  `json:"symbol"`
	StartDate     string  `json:"start_date"`
	DaysRemaining int     `json:"days_remaining"`
	InitialCash   float64 `json:"initial_cash"`
}

// EventType returns the event type for MissionStartedData
func (d *MissionStartedData) EventType() EventType {
	return MissionStarted
}

// DayAdvancedData contains data for DayAdvanced events
type DayAdvancedData struct {
	SessionID     string  `json:"session_id"`
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	DaysRemaining int     `json:"days_remaining"`
	NetWorth      float64 `json:"net_worth"`
	ReturnPercent float64 `json:"return_percent"`
}

// EventType returns the event type for DayAdvancedData
func (d *DayAdvancedData) EventType() EventType {
	return DayAdvanced
}

// TradeExecutedData contains data for TradeExecuted events
type TradeExecutedData struct {
	SessionID     string  `json:"session_id"`
	TransactionID string  `json:"transaction_id"`
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	Date          string  `json:"date"`
}

// EventType returns the event type for TradeExecutedData
func (d *TradeExecutedData) EventType() EventType {
	return TradeExecuted
}

// TradeRejectedData contains data for TradeRejected events
type TradeRejectedData struct {
	SessionID string  `json:"session_id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
	Reason    string  `json:"reason"`
}

// EventType returns the event type for TradeRejectedData
func (d *TradeRejectedData) EventType() EventType {
	return TradeRejected
}

// AutoPlayChangedData contains data for AutoPlayChanged events
type AutoPlayChangedData struct {
	SessionID string `json:"session_id"`
	Enabled   bool   `json:"enabled"`
	Reason    string `json:"reason,omitempty"` // "user", "finished", "exhausted", "exit"
}

// EventType returns the event type for AutoPlayChangedData
func (d *AutoPlayChangedData) EventType() EventType {
	return AutoPlayChanged
}

// MissionFinishedData contains data for MissionFinished events
type MissionFinishedData struct {
	SessionID     string  `json:"session_id"`
	MissionID     string  `json:"mission_id"`
	Outcome       string  `json:"outcome"`
	FinalNetWorth float64 `json:"final_net_worth"`
	ReturnPercent float64 `json:"return_percent"`
	DaysPlayed    int     `json:"days_played"`
}

// EventType returns the event type for MissionFinishedData
func (d *MissionFinishedData) EventType() EventType {
	return MissionFinished
}

// MissionExitedData contains data for MissionExited events
type MissionExitedData struct {
	SessionID string `json:"session_id"`
	MissionID string `json:"mission_id,omitempty"`
}

// EventType returns the event type for MissionExitedData
func (d *MissionExitedData) EventType() EventType {
	return MissionExited
}

// ScenarioLoadFailedData contains data for ScenarioLoadFailed events
type ScenarioLoadFailedData struct {
	SessionID string `json:"session_id"`
	MissionID string `json:"mission_id"`
	Symbol    string `json:"symbol"`
	Error     string `json:"error"`
}

// EventType returns the event type for ScenarioLoadFailedData
func (d *ScenarioLoadFailedData) EventType() EventType {
	return ScenarioLoadFailed
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}

// convertEventDataToMap flattens typed data into the map carried by Event
func convertEventDataToMap(data EventData) map[string]interface{} {
	if data == nil {
		return nil
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return nil
	}

	return result
}
