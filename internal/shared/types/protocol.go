package types

import "time"

// ThemeRequest asks the live program to switch color themes.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// AnimationRequest asks the live program to run a transition now.
// Target is "hour", "minute" or "both".
type AnimationRequest struct {
	Target string `json:"target"`
}

// ConfigPushRequest carries a partial configuration update for the live
// program. Keys the program does not recognize are ignored.
type ConfigPushRequest struct {
	Config map[string]interface{} `json:"config"`
}

// ControlResponse is the uniform loopback reply envelope.
type ControlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ControlStatus describes the live program's current state.
type ControlStatus struct {
	Program       string  `json:"program"`
	Theme         string  `json:"theme"`
	AnimationMode string  `json:"animation_mode"`
	Brightness    int     `json:"brightness"`
	ShowAMPM      bool    `json:"show_ampm"`
	Hour          string  `json:"hour"`
	Minute        string  `json:"minute"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// SupervisorStatus mirrors the /api/status response shape.
type SupervisorStatus struct {
	Running            bool              `json:"running"`
	CurrentProgram     *string           `json:"current_project"`
	CurrentProgramName *string           `json:"current_project_name"`
	DefaultProgram     string            `json:"default_project"`
	AvailablePrograms  map[string]string `json:"available_projects"`
	InstanceID         *string           `json:"instance_id,omitempty"`
	StartedAt          *time.Time        `json:"started_at,omitempty"`
}

// Event is a supervisor state change broadcast to websocket subscribers.
type Event struct {
	Type      string                 `json:"type"`
	Program   string                 `json:"program,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Event types.
const (
	EventProgramStarted = "program_started"
	EventProgramStopped = "program_stopped"
	EventConfigUpdated  = "config_updated"
	EventDefaultChanged = "default_changed"
)
