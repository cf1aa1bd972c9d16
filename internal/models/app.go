package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
)

// ServiceHealth is the last known reachability of the assistant service.
type ServiceHealth int

const (
	HealthUnknown ServiceHealth = iota
	HealthOnline
	HealthOffline
	HealthDirect // no separate service to probe
)

func (h ServiceHealth) String() string {
	switch h {
	case HealthOnline:
		return "Online"
	case HealthOffline:
		return "Offline"
	case HealthDirect:
		return "Direct"
	default:
		return "Checking"
	}
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Turns        []Turn         // Current transcript to display
	InFlight     bool           // Mirrors the store's in-flight flag
	Input        textarea.Model // Pending input editor
	Submitted    string         // Text sent to the core, awaiting acceptance
	Transcript   viewport.Model // Scrollable transcript pane
	Spinner      spinner.Model  // Shown while an exchange is in flight
	Status       string         // Status bar text
	SessionID    string
	Health       ServiceHealth
	ExportFormat string
	ExportDir    string
	Width        int // Terminal width
	Height       int // Terminal height
}
