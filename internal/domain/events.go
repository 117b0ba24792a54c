package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCandidateDiscovered EventType = "CandidateDiscovered"
	EventScanStarted         EventType = "ScanStarted"
	EventScanCompleted       EventType = "ScanCompleted"
	EventScanRequested       EventType = "ScanRequested"
	EventConfigLoaded        EventType = "ConfigLoaded"
	EventConfigSaved         EventType = "ConfigSaved"
	EventLaunched            EventType = "Launched"
	EventError               EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CandidateDiscoveredEvent is emitted for every executable found on the search path
type CandidateDiscoveredEvent struct {
	Candidate Candidate
}

func (e CandidateDiscoveredEvent) Type() EventType { return EventCandidateDiscovered }

// ScanStartedEvent is emitted when the search-path scan begins
type ScanStartedEvent struct {
	Dirs []string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanCompletedEvent is emitted when the search-path scan completes
type ScanCompletedEvent struct {
	Found int
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// ScanRequestedEvent is emitted to request a new scan
type ScanRequestedEvent struct {
	Dirs []string
}

func (e ScanRequestedEvent) Type() EventType { return EventScanRequested }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// LaunchedEvent is emitted after a commit, right before the launcher exits
type LaunchedEvent struct {
	Invocation string
}

func (e LaunchedEvent) Type() EventType { return EventLaunched }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
