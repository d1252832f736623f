package types

import "time"

// Status represents the lifecycle state of a record
type Status string

const (
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
	StatusArchived  Status = "archived"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// RunMode represents the deployment mode of the service
type RunMode string

const (
	RunModeAPI   RunMode = "api"
	RunModeLocal RunMode = "local"
)

// BaseModel provides common fields for all domain models
type BaseModel struct {
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBaseModel returns a BaseModel initialized for a freshly created record
func NewBaseModel(now time.Time) BaseModel {
	return BaseModel{
		Status:    StatusPublished,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}
