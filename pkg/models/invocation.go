package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invocation is one audited call of an MCP operation. Tool output is not kept.
type Invocation struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	SessionID    string         `gorm:"type:varchar(64);index" json:"session_id,omitempty"`
	Operation    string         `gorm:"type:varchar(255);index;not null" json:"operation"`
	ToolID       string         `gorm:"type:varchar(64);index" json:"tool_id,omitempty"`
	InputJSON    string         `gorm:"type:text" json:"input_json"`
	CommandLine  string         `gorm:"type:text" json:"command_line,omitempty"`
	ExitCode     *int           `json:"exit_code,omitempty"`
	ErrorKind    string         `gorm:"type:varchar(64);index" json:"error_kind,omitempty"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	Success      bool           `gorm:"index" json:"success"`
}

// Ran reports whether a process was spawned for this invocation.
func (i *Invocation) Ran() bool {
	return i.ExitCode != nil
}

// BeforeCreate assigns a UUID when the caller did not.
func (i *Invocation) BeforeCreate(_ *gorm.DB) error {
	if i.UUID == "" {
		i.UUID = uuid.NewString()
	}
	return nil
}
