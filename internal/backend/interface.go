package backend

import (
	"context"

	"tracker/internal/config"
	"tracker/internal/services"
	"tracker/internal/store"
)

// CleanupFunc releases backend resources
type CleanupFunc func() error

// BackendResult holds the stores the server runs on.
type BackendResult struct {
	Transactions *services.TransactionService
	Users        store.UserStore
	Cleanup      CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string

	// Empty AMQPURL disables transaction events.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = config.BackendMemory
	SQLiteBackend BackendType = config.BackendSQLite
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// ConfigFromAppConfig converts application config to backend config
func ConfigFromAppConfig(c *config.Config) Config {
	return Config{
		Type:         BackendType(c.DataBackend),
		SQLiteDBPath: c.SQLiteDBPath,
		AMQPURL:      c.AMQPURL,
		AMQPExchange: c.AMQPExchange,
		AMQPQueue:    c.AMQPQueue,
	}
}
