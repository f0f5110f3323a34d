package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrFileTooLarge         = errors.New("file too large")
	ErrEmptyContent         = errors.New("empty file content")
	ErrNoRecords            = errors.New("no log records could be parsed")
	ErrAnalysisInFlight     = errors.New("analysis already in progress")
	ErrUnresolvedAnalysis   = errors.New("current analysis is not resolved")
	ErrNoCurrentAnalysis    = errors.New("no current analysis")
	ErrHistoryEntryNotFound = errors.New("history entry not found")
	ErrIntegrationNotFound  = errors.New("integration not found")
	ErrIntegrationInactive  = errors.New("integration is inactive")
	ErrIntegrationLimit     = errors.New("integration limit reached")
	ErrConfigNotFound       = errors.New("config not found")
	ErrConfigInvalid        = errors.New("invalid configuration")
	ErrRuleInvalid          = errors.New("invalid detection rule")
	ErrTimeout              = errors.New("operation timeout")
	ErrCanceled             = errors.New("operation canceled")
)

func NewExtensionError(ext string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
}

func NewFileSizeError(size, limit int64) error {
	return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, limit)
}

func NewIntegrationError(id string) error {
	return fmt.Errorf("%w: %s", ErrIntegrationNotFound, id)
}

func NewRuleError(id string, reason error) error {
	return fmt.Errorf("%w: rule=%s: %v", ErrRuleInvalid, id, reason)
}

func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}
