package app

import (
	"github.com/google/uuid"
)

// Operation tracks one CLI command. Its ID tags every log line the command
// produces. Commands that change the project graph mark the operation
// dirty so that Close writes the data file.
type Operation struct {
	ID     string
	Name   string
	Dirty  bool
	Status string // "success" or "error"
}

// NewOperation creates an operation with a short random ID.
func NewOperation(name string) *Operation {
	return &Operation{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Status: "success",
	}
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = "error"
}
