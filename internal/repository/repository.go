// Package repository contains data access abstractions.
// Dialect implementations live in subpackages (postgres, mysql) and return
// sql.ErrNoRows when the addressed row does not exist.
package repository

import "errors"

var (
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidReference is returned when a foreign key points at a missing row.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInsufficientStock is returned when a quantity change would go below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOutOfRange is returned when a value does not fit its column.
	ErrOutOfRange = errors.New("value out of range")
	// ErrEmptyUpdate is returned by Update when no column is set.
	ErrEmptyUpdate = errors.New("no columns to update")
)

// PageQuery holds limit/offset pagination parameters. Limit 0 means no limit.
type PageQuery struct {
	Limit  int
	Offset int
}

// Assignment is one column of a partial update.
type Assignment struct {
	Column string
	Value  any
}
