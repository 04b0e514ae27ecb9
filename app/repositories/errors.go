package repositories

import "errors"

var (
	// ErrNotFound is returned by Update when the target row does not exist.
	ErrNotFound = errors.New("repositories: record not found")

	// ErrNotCreated is returned by Create when the store assigned no id.
	ErrNotCreated = errors.New("repositories: record not created")
)

// AttachFunc stores a file for the row with the given id and returns the
// path to record in its image column, or "" to leave the column alone.
// It runs inside the write transaction; an error rolls the write back.
type AttachFunc func(id uint) (string, error)
