package ports

import "go.trai.ch/stage/internal/core/domain"

// JobStore defines the interface for storing and retrieving job records.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type JobStore interface {
	// Get retrieves the latest record of a matrix entry.
	// Returns nil, nil if not found.
	Get(root, entry string) (*domain.JobRecord, error)

	// Put stores the record.
	Put(root string, rec domain.JobRecord) error
}
