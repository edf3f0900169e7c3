// Package store provides persistence for built pathway documents.
//
// Two backends are provided:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for service deployments
//
// Records are upserted by ID; timestamps are managed by the store.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/pathforge/pathforge/pkg/pathway"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Record is one persisted pathway document.
type Record struct {
	ID          string           `json:"id" bson:"_id"`
	Name        string           `json:"name" bson:"name"`
	ContentHash string           `json:"content_hash,omitempty" bson:"content_hash,omitempty"`
	HostedID    string           `json:"hosted_id,omitempty" bson:"hosted_id,omitempty"`
	Pathway     *pathway.Pathway `json:"pathway" bson:"pathway"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" bson:"updated_at"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	if r.Pathway != nil {
		c.Pathway = r.Pathway.Clone()
	}
	return &c
}

// Store is the interface for pathway persistence backends.
type Store interface {
	// Get retrieves a record by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Record, error)

	// Put upserts a record by ID and manages its timestamps.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// List returns all records, most recently updated first.
	List(ctx context.Context) ([]*Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// stamp fills in the record timestamps for an upsert.
func stamp(rec *Record, existing *Record, now time.Time) {
	rec.UpdatedAt = now
	if existing != nil {
		rec.CreatedAt = existing.CreatedAt
		return
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
}
