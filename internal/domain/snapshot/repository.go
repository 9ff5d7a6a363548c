package snapshot

import (
	"context"
	"encoding/json"
	"time"
)

// Blob is one persisted cache entry. Payload is the snapshot's JSON.
type Blob struct {
	Category  string          `json:"category"`
	Scope     string          `json:"scope,omitempty"`
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Name identifies the blob within a repository.
func (b Blob) Name() string {
	if b.Scope == "" {
		return b.Category
	}
	return b.Category + "@" + b.Scope
}

// Repository persists snapshot blobs across process restarts.
type Repository interface {
	LoadAll(ctx context.Context) ([]Blob, error)
	SaveAll(ctx context.Context, blobs []Blob) error
}
