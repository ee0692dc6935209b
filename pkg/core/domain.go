// Package core holds the domain types shared by the store and its host adapters.
package core

import (
	"context"
	"fmt"
)

// Metadata is the decoded form of an asset's user data: key -> raw JSON entry.
// An entry is the JSON encoding of one value and is not parsed until read.
type Metadata map[string]string

// Asset is the port to the external host that owns the user data field.
//
// The host keeps one opaque string per asset. SetUserData replaces that string
// without persisting or reprocessing anything; CommitAndReprocess persists the
// current string and triggers the host's downstream pipeline for the asset.
type Asset interface {
	UserData(ctx context.Context) (string, error)
	SetUserData(ctx context.Context, data string) error
	CommitAndReprocess(ctx context.Context) error
}

// Named is implemented by assets that can identify themselves in logs.
type Named interface {
	Name() string
}

// AssetName returns a printable identifier for a, or "" when it has none.
func AssetName(a Asset) string {
	if n, ok := a.(Named); ok {
		return n.Name()
	}
	return ""
}

// EventType represents the type of change observed on a sidecar.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to an asset's persisted user data.
type Event struct {
	Type      EventType
	Asset     string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Asset)
}
