package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"rostercore/pkg/domain"
)

const snapshotPrefix = "snapshots/"

// Exporter writes point-in-time snapshot documents into an archive store and
// reads them back for import.
type Exporter struct {
	store Store
	nowFn func() time.Time
}

// NewExporter wraps the given archive store.
func NewExporter(store Store) *Exporter {
	return &Exporter{store: store, nowFn: func() time.Time { return time.Now().UTC() }}
}

// Export writes the snapshot as a JSON document keyed by timestamp.
func (e *Exporter) Export(ctx context.Context, snapshot domain.Snapshot) (Info, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return Info{}, fmt.Errorf("encode snapshot: %w", err)
	}
	key := fmt.Sprintf("%s%s.json", snapshotPrefix, e.nowFn().Format("20060102T150405.000000000Z"))
	info, err := e.store.Put(ctx, key, "application/json", bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("store snapshot export: %w", err)
	}
	return info, nil
}

// List returns previously exported snapshots in key order.
func (e *Exporter) List(ctx context.Context) ([]Info, error) {
	return e.store.List(ctx, snapshotPrefix)
}

// Fetch reads back an exported snapshot by key.
func (e *Exporter) Fetch(ctx context.Context, key string) (domain.Snapshot, error) {
	_, body, err := e.store.Get(ctx, key)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch snapshot export: %w", err)
	}
	defer func() { _ = body.Close() }()
	data, err := io.ReadAll(body)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot export: %w", err)
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot export: %w", err)
	}
	return snapshot, nil
}
