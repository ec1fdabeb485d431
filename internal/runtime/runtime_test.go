package runtime

import (
	"context"
	"path/filepath"
	"testing"

	cfgpkg "github.com/Uttam1728/event-analytics/internal/config"
	"github.com/Uttam1728/event-analytics/internal/queue"
	pebblestore "github.com/Uttam1728/event-analytics/internal/storage/pebble"
)

func TestOpenCloseHealth(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	defer rt.Close()
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestOpenQueue(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()
	q, err := rt.OpenQueue("events_stream", queue.Options{})
	if err != nil {
		t.Fatalf("open queue: %v", err)
	}
	if _, err := q.Enqueue(context.Background(), map[string]string{"user_id": "u1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
}

func TestStorageRootDefaults(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()
	if got, want := rt.StorageRoot(), filepath.Join(dir, "persistent_events"); got != want {
		t.Fatalf("storage root: got %q want %q", got, want)
	}

	cfg := cfgpkg.Default()
	cfg.StorageRoot = "/tmp/custom-archive"
	rt2, err := Open(Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways, Config: cfg})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt2.Close()
	if got := rt2.StorageRoot(); got != "/tmp/custom-archive" {
		t.Fatalf("storage root override: got %q", got)
	}
}
