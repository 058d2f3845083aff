package app

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/config"
	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/recommend"
	"github.com/MrSnakeDoc/harunode/internal/store"
)

func testConfig(backend, dir string) *config.Config {
	return &config.Config{
		StoreBackend:        backend,
		DataDir:             dir,
		Location:            time.UTC,
		CollaboratorTimeout: time.Second,
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{name: "memory", backend: config.BackendMemory},
		{name: "disk", backend: config.BackendDisk},
		{name: "unknown", backend: "sqlite", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, client, err := OpenStore(ctx, testConfig(tt.backend, t.TempDir()), logger.Nop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenStore() error = %v", err)
			}
			if client != nil {
				t.Error("non-redis backend returned a redis client")
			}
			if err := kv.Set(ctx, store.KeyLog, []byte("[]")); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if got, err := kv.Get(ctx, store.KeyLog); err != nil || string(got) != "[]" {
				t.Errorf("Get() = %q, %v", got, err)
			}
		})
	}
}

func TestOpenCoreOffline(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	core, err := OpenCore(ctx, testConfig(config.BackendDisk, dir), logger.Nop())
	if err != nil {
		t.Fatalf("OpenCore() error = %v", err)
	}
	if core.CatalogReady || core.TextReady {
		t.Errorf("collaborators should be offline without credentials: catalog=%v text=%v",
			core.CatalogReady, core.TextReady)
	}

	if _, err := core.Journal.Add(ctx, domain.EntryDraft{Mood: domain.MoodCalm, Tags: []string{"휴식"}}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Without a catalog every tier fails and the batch is empty.
	res := core.Engine.Recommend(ctx, core.Sessions.Get("s"), recommend.Request{Mood: domain.MoodCalm})
	if len(res.Items) != 0 || res.Tier != recommend.TierNone {
		t.Errorf("offline recommendation = %+v", res)
	}

	ins, _ := core.Insights.GetOrCompute(ctx, core.Journal.Entries())
	if !ins.Complete() {
		t.Errorf("offline insight should still carry a quote: %+v", ins)
	}
	if err := core.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// A second core on the same directory sees the persisted entry.
	reopened, err := OpenCore(ctx, testConfig(config.BackendDisk, dir), logger.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if reopened.Journal.Len() != 1 {
		t.Errorf("reopened journal has %d entries, want 1", reopened.Journal.Len())
	}
}
