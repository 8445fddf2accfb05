package platform

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/doneflow/doneflow/pkg/adapters/memory"
	"github.com/doneflow/doneflow/pkg/core"
)

func TestNew_FilesystemDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = store.UpdateCollection(context.TODO(), "u1", "posts", "p1",
		core.Record{"id": "p1"}, false)
	if err != nil {
		t.Fatalf("write through factory-built store failed: %v", err)
	}
}

func TestNew_InjectedMediumSkipsFilesystem(t *testing.T) {
	medium := memory.New(0)

	// An unusable path proves the filesystem medium was never touched
	store, err := New("/dev/null/not-a-dir", WithMedium(medium))
	if err != nil {
		t.Fatalf("New with injected medium failed: %v", err)
	}
	if store.Medium() != core.Medium(medium) {
		t.Error("expected the injected medium to be used")
	}
}

func TestNew_MustExistFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	if _, err := New(missing, WithMustExist(true)); err == nil {
		t.Fatal("expected New to fail for a missing directory with MustExist")
	}
}

func TestNew_ConfigFlowsToStore(t *testing.T) {
	store, err := New("", WithMedium(memory.New(0)), WithNamespace("test_v9_"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := store.Slot("auth_user"); got != "test_v9_auth_user" {
		t.Errorf("expected namespaced slot, got %q", got)
	}
}
