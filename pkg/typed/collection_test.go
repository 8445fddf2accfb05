package typed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/doneflow/doneflow/pkg/adapters/memory"
	"github.com/doneflow/doneflow/pkg/core"
	"github.com/doneflow/doneflow/pkg/typed"
)

type note struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

func newNotes(t *testing.T) *typed.Collection[note] {
	t.Helper()
	store := core.NewStore(memory.New(0), core.Config{})
	return typed.NewCollection[note](store, "u1", "notes")
}

func TestCollection_SaveAndGet(t *testing.T) {
	notes := newNotes(t)
	ctx := context.TODO()

	if err := notes.Save(ctx, note{ID: "n1", Title: "Hello"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := notes.Get(ctx, "n1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || got.Title != "Hello" {
		t.Errorf("unexpected result: %+v (ok=%v)", got, ok)
	}

	if _, ok, _ := notes.Get(ctx, "missing"); ok {
		t.Error("expected absent id to report ok=false")
	}
}

func TestCollection_SaveMergesExisting(t *testing.T) {
	notes := newNotes(t)
	ctx := context.TODO()

	if err := notes.Save(ctx, note{ID: "n1", Title: "Hello", Image: "img"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// Image is omitempty: saving without it must not erase the stored field
	if err := notes.Save(ctx, note{ID: "n1", Title: "Edited"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := notes.Get(ctx, "n1")
	if err != nil || !ok {
		t.Fatalf("Get failed: %v (ok=%v)", err, ok)
	}
	if got.Title != "Edited" {
		t.Errorf("expected merged title, got %q", got.Title)
	}
	if got.Image != "img" {
		t.Errorf("expected image to survive the merge, got %q", got.Image)
	}
}

func TestCollection_SaveRequiresID(t *testing.T) {
	notes := newNotes(t)

	err := notes.Save(context.TODO(), note{Title: "No id"})
	if !errors.Is(err, core.ErrEmptyRecordID) {
		t.Fatalf("expected ErrEmptyRecordID, got %v", err)
	}
}

func TestCollection_DeleteAndList(t *testing.T) {
	notes := newNotes(t)
	ctx := context.TODO()

	for _, id := range []string{"a", "b", "c"} {
		if err := notes.Save(ctx, note{ID: id, Title: id}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	if err := notes.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	list, err := notes.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "c" {
		t.Errorf("expected [a c], got %+v", list)
	}

	if err := notes.Delete(ctx, "b"); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestCollection_Subscribe(t *testing.T) {
	notes := newNotes(t)
	ctx := context.TODO()

	var snapshots [][]note
	unsub := notes.Subscribe(func(list []note) {
		snapshots = append(snapshots, list)
	})
	defer unsub()

	if len(snapshots) != 1 || len(snapshots[0]) != 0 {
		t.Fatalf("expected synchronous empty initial snapshot, got %v", snapshots)
	}

	if err := notes.Save(ctx, note{ID: "n1", Title: "Hello"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(snapshots) != 2 || len(snapshots[1]) != 1 || snapshots[1][0].Title != "Hello" {
		t.Fatalf("expected snapshot with the new note, got %v", snapshots)
	}
}
