package doneflow_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/doneflow/doneflow"
	"github.com/doneflow/doneflow/pkg/adapters/memory"
)

// Example_basic demonstrates how to open a store, upsert a record, and read
// the collection back.
func Example_basic() {
	// Create a temporary directory for the example
	tmpDir, err := os.MkdirTemp("", "doneflow-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	// Initialize the store targeting the temporary directory.
	store, err := doneflow.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// 1. Upsert a record into the owner's posts collection
	_, err = store.UpdateCollection(ctx, "user_1", "posts", "p1",
		doneflow.Record{"id": "p1", "title": "Launch day"}, false)
	if err != nil {
		log.Fatal(err)
	}

	// 2. Read the collection back
	posts := store.Collection(ctx, "user_1", "posts")

	fmt.Printf("Found %d post(s): %s\n", len(posts), posts[0]["title"])
	// Output:
	// Found 1 post(s): Launch day
}

// ExampleNewCollection demonstrates the generic typed wrapper for type
// safety, backed by an in-memory medium.
func ExampleNewCollection() {
	store, err := doneflow.New("", doneflow.WithMedium(memory.New(0)))
	if err != nil {
		log.Fatal(err)
	}

	// Define your domain model
	type Task struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Done  bool   `json:"done"`
	}

	tasks := doneflow.NewCollection[Task](store, "user_1", "tasks")
	ctx := context.Background()

	// Save a typed record
	if err := tasks.Save(ctx, Task{ID: "t1", Title: "Write captions"}); err != nil {
		log.Fatal(err)
	}

	// Retrieve it back
	task, ok, err := tasks.Get(ctx, "t1")
	if err != nil || !ok {
		log.Fatal(err)
	}

	fmt.Printf("Task: %s (done: %v)\n", task.Title, task.Done)
	// Output:
	// Task: Write captions (done: false)
}

// Example_subscribe demonstrates reactive collection access: the callback
// fires synchronously on registration and after every committed write.
func Example_subscribe() {
	store, err := doneflow.New("", doneflow.WithMedium(memory.New(0)))
	if err != nil {
		log.Fatal(err)
	}

	unsubscribe := store.Subscribe("user_1", "posts", func(records []doneflow.Record) {
		fmt.Printf("snapshot: %d record(s)\n", len(records))
	})
	defer unsubscribe()

	_, err = store.UpdateCollection(context.Background(), "user_1", "posts", "p1",
		doneflow.Record{"id": "p1", "title": "Hello"}, false)
	if err != nil {
		log.Fatal(err)
	}

	// Output:
	// snapshot: 0 record(s)
	// snapshot: 1 record(s)
}
