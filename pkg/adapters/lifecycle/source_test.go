package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/doneflow/doneflow/pkg/adapters/lifecycle"
	"github.com/doneflow/doneflow/pkg/core"
)

func TestSource_ForwardsStoreEvents(t *testing.T) {
	in := make(chan core.Event, 1)
	source := adapter.NewSource(in)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, source.Start(ctx))

	in <- core.Event{Type: core.EventUpdate, Slot: "doneflow_v1_u1_posts", Raw: []byte("[]")}

	select {
	case e := <-source.Events():
		assert.Equal(t, "UPDATE doneflow_v1_u1_posts", e.String())
	case <-ctx.Done():
		t.Fatal("timed out waiting for forwarded event")
	}
}

func TestSource_ClosesOnInputClose(t *testing.T) {
	in := make(chan core.Event)
	source := adapter.NewSource(in)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, source.Start(ctx))
	close(in)

	select {
	case _, ok := <-source.Events():
		assert.False(t, ok, "output channel should close when input closes")
	case <-ctx.Done():
		t.Fatal("timed out waiting for channel close")
	}
}
