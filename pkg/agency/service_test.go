package agency_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doneflow/doneflow/pkg/adapters/memory"
	"github.com/doneflow/doneflow/pkg/agency"
	"github.com/doneflow/doneflow/pkg/core"
)

func newService(t *testing.T) *agency.Service {
	t.Helper()
	return agency.NewService(core.NewStore(memory.New(0), core.Config{}))
}

func TestPosts_CRUD(t *testing.T) {
	svc := newService(t)
	ctx := context.TODO()

	post := agency.Post{
		ID:        "p1",
		Title:     "Launch day",
		Content:   "We are live!",
		Platforms: []agency.Platform{agency.PlatformInstagram},
		Status:    agency.StatusScheduled,
	}
	require.NoError(t, svc.SavePost(ctx, "u1", post))

	posts, err := svc.Posts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Launch day", posts[0].Title)

	// Update keeps position and untouched fields
	post.Title = "Launch day (edited)"
	require.NoError(t, svc.SavePost(ctx, "u1", post))
	got, ok, err := svc.Post(ctx, "u1", "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Launch day (edited)", got.Title)
	assert.Equal(t, agency.StatusScheduled, got.Status)

	require.NoError(t, svc.DeletePost(ctx, "u1", "p1"))
	posts, err = svc.Posts(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, posts)

	// Deleting again is a no-op
	require.NoError(t, svc.DeletePost(ctx, "u1", "p1"))
}

func TestPosts_OwnerIsolation(t *testing.T) {
	svc := newService(t)
	ctx := context.TODO()

	require.NoError(t, svc.SavePost(ctx, "alice", agency.Post{ID: "p1", Title: "A"}))

	posts, err := svc.Posts(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestClients_SubscribeSeesDeleteToEmpty(t *testing.T) {
	svc := newService(t)
	ctx := context.TODO()

	require.NoError(t, svc.SaveClient(ctx, "u1", agency.Client{ID: "c1", Name: "Acme"}))

	var last []agency.Client
	delivered := 0
	unsub := svc.SubscribeClients("u1", func(clients []agency.Client) {
		last = clients
		delivered++
	})
	defer unsub()

	require.Equal(t, 1, delivered)
	require.Len(t, last, 1)

	require.NoError(t, svc.DeleteClient(ctx, "u1", "c1"))
	require.Equal(t, 2, delivered)
	assert.NotNil(t, last)
	assert.Empty(t, last, "subscribers must see the empty collection, not silence")
}

func TestClients_BrandFieldsRoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.TODO()

	client := agency.Client{
		ID:             "c1",
		Name:           "Acme Fitness",
		Industry:       "Fitness",
		ToneOfVoice:    "Energetic",
		ContentPillars: []string{"Workouts", "Nutrition"},
		CustomHashtags: "#acmefit",
	}
	require.NoError(t, svc.SaveClient(ctx, "u1", client))

	got, ok, err := svc.Client(ctx, "u1", "c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, client.ContentPillars, got.ContentPillars)
	assert.Equal(t, "#acmefit", got.CustomHashtags)
}

func TestProfile_MirroredUnderIDAndEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.TODO()

	profile := agency.Profile{
		ID:    "user_1",
		Name:  "Ana",
		Email: "ana@agency.com",
	}
	require.NoError(t, svc.SaveProfile(ctx, profile))

	byID, ok := svc.Profile(ctx, "user_1")
	require.True(t, ok)
	assert.Equal(t, "Ana", byID.Name)

	byEmail, ok := svc.Profile(ctx, "ana@agency.com")
	require.True(t, ok)
	assert.Equal(t, byID, byEmail)
}

func TestProfile_RequiresID(t *testing.T) {
	svc := newService(t)

	err := svc.SaveProfile(context.TODO(), agency.Profile{Name: "No id"})
	assert.ErrorIs(t, err, core.ErrEmptyRecordID)
}
