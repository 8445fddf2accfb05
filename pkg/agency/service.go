package agency

import (
	"context"
	"fmt"

	"github.com/doneflow/doneflow/pkg/core"
	"github.com/doneflow/doneflow/pkg/typed"
)

// Service exposes owner-scoped operations over posts, clients and
// profiles. All reads and writes go through the store, so subscribers see
// every change regardless of which surface made it.
type Service struct {
	store *core.Store
}

// NewService creates an agency service bound to store.
func NewService(store *core.Store) *Service {
	return &Service{store: store}
}

// Store exposes the underlying store for composition.
func (s *Service) Store() *core.Store {
	return s.store
}

// SavePost upserts a post in the owner's posts collection.
func (s *Service) SavePost(ctx context.Context, ownerID string, post Post) error {
	return typed.NewCollection[Post](s.store, ownerID, postsCollection).Save(ctx, post)
}

// DeletePost removes a post by id. Unknown ids are a no-op.
func (s *Service) DeletePost(ctx context.Context, ownerID, postID string) error {
	return typed.NewCollection[Post](s.store, ownerID, postsCollection).Delete(ctx, postID)
}

// Posts returns the owner's posts in insertion order.
func (s *Service) Posts(ctx context.Context, ownerID string) ([]Post, error) {
	return typed.NewCollection[Post](s.store, ownerID, postsCollection).List(ctx)
}

// Post returns a single post by id.
func (s *Service) Post(ctx context.Context, ownerID, postID string) (Post, bool, error) {
	return typed.NewCollection[Post](s.store, ownerID, postsCollection).Get(ctx, postID)
}

// SubscribePosts delivers the owner's posts now and on every change.
func (s *Service) SubscribePosts(ownerID string, onChange func([]Post)) func() {
	return typed.NewCollection[Post](s.store, ownerID, postsCollection).Subscribe(onChange)
}

// SaveClient upserts a client in the owner's clients collection.
func (s *Service) SaveClient(ctx context.Context, ownerID string, client Client) error {
	return typed.NewCollection[Client](s.store, ownerID, clientsCollection).Save(ctx, client)
}

// DeleteClient removes a client by id. Unknown ids are a no-op.
func (s *Service) DeleteClient(ctx context.Context, ownerID, clientID string) error {
	return typed.NewCollection[Client](s.store, ownerID, clientsCollection).Delete(ctx, clientID)
}

// Clients returns the owner's clients in insertion order.
func (s *Service) Clients(ctx context.Context, ownerID string) ([]Client, error) {
	return typed.NewCollection[Client](s.store, ownerID, clientsCollection).List(ctx)
}

// Client returns a single client by id.
func (s *Service) Client(ctx context.Context, ownerID, clientID string) (Client, bool, error) {
	return typed.NewCollection[Client](s.store, ownerID, clientsCollection).Get(ctx, clientID)
}

// SubscribeClients delivers the owner's clients now and on every change.
func (s *Service) SubscribeClients(ownerID string, onChange func([]Client)) func() {
	return typed.NewCollection[Client](s.store, ownerID, clientsCollection).Subscribe(onChange)
}

// SaveProfile stores the owner's profile, mirrored under both the id and
// the email so either can be used for lookup.
func (s *Service) SaveProfile(ctx context.Context, profile Profile) error {
	if profile.ID == "" {
		return core.ErrEmptyRecordID
	}
	if err := s.store.SetRaw(s.store.Slot(profilePrefix+profile.ID), profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if profile.Email != "" {
		if err := s.store.SetRaw(s.store.Slot(profilePrefix+profile.Email), profile); err != nil {
			return fmt.Errorf("failed to mirror profile: %w", err)
		}
	}
	return nil
}

// Profile returns the profile stored under key (an id or an email).
func (s *Service) Profile(ctx context.Context, key string) (Profile, bool) {
	var p Profile
	if !s.store.GetRaw(s.store.Slot(profilePrefix+key), &p) || p.ID == "" {
		return Profile{}, false
	}
	return p, true
}
