// Package services – UserStore
//
// UserStore owns the in-memory cache of registered users. It is bulk-loaded
// once at process start and every mutation is written through to the
// persistence facade before the call returns. Username uniqueness is
// enforced here (case-sensitive), not by the store.
package services

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/asma526/go-board-backend/internal/domain"
	"github.com/asma526/go-board-backend/internal/repo"
)

// usernameRE admits letters, digits, underscores, and spaces.
var usernameRE = regexp.MustCompile(`^[\w ]+$`)

// UserStore caches all users and coordinates user persistence.
type UserStore struct {
	mu      sync.RWMutex
	persist *repo.PersistentStore
	log     *zerolog.Logger

	users  []*domain.User
	byID   map[uuid.UUID]*domain.User
	byName map[string]*domain.User
}

// NewUserStore constructs an empty UserStore over the given facade.
// Call Load before serving requests.
func NewUserStore(persist *repo.PersistentStore, log *zerolog.Logger) *UserStore {
	return &UserStore{
		persist: persist,
		log:     log,
		byID:    make(map[uuid.UUID]*domain.User),
		byName:  make(map[string]*domain.User),
	}
}

// Load replaces the cache with the full persisted user set. Intended to run
// once at startup; a LoadError here should fail the process fast.
func (s *UserStore) Load(ctx context.Context) error {
	users, err := s.persist.LoadUsers(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.byID = make(map[uuid.UUID]*domain.User, len(users))
	s.byName = make(map[string]*domain.User, len(users))
	for _, u := range users {
		s.byID[u.ID] = u
		s.byName[u.Name] = u
	}
	s.log.Info().Int("users", len(users)).Msg("user cache loaded")
	return nil
}

// Register creates a new user and writes it through. The password arrives
// pre-hashed; hashing is the calling layer's concern.
func (s *UserStore) Register(ctx context.Context, name, passwordHash, aboutMe string, isAdmin bool) (*domain.User, error) {
	if !usernameRE.MatchString(name) {
		return nil, ErrInvalidUsername
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[name]; taken {
		return nil, ErrUsernameTaken
	}

	u := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		PasswordHash: passwordHash,
		CreationTime: time.Now().UTC(),
		AboutMe:      aboutMe,
		IsAdmin:      isAdmin,
	}
	if err := s.persist.WriteThroughUser(ctx, u); err != nil {
		s.log.Error().Err(err).Str("username", name).Msg("user write-through failed")
		return nil, err
	}

	s.users = append(s.users, u)
	s.byID[u.ID] = u
	s.byName[u.Name] = u
	s.log.Debug().Str("user_id", u.ID.String()).Str("username", name).Msg("user registered")
	return u, nil
}

// UserByID returns the cached user with the given id.
func (s *UserStore) UserByID(id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UserByName returns the cached user with the given username
// (case-sensitive).
func (s *UserStore) UserByName(name string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byName[name]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// IsRegistered reports whether a username is taken.
func (s *UserStore) IsRegistered(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byName[name]
	return ok
}

// UpdateAboutMe sets the user's profile text and writes the user through.
func (s *UserStore) UpdateAboutMe(ctx context.Context, id uuid.UUID, aboutMe string) error {
	return s.update(ctx, id, func(u *domain.User) { u.AboutMe = aboutMe })
}

// UpdateProfilePic sets the user's profile picture payload and writes the
// user through.
func (s *UserStore) UpdateProfilePic(ctx context.Context, id uuid.UUID, pic string) error {
	return s.update(ctx, id, func(u *domain.User) { u.ProfilePic = pic })
}

func (s *UserStore) update(ctx context.Context, id uuid.UUID, mutate func(*domain.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	mutate(u)
	if err := s.persist.WriteThroughUser(ctx, u); err != nil {
		s.log.Error().Err(err).Str("user_id", id.String()).Msg("user write-through failed")
		return err
	}
	return nil
}

// Users returns the cached users in load/registration order.
func (s *UserStore) Users() []*domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, len(s.users))
	copy(out, s.users)
	return out
}

// Count returns the number of cached users.
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
