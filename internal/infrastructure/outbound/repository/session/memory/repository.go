package memory

import (
	"context"
	"sync"
	"time"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"
	user_repository "landing/internal/domain/ports/output/user"

	"github.com/google/uuid"
)

// SessionRepository joins against a user repository the way the SQL
// implementation joins against the users table.
type SessionRepository struct {
	log      ports.Logger
	users    user_repository.Repository
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

func NewSessionRepository(users user_repository.Repository, log ports.Logger) *SessionRepository {
	return &SessionRepository{
		log:      log,
		users:    users,
		sessions: make(map[string]*model.Session),
	}
}

func (r *SessionRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*model.Session, error) {
	if _, err := r.users.GetByID(ctx, userID); err != nil {
		return nil, custom_errors.ErrUserNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[tokenHash]; exists {
		return nil, custom_errors.ErrDatabaseQuery
	}

	session := &model.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	r.sessions[tokenHash] = session

	result := *session
	return &result, nil
}

func (r *SessionRepository) GetValid(ctx context.Context, tokenHash string, now time.Time) (*model.SessionWithUser, error) {
	r.mu.RLock()
	session, exists := r.sessions[tokenHash]
	r.mu.RUnlock()

	if !exists || session.IsExpired(now) {
		return nil, custom_errors.ErrSessionNotFound
	}

	user, err := r.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, custom_errors.ErrSessionNotFound
	}

	sessionCopy := *session
	return &model.SessionWithUser{Session: &sessionCopy, User: user}, nil
}

func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, tokenHash)
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for hash, session := range r.sessions {
		if session.IsExpired(now) {
			delete(r.sessions, hash)
			deleted++
		}
	}
	return deleted, nil
}

func (r *SessionRepository) DeleteExpiredForUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for hash, session := range r.sessions {
		if session.UserID == userID && session.IsExpired(now) {
			delete(r.sessions, hash)
			deleted++
		}
	}
	return deleted, nil
}
