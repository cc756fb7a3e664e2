package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"

	"github.com/google/uuid"
)

type UserRepository struct {
	log     ports.Logger
	mu      sync.RWMutex
	users   map[uuid.UUID]*model.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository(log ports.Logger) *UserRepository {
	return &UserRepository{
		log:     log,
		users:   make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*model.User, error) {
	r.log.Debug("Creating new user (memory impl)", slog.String("email", email))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, custom_errors.ErrUserExists
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.users[user.ID] = user
	r.byEmail[email] = user.ID

	result := *user
	return &result, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, custom_errors.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[email]
	if !exists {
		return nil, custom_errors.ErrUserNotFound
	}
	result := *r.users[id]
	return &result, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.byEmail[email]
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context, filters model.UserFilters) ([]*model.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		userCopy := *user
		users = append(users, &userCopy)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	total := len(users)
	if filters.Offset != nil {
		if *filters.Offset >= len(users) {
			return []*model.User{}, total, nil
		}
		users = users[*filters.Offset:]
	}
	if filters.Limit != nil && *filters.Limit < len(users) {
		users = users[:*filters.Limit]
	}
	return users, total, nil
}
