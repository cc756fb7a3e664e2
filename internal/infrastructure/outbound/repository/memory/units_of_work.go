// Package memory provides a non-transactional UnitOfWork over the
// in-memory repositories. Commit and Rollback are no-ops.
package memory

import (
	"context"

	post_repository "landing/internal/domain/ports/output/post"
	session_repository "landing/internal/domain/ports/output/session"
	user_repository "landing/internal/domain/ports/output/user"
	"landing/internal/infrastructure/outbound/repository/postgres"
)

type UnitOfWork struct {
	users    user_repository.Repository
	sessions session_repository.Repository
	posts    post_repository.Repository
}

func NewUnitOfWork(
	users user_repository.Repository,
	sessions session_repository.Repository,
	posts post_repository.Repository,
) *UnitOfWork {
	return &UnitOfWork{users: users, sessions: sessions, posts: posts}
}

func (u *UnitOfWork) Begin(ctx context.Context) (postgres.Transaction, error) {
	return &transaction{uow: u}, nil
}

type transaction struct {
	uow *UnitOfWork
}

func (t *transaction) UserRepository() user_repository.Repository       { return t.uow.users }
func (t *transaction) SessionRepository() session_repository.Repository { return t.uow.sessions }
func (t *transaction) PostRepository() post_repository.Repository       { return t.uow.posts }
func (t *transaction) Commit(ctx context.Context) error                 { return nil }
func (t *transaction) Rollback(ctx context.Context) error               { return nil }
