package auth_service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	auth_service "landing/internal/application/service/auth"
	"landing/internal/custom_errors"
	"landing/internal/infrastructure/logger"
	auth_service_mock "landing/mocks/auth"
)

func TestRunSessionJanitor(t *testing.T) {
	t.Run("Purges on every tick until cancelled", func(t *testing.T) {
		svc := auth_service_mock.NewService(t)
		calls := make(chan struct{}, 10)
		svc.On("PurgeExpiredSessions", mock.Anything).
			Run(func(mock.Arguments) { calls <- struct{}{} }).
			Return(int64(0), nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			auth_service.RunSessionJanitor(ctx, svc, 10*time.Millisecond, logger.New("test"))
			close(done)
		}()

		<-calls
		<-calls
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("janitor did not stop after cancel")
		}
	})

	t.Run("Keeps running after a failed purge", func(t *testing.T) {
		svc := auth_service_mock.NewService(t)
		calls := make(chan struct{}, 10)
		svc.On("PurgeExpiredSessions", mock.Anything).
			Run(func(mock.Arguments) { calls <- struct{}{} }).
			Return(int64(0), custom_errors.ErrDatabaseQuery)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			auth_service.RunSessionJanitor(ctx, svc, 10*time.Millisecond, logger.New("test"))
			close(done)
		}()

		<-calls
		<-calls
		cancel()
		<-done
	})

	t.Run("Non-positive interval returns immediately", func(t *testing.T) {
		svc := auth_service_mock.NewService(t)

		done := make(chan struct{})
		go func() {
			auth_service.RunSessionJanitor(context.Background(), svc, 0, logger.New("test"))
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("janitor should not start with zero interval")
		}
		svc.AssertNotCalled(t, "PurgeExpiredSessions", mock.Anything)
	})
}
