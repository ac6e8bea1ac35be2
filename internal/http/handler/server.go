// Package handler implements the local JSON API over the task store and
// habit tracker.
package handler

import (
	"time"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/habit"
	"github.com/rezkam/taskmaster/internal/taskstore"
)

// Server holds the state behind every route.
type Server struct {
	tasks  *taskstore.Store
	habits *habit.Tracker
	now    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the clock used for "today" and export timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer creates a new HTTP handler server.
func NewServer(tasks *taskstore.Store, habits *habit.Tracker, opts ...Option) *Server {
	s := &Server{
		tasks:  tasks,
		habits: habits,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) today() domain.Date {
	return domain.DateOf(s.now())
}
