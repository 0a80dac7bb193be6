package service

import (
	"go.uber.org/zap"
)

// SessionSweeper drops expired sessions and reports how many went away
type SessionSweeper interface {
	Sweep() int
	Len() int
}

// CleanupService handles periodic housekeeping
type CleanupService struct {
	sessions SessionSweeper
	logger   *zap.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(sessions SessionSweeper, logger *zap.Logger) *CleanupService {
	return &CleanupService{
		sessions: sessions,
		logger:   logger,
	}
}

// CleanupExpiredSessions removes sessions past their expiry
func (s *CleanupService) CleanupExpiredSessions() int {
	removed := s.sessions.Sweep()

	s.logger.Info("Session cleanup completed",
		zap.Int("removed", removed),
		zap.Int("active", s.sessions.Len()),
	)
	return removed
}
