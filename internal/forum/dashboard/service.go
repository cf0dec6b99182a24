package dashboard

import (
	"context"
	"log/slog"
)

// RecentUserSource supplies the recent registration feed. Satisfied by
// activity.Tracker.
type RecentUserSource interface {
	RecentUsers(context context.Context) ([]string, error)
}

type Service struct {
	repo   Repository
	recent RecentUserSource
	logger *slog.Logger
}

func NewService(repo Repository, recent RecentUserSource, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		recent: recent,
		logger: logger,
	}
}

// GetStats collects the row counts and the recent registration feed. The
// feed is best-effort: a cache failure degrades it to an empty list.
func (service *Service) GetStats(context context.Context) (*Stats, error) {
	stats, err := service.repo.Counts(context)
	if err != nil {
		return nil, err
	}

	recent, err := service.recent.RecentUsers(context)
	if err != nil {
		service.logger.WarnContext(context, "recent_users_unavailable", slog.Any("error", err))
		recent = []string{}
	}
	if recent == nil {
		recent = []string{}
	}
	stats.RecentUsers = recent

	return stats, nil
}
