package service

import (
	"context"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-rooms-api/internal/dto"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

// priorityKey is the redis set holding operator-selected priority group IDs.
const priorityKey = "rooms:priority-groups"

// PreferenceService persists the priority group set. The set survives
// restarts and is shared by every operator session.
type PreferenceService struct {
	client *redis.Client
	logger *zap.Logger
}

// NewPreferenceService wires the redis-backed store.
func NewPreferenceService(client *redis.Client, logger *zap.Logger) *PreferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{client: client, logger: logger}
}

// Get returns the stored priority group IDs, sorted.
func (s *PreferenceService) Get(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, nil
	}
	ids, err := s.client.SMembers(ctx, priorityKey).Result()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load priority groups")
	}
	sort.Strings(ids)
	return ids, nil
}

// Replace swaps the stored set for the given IDs atomically. An empty list is
// rejected: SAdd with zero members would fail after the DEL already ran,
// wiping the stored set. Callers clear via Clear.
func (s *PreferenceService) Replace(ctx context.Context, req dto.PriorityGroupsRequest) ([]string, error) {
	if len(req.GroupIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one group id is required")
	}
	if s.client == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "priority store unavailable")
	}
	members := make([]interface{}, 0, len(req.GroupIDs))
	for _, id := range req.GroupIDs {
		members = append(members, id)
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, priorityKey)
	pipe.SAdd(ctx, priorityKey, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store priority groups")
	}
	s.logger.Info("priority groups replaced", zap.Int("count", len(req.GroupIDs)))
	return s.Get(ctx)
}

// Clear removes every stored priority group.
func (s *PreferenceService) Clear(ctx context.Context) error {
	if s.client == nil {
		return appErrors.Clone(appErrors.ErrInternal, "priority store unavailable")
	}
	if err := s.client.Del(ctx, priorityKey).Err(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear priority groups")
	}
	s.logger.Info("priority groups cleared")
	return nil
}
