package booking

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"skillswap/models"
	"skillswap/utils"
)

// GetSession serves session reads, through the Redis cache when configured.
// Conflict checks and transition guards never come through here; they always
// read the store directly.
func (s *DefaultBookingService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, utils.SessionCachePrefix+sessionID).Result(); err == nil {
			var session models.Session
			if err := json.Unmarshal([]byte(data), &session); err == nil {
				return &session, nil
			}
		}
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if data, err := json.Marshal(session); err == nil {
			if err := s.Cache.Set(ctx, utils.SessionCachePrefix+sessionID, data, utils.SessionCacheTTL).Err(); err != nil {
				utils.GetLogger().Debug("failed to cache session",
					zap.String("sessionID", sessionID), zap.Error(err))
			}
		}
	}
	return session, nil
}

// invalidateCache drops the cached copy after any successful write.
func (s *DefaultBookingService) invalidateCache(ctx context.Context, sessionID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, utils.SessionCachePrefix+sessionID).Err(); err != nil {
		utils.GetLogger().Debug("failed to invalidate session cache",
			zap.String("sessionID", sessionID), zap.Error(err))
	}
}
