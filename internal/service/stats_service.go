package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

const statsCacheKey = "admissions:stats"

// StatsService produces aggregated workflow metrics for the admin dashboard.
type StatsService interface {
	GetStats(ctx context.Context) (dto.AdmissionStatsResponse, error)
}

type statsService struct {
	requests repository.ApplicationRequestRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStatsService builds the stats aggregator. A nil cache client disables
// caching without changing behaviour.
func NewStatsService(requests repository.ApplicationRequestRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StatsService {
	return &statsService{
		requests: requests,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "stats_service").Logger(),
		now:      time.Now,
	}
}

func (s *statsService) GetStats(ctx context.Context) (dto.AdmissionStatsResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey).Result(); err == nil {
			var response dto.AdmissionStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				s.logger.Debug().Msg("stats cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
		}
	}

	counts, err := s.requests.CountGrouped(ctx)
	if err != nil {
		return dto.AdmissionStatsResponse{}, err
	}

	weekAgo := s.now().AddDate(0, 0, -7)
	approvedLastWeek, err := s.requests.CountDecidedSince(ctx, models.RequestStatusApproved, weekAgo)
	if err != nil {
		return dto.AdmissionStatsResponse{}, err
	}
	rejectedLastWeek, err := s.requests.CountDecidedSince(ctx, models.RequestStatusRejected, weekAgo)
	if err != nil {
		return dto.AdmissionStatsResponse{}, err
	}

	response := s.buildResponse(counts, approvedLastWeek, rejectedLastWeek)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
			}
		}
	}

	return response, nil
}

func (s *statsService) buildResponse(counts []repository.RequestStatusCount, approvedLastWeek, rejectedLastWeek int64) dto.AdmissionStatsResponse {
	response := dto.AdmissionStatsResponse{
		ApprovedLastWeek: approvedLastWeek,
		RejectedLastWeek: rejectedLastWeek,
		GeneratedAt:      s.now().UTC(),
	}

	for _, count := range counts {
		breakdown := &response.Admissions
		if count.Kind == models.RequestKindTeacher {
			breakdown = &response.TeacherRequests
		}

		switch count.Status {
		case models.RequestStatusPending:
			breakdown.Pending += count.Count
		case models.RequestStatusApproved:
			breakdown.Approved += count.Count
		case models.RequestStatusRejected:
			breakdown.Rejected += count.Count
		}
	}

	return response
}
