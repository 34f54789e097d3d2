package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

// DashboardService assembles the landing-page snapshot and the two paginated
// feeds. The snapshot is cached in redis with a short TTL; ledger status
// computations elsewhere are never cached.
type DashboardService interface {
	GetSummary(ctx context.Context, batchID *uint) (dto.DashboardResponse, error)
	GetActivities(ctx context.Context, page, limit int, batchID *uint) (dto.ActivityFeedResponse, error)
	GetPayments(ctx context.Context, page, limit int, batchID *uint) (dto.PaymentFeedResponse, error)
}

type dashboardService struct {
	dashboard   repository.DashboardRepository
	batches     repository.BatchRepository
	logs        repository.StudentLogRepository
	collections repository.FeeCollectionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService constructs the dashboard service. The cache client may
// be nil, in which case every call recomputes the snapshot.
func NewDashboardService(
	dashboard repository.DashboardRepository,
	batches repository.BatchRepository,
	logs repository.StudentLogRepository,
	collections repository.FeeCollectionRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		dashboard:   dashboard,
		batches:     batches,
		logs:        logs,
		collections: collections,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) GetSummary(ctx context.Context, batchID *uint) (dto.DashboardResponse, error) {
	cacheKey := "dashboard:summary:all"
	if batchID != nil {
		cacheKey = fmt.Sprintf("dashboard:summary:%d", *batchID)
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("key", cacheKey).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	response, err := s.buildSummary(ctx, batchID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) buildSummary(ctx context.Context, batchID *uint) (dto.DashboardResponse, error) {
	batches, err := s.batches.List(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	// Default to the batch with the highest start year.
	var selected *dto.DashboardBatch
	selectedID := batchID
	if selectedID == nil {
		latest, err := s.batches.Latest(ctx)
		switch {
		case err == nil:
			selectedID = &latest.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return dto.DashboardResponse{}, err
		}
	}

	batchList := make([]dto.DashboardBatch, 0, len(batches))
	for _, batch := range batches {
		item := dto.DashboardBatch{
			ID:        batch.ID,
			Name:      batch.Name,
			StartYear: batch.StartYear,
			EndYear:   batch.EndYear,
		}
		batchList = append(batchList, item)
		if selectedID != nil && batch.ID == *selectedID {
			picked := item
			selected = &picked
		}
	}

	totalStudents, err := s.dashboard.CountStudents(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	totalClasses, err := s.dashboard.CountClasses(ctx, nil, false)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	activeClasses, err := s.dashboard.CountClasses(ctx, selectedID, true)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	totalStaff, err := s.dashboard.CountStaff(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	totalCollected, err := s.dashboard.SumCollectedFees(ctx, nil)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	var studentsInBatch int64
	var batchCollected float64
	if selectedID != nil {
		studentsInBatch, err = s.dashboard.CountStudentsInBatch(ctx, *selectedID)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		batchCollected, err = s.dashboard.SumCollectedFees(ctx, selectedID)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
	}

	return dto.DashboardResponse{
		Summary: dto.DashboardSummary{
			TotalStudents:      totalStudents,
			TotalClasses:       totalClasses,
			ActiveClasses:      activeClasses,
			TotalStaff:         totalStaff,
			TotalCollectedFees: totalCollected,
			StudentsInBatch:    studentsInBatch,
			BatchCollectedFees: batchCollected,
		},
		Batches:       batchList,
		SelectedBatch: selected,
	}, nil
}

func (s *dashboardService) GetActivities(ctx context.Context, page, limit int, batchID *uint) (dto.ActivityFeedResponse, error) {
	logs, total, err := s.logs.Feed(ctx, page, limit, batchID)
	if err != nil {
		return dto.ActivityFeedResponse{}, err
	}

	activities := make([]dto.ActivityFeedItem, 0, len(logs))
	for _, log := range logs {
		userName := log.User.Name
		if userName == "" {
			userName = "System"
		}
		activities = append(activities, dto.ActivityFeedItem{
			ID:          log.ID,
			StudentName: log.Student.FullName(),
			StudentRoll: log.Student.AdmissionNumber,
			Action:      log.Action,
			Field:       log.Field,
			User:        userName,
			CreatedAt:   log.CreatedAt,
		})
	}

	return dto.ActivityFeedResponse{
		Activities: activities,
		Pagination: dto.NewFeedPagination(page, limit, total),
	}, nil
}

func (s *dashboardService) GetPayments(ctx context.Context, page, limit int, batchID *uint) (dto.PaymentFeedResponse, error) {
	collections, total, err := s.collections.Feed(ctx, page, limit, batchID)
	if err != nil {
		return dto.PaymentFeedResponse{}, err
	}

	payments := make([]dto.PaymentFeedItem, 0, len(collections))
	for _, collection := range collections {
		payments = append(payments, dto.PaymentFeedItem{
			ID:            collection.ID,
			StudentName:   collection.Student.FullName(),
			StudentRoll:   collection.Student.AdmissionNumber,
			Amount:        collection.AmountPaid,
			PaymentDate:   collection.PaymentDate,
			PaymentMethod: collection.PaymentMethod,
			Status:        collection.Status,
		})
	}

	return dto.PaymentFeedResponse{
		Payments:   payments,
		Pagination: dto.NewFeedPagination(page, limit, total),
	}, nil
}
