package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/unpuzzledd/academy-api/internal/models"
	"github.com/unpuzzledd/academy-api/internal/schedule"
	appErrors "github.com/unpuzzledd/academy-api/pkg/errors"
)

type batchScheduleReader interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	ListScheduleEntries(ctx context.Context, batchID string) ([]models.WeeklyScheduleEntry, error)
}

type exceptionLister interface {
	ListByBatch(ctx context.Context, batchID string) ([]models.ScheduleException, error)
}

type cacheObserver interface {
	ObserveCacheLookup(hit bool)
}

// ScheduleServiceConfig tunes materialization and caching.
type ScheduleServiceConfig struct {
	CacheTTL    time.Duration
	HorizonDays int
}

// ScheduleService materializes batch schedules by combining the stored weekly
// pattern and exceptions through the schedule engine. Results are cached in
// Redis per batch and range; writes to the pattern or exceptions invalidate
// the batch's cached entries.
type ScheduleService struct {
	batches    batchScheduleReader
	exceptions exceptionLister
	cache      *redis.Client
	metrics    cacheObserver
	logger     *zap.Logger
	config     ScheduleServiceConfig

	// now is swapped in tests to make the forward-looking clamp deterministic.
	now func() time.Time
}

// NewScheduleService wires the schedule read path.
func NewScheduleService(batches batchScheduleReader, exceptions exceptionLister, cache *redis.Client, logger *zap.Logger, cfg ScheduleServiceConfig) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 60
	}
	return &ScheduleService{
		batches:    batches,
		exceptions: exceptions,
		cache:      cache,
		logger:     logger,
		config:     cfg,
		now:        time.Now,
	}
}

// SetMetrics attaches cache instrumentation. Optional.
func (s *ScheduleService) SetMetrics(metrics cacheObserver) {
	s.metrics = metrics
}

// GetBatchSchedule returns the merged, date-ordered occurrences for a batch.
// from defaults to today and to defaults to the batch end date; the range is
// capped at the configured horizon.
func (s *ScheduleService) GetBatchSchedule(ctx context.Context, batchID, from, to string) ([]models.MergedOccurrence, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	now := s.now()
	if from == "" {
		from = now.Format(schedule.DateLayout)
	}
	if to == "" {
		to = batch.EndDate
	}

	rangeStart, err := time.Parse(schedule.DateLayout, from)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must be a YYYY-MM-DD date")
	}
	rangeEnd, err := time.Parse(schedule.DateLayout, to)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must be a YYYY-MM-DD date")
	}

	if horizon := now.AddDate(0, 0, s.config.HorizonDays); rangeEnd.After(horizon) {
		rangeEnd = horizon
		to = horizon.Format(schedule.DateLayout)
	}

	cacheKey := fmt.Sprintf("schedule:%s:%s:%s", batchID, from, to)
	cached, hit := s.fromCache(ctx, cacheKey)
	if s.metrics != nil && s.cache != nil {
		s.metrics.ObserveCacheLookup(hit)
	}
	if hit {
		return cached, nil
	}

	pattern, err := s.batches.ListScheduleEntries(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly pattern")
	}
	exceptions, err := s.exceptions.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule exceptions")
	}

	merged := schedule.Materialize(pattern, exceptions, rangeStart, rangeEnd, now)
	s.toCache(ctx, cacheKey, merged)
	return merged, nil
}

// NextOccurrence locates the first upcoming class slot that is not cancelled.
func (s *ScheduleService) NextOccurrence(ctx context.Context, batchID string) (*models.MergedOccurrence, error) {
	merged, err := s.GetBatchSchedule(ctx, batchID, "", "")
	if err != nil {
		return nil, err
	}
	for i := range merged {
		if merged[i].Status != models.OccurrenceStatusUnavailable {
			return &merged[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no upcoming class in range")
}

// InvalidateBatch drops every cached range for a batch. Called by the write
// paths after pattern or exception changes.
func (s *ScheduleService) InvalidateBatch(ctx context.Context, batchID string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("schedule:%s:*", batchID)
	iter := s.cache.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("failed to drop cached schedule", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("schedule cache scan failed", zap.Error(err))
	}
}

func (s *ScheduleService) fromCache(ctx context.Context, key string) ([]models.MergedOccurrence, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("schedule cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var merged []models.MergedOccurrence
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, false
	}
	return merged, true
}

func (s *ScheduleService) toCache(ctx context.Context, key string, merged []models.MergedOccurrence) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn("schedule cache write failed", zap.Error(err))
	}
}
