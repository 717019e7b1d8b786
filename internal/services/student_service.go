package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/avelines/gradeboard/internal/cache"
	"github.com/avelines/gradeboard/internal/models"
	"github.com/avelines/gradeboard/internal/perf"
	apperrors "github.com/avelines/gradeboard/pkg/errors"
	"github.com/avelines/gradeboard/pkg/logger"
	"github.com/avelines/gradeboard/pkg/metrics"
)

// DefaultCacheTTL is applied when no ttl is configured.
const DefaultCacheTTL = 300 * time.Second

const (
	// MinGrade and MaxGrade bound the accepted grading scale.
	MinGrade = 0.0
	MaxGrade = 20.0
)

// StudentService orchestrates student reads through the cache and keeps the
// cache consistent with writes. The cache and recorder are passive
// collaborators: every policy decision lives here.
type StudentService struct {
	db       *gorm.DB
	cache    cache.Store
	recorder perf.Recorder
	ttl      time.Duration
	log      *zap.Logger
}

// NewStudentService constructs the service. The cache store and recorder are
// required; ttl falls back to DefaultCacheTTL when zero.
func NewStudentService(db *gorm.DB, store cache.Store, recorder perf.Recorder, ttl time.Duration) (*StudentService, error) {
	if db == nil {
		return nil, errors.New("student service: db is required")
	}
	if store == nil {
		return nil, errors.New("student service: cache store is required")
	}
	if recorder == nil {
		return nil, errors.New("student service: recorder is required")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &StudentService{
		db:       db,
		cache:    store,
		recorder: recorder,
		ttl:      ttl,
		log:      logger.WithModule("students"),
	}, nil
}

// ListStudentsResult carries a listing along with where it was served from.
type ListStudentsResult struct {
	Students  []models.Student
	FromCache bool
	// AccessTime is the lookup/query latency in milliseconds, rounded to two
	// decimal places. Serialization to the caller is excluded.
	AccessTime float64
}

// CreateStudentInput captures required fields when creating a student.
type CreateStudentInput struct {
	Name  string
	Grade float64
}

// UpdateStudentInput describes mutable student fields. A nil pointer indicates no change.
type UpdateStudentInput struct {
	Name  *string
	Grade *float64
}

// List returns students matching the optional name filter, serving from the
// cache when possible and repopulating it on a miss.
func (s *StudentService) List(ctx context.Context, nameFilter string) (ListStudentsResult, error) {
	ctx = ensuredContext(ctx)

	nameFilter = strings.TrimSpace(nameFilter)
	key := cache.NamespaceStudents.Key(cache.FilterDiscriminator(nameFilter))

	if result, ok := s.lookupCache(ctx, key); ok {
		return result, nil
	}

	start := time.Now()
	students, err := s.queryStudents(ctx, nameFilter)
	latency := roundMillis(time.Since(start))
	if err != nil {
		return ListStudentsResult{}, apperrors.NewStorage(err, "failed to load students")
	}

	s.recordSample(ctx, perf.SourceDatabase, latency)
	s.populateCache(ctx, key, students)

	return ListStudentsResult{Students: students, FromCache: false, AccessTime: latency}, nil
}

// lookupCache measures a single cache lookup. Backend failures and undecodable
// payloads degrade to a miss.
func (s *StudentService) lookupCache(ctx context.Context, key string) (ListStudentsResult, bool) {
	start := time.Now()
	payload, ok, err := s.cache.Get(ctx, key)
	latency := roundMillis(time.Since(start))

	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("cache unavailable, falling back to database", zap.String("key", key), zap.Error(err))
		return ListStudentsResult{}, false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return ListStudentsResult{}, false
	}

	var students []models.Student
	if err := json.Unmarshal(payload, &students); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return ListStudentsResult{}, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	s.recordSample(ctx, perf.SourceCache, latency)

	return ListStudentsResult{Students: students, FromCache: true, AccessTime: latency}, true
}

func (s *StudentService) queryStudents(ctx context.Context, nameFilter string) ([]models.Student, error) {
	query := s.db.WithContext(ctx).Model(&models.Student{})
	if nameFilter != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameFilter)+"%")
	}

	students := make([]models.Student, 0)
	if err := query.Order("name ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// populateCache writes the listing back under the supplied key. Failures are
// non-fatal: the caller already holds the authoritative result.
func (s *StudentService) populateCache(ctx context.Context, key string, students []models.Student) {
	payload, err := json.Marshal(students)
	if err != nil {
		s.log.Warn("failed to encode listing for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.log.Warn("failed to populate cache", zap.String("key", key), zap.Error(err))
	}
}

// Create validates and persists a new student, then invalidates every cached
// listing.
func (s *StudentService) Create(ctx context.Context, input CreateStudentInput) (*models.Student, error) {
	ctx = ensuredContext(ctx)

	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := validateGrade(input.Grade); err != nil {
		return nil, err
	}

	student := models.Student{Name: name, Grade: input.Grade}
	if err := s.db.WithContext(ctx).Create(&student).Error; err != nil {
		return nil, apperrors.NewStorage(err, "failed to create student")
	}

	s.invalidateListings(ctx)
	return &student, nil
}

// Update applies a partial mutation to an existing student and invalidates
// every cached listing on success.
func (s *StudentService) Update(ctx context.Context, id uint, input UpdateStudentInput) (*models.Student, error) {
	ctx = ensuredContext(ctx)

	updates := make(map[string]interface{}, 2)

	if input.Name != nil {
		name, err := validateName(*input.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if input.Grade != nil {
		if err := validateGrade(*input.Grade); err != nil {
			return nil, err
		}
		updates["grade"] = *input.Grade
	}

	student, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return student, nil
	}

	if err := s.db.WithContext(ctx).Model(student).Updates(updates).Error; err != nil {
		return nil, apperrors.NewStorage(err, "failed to update student")
	}

	s.invalidateListings(ctx)
	return student, nil
}

// Delete removes a student and invalidates every cached listing on success.
func (s *StudentService) Delete(ctx context.Context, id uint) error {
	ctx = ensuredContext(ctx)

	student, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(student).Error; err != nil {
		return apperrors.NewStorage(err, "failed to delete student")
	}

	s.invalidateListings(ctx)
	return nil
}

// ClearCache voids every cached listing on demand, returning the number of
// entries removed.
func (s *StudentService) ClearCache(ctx context.Context) (int64, error) {
	ctx = ensuredContext(ctx)

	deleted, err := s.cache.DeletePrefix(ctx, cache.NamespaceStudents.Prefix())
	if err != nil {
		return 0, apperrors.NewStorage(err, "failed to clear cache")
	}

	metrics.CacheInvalidations.Inc()
	return deleted, nil
}

// PerformanceReport bundles latency statistics with backend counters for the
// dashboard.
type PerformanceReport struct {
	Metrics    perf.Snapshot      `json:"metrics"`
	CacheStats *cache.BackendStats `json:"cache_stats,omitempty"`
}

// Performance snapshots the latency recorder and, best-effort, the cache
// backend's own counters.
func (s *StudentService) Performance(ctx context.Context) (PerformanceReport, error) {
	ctx = ensuredContext(ctx)

	snapshot, err := s.recorder.Snapshot(ctx)
	if err != nil {
		return PerformanceReport{}, apperrors.NewStorage(err, "failed to load performance metrics")
	}

	report := PerformanceReport{Metrics: snapshot}

	stats, err := s.cache.Stats(ctx)
	if err != nil {
		s.log.Warn("cache backend stats unavailable", zap.Error(err))
	} else {
		report.CacheStats = &stats
	}

	return report, nil
}

func (s *StudentService) getByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := s.db.WithContext(ctx).First(&student, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("student not found")
	}
	if err != nil {
		return nil, apperrors.NewStorage(err, "failed to load student")
	}
	return &student, nil
}

// invalidateListings voids the whole students namespace after a successful
// write. The coarse policy guarantees no stale read survives any write; a
// failed invalidation only risks a brief staleness window, never store
// corruption, so it is logged and not retried.
func (s *StudentService) invalidateListings(ctx context.Context) {
	deleted, err := s.cache.DeletePrefix(ctx, cache.NamespaceStudents.Prefix())
	if err != nil {
		s.log.Warn("cache invalidation failed", zap.Error(err))
		return
	}

	metrics.CacheInvalidations.Inc()
	if deleted > 0 {
		s.log.Debug("cache invalidated", zap.Int64("deleted", deleted))
	}
}

// recordSample forwards a latency sample to the recorder. Telemetry failures
// never affect the caller's request.
func (s *StudentService) recordSample(ctx context.Context, source perf.Source, latencyMs float64) {
	if err := s.recorder.Record(ctx, source, latencyMs); err != nil {
		s.log.Warn("failed to record latency sample", zap.String("source", string(source)), zap.Error(err))
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidation("name cannot be empty")
	}
	return name, nil
}

func validateGrade(grade float64) error {
	if math.IsNaN(grade) || grade < MinGrade || grade > MaxGrade {
		return apperrors.NewValidation(fmt.Sprintf("grade must be between %.0f and %.0f", MinGrade, MaxGrade))
	}
	return nil
}

func roundMillis(d time.Duration) float64 {
	ms := float64(d.Nanoseconds()) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
