package leavereport

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"markpedia-os/internal/leave"
	leavereporterrors "markpedia-os/internal/leavereport/errors"
	"markpedia-os/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	fieldOverview   = "overview"
	fieldDepartment = "department"

	defaultCacheTTL = 10 * time.Minute
)

func MonthlyField(month string) string  { return "monthly:" + month }
func CalendarField(month string) string { return "calendar:" + month }

//go:generate mockgen -source=leave_report_service.go -destination=mock/leave_report_service_mock.go -package=mock
type Service interface {
	Overview(ctx context.Context, companyID string) (OverviewResponse, error)
	DepartmentSummary(ctx context.Context, companyID string) (DepartmentSummaryResponse, error)
	Monthly(ctx context.Context, companyID, month string) (MonthlyReportResponse, error)
	Calendar(ctx context.Context, companyID, month string) (CalendarResponse, error)
	ExportMonthly(ctx context.Context, companyID, month string) ([]byte, error)
}

type service struct {
	repo     leave.Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService builds the reporting service. rdb may be nil, in which case every
// call reads the database.
func NewService(repo leave.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavereport.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavereport.service")
	}
	return &service{
		repo:     repo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		cacheTTL: defaultCacheTTL,
		logger:   l,
	}
}

func (s *service) Overview(ctx context.Context, companyID string) (OverviewResponse, error) {
	var resp OverviewResponse
	err := s.cached(ctx, companyID, fieldOverview, &resp, func() (any, error) {
		leaves, err := s.repo.FindForReport(ctx, companyID, leave.ReportFilter{})
		if err != nil {
			return nil, err
		}
		return buildOverview(leaves), nil
	})
	return resp, err
}

func (s *service) DepartmentSummary(ctx context.Context, companyID string) (DepartmentSummaryResponse, error) {
	var resp DepartmentSummaryResponse
	err := s.cached(ctx, companyID, fieldDepartment, &resp, func() (any, error) {
		leaves, err := s.repo.FindForReport(ctx, companyID, leave.ReportFilter{})
		if err != nil {
			return nil, err
		}
		return buildDepartmentSummary(leaves), nil
	})
	return resp, err
}

func (s *service) Monthly(ctx context.Context, companyID, month string) (MonthlyReportResponse, error) {
	first, last, err := ParseMonth(month)
	if err != nil {
		return MonthlyReportResponse{}, err
	}

	var resp MonthlyReportResponse
	err = s.cached(ctx, companyID, MonthlyField(month), &resp, func() (any, error) {
		leaves, err := s.repo.FindForReport(ctx, companyID, leave.ReportFilter{From: &first, To: &last})
		if err != nil {
			return nil, err
		}
		return buildMonthly(month, first, last, leaves), nil
	})
	return resp, err
}

func (s *service) Calendar(ctx context.Context, companyID, month string) (CalendarResponse, error) {
	first, last, err := ParseMonth(month)
	if err != nil {
		return CalendarResponse{}, err
	}

	var resp CalendarResponse
	err = s.cached(ctx, companyID, CalendarField(month), &resp, func() (any, error) {
		leaves, err := s.repo.FindForReport(ctx, companyID, leave.ReportFilter{From: &first, To: &last})
		if err != nil {
			return nil, err
		}
		return buildCalendar(month, first, last, leaves), nil
	})
	return resp, err
}

func (s *service) ExportMonthly(ctx context.Context, companyID, month string) ([]byte, error) {
	report, err := s.Monthly(ctx, companyID, month)
	if err != nil {
		return nil, err
	}

	data, err := writeMonthlyWorkbook(report)
	if err != nil {
		s.logger.Error("failed to build monthly leave workbook",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("month", month),
			zap.Error(err),
		)
		return nil, leavereporterrors.ErrExportFailed
	}
	return data, nil
}

// cached serves one projection out of the company's stats hash. On a miss the
// loader runs once per key across concurrent callers and the result is
// written back to the hash of the generation read before loading. Leave
// writes bump the generation after they commit, so a result loaded from rows
// that a write has since changed lands in a hash no reader looks at again.
func (s *service) cached(ctx context.Context, companyID, field string, dst any, load func() (any, error)) error {
	if _, err := uuid.Parse(companyID); err != nil {
		return leavereporterrors.ErrInvalidCompanyID
	}

	key, ok := s.cacheKey(ctx, companyID)
	if ok {
		raw, err := s.rdb.HGet(ctx, key, field).Bytes()
		if err == nil {
			if jsonErr := json.Unmarshal(raw, dst); jsonErr == nil {
				return nil
			}
			s.logger.Warn("discarding unreadable leave stats cache entry",
				zap.String("key", key),
				zap.String("field", field),
			)
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("leave stats cache read failed",
				zap.String("key", key),
				zap.String("field", field),
				zap.Error(err),
			)
		}
	}

	sfKey := companyID + ":" + field
	if ok {
		sfKey = key + ":" + field
	}
	v, err, _ := s.sf.Do(sfKey, func() (interface{}, error) {
		result, err := load()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}

		if ok {
			if err := s.rdb.HSet(ctx, key, field, data).Err(); err != nil {
				s.logger.Warn("leave stats cache write failed",
					zap.String("key", key),
					zap.String("field", field),
					zap.Error(err),
				)
			} else {
				s.rdb.Expire(ctx, key, s.cacheTTL)
			}
		}
		return data, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(v.([]byte), dst)
}

// cacheKey resolves the hash of the company's current stats generation. It
// reports false when there is no redis or the generation cannot be read, and
// the caller then bypasses the cache.
func (s *service) cacheKey(ctx context.Context, companyID string) (string, bool) {
	if s.rdb == nil {
		return "", false
	}

	generation, err := s.rdb.Get(ctx, leave.StatsGenerationKey(companyID)).Int64()
	if errors.Is(err, redis.Nil) {
		generation, err = 0, nil
	}
	if err != nil {
		s.logger.Warn("leave stats generation read failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return "", false
	}
	return leave.StatsCacheKey(companyID, generation), true
}
