package integrity

import (
	"context"
	"sync"

	"studyhub/core/apperr"
	"studyhub/core/models"
	"studyhub/core/storage"
	"studyhub/core/store"
	"studyhub/feature/integrity/checks"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrBucketDisabled is returned by bucket checks when backups go to files.
var ErrBucketDisabled = apperr.New(apperr.KindNotFound, "bucket_disabled", "backup bucket is not configured")

// Report combines every check. A check that could not run is listed in Errors.
type Report struct {
	Data   *checks.DataReport   `json:"data,omitempty"`
	Schema *checks.SchemaReport `json:"schema,omitempty"`
	Bucket *checks.BucketReport `json:"bucket,omitempty"`
	Errors map[string]string    `json:"errors"`
}

// Service handles integrity checks.
type Service struct {
	repo   store.Repository
	db     *gorm.DB
	client storage.Client
	bucket string
	region string
	prefix string
	logger *zap.Logger
}

// NewService creates a new integrity service. A nil client skips the bucket check.
func NewService(repo store.Repository, db *gorm.DB, client storage.Client, storageCfg storage.Config, prefix string, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		db:     db,
		client: client,
		bucket: storageCfg.Bucket,
		region: storageCfg.Region,
		prefix: prefix,
		logger: logger,
	}
}

// CheckData inspects the live collections.
func (s *Service) CheckData(ctx context.Context) (*checks.DataReport, error) {
	state, err := s.repo.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	return checks.CheckData(state), nil
}

// FixData repairs fixable data issues in one transaction and reports what
// remains.
func (s *Service) FixData(ctx context.Context) (*checks.DataReport, error) {
	var fixed []checks.Issue
	err := s.repo.Update(ctx, func(state *models.State) error {
		fixed = checks.RepairData(state)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, issue := range fixed {
		s.logger.Info("Repaired data issue", zap.String("check", issue.Check), zap.String("id", issue.ID))
	}

	report, err := s.CheckData(ctx)
	if err != nil {
		return nil, err
	}
	if len(fixed) > 0 && report.Status == "ok" {
		report.Status = "fixed"
	}
	return report, nil
}

// CheckSchema verifies the collections table.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// CheckBucket verifies the backup bucket.
func (s *Service) CheckBucket(ctx context.Context) (*checks.BucketReport, error) {
	if s.client == nil {
		return nil, ErrBucketDisabled
	}
	return checks.CheckBucket(ctx, s.client, s.bucket, s.prefix)
}

// FixBucket creates the backup bucket and export prefix.
func (s *Service) FixBucket(ctx context.Context) error {
	if s.client == nil {
		return ErrBucketDisabled
	}
	return checks.FixBucket(ctx, s.client, s.bucket, s.region, s.prefix, s.logger)
}

// RunAll runs every check concurrently. Failing checks do not stop the others.
func (s *Service) RunAll(ctx context.Context) *Report {
	report := &Report{Errors: map[string]string{}}
	var mu sync.Mutex
	fail := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Errors[name] = err.Error()
	}

	var g errgroup.Group
	g.Go(func() error {
		data, err := s.CheckData(ctx)
		if err != nil {
			fail("data", err)
			return nil
		}
		mu.Lock()
		report.Data = data
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		schema, err := s.CheckSchema()
		if err != nil {
			fail("schema", err)
			return nil
		}
		mu.Lock()
		report.Schema = schema
		mu.Unlock()
		return nil
	})
	if s.client != nil {
		g.Go(func() error {
			bucket, err := s.CheckBucket(ctx)
			if err != nil {
				fail("bucket", err)
				return nil
			}
			mu.Lock()
			report.Bucket = bucket
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return report
}
