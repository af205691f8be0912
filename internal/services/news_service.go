package services

import (
	"context"
	"fmt"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/utils"
	"go.uber.org/zap"
)

// NewsService manages portal announcements.
type NewsService struct {
	store  NewsStore
	logger *logging.SafeLogger
	clock  utils.Clock
}

// NewsServiceOption configures a NewsService.
type NewsServiceOption func(*NewsService)

// WithNewsClock overrides the clock used for timestamps.
func WithNewsClock(clock utils.Clock) NewsServiceOption {
	return func(s *NewsService) {
		s.clock = clock
	}
}

// NewNewsService creates a new news service
func NewNewsService(store NewsStore, logger *logging.SafeLogger, opts ...NewsServiceOption) *NewsService {
	s := &NewsService{store: store, logger: logger, clock: utils.SystemClock}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListNews returns every item, newest first.
func (s *NewsService) ListNews(ctx context.Context) ([]models.News, error) {
	news, err := s.store.ListNews(ctx)
	if err != nil {
		s.logger.Error("failed to list news", zap.Error(err))
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	if news == nil {
		news = []models.News{}
	}
	return news, nil
}

// GetNews returns one item.
func (s *NewsService) GetNews(ctx context.Context, id string) (*models.News, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	news, err := s.store.FindNews(ctx, oid)
	if err != nil {
		return nil, wrapNotFound(err, models.ErrNewsNotFound, "failed to load news")
	}
	return news, nil
}

// CreateNews validates and stores a new item.
func (s *NewsService) CreateNews(ctx context.Context, in *models.NewsInput) (*models.News, error) {
	if err := validateNewsInput(in).Err(); err != nil {
		return nil, err
	}

	now := s.clock()
	news := &models.News{CreatedAt: now, UpdatedAt: now}
	in.ApplyTo(news)

	if err := s.store.InsertNews(ctx, news); err != nil {
		s.logger.Error("failed to insert news", zap.Error(err))
		return nil, fmt.Errorf("failed to create news: %w", err)
	}

	s.logger.Info("news created", zap.String("id", news.ID.Hex()), zap.Bool("important", news.IsImportant))
	return news, nil
}

// UpdateNews replaces the content of an existing item.
func (s *NewsService) UpdateNews(ctx context.Context, id string, in *models.NewsInput) (*models.News, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	if err := validateNewsInput(in).Err(); err != nil {
		return nil, err
	}

	news, err := s.store.FindNews(ctx, oid)
	if err != nil {
		return nil, wrapNotFound(err, models.ErrNewsNotFound, "failed to load news")
	}
	in.ApplyTo(news)
	news.UpdatedAt = s.clock()

	if err := s.store.ReplaceNews(ctx, news); err != nil {
		return nil, wrapNotFound(err, models.ErrNewsNotFound, "failed to update news")
	}

	s.logger.Info("news updated", zap.String("id", id))
	return news, nil
}

// DeleteNews removes an item.
func (s *NewsService) DeleteNews(ctx context.Context, id string) error {
	oid, err := ParseObjectID(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteNews(ctx, oid); err != nil {
		return wrapNotFound(err, models.ErrNewsNotFound, "failed to delete news")
	}

	s.logger.Info("news deleted", zap.String("id", id))
	return nil
}

func validateNewsInput(in *models.NewsInput) *models.ValidationError {
	if in == nil {
		return models.NewValidationError("body", "is required")
	}
	in.Trim()
	verr := utils.ValidateStruct(in)

	start, hasStart := models.ParseDate(in.StartDate)
	end, hasEnd := models.ParseDate(in.EndDate)
	if hasStart && hasEnd && end.Before(start) {
		verr.Add("endDate", "must not be before startDate")
	}
	return verr
}
