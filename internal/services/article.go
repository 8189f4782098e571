package services

import (
	"context"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"

	"go.uber.org/zap"
)

type ArticleService struct {
	repo repository.ArticleRepo
}

func NewArticleService(repo repository.ArticleRepo) *ArticleService {
	return &ArticleService{repo: repo}
}

func (s *ArticleService) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	logger.Log.Info("service: creating article", zap.String("title", a.Title))

	out, err := s.repo.Create(ctx, a)
	if err != nil {
		logger.Log.Error("service: article create failed", zap.Error(err))
		return nil, err
	}

	logger.Log.Info("service: article created", zap.Int64("article_id", out.ID))
	return out, nil
}

func (s *ArticleService) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Log.Warn("service: article not found", zap.Int64("article_id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (s *ArticleService) List(ctx context.Context, f models.ArticleFilter) ([]*models.Article, error) {
	items, err := s.repo.List(ctx, f)
	if err != nil {
		logger.Log.Error("service: article list failed", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (s *ArticleService) Update(ctx context.Context, a *models.Article) error {
	logger.Log.Info("service: updating article", zap.Int64("article_id", a.ID))

	if err := s.repo.Update(ctx, a); err != nil {
		logger.Log.Error("service: article update failed", zap.Int64("article_id", a.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *ArticleService) Delete(ctx context.Context, id int64) error {
	logger.Log.Info("service: deleting article", zap.Int64("article_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Log.Error("service: article delete failed", zap.Int64("article_id", id), zap.Error(err))
		return err
	}
	return nil
}

// SetStatus drives the draft→published transition the detector watches for.
func (s *ArticleService) SetStatus(ctx context.Context, id int64, status string) error {
	logger.Log.Info("service: article status change",
		zap.Int64("article_id", id), zap.String("status", status))

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		logger.Log.Error("service: status change failed", zap.Int64("article_id", id), zap.Error(err))
		return err
	}
	return nil
}
