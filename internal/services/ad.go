package services

import (
	"context"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"

	"go.uber.org/zap"
)

type AdService struct {
	repo repository.AdRepo
}

func NewAdService(repo repository.AdRepo) *AdService {
	return &AdService{repo: repo}
}

func (s *AdService) Create(ctx context.Context, ad *models.Ad) (int64, error) {
	logger.Log.Info("service: creating ad", zap.String("name", ad.Name), zap.String("placement", ad.Placement))

	id, err := s.repo.Create(ctx, ad)
	if err != nil {
		logger.Log.Error("service: ad create failed", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (s *AdService) GetByID(ctx context.Context, id int64) (*models.Ad, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AdService) List(ctx context.Context) ([]*models.Ad, error) {
	return s.repo.List(ctx)
}

func (s *AdService) ListActive(ctx context.Context, placement string) ([]*models.Ad, error) {
	return s.repo.ListActive(ctx, placement)
}

func (s *AdService) Update(ctx context.Context, ad *models.Ad) error {
	logger.Log.Info("service: updating ad", zap.Int64("ad_id", ad.ID))

	if err := s.repo.Update(ctx, ad); err != nil {
		logger.Log.Error("service: ad update failed", zap.Int64("ad_id", ad.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *AdService) Delete(ctx context.Context, id int64) error {
	logger.Log.Info("service: deleting ad", zap.Int64("ad_id", id))
	return s.repo.Delete(ctx, id)
}

func (s *AdService) SetActive(ctx context.Context, id int64, active bool) error {
	logger.Log.Info("service: ad active flag", zap.Int64("ad_id", id), zap.Bool("active", active))
	return s.repo.SetActive(ctx, id, active)
}

func (s *AdService) RecordImpression(ctx context.Context, id int64) error {
	return s.repo.RecordImpression(ctx, id)
}

func (s *AdService) RecordClick(ctx context.Context, id int64) error {
	return s.repo.RecordClick(ctx, id)
}
