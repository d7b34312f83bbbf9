package service

import (
	"context"
	"errors"
	"sync"

	"digistore/internal/domain/siteconfig/model"
	"digistore/internal/domain/siteconfig/repository"
	"digistore/internal/pkg/config"
)

type UpdateInput struct {
	Banners            model.Banners
	ContactEmail       string
	ContactPhone       string
	Currency           string
	ConversionRate     float64
	TaxRate            float64
	BannerIntervalSecs int
	DealsRotationSecs  int
}

type SiteConfigService interface {
	Get(ctx context.Context) (*model.SiteConfig, error)
	Update(ctx context.Context, in UpdateInput) (*model.SiteConfig, error)
}

type siteConfigService struct {
	repo repository.SiteConfigRepository
	mu   sync.Mutex
}

func NewSiteConfigService(repo repository.SiteConfigRepository) SiteConfigService {
	return &siteConfigService{repo: repo}
}

// Get returns the singleton row, creating it with defaults on first read.
func (s *siteConfigService) Get(ctx context.Context) (*model.SiteConfig, error) {
	cfg, err := s.repo.Get()
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, repository.ErrNotSeeded) {
		return nil, err
	}

	// serialize lazy creation; a lost race falls back to re-reading
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg, err := s.repo.Get(); err == nil {
		return cfg, nil
	}

	cfg = defaultConfig()
	if err := s.repo.Create(cfg); err != nil {
		if existing, gErr := s.repo.Get(); gErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *model.SiteConfig {
	currency := config.GlobalConfig.App.Currency
	if currency == "" {
		currency = "USD"
	}
	return &model.SiteConfig{
		Currency:           currency,
		ConversionRate:     1,
		TaxRate:            0,
		BannerIntervalSecs: 5,
		DealsRotationSecs:  8,
	}
}

func (s *siteConfigService) Update(ctx context.Context, in UpdateInput) (*model.SiteConfig, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	cfg.Banners = in.Banners
	cfg.ContactEmail = in.ContactEmail
	cfg.ContactPhone = in.ContactPhone
	if in.Currency != "" {
		cfg.Currency = in.Currency
	}
	if in.ConversionRate > 0 {
		cfg.ConversionRate = in.ConversionRate
	}
	if in.TaxRate >= 0 {
		cfg.TaxRate = in.TaxRate
	}
	if in.BannerIntervalSecs > 0 {
		cfg.BannerIntervalSecs = in.BannerIntervalSecs
	}
	if in.DealsRotationSecs > 0 {
		cfg.DealsRotationSecs = in.DealsRotationSecs
	}

	if err := s.repo.Update(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
