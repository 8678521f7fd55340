package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/metrics"
	"github.com/itm-platform/itm-data-api/internal/repos"
	"github.com/itm-platform/itm-data-api/internal/types"
)

// MetricConfigService manages the cfg_lot_uniformity_metrics allow-list.
// Names are stored lowercased; identity columns can never be added since
// the statistics path would drop them anyway.
type MetricConfigService interface {
	List(ctx context.Context) ([]*types.MetricConfig, error)
	Upsert(ctx context.Context, metricName, isExcluded string) (*types.MetricConfig, error)
	Delete(ctx context.Context, metricName string) error
}

type metricConfigService struct {
	log  *logger.Logger
	repo repos.MetricConfigRepo
}

func NewMetricConfigService(repo repos.MetricConfigRepo, baseLog *logger.Logger) MetricConfigService {
	return &metricConfigService{
		log:  baseLog.With("service", "MetricConfigService"),
		repo: repo,
	}
}

func (s *metricConfigService) List(ctx context.Context) ([]*types.MetricConfig, error) {
	cfgs, err := s.repo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	if cfgs == nil {
		cfgs = []*types.MetricConfig{}
	}
	return cfgs, nil
}

func (s *metricConfigService) Upsert(ctx context.Context, metricName, isExcluded string) (*types.MetricConfig, error) {
	name := strings.ToLower(strings.TrimSpace(metricName))
	if name == "" {
		return nil, fmt.Errorf("metric name is required")
	}
	for _, identity := range metrics.Excluded {
		if name == identity {
			return nil, fmt.Errorf("column %q is an identity column and cannot be a metric", name)
		}
	}
	flag := strings.ToUpper(strings.TrimSpace(isExcluded))
	if flag != "Y" {
		flag = "N"
	}
	cfg := &types.MetricConfig{MetricName: name, IsExcluded: flag}
	if err := s.repo.Upsert(ctx, nil, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *metricConfigService) Delete(ctx context.Context, metricName string) error {
	name := strings.ToLower(strings.TrimSpace(metricName))
	if name == "" {
		return fmt.Errorf("metric name is required")
	}
	return s.repo.Delete(ctx, nil, name)
}
