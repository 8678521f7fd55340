package services

import (
	"context"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/repos"
)

// FilterService backs the cascading site → sdwt → equipment selectors on
// every dashboard page.
type FilterService interface {
	Sites(ctx context.Context) ([]string, error)
	Sdwts(ctx context.Context, site string) ([]string, error)
	EquipmentIDs(ctx context.Context, site, sdwt string) ([]string, error)
}

type filterService struct {
	log      *logger.Logger
	sdwtRepo repos.SdwtRepo
	eqpRepo  repos.EquipmentRepo
}

func NewFilterService(sdwtRepo repos.SdwtRepo, eqpRepo repos.EquipmentRepo, baseLog *logger.Logger) FilterService {
	return &filterService{
		log:      baseLog.With("service", "FilterService"),
		sdwtRepo: sdwtRepo,
		eqpRepo:  eqpRepo,
	}
}

func (s *filterService) Sites(ctx context.Context) ([]string, error) {
	sites, err := s.sdwtRepo.Sites(ctx, nil)
	if err != nil {
		return nil, err
	}
	if sites == nil {
		sites = []string{}
	}
	return sites, nil
}

func (s *filterService) Sdwts(ctx context.Context, site string) ([]string, error) {
	sdwts, err := s.sdwtRepo.Sdwts(ctx, nil, site)
	if err != nil {
		return nil, err
	}
	if sdwts == nil {
		sdwts = []string{}
	}
	return sdwts, nil
}

func (s *filterService) EquipmentIDs(ctx context.Context, site, sdwt string) ([]string, error) {
	ids, err := s.eqpRepo.IDs(ctx, nil, repos.EquipmentFilter{Site: site, Sdwt: sdwt})
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
