package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/pdfrender"
	"github.com/itm-platform/itm-data-api/internal/query"
	"github.com/itm-platform/itm-data-api/internal/repos"
	"github.com/itm-platform/itm-data-api/internal/types"
	"github.com/itm-platform/itm-data-api/internal/utils"
)

// ErrArtifactNotFound signals expected absence (no artifact row, or no
// candidate matching the lot/wafer filename filter). Handlers map it to
// 404 instead of the 500 that processing failures get.
var ErrArtifactNotFound = errors.New("wafer map artifact not found")

const downloadTimeout = 10 * time.Second

type WaferMapCheck struct {
	Exists bool   `json:"exists"`
	URL    string `json:"url"`
}

type WaferMapService interface {
	CheckPDF(ctx context.Context, p query.WaferParams) (*WaferMapCheck, error)
	GetImage(ctx context.Context, p query.WaferParams) (string, error)
}

type waferMapService struct {
	repo      repos.WaferMapRepo
	converter *pdfrender.Converter
	log       *logger.Logger
	loc       *time.Location

	// fallbackNewest re-enables the historical "serve the newest
	// candidate when no filename matches" behavior.
	fallbackNewest bool

	tmpDir string
	fetch  func(ctx context.Context, uri, destPath string) error
}

func NewWaferMapService(repo repos.WaferMapRepo, converter *pdfrender.Converter, loc *time.Location, baseLog *logger.Logger) WaferMapService {
	log := baseLog.With("service", "WaferMapService")
	s := &waferMapService{
		repo:           repo,
		converter:      converter,
		log:            log,
		loc:            loc,
		fallbackNewest: utils.GetEnvAsBool("WAFER_MAP_FALLBACK_NEWEST", false, log),
		tmpDir:         os.TempDir(),
	}
	s.fetch = s.download
	return s
}

// matchArtifact picks the candidate whose filename carries the lot id
// (with either literal or underscore-substituted dot separators) and,
// when given, the wafer id. Returns nil when nothing matches.
func matchArtifact(candidates []*types.WaferMapArtifact, lotID, waferID string) *types.WaferMapArtifact {
	if len(candidates) == 0 {
		return nil
	}
	if lotID == "" {
		return candidates[0]
	}
	lotVariants := []string{lotID, strings.ReplaceAll(lotID, ".", "_")}
	for _, cand := range candidates {
		name := filepath.Base(cand.FileURI)
		lotOK := false
		for _, variant := range lotVariants {
			if strings.Contains(name, variant) {
				lotOK = true
				break
			}
		}
		if !lotOK {
			continue
		}
		if waferID != "" && !strings.Contains(name, waferID) {
			continue
		}
		return cand
	}
	return nil
}

// cacheFileName derives the deterministic cache key: equipment, capture
// date without time-of-day, and the rendered point number.
func cacheFileName(eqpID string, ts time.Time, point int) string {
	if point < 1 {
		point = 1
	}
	return fmt.Sprintf("wafer_%s_%s_pt%d.png", eqpID, ts.Format("20060102"), point)
}

func (s *waferMapService) resolve(ctx context.Context, p query.WaferParams) (*types.WaferMapArtifact, error) {
	target := p.DateTime
	if target == "" {
		target = p.ServTs
	}
	ts, ok := query.ParseTime(target, s.loc)
	if !ok || p.EqpID == "" {
		return nil, ErrArtifactNotFound
	}
	candidates, err := s.repo.GetByEqpAndTime(ctx, nil, p.EqpID, ts)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrArtifactNotFound
	}
	artifact := matchArtifact(candidates, strings.TrimSpace(p.LotID), strings.TrimSpace(p.WaferID))
	if artifact == nil {
		if s.fallbackNewest {
			s.log.Warn("No filename match, serving newest candidate",
				"eqpid", p.EqpID, "lotid", p.LotID)
			return candidates[0], nil
		}
		return nil, ErrArtifactNotFound
	}
	return artifact, nil
}

func (s *waferMapService) CheckPDF(ctx context.Context, p query.WaferParams) (*WaferMapCheck, error) {
	artifact, err := s.resolve(ctx, p)
	if errors.Is(err, ErrArtifactNotFound) {
		return &WaferMapCheck{Exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &WaferMapCheck{Exists: true, URL: artifact.FileURI}, nil
}

func (s *waferMapService) GetImage(ctx context.Context, p query.WaferParams) (string, error) {
	artifact, err := s.resolve(ctx, p)
	if err != nil {
		return "", err
	}

	point, ok := p.PointNumberInt()
	if !ok {
		if point, ok = p.PointIDInt(); !ok {
			point = 1
		}
	}
	if point < 1 {
		point = 1
	}

	cachePath := filepath.Join(s.tmpDir, cacheFileName(artifact.EqpID, artifact.DateTime, point))
	if data, ok := s.readCache(cachePath); ok {
		return base64.StdEncoding.EncodeToString(data), nil
	}

	// Unique per-request suffixes keep concurrent requests off each
	// other's temp files; only the final cache path is shared.
	suffix := uuid.New().String()
	pdfPath := filepath.Join(s.tmpDir, "wafer_src_"+suffix+".pdf")
	outPrefix := filepath.Join(s.tmpDir, "wafer_out_"+suffix)
	defer func() {
		_ = os.Remove(pdfPath)
		_ = os.Remove(outPrefix + ".png")
	}()

	if err := s.fetch(ctx, artifact.FileURI, pdfPath); err != nil {
		return "", fmt.Errorf("download wafer map: %w", err)
	}

	outPath, err := s.converter.ConvertWithFallback(ctx, pdfPath, outPrefix, point)
	if err != nil {
		return "", fmt.Errorf("rasterize wafer map: %w", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("rasterized wafer map is empty")
	}
	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		// Cache write failure is not a request failure.
		s.log.Warn("Failed to write wafer map cache", "path", cachePath, "error", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// readCache serves a previously rendered image; zero-byte files are
// treated as corrupt and removed.
func (s *waferMapService) readCache(path string) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if info.Size() == 0 {
		_ = os.Remove(path)
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

func (s *waferMapService) download(ctx context.Context, uri, destPath string) error {
	parsed, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid artifact uri: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported artifact uri scheme %q", parsed.Scheme)
	}

	reqCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, uri, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("artifact download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}
	if n == 0 {
		return errors.New("downloaded artifact is empty")
	}
	return nil
}
