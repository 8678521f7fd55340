package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/cache"
	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/metrics"
	"github.com/itm-platform/itm-data-api/internal/query"
	"github.com/itm-platform/itm-data-api/internal/repos"
	"github.com/itm-platform/itm-data-api/internal/types"
)

const (
	flatTable = "plg_wf_flat"

	// distinctCap bounds filter-choice and comparison queries.
	distinctCap = 5000

	schemaCacheKey = "itm:schema:" + flatTable
	schemaCacheTTL = 30 * time.Second

	// spectrumSelect lists the raw curve columns. "values" must stay
	// quoted: it is a reserved word in Postgres and a bare reference is
	// a syntax error.
	spectrumSelect = `waferid, point, wavelengths, "values", ts, eqpid, lotid`

	// flatGroupCols is the dedup tuple for flat-data paging; per-point
	// rows collapse to one row per wafer scan.
	flatGroupCols = "eqpid, serv_ts, lotid, waferid, cassettercp, film"
)

// distinctColumns maps the public filter aliases onto real plg_wf_flat
// columns. Anything not listed here is rejected before SQL is built.
var distinctColumns = map[string]string{
	"eqpid":       "eqpid",
	"eqpId":       "eqpid",
	"lotid":       "lotid",
	"lotId":       "lotid",
	"waferid":     "waferid",
	"waferId":     "waferid",
	"cassettercp": "cassettercp",
	"cassetteRcp": "cassettercp",
	"stagercp":    "stagercp",
	"stageRcp":    "stagercp",
	"stagegroup":  "stagegroup",
	"stageGroup":  "stagegroup",
	"film":        "film",
	"point":       "point",
}

// SpectrumSeries is one curve plus its scalar context, the payload unit
// shared by trend, golden and model-fit lookups. Data pairs are
// [wavelength, intensity] with intensity scaled from fraction to percent.
type SpectrumSeries struct {
	WaferID string         `json:"waferId"`
	PointID int            `json:"pointId"`
	Meta    map[string]any `json:"meta"`
	Data    [][2]float64   `json:"data"`
}

type PagedFlatData struct {
	Items    []map[string]any `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

type PointDataResult struct {
	Headers []string         `json:"headers"`
	Rows    []map[string]any `json:"rows"`
}

type ResidualPoint struct {
	Point    int     `json:"point"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Value    float64 `json:"value"`
	Residual float64 `json:"residual"`
}

type UniformityPoint struct {
	Point  int     `json:"point"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DieRow int     `json:"dieRow"`
	DieCol int     `json:"dieCol"`
	Value  float64 `json:"value"`
}

type OpticalPoint struct {
	ServTs  time.Time `json:"servTs"`
	LotID   string    `json:"lotId"`
	WaferID string    `json:"waferId"`
	Point   int       `json:"point"`
	metrics.OpticalSummary
}

type WaferService interface {
	DistinctValues(ctx context.Context, column string, p query.WaferParams) ([]string, error)
	DistinctPoints(ctx context.Context, p query.WaferParams) ([]int, error)
	FlatData(ctx context.Context, p query.WaferParams) (*PagedFlatData, error)
	Statistics(ctx context.Context, p query.WaferParams) (map[string]metrics.Stats, error)
	PointData(ctx context.Context, p query.WaferParams) (*PointDataResult, error)
	ResidualMap(ctx context.Context, p query.WaferParams) ([]ResidualPoint, error)
	LotUniformityTrend(ctx context.Context, p query.WaferParams) (map[string][]UniformityPoint, error)
	SpectrumTrend(ctx context.Context, p query.WaferParams) ([]SpectrumSeries, error)
	Spectrum(ctx context.Context, p query.WaferParams) ([]SpectrumSeries, error)
	SpectrumGen(ctx context.Context, p query.WaferParams) (*SpectrumSeries, error)
	GoldenSpectrum(ctx context.Context, p query.WaferParams) (*SpectrumSeries, error)
	OpticalTrend(ctx context.Context, p query.WaferParams) ([]OpticalPoint, error)
	ComparisonData(ctx context.Context, p query.WaferParams) ([]map[string]any, error)
	AvailableMetrics(ctx context.Context, p query.WaferParams) ([]string, error)
	MatchingEquipments(ctx context.Context, p query.WaferParams) ([]string, error)
}

type waferService struct {
	db        *gorm.DB
	log       *logger.Logger
	cache     *cache.Cache
	metricCfg repos.MetricConfigRepo
	loc       *time.Location
	now       func() time.Time
}

func NewWaferService(db *gorm.DB, metricCfg repos.MetricConfigRepo, c *cache.Cache, loc *time.Location, baseLog *logger.Logger) WaferService {
	return &waferService{
		db:        db,
		log:       baseLog.With("service", "WaferService"),
		cache:     c,
		metricCfg: metricCfg,
		loc:       loc,
		now:       time.Now,
	}
}

// isUndefinedTable reports SQLSTATE 42P01, raised when a monthly spectrum
// partition was dropped between the catalog check and the query.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}

// schemaColumns introspects the live flat-table column set, briefly
// cached since every statistics request needs it.
func (s *waferService) schemaColumns(ctx context.Context) ([]string, error) {
	var cols []string
	if s.cache.GetJSON(ctx, schemaCacheKey, &cols) && len(cols) > 0 {
		return cols, nil
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT column_name FROM information_schema.columns
		 WHERE table_schema = 'public' AND table_name = ?`, flatTable).
		Scan(&cols).Error
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, schemaCacheKey, cols, schemaCacheTTL)
	return cols, nil
}

// metricColumns resolves the aggregatable columns for this request:
// (baseline ∪ configured) ∩ schema − identity columns. A failing config
// read degrades to the defaults instead of failing the request.
func (s *waferService) metricColumns(ctx context.Context) ([]string, error) {
	schema, err := s.schemaColumns(ctx)
	if err != nil {
		return nil, err
	}
	configured, err := s.metricCfg.ListIncludedNames(ctx, nil)
	if err != nil {
		s.log.Warn("Metric config unavailable, using defaults", "error", err)
		configured = nil
	}
	return metrics.Resolve(metrics.Baseline, configured, schema), nil
}

// trendColumns is the metric set attached to spectral trend metadata:
// configured names intersected with schema, defaults when the config is
// empty, goodness-of-fit always present.
func (s *waferService) trendColumns(ctx context.Context) []string {
	schema, err := s.schemaColumns(ctx)
	if err != nil {
		s.log.Warn("Schema introspection failed, using trend defaults", "error", err)
		return metrics.TrendDefaults
	}
	configured, err := s.metricCfg.ListIncludedNames(ctx, nil)
	if err != nil || len(configured) == 0 {
		configured = metrics.TrendDefaults
	}
	cols := metrics.Resolve(nil, configured, schema)
	for _, c := range cols {
		if c == "gof" {
			return cols
		}
	}
	if len(metrics.Intersect([]string{"gof"}, schema)) > 0 {
		cols = append(cols, "gof")
	}
	return cols
}

// ErrUnknownColumn rejects distinct-value requests for columns outside
// the allow-list.
var ErrUnknownColumn = errors.New("unknown filter column")

// distinctCond scopes a distinct-value scan by every supplied filter
// except the listed column itself. A date clause only appears when the
// caller sent explicit dates: filter choices must cover the full
// history, not a trailing default window.
func (s *waferService) distinctCond(col string, p query.WaferParams) query.Cond {
	var c query.Cond
	if p.EqpID != "" && col != "eqpid" {
		c.Add("eqpid = ?", p.EqpID)
	}
	if p.LotID != "" && col != "lotid" {
		c.Add("lotid = ?", p.LotID)
	}
	if wid, ok := p.WaferIDInt(); ok && col != "waferid" {
		c.Add("waferid = ?", wid)
	}
	if p.CassetteRcp != "" && col != "cassettercp" {
		c.Add("cassettercp = ?", p.CassetteRcp)
	}
	if p.StageRcp != "" && col != "stagercp" {
		c.Add("stagercp = ?", p.StageRcp)
	}
	if p.StageGroup != "" && col != "stagegroup" {
		c.Add("stagegroup = ?", p.StageGroup)
	}
	if p.Film != "" && col != "film" {
		c.Add("film = ?", p.Film)
	}
	if (p.StartDate != "" || p.EndDate != "") && (p.LotID == "" || col == "lotid") {
		start, end := query.SafeRange(p.StartDate, p.EndDate, s.loc, s.now())
		c.Add("serv_ts >= ?", start)
		c.Add("serv_ts <= ?", end)
	}
	c.Add(fmt.Sprintf("%s IS NOT NULL", col))
	c.Add(fmt.Sprintf("%s::text <> ''", col))
	return c
}

func (s *waferService) DistinctValues(ctx context.Context, column string, p query.WaferParams) ([]string, error) {
	col, ok := distinctColumns[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	c := s.distinctCond(col, p)

	sql := fmt.Sprintf(
		"SELECT DISTINCT %s::text AS v FROM %s %s ORDER BY v DESC LIMIT %d",
		col, flatTable, c.Where(), distinctCap)

	var values []string
	if err := s.db.WithContext(ctx).Raw(sql, c.Args()...).Scan(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// distinctPointsSQL keeps only points that have a measured curve behind
// them; a scalar row without spectra cannot be charted.
func distinctPointsSQL(where string) string {
	return fmt.Sprintf(`SELECT DISTINCT f.point FROM %s f %s
	AND f.point IS NOT NULL
	AND EXISTS (SELECT 1 FROM %s s WHERE %s)
	ORDER BY f.point ASC LIMIT %d`,
		flatTable, where, query.SpectrumLiveTable, spectrumJoin, distinctCap)
}

func (s *waferService) DistinctPoints(ctx context.Context, p query.WaferParams) ([]int, error) {
	whereSQL, args, ok := query.UniqueWhere(p, s.loc, s.now())
	if !ok {
		return []int{}, nil
	}
	var points []int
	if err := s.db.WithContext(ctx).Raw(distinctPointsSQL(whereSQL), args...).Scan(&points).Error; err != nil {
		if isUndefinedTable(err) {
			return []int{}, nil
		}
		return nil, err
	}
	return points, nil
}

// flatDataSQL pages one row per scan group rather than raw per-point
// rows; totals count the groups so the pager stays consistent.
func flatDataSQL(where string, offset, limit int) (string, string) {
	countSQL := fmt.Sprintf(
		"SELECT COUNT(*) FROM (SELECT 1 FROM %s %s GROUP BY %s) g",
		flatTable, where, flatGroupCols)
	pageSQL := fmt.Sprintf(`SELECT * FROM (
		SELECT DISTINCT ON (%s) * FROM %s %s ORDER BY %s
	) g ORDER BY serv_ts DESC OFFSET %d LIMIT %d`,
		flatGroupCols, flatTable, where, flatGroupCols, offset, limit)
	return countSQL, pageSQL
}

func (s *waferService) FlatData(ctx context.Context, p query.WaferParams) (*PagedFlatData, error) {
	page := atoiDefault(p.Page, 1)
	if page < 1 {
		page = 1
	}
	pageSize := atoiDefault(p.PageSize, 50)
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 500 {
		pageSize = 500
	}

	var c query.Cond
	if p.EqpID != "" {
		c.Add("eqpid = ?", p.EqpID)
	}
	if p.LotID != "" {
		c.Add("lotid ILIKE ?", "%"+p.LotID+"%")
	} else {
		start, end := query.SafeRange(p.StartDate, p.EndDate, s.loc, s.now())
		c.Add("serv_ts >= ?", start)
		c.Add("serv_ts <= ?", end)
	}
	if wid, ok := p.WaferIDInt(); ok {
		c.Add("waferid = ?", wid)
	}
	if p.CassetteRcp != "" {
		c.Add("cassettercp = ?", p.CassetteRcp)
	}
	if p.StageRcp != "" {
		c.Add("stagercp = ?", p.StageRcp)
	}
	if p.StageGroup != "" {
		c.Add("stagegroup = ?", p.StageGroup)
	}
	if p.Film != "" {
		c.Add("film = ?", p.Film)
	}

	countSQL, pageSQL := flatDataSQL(c.Where(), (page-1)*pageSize, pageSize)

	var total int64
	if err := s.db.WithContext(ctx).Raw(countSQL, c.Args()...).Scan(&total).Error; err != nil {
		return nil, err
	}
	var items []map[string]any
	if err := s.db.WithContext(ctx).Raw(pageSQL, c.Args()...).Scan(&items).Error; err != nil {
		return nil, err
	}
	if items == nil {
		items = []map[string]any{}
	}
	return &PagedFlatData{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *waferService) Statistics(ctx context.Context, p query.WaferParams) (map[string]metrics.Stats, error) {
	result := make(map[string]metrics.Stats)

	whereSQL, args, ok := query.UniqueWhere(p, s.loc, s.now())
	if !ok {
		return result, nil
	}
	cols, err := s.metricColumns(ctx)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return result, nil
	}

	selects := make([]string, 0, len(cols)*4)
	for _, col := range cols {
		selects = append(selects,
			fmt.Sprintf("MAX(%s) AS %s_max", col, col),
			fmt.Sprintf("MIN(%s) AS %s_min", col, col),
			fmt.Sprintf("AVG(%s) AS %s_mean", col, col),
			fmt.Sprintf("STDDEV_SAMP(%s) AS %s_std", col, col),
		)
	}
	sql := fmt.Sprintf("SELECT %s FROM %s %s", strings.Join(selects, ", "), flatTable, whereSQL)

	var row map[string]any
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row == nil {
		return result, nil
	}

	for _, col := range cols {
		max, ok := toFloat(row[col+"_max"])
		if !ok {
			continue // no data for this metric in scope
		}
		min, _ := toFloat(row[col+"_min"])
		mean, _ := toFloat(row[col+"_mean"])
		std, _ := toFloat(row[col+"_std"])
		result[col] = metrics.Derive(max, min, mean, std)
	}
	return result, nil
}

func (s *waferService) PointData(ctx context.Context, p query.WaferParams) (*PointDataResult, error) {
	whereSQL, args, ok := query.UniqueWhere(p, s.loc, s.now())
	if !ok {
		return &PointDataResult{Headers: []string{}, Rows: []map[string]any{}}, nil
	}
	schema, err := s.schemaColumns(ctx)
	if err != nil {
		return nil, err
	}
	metricCols, err := s.metricColumns(ctx)
	if err != nil {
		return nil, err
	}

	headers := metrics.Intersect([]string{"point", "x", "y", "dierow", "diecol"}, schema)
	headers = append(headers, metricCols...)
	if len(headers) == 0 {
		return &PointDataResult{Headers: []string{}, Rows: []map[string]any{}}, nil
	}

	sql := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY point ASC",
		strings.Join(headers, ", "), flatTable, whereSQL)
	var rows []map[string]any
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return &PointDataResult{Headers: headers, Rows: rows}, nil
}

func (s *waferService) ResidualMap(ctx context.Context, p query.WaferParams) ([]ResidualPoint, error) {
	whereSQL, args, ok := query.UniqueWhere(p, s.loc, s.now())
	if !ok {
		return []ResidualPoint{}, nil
	}
	metric, err := s.validMetric(ctx, p.Metric)
	if err != nil {
		return nil, err
	}
	if metric == "" {
		return []ResidualPoint{}, nil
	}

	sql := fmt.Sprintf(
		"SELECT point, x, y, %s AS value FROM %s %s AND %s IS NOT NULL ORDER BY point ASC",
		metric, flatTable, whereSQL, metric)
	var rows []map[string]any
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	points := make([]ResidualPoint, 0, len(rows))
	sum := 0.0
	for _, row := range rows {
		v, ok := toFloat(row["value"])
		if !ok {
			continue
		}
		pt, _ := toInt(row["point"])
		x, _ := toFloat(row["x"])
		y, _ := toFloat(row["y"])
		points = append(points, ResidualPoint{Point: pt, X: x, Y: y, Value: v})
		sum += v
	}
	if len(points) == 0 {
		return points, nil
	}
	mean := sum / float64(len(points))
	for i := range points {
		points[i].Residual = points[i].Value - mean
	}
	return points, nil
}

func (s *waferService) LotUniformityTrend(ctx context.Context, p query.WaferParams) (map[string][]UniformityPoint, error) {
	result := make(map[string][]UniformityPoint)

	whereSQL, args, ok := query.UniqueWhere(p, s.loc, s.now())
	if !ok {
		return result, nil
	}
	metric, err := s.validMetric(ctx, p.Metric)
	if err != nil {
		return nil, err
	}
	if metric == "" {
		return result, nil
	}

	sql := fmt.Sprintf(
		"SELECT waferid, point, x, y, dierow, diecol, %s AS value FROM %s %s AND %s IS NOT NULL ORDER BY waferid ASC, point ASC",
		metric, flatTable, whereSQL, metric)
	var rows []map[string]any
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		v, ok := toFloat(row["value"])
		if !ok {
			continue
		}
		wid, _ := toInt(row["waferid"])
		pt, _ := toInt(row["point"])
		x, _ := toFloat(row["x"])
		y, _ := toFloat(row["y"])
		dieRow, _ := toInt(row["dierow"])
		dieCol, _ := toInt(row["diecol"])
		key := strconv.Itoa(wid)
		result[key] = append(result[key], UniformityPoint{
			Point: pt, X: x, Y: y, DieRow: dieRow, DieCol: dieCol, Value: v,
		})
	}
	return result, nil
}

// validMetric checks a requested metric name against the resolved column
// set. Unknown names yield "" so callers return empty instead of failing.
func (s *waferService) validMetric(ctx context.Context, name string) (string, error) {
	cols, err := s.metricColumns(ctx)
	if err != nil {
		return "", err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, col := range cols {
		if col == want {
			return col, nil
		}
	}
	return "", nil
}

// spectrumJoin is the coerced join between flat scalar rows and spectrum
// curves. waferid is text on the spectrum side and integer on the flat
// side; comparing raw strings silently drops "01" vs "1" matches.
const spectrumJoin = `TRIM(s.lotid) = TRIM(f.lotid)
	AND s.waferid::integer = f.waferid
	AND s.point = f.point`

// spectrumTrendCond scopes the per-wafer latest-curve scan. Lot, point
// and the wafer list are the identity; equipment id only narrows when
// supplied, a lot is unique across the fleet.
func spectrumTrendCond(p query.WaferParams, point int, waferIDs []int) query.Cond {
	var c query.Cond
	c.Add("s.class = ?", types.SpectrumClassExperimental)
	c.Add("TRIM(f.lotid) = TRIM(?)", p.LotID)
	c.Add("f.point = ?", point)
	c.Add("f.waferid IN ?", waferIDs)
	if p.EqpID != "" {
		c.Add("f.eqpid = ?", p.EqpID)
	}
	return c
}

func (s *waferService) SpectrumTrend(ctx context.Context, p query.WaferParams) ([]SpectrumSeries, error) {
	if p.LotID == "" {
		return []SpectrumSeries{}, nil
	}
	point, ok := p.PointIDInt()
	if !ok {
		if point, ok = p.PointNumberInt(); !ok {
			return []SpectrumSeries{}, nil
		}
	}
	waferIDs := make([]int, 0)
	for _, raw := range p.SplitList(p.WaferIDs) {
		if n, err := strconv.Atoi(raw); err == nil {
			waferIDs = append(waferIDs, n)
		}
	}
	if len(waferIDs) == 0 {
		return []SpectrumSeries{}, nil
	}

	trendCols := s.trendColumns(ctx)
	metricSelect := ""
	for _, col := range trendCols {
		metricSelect += fmt.Sprintf(", f.%s AS %s", col, col)
	}

	c := spectrumTrendCond(p, point, waferIDs)
	sql := fmt.Sprintf(`SELECT DISTINCT ON (s.waferid)
		s.waferid, s.point, s.wavelengths, s."values", s.ts, f.serv_ts, f.lotid, f.eqpid%s
	FROM %s s
	JOIN %s f ON %s
	%s
	ORDER BY s.waferid ASC, f.serv_ts DESC`,
		metricSelect, query.SpectrumLiveTable, flatTable, spectrumJoin, c.Where())

	var rows []map[string]any
	err := s.db.WithContext(ctx).Raw(sql, c.Args()...).Scan(&rows).Error
	if err != nil {
		if isUndefinedTable(err) {
			return []SpectrumSeries{}, nil
		}
		return nil, err
	}

	series := make([]SpectrumSeries, 0, len(rows))
	for _, row := range rows {
		series = append(series, s.buildSeries(row, trendCols))
	}
	sort.Slice(series, func(i, j int) bool {
		a, _ := strconv.Atoi(series[i].WaferID)
		b, _ := strconv.Atoi(series[j].WaferID)
		return a < b
	})
	return series, nil
}

// buildSeries assembles one SpectrumSeries from a raw join row; intensity
// values are stored as fractions and reported as percent.
func (s *waferService) buildSeries(row map[string]any, metricCols []string) SpectrumSeries {
	wavelengths := toFloatArray(row["wavelengths"])
	values := toFloatArray(row["values"])

	data := make([][2]float64, 0, len(values))
	for i, v := range values {
		w := 0.0
		if i < len(wavelengths) {
			w = wavelengths[i]
		}
		data = append(data, [2]float64{w, v * 100})
	}

	meta := map[string]any{
		"timestamp":   row["ts"],
		"scanTime":    row["serv_ts"],
		"equipmentId": toString(row["eqpid"]),
		"lotId":       strings.TrimSpace(toString(row["lotid"])),
	}
	for _, col := range metricCols {
		meta[col] = row[col]
	}

	pt, _ := toInt(row["point"])
	return SpectrumSeries{
		WaferID: toString(row["waferid"]),
		PointID: pt,
		Meta:    meta,
		Data:    data,
	}
}

// Spectrum returns every curve (measured and fitted) recorded for one
// point scan, located by its exact capture time with the ±2s tolerance
// the scalar table's timestamps require.
func (s *waferService) Spectrum(ctx context.Context, p query.WaferParams) ([]SpectrumSeries, error) {
	target := p.DateTime
	if target == "" {
		target = p.ServTs
	}
	ts, ok := query.ParseTime(target, s.loc)
	if !ok || p.EqpID == "" {
		return []SpectrumSeries{}, nil
	}
	point, ok := p.PointIDInt()
	if !ok {
		if point, ok = p.PointNumberInt(); !ok {
			return []SpectrumSeries{}, nil
		}
	}

	table := query.SpectrumPartition(ts, s.now())
	if table != query.SpectrumLiveTable {
		exists, err := query.PartitionExists(ctx, s.db, table)
		if err != nil {
			return nil, err
		}
		if !exists {
			return []SpectrumSeries{}, nil
		}
	}

	var c query.Cond
	c.Add("eqpid = ?", p.EqpID)
	c.Add("point = ?", point)
	c.Add("ts >= ? - interval '2 second'", ts)
	c.Add("ts <= ? + interval '2 second'", ts)
	if p.LotID != "" {
		c.Add("TRIM(lotid) = TRIM(?)", p.LotID)
	}
	if wid, ok := p.WaferIDInt(); ok {
		c.Add("waferid::integer = ?", wid)
	}

	sql := fmt.Sprintf(`SELECT %s, class
	FROM %s %s
	ORDER BY class ASC, ts DESC`, spectrumSelect, table, c.Where())

	var rows []map[string]any
	if err := s.db.WithContext(ctx).Raw(sql, c.Args()...).Scan(&rows).Error; err != nil {
		if isUndefinedTable(err) {
			return []SpectrumSeries{}, nil
		}
		return nil, err
	}

	series := make([]SpectrumSeries, 0, len(rows))
	for _, row := range rows {
		row["serv_ts"] = row["ts"]
		one := s.buildSeries(row, nil)
		one.Meta["class"] = toString(row["class"])
		series = append(series, one)
	}
	return series, nil
}

func (s *waferService) SpectrumGen(ctx context.Context, p query.WaferParams) (*SpectrumSeries, error) {
	target := p.DateTime
	if target == "" {
		target = p.ServTs
	}
	ts, ok := query.ParseTime(target, s.loc)
	if !ok || p.EqpID == "" || p.LotID == "" {
		return nil, nil
	}
	point, ok := p.PointIDInt()
	if !ok {
		if point, ok = p.PointNumberInt(); !ok {
			return nil, nil
		}
	}
	wid, widOK := p.WaferIDInt()
	if !widOK {
		return nil, nil
	}

	table := query.SpectrumPartition(ts, s.now())
	if table != query.SpectrumLiveTable {
		exists, err := query.PartitionExists(ctx, s.db, table)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, nil
		}
	}

	sql := fmt.Sprintf(`SELECT %s
	FROM %s
	WHERE class = ?
		AND eqpid = ?
		AND TRIM(lotid) = TRIM(?)
		AND waferid::integer = ?
		AND point = ?
		AND ts >= ? - interval '2 second'
		AND ts <= ? + interval '2 second'
	ORDER BY ts DESC
	LIMIT 1`, spectrumSelect, table)

	var rows []map[string]any
	err := s.db.WithContext(ctx).
		Raw(sql, types.SpectrumClassGenerated, p.EqpID, p.LotID, wid, point, ts, ts).
		Scan(&rows).Error
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	row["serv_ts"] = row["ts"]
	series := s.buildSeries(row, nil)
	return &series, nil
}

// goldenCond scopes the best-wafer search; every supplied recipe filter
// narrows which scans may donate the golden curve.
func goldenCond(p query.WaferParams, point int) query.Cond {
	var c query.Cond
	c.Add("eqpid = ?", p.EqpID)
	c.Add("TRIM(lotid) = TRIM(?)", p.LotID)
	c.Add("point = ?", point)
	c.Add("gof IS NOT NULL")
	if p.CassetteRcp != "" {
		c.Add("cassettercp = ?", p.CassetteRcp)
	}
	if p.StageRcp != "" {
		c.Add("stagercp = ?", p.StageRcp)
	}
	if p.StageGroup != "" {
		c.Add("stagegroup = ?", p.StageGroup)
	}
	if p.Film != "" {
		c.Add("film = ?", p.Film)
	}
	return c
}

func (s *waferService) GoldenSpectrum(ctx context.Context, p query.WaferParams) (*SpectrumSeries, error) {
	if p.EqpID == "" || p.LotID == "" {
		return nil, nil
	}
	point, ok := p.PointIDInt()
	if !ok {
		if point, ok = p.PointNumberInt(); !ok {
			return nil, nil
		}
	}

	// Phase 1: best wafer by goodness-of-fit over the scalar table.
	c := goldenCond(p, point)
	bestSQL := fmt.Sprintf(
		"SELECT waferid FROM %s %s ORDER BY gof DESC LIMIT 1", flatTable, c.Where())
	var best []int
	if err := s.db.WithContext(ctx).Raw(bestSQL, c.Args()...).Scan(&best).Error; err != nil {
		return nil, err
	}
	if len(best) == 0 {
		return nil, nil
	}

	// Phase 2: that wafer's latest measured curve.
	trendCols := s.trendColumns(ctx)
	metricSelect := ""
	for _, col := range trendCols {
		metricSelect += fmt.Sprintf(", f.%s AS %s", col, col)
	}
	sql := fmt.Sprintf(`SELECT s.waferid, s.point, s.wavelengths, s."values", s.ts, f.serv_ts, f.lotid, f.eqpid%s
	FROM %s s
	JOIN %s f ON %s
	WHERE s.class = ?
		AND f.eqpid = ?
		AND TRIM(f.lotid) = TRIM(?)
		AND f.point = ?
		AND f.waferid = ?
	ORDER BY f.serv_ts DESC
	LIMIT 1`, metricSelect, query.SpectrumLiveTable, flatTable, spectrumJoin)

	var rows []map[string]any
	err := s.db.WithContext(ctx).
		Raw(sql, types.SpectrumClassExperimental, p.EqpID, p.LotID, point, best[0]).
		Scan(&rows).Error
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	series := s.buildSeries(rows[0], trendCols)
	return &series, nil
}

// opticalTrendCond scopes the optical scan to one equipment and window,
// with the recipe filters applied on the joined scalar side.
func opticalTrendCond(p query.WaferParams, start, end time.Time) query.Cond {
	var c query.Cond
	c.Add("s.class = ?", types.SpectrumClassExperimental)
	c.Add("f.eqpid = ?", p.EqpID)
	c.Add("f.serv_ts >= ?", start)
	c.Add("f.serv_ts <= ?", end)
	if p.CassetteRcp != "" {
		c.Add("f.cassettercp = ?", p.CassetteRcp)
	}
	if p.StageGroup != "" {
		c.Add("f.stagegroup = ?", p.StageGroup)
	}
	if p.Film != "" {
		c.Add("f.film = ?", p.Film)
	}
	return c
}

func (s *waferService) OpticalTrend(ctx context.Context, p query.WaferParams) ([]OpticalPoint, error) {
	if p.EqpID == "" {
		return []OpticalPoint{}, nil
	}
	start, end := query.SafeRange(p.StartDate, p.EndDate, s.loc, s.now())
	c := opticalTrendCond(p, start, end)

	sql := fmt.Sprintf(`SELECT s.waferid, s.point, s.wavelengths, s."values", f.serv_ts, f.lotid
	FROM %s s
	JOIN %s f ON %s
	%s
	ORDER BY f.serv_ts ASC
	LIMIT %d`, query.SpectrumLiveTable, flatTable, spectrumJoin, c.Where(), distinctCap)

	var rows []map[string]any
	err := s.db.WithContext(ctx).Raw(sql, c.Args()...).Scan(&rows).Error
	if err != nil {
		if isUndefinedTable(err) {
			return []OpticalPoint{}, nil
		}
		return nil, err
	}

	out := make([]OpticalPoint, 0, len(rows))
	for _, row := range rows {
		wavelengths := toFloatArray(row["wavelengths"])
		values := toFloatArray(row["values"])
		pt, _ := toInt(row["point"])
		servTs, _ := toTime(row["serv_ts"])
		out = append(out, OpticalPoint{
			ServTs:         servTs,
			LotID:          strings.TrimSpace(toString(row["lotid"])),
			WaferID:        toString(row["waferid"]),
			Point:          pt,
			OpticalSummary: metrics.Summarize(wavelengths, values),
		})
	}
	return out, nil
}

// comparisonSQL selects every resolved metric column; the cap keeps the
// newest rows, so ordering must be DESC before LIMIT applies.
func comparisonSQL(cols []string, where string) string {
	return fmt.Sprintf(
		"SELECT eqpid, lotid, waferid, point, serv_ts, %s FROM %s %s ORDER BY serv_ts DESC LIMIT %d",
		strings.Join(cols, ", "), flatTable, where, distinctCap)
}

func (s *waferService) ComparisonData(ctx context.Context, p query.WaferParams) ([]map[string]any, error) {
	targets := p.SplitList(p.TargetEqps)
	if len(targets) == 0 {
		return []map[string]any{}, nil
	}
	cols, err := s.metricColumns(ctx)
	if err != nil {
		return nil, err
	}
	if p.Metric != "" {
		// Optional narrowing to one metric; unknown names match nothing.
		want := strings.ToLower(strings.TrimSpace(p.Metric))
		cols = metrics.Intersect([]string{want}, cols)
	}
	if len(cols) == 0 {
		return []map[string]any{}, nil
	}
	start, end := query.SafeRange(p.StartDate, p.EndDate, s.loc, s.now())

	var c query.Cond
	c.Add("eqpid IN ?", targets)
	c.Add("serv_ts >= ?", start)
	c.Add("serv_ts <= ?", end)
	if p.CassetteRcp != "" {
		c.Add("cassettercp = ?", p.CassetteRcp)
	}

	var rows []map[string]any
	if err := s.db.WithContext(ctx).Raw(comparisonSQL(cols, c.Where()), c.Args()...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return rows, nil
}

func availableMetricsSQL(cols []string, where string) string {
	selects := make([]string, 0, len(cols))
	for _, col := range cols {
		selects = append(selects, fmt.Sprintf("COUNT(%s) AS %s_cnt", col, col))
	}
	return fmt.Sprintf("SELECT %s FROM %s %s", strings.Join(selects, ", "), flatTable, where)
}

// AvailableMetrics returns the resolved metric set, narrowed to columns
// with at least one non-null value when the request carries a scope; the
// UI never offers a metric that would chart as all-null.
func (s *waferService) AvailableMetrics(ctx context.Context, p query.WaferParams) ([]string, error) {
	cols, err := s.metricColumns(ctx)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		cols = []string{}
	}
	whereSQL, args, ok := query.UniqueWhere(p, s.loc, s.now())
	if !ok || len(cols) == 0 {
		return cols, nil
	}

	var row map[string]any
	if err := s.db.WithContext(ctx).Raw(availableMetricsSQL(cols, whereSQL), args...).Scan(&row).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		if n, ok := toInt(row[col+"_cnt"]); ok && n > 0 {
			out = append(out, col)
		}
	}
	return out, nil
}

// matchingEquipmentsJoin brings in the reference tables only when a
// site or station scope needs them.
func matchingEquipmentsJoin(p query.WaferParams) string {
	if p.Site == "" && p.Sdwt == "" {
		return ""
	}
	return ` JOIN ref_equipment e ON e.eqpid = f.eqpid JOIN ref_sdwt d ON d.sdwt = e.sdwt`
}

func matchingEquipmentsCond(p query.WaferParams, keyword string, start, end time.Time) query.Cond {
	var c query.Cond
	c.Add("f.cassettercp = ?", p.CassetteRcp)
	c.Add("f.serv_ts >= ?", start)
	c.Add("f.serv_ts <= ?", end)
	if keyword != "" {
		c.Add("f.eqpid ILIKE ?", "%"+keyword+"%")
	}
	if p.Site != "" || p.Sdwt != "" {
		c.Add("d.is_use = ?", "Y")
		if p.Sdwt != "" {
			c.Add("e.sdwt = ?", p.Sdwt)
		}
		if p.Site != "" {
			c.Add("d.site = ?", p.Site)
		}
	}
	return c
}

// MatchingEquipments feeds the cross-equipment comparison's target
// list: equipment ids with flat rows for the given cassette recipe in
// the window, optionally scoped by site/station. Without a recipe it
// degrades to a registry name search.
func (s *waferService) MatchingEquipments(ctx context.Context, p query.WaferParams) ([]string, error) {
	keyword := strings.TrimSpace(p.Keyword)
	if p.CassetteRcp == "" {
		if keyword == "" {
			return []string{}, nil
		}
		var ids []string
		err := s.db.WithContext(ctx).
			Model(&types.RefEquipment{}).
			Where("eqpid ILIKE ?", "%"+keyword+"%").
			Order("eqpid ASC").
			Limit(distinctCap).
			Pluck("eqpid", &ids).Error
		if err != nil {
			return nil, err
		}
		return ids, nil
	}

	start, end := query.SafeRange(p.StartDate, p.EndDate, s.loc, s.now())
	c := matchingEquipmentsCond(p, keyword, start, end)
	sql := fmt.Sprintf("SELECT DISTINCT f.eqpid FROM %s f%s %s ORDER BY f.eqpid ASC LIMIT %d",
		flatTable, matchingEquipmentsJoin(p), c.Where(), distinctCap)

	var ids []string
	if err := s.db.WithContext(ctx).Raw(sql, c.Args()...).Scan(&ids).Error; err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case int:
		return float64(x), true
	case []byte:
		f, err := strconv.ParseFloat(string(x), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int64:
		return int(x), true
	case int32:
		return int(x), true
	case int:
		return x, true
	case float64:
		return int(x), true
	case []byte:
		n, err := strconv.Atoi(strings.TrimSpace(string(x)))
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", x)
	}
}

func toTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

func toFloatArray(v any) []float64 {
	switch x := v.(type) {
	case types.FloatArray:
		return []float64(x)
	case []float64:
		return x
	case []byte:
		out, err := types.ParseFloatArray(string(x))
		if err != nil {
			return nil
		}
		return []float64(out)
	case string:
		out, err := types.ParseFloatArray(x)
		if err != nil {
			return nil
		}
		return []float64(out)
	default:
		return nil
	}
}
