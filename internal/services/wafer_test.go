package services

import (
	"strings"
	"testing"
	"time"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/query"
	"github.com/itm-platform/itm-data-api/internal/types"
)

func testWaferService(t *testing.T) *waferService {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return &waferService{
		log: log,
		loc: time.UTC,
		now: func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) },
	}
}

func TestBuildSeriesScalesIntensityToPercent(t *testing.T) {
	svc := testWaferService(t)
	row := map[string]any{
		"waferid":     "03",
		"point":       int64(5),
		"wavelengths": "{400,500,600}",
		"values":      "{0.1,0.25,0.05}",
		"ts":          time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		"serv_ts":     time.Date(2026, 3, 14, 9, 0, 1, 0, time.UTC),
		"eqpid":       "EQP01",
		"lotid":       "LOT_A01  ",
		"gof":         0.998,
	}

	series := svc.buildSeries(row, []string{"gof"})
	if series.WaferID != "03" {
		t.Errorf("WaferID = %q", series.WaferID)
	}
	if series.PointID != 5 {
		t.Errorf("PointID = %d", series.PointID)
	}
	want := [][2]float64{{400, 10}, {500, 25}, {600, 5}}
	if len(series.Data) != len(want) {
		t.Fatalf("Data length = %d, want %d", len(series.Data), len(want))
	}
	for i := range want {
		if series.Data[i] != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, series.Data[i], want[i])
		}
	}
	if series.Meta["lotId"] != "LOT_A01" {
		t.Errorf("lotId = %v, want trimmed value", series.Meta["lotId"])
	}
	if series.Meta["equipmentId"] != "EQP01" {
		t.Errorf("equipmentId = %v", series.Meta["equipmentId"])
	}
	if series.Meta["gof"] != 0.998 {
		t.Errorf("gof = %v", series.Meta["gof"])
	}
}

func TestBuildSeriesValuesLongerThanWavelengths(t *testing.T) {
	svc := testWaferService(t)
	row := map[string]any{
		"waferid":     "1",
		"point":       int64(1),
		"wavelengths": "{400}",
		"values":      "{0.5,0.5}",
	}
	series := svc.buildSeries(row, nil)
	if len(series.Data) != 2 {
		t.Fatalf("Data length = %d", len(series.Data))
	}
	if series.Data[1][0] != 0 {
		t.Errorf("missing wavelength should read 0, got %v", series.Data[1][0])
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{float64(1.5), 1.5, true},
		{int64(3), 3, true},
		{[]byte("2.25"), 2.25, true},
		{"7", 7, true},
		{nil, 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := toFloat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("toFloat(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{int64(9), 9, true},
		{float64(4), 4, true},
		{[]byte(" 12 "), 12, true},
		{"03", 3, true},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := toInt(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("toInt(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestToFloatArray(t *testing.T) {
	if got := toFloatArray("{1,2.5}"); len(got) != 2 || got[1] != 2.5 {
		t.Errorf("toFloatArray string = %v", got)
	}
	if got := toFloatArray([]byte("[3,4]")); len(got) != 2 || got[0] != 3 {
		t.Errorf("toFloatArray bytes = %v", got)
	}
	if got := toFloatArray(types.FloatArray{5}); len(got) != 1 || got[0] != 5 {
		t.Errorf("toFloatArray FloatArray = %v", got)
	}
	if got := toFloatArray(nil); got != nil {
		t.Errorf("toFloatArray(nil) = %v, want nil", got)
	}
}

func TestAtoiDefault(t *testing.T) {
	if atoiDefault("", 5) != 5 {
		t.Error("empty should return default")
	}
	if atoiDefault(" 8 ", 5) != 8 {
		t.Error("trimmed parse failed")
	}
	if atoiDefault("x", 5) != 5 {
		t.Error("malformed should return default")
	}
}

func TestSpectrumSelectQuotesValuesColumn(t *testing.T) {
	if !strings.Contains(spectrumSelect, `"values"`) {
		t.Fatalf("curve select list must quote the values column: %s", spectrumSelect)
	}
	rest := strings.Replace(spectrumSelect, `"values"`, "", 1)
	if strings.Contains(rest, "values") {
		t.Errorf("bare values reference in select list: %s", spectrumSelect)
	}
}

func TestDistinctCondRangeOnlyWithExplicitDates(t *testing.T) {
	svc := testWaferService(t)

	c := svc.distinctCond("cassettercp", query.WaferParams{EqpID: "EQP01"})
	if strings.Contains(c.Where(), "serv_ts") {
		t.Errorf("no dates supplied, want full-history scan: %s", c.Where())
	}

	c = svc.distinctCond("cassettercp", query.WaferParams{EqpID: "EQP01", StartDate: "2026-03-01"})
	where := c.Where()
	if !strings.Contains(where, "serv_ts >= ?") || !strings.Contains(where, "serv_ts <= ?") {
		t.Errorf("explicit dates supplied, want range clause: %s", where)
	}

	c = svc.distinctCond("cassettercp", query.WaferParams{
		EqpID: "EQP01", LotID: "LOT_A", StartDate: "2026-03-01", EndDate: "2026-03-07",
	})
	if strings.Contains(c.Where(), "serv_ts") {
		t.Errorf("lot id must suppress the range clause: %s", c.Where())
	}
}

func TestSpectrumTrendCondEquipmentOptional(t *testing.T) {
	c := spectrumTrendCond(query.WaferParams{LotID: "LOT_A"}, 3, []int{1, 2})
	if strings.Contains(c.Where(), "eqpid") {
		t.Errorf("no equipment id supplied, want no eqpid clause: %s", c.Where())
	}
	c = spectrumTrendCond(query.WaferParams{LotID: "LOT_A", EqpID: "EQP01"}, 3, []int{1})
	if !strings.Contains(c.Where(), "f.eqpid = ?") {
		t.Errorf("equipment id supplied, want eqpid clause: %s", c.Where())
	}
}

func TestOpticalTrendCondAppliesRecipeFilters(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC)

	c := opticalTrendCond(query.WaferParams{
		EqpID: "EQP01", CassetteRcp: "RCP1", StageGroup: "SG1", Film: "OXIDE",
	}, start, end)
	where := c.Where()
	for _, want := range []string{"f.cassettercp = ?", "f.stagegroup = ?", "f.film = ?"} {
		if !strings.Contains(where, want) {
			t.Errorf("missing %q in %s", want, where)
		}
	}

	c = opticalTrendCond(query.WaferParams{EqpID: "EQP01"}, start, end)
	if strings.Contains(c.Where(), "cassettercp") {
		t.Errorf("no recipe supplied, want no recipe clause: %s", c.Where())
	}
}

func TestGoldenCondAppliesStageGroup(t *testing.T) {
	c := goldenCond(query.WaferParams{EqpID: "EQP01", LotID: "LOT_A", StageGroup: "SG1"}, 1)
	if !strings.Contains(c.Where(), "stagegroup = ?") {
		t.Errorf("stage group supplied, want stagegroup clause: %s", c.Where())
	}
	c = goldenCond(query.WaferParams{EqpID: "EQP01", LotID: "LOT_A"}, 1)
	if strings.Contains(c.Where(), "stagegroup") {
		t.Errorf("no stage group supplied, want no stagegroup clause: %s", c.Where())
	}
}

func TestFlatDataSQLPagesScanGroups(t *testing.T) {
	countSQL, pageSQL := flatDataSQL("WHERE eqpid = ?", 50, 50)
	if !strings.Contains(countSQL, "GROUP BY "+flatGroupCols) {
		t.Errorf("count must tally scan groups: %s", countSQL)
	}
	if !strings.Contains(pageSQL, "DISTINCT ON ("+flatGroupCols+")") {
		t.Errorf("page must dedup per scan group: %s", pageSQL)
	}
	if !strings.Contains(pageSQL, "ORDER BY serv_ts DESC") {
		t.Errorf("pages must be newest-first: %s", pageSQL)
	}
	if !strings.Contains(pageSQL, "OFFSET 50 LIMIT 50") {
		t.Errorf("paging bounds missing: %s", pageSQL)
	}
}

func TestComparisonSQLKeepsNewestRows(t *testing.T) {
	sql := comparisonSQL([]string{"thickness", "gof"}, "WHERE eqpid IN ?")
	if !strings.Contains(sql, "ORDER BY serv_ts DESC") {
		t.Errorf("capped result must keep the newest rows: %s", sql)
	}
	if !strings.Contains(sql, "thickness, gof") {
		t.Errorf("all resolved metric columns must be selected: %s", sql)
	}
}

func TestDistinctPointsSQLRequiresCurve(t *testing.T) {
	sql := distinctPointsSQL("WHERE eqpid = ?")
	if !strings.Contains(sql, "EXISTS") {
		t.Errorf("points without a spectral curve must be excluded: %s", sql)
	}
	if !strings.Contains(sql, "s.waferid::integer = f.waferid") {
		t.Errorf("spectrum-side waferid must be coerced: %s", sql)
	}
}

func TestAvailableMetricsSQLCountsPerColumn(t *testing.T) {
	sql := availableMetricsSQL([]string{"thickness", "gof"}, "WHERE eqpid = ?")
	if !strings.Contains(sql, "COUNT(thickness) AS thickness_cnt") ||
		!strings.Contains(sql, "COUNT(gof) AS gof_cnt") {
		t.Errorf("per-column counts missing: %s", sql)
	}
}

func TestMatchingEquipmentsScoping(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC)

	p := query.WaferParams{CassetteRcp: "RCP1", Site: "FAB1"}
	c := matchingEquipmentsCond(p, "", start, end)
	where := c.Where()
	for _, want := range []string{"f.cassettercp = ?", "f.serv_ts >= ?", "d.is_use = ?", "d.site = ?"} {
		if !strings.Contains(where, want) {
			t.Errorf("missing %q in %s", want, where)
		}
	}
	if join := matchingEquipmentsJoin(p); !strings.Contains(join, "ref_sdwt") {
		t.Errorf("site scope needs the reference join: %s", join)
	}
	if join := matchingEquipmentsJoin(query.WaferParams{CassetteRcp: "RCP1"}); join != "" {
		t.Errorf("unscoped lookup must not join: %s", join)
	}

	c = matchingEquipmentsCond(query.WaferParams{CassetteRcp: "RCP1"}, "EQP", start, end)
	if !strings.Contains(c.Where(), "f.eqpid ILIKE ?") {
		t.Errorf("keyword must narrow the id list: %s", c.Where())
	}
}

func TestDistinctColumnsRejectsUnknown(t *testing.T) {
	if _, ok := distinctColumns["serv_ts; DROP TABLE plg_wf_flat"]; ok {
		t.Fatal("unexpected allow-list entry")
	}
	if distinctColumns["lotId"] != "lotid" {
		t.Error("alias lotId must map to lotid")
	}
	if distinctColumns["cassetteRcp"] != "cassettercp" {
		t.Error("alias cassetteRcp must map to cassettercp")
	}
}
