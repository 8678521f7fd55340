package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/repos"
)

// DashboardSummary is the landing-page header: fleet size, how many
// agents are online/stale, and the error volume for the last 24 hours.
type DashboardSummary struct {
	EquipmentTotal int64 `json:"equipmentTotal"`
	AgentsOnline   int64 `json:"agentsOnline"`
	AgentsStale    int64 `json:"agentsStale"`
	Errors24h      int64 `json:"errors24h"`
	AlertsOpen     int64 `json:"alertsOpen"`
}

// AgentStatusRow is one tool's agent health: latest perf sample joined
// onto the registry, with the server-vs-agent clock drift in seconds.
type AgentStatusRow struct {
	EqpID         string     `gorm:"column:eqpid" json:"eqpId"`
	Sdwt          string     `gorm:"column:sdwt" json:"sdwt"`
	Status        string     `gorm:"column:status" json:"status"`
	AppVer        string     `gorm:"column:app_ver" json:"appVer"`
	LastServTs    *time.Time `gorm:"column:last_serv_ts" json:"lastServTs"`
	CPUUsage      *float64   `gorm:"column:cpu_usage" json:"cpuUsage"`
	MemUsage      *float64   `gorm:"column:mem_usage" json:"memUsage"`
	ClockDriftSec *float64   `gorm:"column:clock_drift_sec" json:"clockDriftSec"`
	Outdated      bool       `gorm:"-" json:"outdated"`
}

type DashboardService interface {
	Summary(ctx context.Context, site, sdwt string) (*DashboardSummary, error)
	AgentStatus(ctx context.Context, site, sdwt, latestVersion string) ([]AgentStatusRow, error)
}

type dashboardService struct {
	db        *gorm.DB
	log       *logger.Logger
	errorRepo repos.ErrorLogRepo
	loc       *time.Location
	now       func() time.Time
}

func NewDashboardService(db *gorm.DB, errorRepo repos.ErrorLogRepo, loc *time.Location, baseLog *logger.Logger) DashboardService {
	return &dashboardService{
		db:        db,
		log:       baseLog.With("service", "DashboardService"),
		errorRepo: errorRepo,
		loc:       loc,
		now:       time.Now,
	}
}

// eqpScope narrows a query on any table carrying an eqpid column to the
// selected site/sdwt via the registry tables.
func eqpScope(site, sdwt string) (string, []any) {
	if site == "" && sdwt == "" {
		return "", nil
	}
	sub := `eqpid IN (
		SELECT e.eqpid FROM ref_equipment e
		JOIN ref_sdwt w ON w.sdwt = e.sdwt
		WHERE w.is_use = 'Y'`
	var args []any
	if sdwt != "" {
		sub += " AND e.sdwt = ?"
		args = append(args, sdwt)
	}
	if site != "" {
		sub += " AND w.site = ?"
		args = append(args, site)
	}
	sub += ")"
	return sub, args
}

func (s *dashboardService) Summary(ctx context.Context, site, sdwt string) (*DashboardSummary, error) {
	summary := &DashboardSummary{}
	scope, scopeArgs := eqpScope(site, sdwt)
	and := ""
	if scope != "" {
		and = " AND " + scope
	}
	where := ""
	if scope != "" {
		where = " WHERE " + scope
	}

	now := s.now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sql := "SELECT COUNT(*) FROM ref_equipment" + where
		return s.db.WithContext(gctx).Raw(sql, scopeArgs...).Scan(&summary.EquipmentTotal).Error
	})
	g.Go(func() error {
		sql := "SELECT COUNT(*) FROM agent_status WHERE status = 'online'" + and
		return s.db.WithContext(gctx).Raw(sql, scopeArgs...).Scan(&summary.AgentsOnline).Error
	})
	g.Go(func() error {
		sql := "SELECT COUNT(*) FROM agent_status WHERE (last_perf_update IS NULL OR last_perf_update < ?)" + and
		args := append([]any{now.Add(-10 * time.Minute)}, scopeArgs...)
		return s.db.WithContext(gctx).Raw(sql, args...).Scan(&summary.AgentsStale).Error
	})
	g.Go(func() error {
		f := repos.ErrorLogFilter{Site: site, Sdwt: sdwt, Start: now.Add(-24 * time.Hour), End: now}
		n, err := s.errorRepo.Count(gctx, nil, f)
		summary.Errors24h = n
		return err
	})
	g.Go(func() error {
		sql := "SELECT COUNT(*) FROM alert WHERE acked = false" + and
		return s.db.WithContext(gctx).Raw(sql, scopeArgs...).Scan(&summary.AlertsOpen).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *dashboardService) AgentStatus(ctx context.Context, site, sdwt, latestVersion string) ([]AgentStatusRow, error) {
	var c []any
	cond := "w.is_use = 'Y'"
	if sdwt != "" {
		cond += " AND e.sdwt = ?"
		c = append(c, sdwt)
	}
	if site != "" {
		cond += " AND w.site = ?"
		c = append(c, site)
	}

	// Latest perf sample per tool via window ranking; clock drift is the
	// gap between server receive time and the agent's own timestamp.
	sql := `WITH latest_perf AS (
		SELECT eqpid, serv_ts, ts, cpu_usage, mem_usage,
			ROW_NUMBER() OVER (PARTITION BY eqpid ORDER BY serv_ts DESC) AS rn
		FROM eqp_perf
	)
	SELECT e.eqpid, e.sdwt,
		COALESCE(st.status, 'unknown') AS status,
		COALESCE(ai.app_ver, '') AS app_ver,
		lp.serv_ts AS last_serv_ts,
		lp.cpu_usage, lp.mem_usage,
		EXTRACT(EPOCH FROM (lp.serv_ts - lp.ts)) AS clock_drift_sec
	FROM ref_equipment e
	JOIN ref_sdwt w ON w.sdwt = e.sdwt
	LEFT JOIN agent_status st ON st.eqpid = e.eqpid
	LEFT JOIN agent_info ai ON ai.eqpid = e.eqpid
	LEFT JOIN latest_perf lp ON lp.eqpid = e.eqpid AND lp.rn = 1
	WHERE ` + cond + `
	ORDER BY e.eqpid ASC`

	var rows []AgentStatusRow
	if err := s.db.WithContext(ctx).Raw(sql, c...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Outdated = latestVersion != "" &&
			compareVersions(rows[i].AppVer, latestVersion) < 0
	}
	return rows, nil
}

// compareVersions orders dotted numeric versions ("1.2.10" > "1.2.9").
// Non-numeric segments compare as 0; missing segments compare as 0.
func compareVersions(a, b string) int {
	as := strings.Split(strings.TrimPrefix(strings.TrimSpace(a), "v"), ".")
	bs := strings.Split(strings.TrimPrefix(strings.TrimSpace(b), "v"), ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
