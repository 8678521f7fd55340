package query

import (
	"strconv"
	"strings"
	"time"
)

// WaferParams carries the raw (string) query parameters for the wafer
// endpoints. All fields are optional; coercion happens here, not in the
// handlers, and bad input degrades to an absent filter.
type WaferParams struct {
	EqpID       string `form:"eqpId"`
	LotID       string `form:"lotId"`
	WaferID     string `form:"waferId"`
	StartDate   string `form:"startDate"`
	EndDate     string `form:"endDate"`
	CassetteRcp string `form:"cassetteRcp"`
	StageRcp    string `form:"stageRcp"`
	StageGroup  string `form:"stageGroup"`
	Film        string `form:"film"`
	Page        string `form:"page"`
	PageSize    string `form:"pageSize"`
	ServTs      string `form:"servTs"`
	Ts          string `form:"ts"`
	DateTime    string `form:"dateTime"`
	PointNumber string `form:"pointNumber"`
	PointID     string `form:"pointId"`
	WaferIDs    string `form:"waferIds"`
	Metric      string `form:"metric"`
	Site        string `form:"site"`
	Sdwt        string `form:"sdwt"`
	TargetEqps  string `form:"targetEqps"`
	Keyword     string `form:"keyword"`
}

// WaferIDInt coerces the wafer id filter; flat-table wafer ids are
// integers while the spectrum table stores them as text.
func (p WaferParams) WaferIDInt() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(p.WaferID))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p WaferParams) PointIDInt() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(p.PointID))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p WaferParams) PointNumberInt() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(p.PointNumber))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p WaferParams) SplitList(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Cond accumulates a parameterized predicate.
type Cond struct {
	exprs []string
	args  []any
}

func (c *Cond) Add(expr string, args ...any) {
	c.exprs = append(c.exprs, expr)
	c.args = append(c.args, args...)
}

func (c *Cond) Where() string {
	if len(c.exprs) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.exprs, " AND ")
}

func (c *Cond) Clause() string {
	if len(c.exprs) == 0 {
		return ""
	}
	return " AND " + strings.Join(c.exprs, " AND ")
}

func (c *Cond) Args() []any { return c.args }

// UniqueWhere builds the predicate that uniquely scopes statistics,
// point-data and residual queries. Equipment id is mandatory; without it
// there is no query (callers return empty rather than scan unbounded).
//
// When an exact capture time is given the match is a ±2 second window on
// datetime. Otherwise the serv_ts range applies, but only when no lot id
// is present: a lot uniquely scopes its rows regardless of age.
func UniqueWhere(p WaferParams, loc *time.Location, now time.Time) (string, []any, bool) {
	if strings.TrimSpace(p.EqpID) == "" {
		return "", nil, false
	}

	var c Cond
	c.Add("eqpid = ?", p.EqpID)

	target := p.DateTime
	if target == "" {
		target = p.ServTs
	}

	if ts, ok := ParseTime(target, loc); ok {
		c.Add("datetime >= ? - interval '2 second'", ts)
		c.Add("datetime <= ? + interval '2 second'", ts)
		if p.LotID != "" {
			c.Add("lotid = ?", p.LotID)
		}
		if wid, ok := p.WaferIDInt(); ok {
			c.Add("waferid = ?", wid)
		}
		return c.Where(), c.Args(), true
	}

	if p.LotID == "" {
		if p.StartDate != "" || p.EndDate != "" {
			start, end := SafeRange(p.StartDate, p.EndDate, loc, now)
			if p.StartDate != "" {
				c.Add("serv_ts >= ?", start)
			}
			if p.EndDate != "" {
				c.Add("serv_ts <= ?", end)
			}
		}
	} else {
		c.Add("lotid = ?", p.LotID)
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
	return c.Where(), c.Args(), true
}
