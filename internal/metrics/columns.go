package metrics

import "strings"

// Baseline metric columns always considered for statistics, before the
// configured allow-list is merged in.
var Baseline = []string{"t1", "gof", "z", "srvisz", "mse", "thickness"}

// TrendDefaults is the fallback column set for trend payloads when the
// metric config table is empty or unreachable.
var TrendDefaults = []string{"t1", "gof", "mse"}

// Excluded names are positional or identifying columns that must never be
// aggregated even if the config lists them.
var Excluded = []string{
	"x", "y", "diex", "diey", "dierow", "diecol", "dienum", "diepointtag",
	"point", "lotid", "waferid", "eqpid", "serv_ts", "datetime",
}

// Resolve computes the usable metric column set:
// (baseline ∪ configured) ∩ schema − excluded, case-insensitive, keeping
// first-seen order. Configuration is never trusted to name real columns.
func Resolve(baseline, configured, schema []string) []string {
	schemaSet := make(map[string]struct{}, len(schema))
	for _, col := range schema {
		schemaSet[strings.ToLower(col)] = struct{}{}
	}
	excludedSet := make(map[string]struct{}, len(Excluded))
	for _, col := range Excluded {
		excludedSet[col] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, col := range append(append([]string{}, baseline...), configured...) {
		lower := strings.ToLower(strings.TrimSpace(col))
		if lower == "" {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		if _, excluded := excludedSet[lower]; excluded {
			continue
		}
		if _, exists := schemaSet[lower]; !exists {
			continue
		}
		out = append(out, lower)
	}
	return out
}

// Intersect keeps the candidates that exist in schema, case-insensitive,
// preserving candidate order.
func Intersect(candidates, schema []string) []string {
	schemaSet := make(map[string]struct{}, len(schema))
	for _, col := range schema {
		schemaSet[strings.ToLower(col)] = struct{}{}
	}
	var out []string
	for _, c := range candidates {
		if _, ok := schemaSet[strings.ToLower(c)]; ok {
			out = append(out, c)
		}
	}
	return out
}
