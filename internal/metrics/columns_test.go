package metrics

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	schema := []string{"T1", "gof", "mse", "point", "lotid", "custom_a"}

	cases := []struct {
		name       string
		baseline   []string
		configured []string
		want       []string
	}{
		{
			name:       "baseline_intersected_with_schema",
			baseline:   Baseline,
			configured: nil,
			want:       []string{"t1", "gof", "mse"},
		},
		{
			name:       "config_adds_real_column",
			baseline:   []string{"t1"},
			configured: []string{"custom_a"},
			want:       []string{"t1", "custom_a"},
		},
		{
			name:       "config_ghost_column_dropped",
			baseline:   []string{"t1"},
			configured: []string{"does_not_exist"},
			want:       []string{"t1"},
		},
		{
			name:       "identity_columns_never_aggregated",
			baseline:   []string{"t1"},
			configured: []string{"point", "lotid"},
			want:       []string{"t1"},
		},
		{
			name:       "case_insensitive_dedup",
			baseline:   []string{"T1"},
			configured: []string{"t1", "GOF"},
			want:       []string{"t1", "gof"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.baseline, tc.configured, schema)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Resolve=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestIntersect(t *testing.T) {
	got := Intersect([]string{"t1", "nope", "Custom_A"}, []string{"t1", "custom_a"})
	if !reflect.DeepEqual(got, []string{"t1", "Custom_A"}) {
		t.Fatalf("got %v", got)
	}
}
