package services

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2.10", "1.2.9", 1},
		{"1.2", "1.2.1", -1},
		{"v2.0.0", "1.9.9", 1},
		{"", "1.0.0", -1},
		{"1.0.0", "", 1},
		{"abc", "0", 0},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEqpScope(t *testing.T) {
	scope, args := eqpScope("", "")
	if scope != "" || args != nil {
		t.Errorf("empty filter should produce no scope, got %q %v", scope, args)
	}

	scope, args = eqpScope("FAB1", "SDWT_A")
	if scope == "" {
		t.Fatal("expected scope clause")
	}
	if len(args) != 2 || args[0] != "SDWT_A" || args[1] != "FAB1" {
		t.Errorf("args = %v", args)
	}

	_, args = eqpScope("FAB1", "")
	if len(args) != 1 || args[0] != "FAB1" {
		t.Errorf("site-only args = %v", args)
	}
}
