package query

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestUniqueWhereRequiresEquipment(t *testing.T) {
	_, _, ok := UniqueWhere(WaferParams{LotID: "LOT123"}, time.UTC, testNow)
	if ok {
		t.Fatal("expected no-query sentinel without an equipment id")
	}
}

func TestUniqueWhereLotSuppressesDateRange(t *testing.T) {
	p := WaferParams{
		EqpID:     "EQP01",
		LotID:     "LOT123",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-10",
	}
	where, args, ok := UniqueWhere(p, time.UTC, testNow)
	if !ok {
		t.Fatal("expected a predicate")
	}
	if strings.Contains(where, "serv_ts") {
		t.Fatalf("lot id must suppress the date range, got %q", where)
	}
	if !strings.Contains(where, "lotid = ?") {
		t.Fatalf("missing lot filter: %q", where)
	}
	if len(args) != 2 {
		t.Fatalf("args=%v", args)
	}
}

func TestUniqueWhereDateRangeWithoutLot(t *testing.T) {
	p := WaferParams{
		EqpID:     "EQP01",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-10",
	}
	where, args, ok := UniqueWhere(p, time.UTC, testNow)
	if !ok {
		t.Fatal("expected a predicate")
	}
	if !strings.Contains(where, "serv_ts >= ?") || !strings.Contains(where, "serv_ts <= ?") {
		t.Fatalf("expected date range clauses, got %q", where)
	}
	if len(args) != 3 {
		t.Fatalf("args=%v", args)
	}
}

func TestUniqueWhereNoDatesNoLot(t *testing.T) {
	where, _, ok := UniqueWhere(WaferParams{EqpID: "EQP01"}, time.UTC, testNow)
	if !ok {
		t.Fatal("expected a predicate")
	}
	if strings.Contains(where, "serv_ts") {
		t.Fatalf("no explicit dates given, expected no range clause: %q", where)
	}
}

func TestUniqueWhereExactTimestampWindow(t *testing.T) {
	p := WaferParams{
		EqpID:    "EQP01",
		DateTime: "2025-06-10 08:00:00",
		LotID:    "LOT1.1",
		WaferID:  "3",
	}
	where, args, ok := UniqueWhere(p, time.UTC, testNow)
	if !ok {
		t.Fatal("expected a predicate")
	}
	if !strings.Contains(where, "interval '2 second'") {
		t.Fatalf("expected a ±2s window, got %q", where)
	}
	if !strings.Contains(where, "waferid = ?") {
		t.Fatalf("expected wafer filter, got %q", where)
	}
	// eqp, two window bounds, lot, wafer
	if len(args) != 5 {
		t.Fatalf("args=%v", args)
	}
}

func TestUniqueWhereMalformedWaferIgnored(t *testing.T) {
	p := WaferParams{EqpID: "EQP01", WaferID: "abc"}
	where, _, ok := UniqueWhere(p, time.UTC, testNow)
	if !ok {
		t.Fatal("expected a predicate")
	}
	if strings.Contains(where, "waferid") {
		t.Fatalf("non-numeric wafer id must be dropped, got %q", where)
	}
}

func TestWaferIDInt(t *testing.T) {
	if n, ok := (WaferParams{WaferID: " 03 "}).WaferIDInt(); !ok || n != 3 {
		t.Fatalf("got %d %v", n, ok)
	}
	if _, ok := (WaferParams{WaferID: "three"}).WaferIDInt(); ok {
		t.Fatal("expected coercion failure")
	}
}

func TestSplitList(t *testing.T) {
	p := WaferParams{}
	got := p.SplitList(" 1, 2 ,,3 ")
	if len(got) != 3 || got[0] != "1" || got[2] != "3" {
		t.Fatalf("got %v", got)
	}
	if p.SplitList("  ") != nil {
		t.Fatal("blank list should be nil")
	}
}
