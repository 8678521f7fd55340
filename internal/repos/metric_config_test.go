package repos

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/types"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.MetricConfig{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestMetricConfigRepoListIncludedNames(t *testing.T) {
	db := testDB(t)
	repo := NewMetricConfigRepo(db, testLogger(t))
	ctx := context.Background()

	seed := []types.MetricConfig{
		{MetricName: "rmse", IsExcluded: "N"},
		{MetricName: "asym", IsExcluded: "Y"},
		{MetricName: "goodness", IsExcluded: "N"},
	}
	for i := range seed {
		if err := repo.Upsert(ctx, nil, &seed[i]); err != nil {
			t.Fatalf("upsert %s: %v", seed[i].MetricName, err)
		}
	}

	names, err := repo.ListIncludedNames(ctx, nil)
	if err != nil {
		t.Fatalf("ListIncludedNames: %v", err)
	}
	want := []string{"goodness", "rmse"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestMetricConfigRepoUpsertTogglesExclusion(t *testing.T) {
	db := testDB(t)
	repo := NewMetricConfigRepo(db, testLogger(t))
	ctx := context.Background()

	cfg := &types.MetricConfig{MetricName: "rmse", IsExcluded: "N"}
	if err := repo.Upsert(ctx, nil, cfg); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	cfg.IsExcluded = "Y"
	if err := repo.Upsert(ctx, nil, cfg); err != nil {
		t.Fatalf("upsert update: %v", err)
	}

	names, err := repo.ListIncludedNames(ctx, nil)
	if err != nil {
		t.Fatalf("ListIncludedNames: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no included metrics after exclusion, got %v", names)
	}

	all, err := repo.ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 || all[0].IsExcluded != "Y" {
		t.Fatalf("unexpected rows after toggle: %+v", all)
	}
}

func TestMetricConfigRepoDelete(t *testing.T) {
	db := testDB(t)
	repo := NewMetricConfigRepo(db, testLogger(t))
	ctx := context.Background()

	if err := repo.Upsert(ctx, nil, &types.MetricConfig{MetricName: "rmse"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Delete(ctx, nil, "rmse"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, err := repo.ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty table, got %+v", all)
	}
}
