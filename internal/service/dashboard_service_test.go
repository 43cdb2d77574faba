package service

import (
	"context"
	"slices"
	"testing"

	"github.com/paularynty/climaxlog/internal/testutil"
)

func TestDashboardCharts(t *testing.T) {
	dep := newTestDep(t)
	svc := NewDashboardService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "dash")

	charts, err := svc.GetCharts(ctx, user.ID)
	if err != nil {
		t.Fatalf("get charts failed: %v", err)
	}
	if !slices.Equal(charts, defaultCharts()) {
		t.Fatalf("expected defaults, got %v", charts)
	}

	picked := []string{"radial", "daily_heatmap", "month_grid"}
	charts, err = svc.SetCharts(ctx, user.ID, picked)
	if err != nil {
		t.Fatalf("set charts failed: %v", err)
	}
	if !slices.Equal(charts, picked) {
		t.Fatalf("expected %v, got %v", picked, charts)
	}

	reordered := []string{"month_grid", "radial"}
	charts, err = svc.SetCharts(ctx, user.ID, reordered)
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if !slices.Equal(charts, reordered) {
		t.Fatalf("expected %v, got %v", reordered, charts)
	}

	charts, err = svc.SetCharts(ctx, user.ID, nil)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if len(charts) != len(defaultCharts()) {
		t.Fatalf("expected defaults after reset, got %v", charts)
	}

	_, err = svc.SetCharts(ctx, 9999, picked)
	requireAppStatus(t, err, 404)
}
