package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/paularynty/climaxlog/internal/testutil"
)

func TestStatsSummaryUsesTimezone(t *testing.T) {
	dep := newTestDep(t)
	svc := NewStatsService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "stats")
	// 23:30 and 00:30 UTC land on the same day in New York
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustParse(t, "2024-03-10T23:30:00Z"), "FULL", "SOLO")
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustParse(t, "2024-03-11T00:30:00Z"), "FULL", "SOLO")

	utc, err := svc.Summary(ctx, user.ID, "UTC")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if utc.Total != 2 || utc.LongestStreak != 2 {
		t.Fatalf("unexpected UTC summary %+v", utc)
	}

	ny, err := svc.Summary(ctx, user.ID, "America/New_York")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if ny.Total != 2 || ny.LongestStreak != 1 {
		t.Fatalf("unexpected New York summary %+v", ny)
	}

	// the stored preference applies when the request has none
	testutil.UpdateUser(t, dep.DB, user.ID, map[string]any{"timezone": "America/New_York"})
	pref, err := svc.Summary(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if pref.LongestStreak != 1 {
		t.Fatalf("expected user timezone to apply, got %+v", pref)
	}

	_, err = svc.Summary(ctx, 9999, "")
	requireAppStatus(t, err, 404)
}

func TestStatsSkipsLegacyRows(t *testing.T) {
	dep := newTestDep(t)
	svc := NewStatsService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "legacy")
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustParse(t, "2024-01-01T12:00:00Z"), "FULL", "SOLO")
	if err := dep.DB.Exec("INSERT INTO orgasms (user_id, type, partner, created_at, updated_at) VALUES (?, 'FULL', 'SOLO', ?, ?)", user.ID, time.Now(), time.Now()).Error; err != nil {
		t.Fatalf("failed to insert legacy row: %v", err)
	}

	review, err := svc.Review(ctx, user.ID, "UTC", 2024)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if review.TotalCount != 1 {
		t.Fatalf("expected legacy row to be skipped, got %d", review.TotalCount)
	}
}

func TestStatsPeriods(t *testing.T) {
	dep := newTestDep(t)
	svc := NewStatsService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "periods")
	testutil.CreateOrgasm(t, dep.DB, user.ID, time.Now(), "FULL", "SOLO")

	comparison, err := svc.Periods(ctx, user.ID, "", "")
	if err != nil {
		t.Fatalf("periods failed: %v", err)
	}
	if comparison.Granularity != "month" || comparison.CurrentTotal != 1 {
		t.Fatalf("unexpected comparison %+v", comparison)
	}
	// joined this month, nothing to compare against yet
	if comparison.AveragePerPeriod != nil || comparison.PreviousPeriodTotal != nil {
		t.Fatalf("expected no history, got %+v", comparison)
	}

	_, err = svc.Periods(ctx, user.ID, "", "decade")
	requireAppStatus(t, err, 400)
}

func TestStatsMonthMarksLockedDays(t *testing.T) {
	dep := newTestDep(t)
	svc := NewStatsService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "month")
	start := mustParse(t, "2024-02-10T20:00:00Z")
	end := mustParse(t, "2024-02-12T08:00:00Z")
	testutil.CreateSession(t, dep.DB, user.ID, start, &end)
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustParse(t, "2024-02-14T10:00:00Z"), "FULL", "SOLO")

	cal, err := svc.Month(ctx, user.ID, "UTC", 2024, 2)
	if err != nil {
		t.Fatalf("month failed: %v", err)
	}
	if cal.LockedDays != 3 || cal.Total != 1 {
		t.Fatalf("unexpected calendar totals locked=%d total=%d", cal.LockedDays, cal.Total)
	}
}

func TestStatsBucketsAndCharts(t *testing.T) {
	dep := newTestDep(t)
	svc := NewStatsService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "charts")
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustParse(t, "2024-06-03T07:10:00Z"), "FULL", "SOLO")
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustParse(t, "2024-06-05T22:50:00Z"), "RUINED", "PHYSICAL")

	heatmap, err := svc.Heatmap(ctx, user.ID, "UTC", 2024)
	if err != nil {
		t.Fatalf("heatmap failed: %v", err)
	}
	if heatmap.Total != 2 || len(heatmap.Days) != 366 {
		t.Fatalf("unexpected heatmap total=%d days=%d", heatmap.Total, len(heatmap.Days))
	}

	weeks, err := svc.Weekly(ctx, user.ID, "UTC", 2024)
	if err != nil {
		t.Fatalf("weekly failed: %v", err)
	}
	if len(weeks) != 52 || weeks[22].Count != 2 {
		t.Fatalf("expected both events in ISO week 23, got %d weeks", len(weeks))
	}

	grid, err := svc.DayHour(ctx, user.ID, "UTC", 3)
	if err != nil {
		t.Fatalf("dayhour failed: %v", err)
	}
	if grid.Total != 2 || grid.Cells[0][2] != 1 || grid.Cells[2][7] != 1 {
		t.Fatalf("unexpected grid %+v", grid)
	}

	radial, err := svc.Radial(ctx, user.ID, "UTC")
	if err != nil {
		t.Fatalf("radial failed: %v", err)
	}
	if len(radial) != 96 || radial[28].Count != 1 || radial[91].Count != 1 {
		t.Fatalf("unexpected radial slots")
	}

	var page bytes.Buffer
	if err := svc.ReviewChart(ctx, user.ID, "UTC", 2024, &page); err != nil {
		t.Fatalf("review chart failed: %v", err)
	}
	if !strings.Contains(page.String(), "2024 in review") {
		t.Fatal("expected review page title")
	}

	page.Reset()
	if err := svc.HeatmapChart(ctx, user.ID, "UTC", 2024, &page); err != nil {
		t.Fatalf("heatmap chart failed: %v", err)
	}
	if !strings.Contains(page.String(), "2024 heatmap") {
		t.Fatal("expected heatmap page title")
	}
}
