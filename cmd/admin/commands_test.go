package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/testutil"
)

func runAdmin(t *testing.T, dep *dependency.Dependency, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand(&out, func() (*dependency.Dependency, func(), error) {
		return dep, func() {}, nil
	})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	dep := testutil.NewTestDependencyWithDB(t, false)
	user := testutil.CreateUser(t, dep.DB, "cli")
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustTime(t, "2024-03-01T10:00:00Z"), "FULL", "SOLO")
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustTime(t, "2024-03-02T10:00:00Z"), "FULL", "SOLO")

	out, err := runAdmin(t, dep, "summary", "cli", "--tz", "UTC")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !strings.Contains(out, "total:          2") || !strings.Contains(out, "longest streak: 2 days") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, err := runAdmin(t, dep, "summary", "nobody"); err == nil {
		t.Fatal("expected unknown user to fail")
	}
}

func TestReviewCommand(t *testing.T) {
	dep := testutil.NewTestDependencyWithDB(t, false)
	user := testutil.CreateUser(t, dep.DB, "reviewer")
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustTime(t, "2023-08-08T08:08:00Z"), "ANAL", "PHYSICAL")

	path := filepath.Join(t.TempDir(), "review.html")
	out, err := runAdmin(t, dep, "review", "reviewer", "--year", "2023", "-o", path)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if !strings.HasPrefix(out, "wrote "+path) {
		t.Fatalf("unexpected output %q", out)
	}

	page, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read review: %v", err)
	}
	if !strings.Contains(string(page), "2023 in review") {
		t.Fatal("expected review title in page")
	}
}

func TestResetCommand(t *testing.T) {
	dep := testutil.NewTestDependencyWithDB(t, false)
	testutil.CreateUser(t, dep.DB, "doomed")

	if _, err := runAdmin(t, dep, "reset-db"); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected confirmation error, got %v", err)
	}

	if _, err := runAdmin(t, dep, "reset-db", "--yes"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	var count int64
	if err := dep.DB.Table("users").Count(&count).Error; err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no users, found %d", count)
	}
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad time %q: %v", value, err)
	}
	return ts
}
