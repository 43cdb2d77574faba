package service

import (
	"errors"
	"testing"
	"time"

	"github.com/paularynty/climaxlog/internal/apperror"
	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/testutil"
)

func newTestDep(t *testing.T) *dependency.Dependency {
	t.Helper()
	return testutil.NewTestDependencyWithDB(t, false)
}

func requireAppStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Status != status {
		t.Fatalf("expected %d error, got %v", status, err)
	}
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad time %q: %v", value, err)
	}
	return ts
}

func makePublic(t *testing.T, dep *dependency.Dependency, user model.User, orgasms, chastity bool) {
	t.Helper()
	testutil.UpdateUser(t, dep.DB, user.ID, map[string]any{
		"public_profile":        true,
		"public_orgasms":        orgasms,
		"track_chastity_status": chastity,
	})
}
