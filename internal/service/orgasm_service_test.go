package service

import (
	"context"
	"testing"

	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/testutil"
)

func TestOrgasmCRUD(t *testing.T) {
	dep := newTestDep(t)
	svc := NewOrgasmService(dep)
	ctx := context.Background()

	owner := testutil.CreateUser(t, dep.DB, "owner")
	stranger := testutil.CreateUser(t, dep.DB, "stranger")

	ts := mustParse(t, "2024-03-01T10:00:00Z")
	note := "first"
	created, err := svc.Create(ctx, owner.ID, &dto.OrgasmRequest{
		Timestamp: &ts,
		Type:      "FULL",
		Partner:   "SOLO",
		Note:      &note,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == 0 || !created.Timestamp.Equal(ts) || created.Note == nil || *created.Note != "first" {
		t.Fatalf("unexpected entry %+v", created)
	}

	t.Run("OwnerCanRead", func(t *testing.T) {
		got, err := svc.Get(ctx, owner.ID, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Type != "FULL" {
			t.Fatalf("unexpected entry %+v", got)
		}
	})

	t.Run("StrangerGets404", func(t *testing.T) {
		_, err := svc.Get(ctx, stranger.ID, created.ID)
		requireAppStatus(t, err, 404)

		moved := mustParse(t, "2024-03-02T10:00:00Z")
		_, err = svc.Update(ctx, stranger.ID, created.ID, &dto.OrgasmRequest{Timestamp: &moved, Type: "RUINED", Partner: "SOLO"})
		requireAppStatus(t, err, 404)

		requireAppStatus(t, svc.Delete(ctx, stranger.ID, created.ID), 404)
	})

	t.Run("Update", func(t *testing.T) {
		moved := mustParse(t, "2024-03-02T10:00:00Z")
		updated, err := svc.Update(ctx, owner.ID, created.ID, &dto.OrgasmRequest{
			Timestamp: &moved,
			Type:      "RUINED",
			Partner:   "PHYSICAL",
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if !updated.Timestamp.Equal(moved) || updated.Type != "RUINED" || updated.Partner != "PHYSICAL" || updated.Note != nil {
			t.Fatalf("unexpected entry %+v", updated)
		}

		stored, err := svc.Get(ctx, owner.ID, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if stored.Type != "RUINED" {
			t.Fatalf("update not persisted: %+v", stored)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := svc.Delete(ctx, owner.ID, created.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		_, err := svc.Get(ctx, owner.ID, created.ID)
		requireAppStatus(t, err, 404)
	})
}

func TestOrgasmListRange(t *testing.T) {
	dep := newTestDep(t)
	svc := NewOrgasmService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "lister")
	other := testutil.CreateUser(t, dep.DB, "other")
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustParse(t, "2024-01-03T00:00:00Z"), "FULL", "SOLO")
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustParse(t, "2024-01-01T00:00:00Z"), "FULL", "SOLO")
	testutil.CreateOrgasm(t, dep.DB, user.ID, mustParse(t, "2024-01-02T00:00:00Z"), "ANAL", "VIRTUAL")
	testutil.CreateOrgasm(t, dep.DB, other.ID, mustParse(t, "2024-01-02T00:00:00Z"), "FULL", "SOLO")

	// legacy row without a timestamp
	if err := dep.DB.Create(&model.Orgasm{UserID: user.ID, Type: "FULL", Partner: "SOLO"}).Error; err != nil {
		t.Fatalf("failed to create legacy row: %v", err)
	}

	all, err := svc.List(ctx, user.ID, nil, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(all))
	}

	from := mustParse(t, "2024-01-02T00:00:00Z")
	to := mustParse(t, "2024-01-03T00:00:00Z")
	ranged, err := svc.List(ctx, user.ID, &from, &to)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ranged) != 1 || ranged[0].Type != "ANAL" {
		t.Fatalf("expected only the half-open range, got %+v", ranged)
	}

	onlyFrom, err := svc.List(ctx, user.ID, &from, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(onlyFrom) != 2 || !onlyFrom[0].Timestamp.Before(*onlyFrom[1].Timestamp) {
		t.Fatalf("expected two ascending entries, got %+v", onlyFrom)
	}

	_, err = svc.List(ctx, user.ID, &to, &from)
	requireAppStatus(t, err, 400)
}
