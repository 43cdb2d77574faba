package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/testutil"
)

func newUserRequest(username string) *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		UserName: dto.UserName{Username: username},
		Password: dto.Password{Password: "password123"},
	}
}

func TestCreateUser(t *testing.T) {
	svc := NewUserService(newTestDep(t))
	ctx := context.Background()

	cases := []struct {
		name          string
		req           *dto.CreateUserRequest
		setup         func()
		wantErrStatus int
	}{
		{
			name: "Success",
			req:  newUserRequest("testuser"),
		},
		{
			name: "DuplicateUsername",
			req:  newUserRequest("taken"),
			setup: func() {
				_, _ = svc.CreateUser(ctx, newUserRequest("taken"))
			},
			wantErrStatus: 409,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				tc.setup()
			}
			resp, err := svc.CreateUser(ctx, tc.req)
			if tc.wantErrStatus == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if resp.Username != tc.req.Username {
					t.Errorf("expected username %s, got %s", tc.req.Username, resp.Username)
				}
				if resp.ID == 0 {
					t.Error("expected valid ID")
				}
				if resp.Settings.PublicProfile || resp.Settings.FirstDayOfWeek != 1 || resp.Settings.DefaultProfileChart != "daily_heatmap" {
					t.Errorf("unexpected default settings %+v", resp.Settings)
				}
				return
			}
			requireAppStatus(t, err, tc.wantErrStatus)
		})
	}
}

func TestLoginUser(t *testing.T) {
	dep := newTestDep(t)
	svc := NewUserService(dep)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, newUserRequest("loginuser")); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	t.Run("Success", func(t *testing.T) {
		resp, err := svc.LoginUser(ctx, &dto.LoginUserRequest{
			UserName: dto.UserName{Username: "loginuser"},
			Password: dto.Password{Password: "password123"},
		})
		if err != nil {
			t.Fatalf("expected login to succeed, got %v", err)
		}
		if resp.Token == "" {
			t.Fatal("expected token")
		}
		if err := svc.ValidateUserToken(ctx, resp.Token, resp.ID); err != nil {
			t.Fatalf("issued token should validate, got %v", err)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.LoginUser(ctx, &dto.LoginUserRequest{
			UserName: dto.UserName{Username: "loginuser"},
			Password: dto.Password{Password: "wrongpass"},
		})
		requireAppStatus(t, err, 401)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := svc.LoginUser(ctx, &dto.LoginUserRequest{
			UserName: dto.UserName{Username: "nobody"},
			Password: dto.Password{Password: "password123"},
		})
		requireAppStatus(t, err, 401)
	})
}

func TestUpdateUserPasswordRevokesOtherTokens(t *testing.T) {
	dep := newTestDep(t)
	svc := NewUserService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "pwuser")
	oldToken, err := svc.issueNewTokenForUser(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	_, err = svc.UpdateUserPassword(ctx, user.ID, &dto.UpdateUserPasswordRequest{
		OldPassword: dto.OldPassword{OldPassword: "wrong1"},
		NewPassword: dto.NewPassword{NewPassword: "newpass1"},
	})
	requireAppStatus(t, err, 401)

	resp, err := svc.UpdateUserPassword(ctx, user.ID, &dto.UpdateUserPasswordRequest{
		OldPassword: dto.OldPassword{OldPassword: testutil.TestPassword},
		NewPassword: dto.NewPassword{NewPassword: "newpass1"},
	})
	if err != nil {
		t.Fatalf("expected password change, got %v", err)
	}

	requireAppStatus(t, svc.ValidateUserToken(ctx, oldToken, user.ID), 401)
	if err := svc.ValidateUserToken(ctx, resp.Token, user.ID); err != nil {
		t.Fatalf("new token should validate, got %v", err)
	}

	_, err = svc.LoginUser(ctx, &dto.LoginUserRequest{
		UserName: dto.UserName{Username: "pwuser"},
		Password: dto.Password{Password: "newpass1"},
	})
	if err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	dep := newTestDep(t)
	svc := NewUserService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "profile")
	testutil.CreateUser(t, dep.DB, "other")

	bio := "  hello there  "
	resp, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
		UserName: dto.UserName{Username: "renamed"},
		Bio:      &bio,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if resp.Username != "renamed" || resp.Bio == nil || *resp.Bio != "hello there" {
		t.Fatalf("unexpected profile %+v", resp)
	}

	empty := "   "
	resp, err = svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
		UserName: dto.UserName{Username: "renamed"},
		Bio:      &empty,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if resp.Bio != nil {
		t.Fatalf("expected blank bio to clear, got %q", *resp.Bio)
	}

	_, err = svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
		UserName: dto.UserName{Username: "other"},
	})
	requireAppStatus(t, err, 409)

	_, err = svc.UpdateProfile(ctx, 9999, &dto.UpdateProfileRequest{
		UserName: dto.UserName{Username: "ghost"},
	})
	requireAppStatus(t, err, 404)
}

func TestUpdateSettingsOnlyTouchesPresentFields(t *testing.T) {
	dep := newTestDep(t)
	svc := NewUserService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "settings")

	public := true
	sunday := 0
	tz := "Europe/Helsinki"
	resp, err := svc.UpdateSettings(ctx, user.ID, &dto.UpdateSettingsRequest{
		PublicProfile:  &public,
		FirstDayOfWeek: &sunday,
		Timezone:       &tz,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !resp.Settings.PublicProfile || resp.Settings.FirstDayOfWeek != 0 || resp.Settings.Timezone != tz {
		t.Fatalf("unexpected settings %+v", resp.Settings)
	}

	private := false
	resp, err = svc.UpdateSettings(ctx, user.ID, &dto.UpdateSettingsRequest{PublicProfile: &private})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if resp.Settings.PublicProfile {
		t.Fatal("expected profile to become private")
	}
	if resp.Settings.FirstDayOfWeek != 0 || resp.Settings.Timezone != tz {
		t.Fatalf("untouched settings changed: %+v", resp.Settings)
	}

	reset := ""
	resp, err = svc.UpdateSettings(ctx, user.ID, &dto.UpdateSettingsRequest{Timezone: &reset})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if resp.Settings.Timezone != "" {
		t.Fatalf("expected timezone to reset, got %q", resp.Settings.Timezone)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	dep := newTestDep(t)
	svc := NewUserService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "leaving")
	friend := testutil.CreateUser(t, dep.DB, "staying")
	testutil.CreateOrgasm(t, dep.DB, user.ID, time.Now(), "FULL", "SOLO")
	testutil.CreateSession(t, dep.DB, user.ID, time.Now().Add(-time.Hour), nil)
	testutil.CreateFollow(t, dep.DB, friend.ID, user.ID)

	if _, err := svc.issueNewTokenForUser(ctx, user.ID, false); err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if err := svc.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	for _, table := range []any{&model.Orgasm{}, &model.ChastitySession{}, &model.Follow{}, &model.Token{}} {
		var count int64
		if err := dep.DB.Unscoped().Model(table).Count(&count).Error; err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected %T rows to cascade, found %d", table, count)
		}
	}

	requireAppStatus(t, svc.DeleteUser(ctx, user.ID), 404)
}

func TestValidateUserTokenDB(t *testing.T) {
	dep := newTestDep(t)
	svc := NewUserService(dep)
	ctx := context.Background()

	user := testutil.CreateUser(t, dep.DB, "tokens")
	other := testutil.CreateUser(t, dep.DB, "someone")

	token, err := svc.issueNewTokenForUser(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	t.Run("WrongUser", func(t *testing.T) {
		requireAppStatus(t, svc.ValidateUserToken(ctx, token, other.ID), 401)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		requireAppStatus(t, svc.ValidateUserToken(ctx, "nope", user.ID), 401)
	})

	t.Run("IdleTokenExpires", func(t *testing.T) {
		idle, err := svc.issueNewTokenForUser(ctx, user.ID, false)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		stale := time.Now().Add(-time.Duration(dep.Cfg.UserTokenExpiry+60) * time.Second)
		if err := dep.DB.Exec("UPDATE tokens SET updated_at = ? WHERE token = ?", stale, idle).Error; err != nil {
			t.Fatalf("failed to age token: %v", err)
		}

		requireAppStatus(t, svc.ValidateUserToken(ctx, idle, user.ID), 401)

		_, err = gorm.G[model.Token](dep.DB).Where("token = ?", idle).First(ctx)
		if err == nil {
			t.Fatal("expected idle token to be removed")
		}
	})

	t.Run("Logout", func(t *testing.T) {
		if err := svc.ValidateUserToken(ctx, token, user.ID); err != nil {
			t.Fatalf("expected token to validate, got %v", err)
		}
		if err := svc.LogoutUser(ctx, user.ID); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		requireAppStatus(t, svc.ValidateUserToken(ctx, token, user.ID), 401)
	})
}

func TestSearchUsers(t *testing.T) {
	dep := newTestDep(t)
	svc := NewUserService(dep)
	ctx := context.Background()

	me := testutil.CreateUser(t, dep.DB, "alice")
	makePublic(t, dep, me, false, false)
	alina := testutil.CreateUser(t, dep.DB, "alina")
	makePublic(t, dep, alina, false, false)
	testutil.CreateUser(t, dep.DB, "alfred") // private
	under := testutil.CreateUser(t, dep.DB, "al_x")
	makePublic(t, dep, under, false, false)
	bob := testutil.CreateUser(t, dep.DB, "bob")
	makePublic(t, dep, bob, false, false)

	users, err := svc.SearchUsers(ctx, me.ID, "al")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(users) != 2 || users[0].Username != "al_x" || users[1].Username != "alina" {
		t.Fatalf("unexpected results %+v", users)
	}

	users, err = svc.SearchUsers(ctx, me.ID, "al_")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(users) != 1 || users[0].Username != "al_x" {
		t.Fatalf("underscore should match literally, got %+v", users)
	}
}

func TestGetPublicProfile(t *testing.T) {
	dep := newTestDep(t)
	svc := NewUserService(dep)
	ctx := context.Background()

	viewer := testutil.CreateUser(t, dep.DB, "viewer")
	owner := testutil.CreateUser(t, dep.DB, "owner")
	testutil.CreateOrgasm(t, dep.DB, owner.ID, time.Now().Add(-48*time.Hour), "FULL", "SOLO")
	testutil.CreateSession(t, dep.DB, owner.ID, time.Now().Add(-3*24*time.Hour), nil)

	t.Run("PrivateIsHidden", func(t *testing.T) {
		_, err := svc.GetPublicProfile(ctx, viewer.ID, "owner", "")
		requireAppStatus(t, err, 404)
	})

	t.Run("SelfSeesEverything", func(t *testing.T) {
		profile, err := svc.GetPublicProfile(ctx, owner.ID, "owner", "UTC")
		if err != nil {
			t.Fatalf("expected own profile, got %v", err)
		}
		if profile.Summary == nil || profile.Summary.Total != 1 {
			t.Fatalf("expected summary for self, got %+v", profile.Summary)
		}
		if profile.Chastity == nil || !profile.Chastity.Active || profile.Chastity.Duration != "3 days" {
			t.Fatalf("expected active session, got %+v", profile.Chastity)
		}
	})

	t.Run("PublicWithoutSharing", func(t *testing.T) {
		makePublic(t, dep, owner, false, false)
		profile, err := svc.GetPublicProfile(ctx, viewer.ID, "owner", "")
		if err != nil {
			t.Fatalf("expected profile, got %v", err)
		}
		if profile.Summary != nil || profile.Heatmap != nil || profile.Chastity != nil {
			t.Fatalf("nothing should be shared, got %+v", profile)
		}
	})

	t.Run("PublicWithSharing", func(t *testing.T) {
		makePublic(t, dep, owner, true, true)
		testutil.CreateFollow(t, dep.DB, viewer.ID, owner.ID)

		profile, err := svc.GetPublicProfile(ctx, viewer.ID, "owner", "")
		if err != nil {
			t.Fatalf("expected profile, got %v", err)
		}
		if profile.Summary == nil || profile.Heatmap == nil || profile.Chastity == nil {
			t.Fatalf("expected shared sections, got %+v", profile)
		}
		if !profile.IsFollowing || profile.FollowerCount != 1 || profile.FollowingCount != 0 {
			t.Fatalf("unexpected follow info %+v", profile)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := svc.GetPublicProfile(ctx, viewer.ID, "ghost", "")
		requireAppStatus(t, err, 404)
	})
}
