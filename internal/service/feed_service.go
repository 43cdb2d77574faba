package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"gorm.io/gorm"

	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/dto"
)

type FeedService struct {
	Dep *dependency.Dependency
}

func NewFeedService(dep *dependency.Dependency) *FeedService {
	checkDependency("FeedService", dep)

	return &FeedService{
		Dep: dep,
	}
}

// sharingUsers are the public accounts userID follows, split by what they share.
func (s *FeedService) sharingUsers(ctx context.Context, userID uint) (map[uint]model.User, []uint, []uint, error) {
	follows, err := gorm.G[model.Follow](s.Dep.DB).
		Preload("Following", nil).
		Where("follower_id = ?", userID).
		Find(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	users := make(map[uint]model.User, len(follows))
	var orgasmUsers, chastityUsers []uint
	for _, f := range follows {
		u := f.Following
		if !u.PublicProfile {
			continue
		}
		users[u.ID] = u
		if u.PublicOrgasms {
			orgasmUsers = append(orgasmUsers, u.ID)
		}
		if u.TrackChastityStatus {
			chastityUsers = append(chastityUsers, u.ID)
		}
	}

	return users, orgasmUsers, chastityUsers, nil
}

// GetFeed lists the newest shared events of followed users, newest first. A
// limit of 0 uses the configured default.
func (s *FeedService) GetFeed(ctx context.Context, userID uint, limit int) ([]dto.FeedItem, error) {
	if limit <= 0 {
		limit = s.Dep.Cfg.FeedDefaultLimit
	}

	users, orgasmUsers, chastityUsers, err := s.sharingUsers(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]dto.FeedItem, 0, limit)

	newItem := func(kind string, ownerID uint, at time.Time) dto.FeedItem {
		owner := users[ownerID]
		return dto.FeedItem{
			Kind: kind,
			User: *userToSimpleUser(&owner),
			At:   at,
			Ago:  humanize.RelTime(at, now, "ago", "from now"),
		}
	}

	if len(orgasmUsers) > 0 {
		orgasms, err := gorm.G[model.Orgasm](s.Dep.DB).
			Where("user_id IN ? AND timestamp IS NOT NULL", orgasmUsers).
			Order("timestamp DESC").
			Limit(limit).
			Find(ctx)
		if err != nil {
			return nil, err
		}

		for _, o := range orgasms {
			item := newItem(dto.FeedKindOrgasm, o.UserID, *o.Timestamp)
			resp := orgasmToResponse(&o)
			item.Orgasm = &resp
			items = append(items, item)
		}
	}

	if len(chastityUsers) > 0 {
		// the newest start or end of a session is its latest activity
		sessions, err := gorm.G[model.ChastitySession](s.Dep.DB).
			Where("user_id IN ?", chastityUsers).
			Order("COALESCE(end_time, start_time) DESC").
			Limit(limit).
			Find(ctx)
		if err != nil {
			return nil, err
		}

		for _, session := range sessions {
			resp := sessionToResponse(&session, now)

			item := newItem(dto.FeedKindChastityStart, session.UserID, session.StartTime)
			item.Session = &resp
			items = append(items, item)

			if session.EndTime != nil {
				item := newItem(dto.FeedKindChastityEnd, session.UserID, *session.EndTime)
				item.Session = &resp
				items = append(items, item)
			}
		}
	}

	slices.SortStableFunc(items, func(a, b dto.FeedItem) int {
		return cmp.Compare(b.At.UnixNano(), a.At.UnixNano())
	})

	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}
