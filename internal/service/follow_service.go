package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/paularynty/climaxlog/internal/apperror"
	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dto"
)

// Follow makes userID follow targetID. Only public profiles can be followed.
func (s *UserService) Follow(ctx context.Context, userID uint, targetID uint) error {
	if userID == targetID {
		return apperror.BadRequest("cannot follow yourself")
	}

	target, err := findUser(ctx, s.Dep.DB, targetID)
	if err != nil {
		return err
	}
	if !target.PublicProfile {
		return apperror.NotFound("user not found")
	}

	err = gorm.G[model.Follow](s.Dep.DB).Create(ctx, &model.Follow{
		FollowerID:  userID,
		FollowingID: targetID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("already following this user")
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	return nil
}

func (s *UserService) Unfollow(ctx context.Context, userID uint, targetID uint) error {
	rows, err := gorm.G[model.Follow](s.Dep.DB).
		Where("follower_id = ? AND following_id = ?", userID, targetID).
		Delete(ctx)
	if err != nil {
		return err
	}

	if rows == 0 {
		return apperror.NotFound("not following this user")
	}

	return nil
}

func (s *UserService) GetFollowing(ctx context.Context, userID uint) ([]dto.FollowResponse, error) {
	follows, err := gorm.G[model.Follow](s.Dep.DB).
		Preload("Following", nil).
		Where("follower_id = ?", userID).
		Order("created_at").
		Find(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(follows))
	for _, f := range follows {
		users = append(users, f.Following)
	}

	return s.toFollowResponses(ctx, users)
}

func (s *UserService) GetFollowers(ctx context.Context, userID uint) ([]dto.FollowResponse, error) {
	follows, err := gorm.G[model.Follow](s.Dep.DB).
		Preload("Follower", nil).
		Where("following_id = ?", userID).
		Order("created_at").
		Find(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(follows))
	for _, f := range follows {
		users = append(users, f.Follower)
	}

	return s.toFollowResponses(ctx, users)
}

func (s *UserService) toFollowResponses(ctx context.Context, users []model.User) ([]dto.FollowResponse, error) {
	checker, err := s.onlineStatusFor(ctx, users)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.FollowResponse, 0, len(users))
	for _, u := range users {
		online, lastSeen := checker.status(u.ID)
		responses = append(responses, dto.FollowResponse{
			SimpleUser: *userToSimpleUser(&u),
			Online:     online,
			LastSeen:   lastSeen,
		})
	}

	return responses, nil
}
