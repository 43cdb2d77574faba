package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/paularynty/climaxlog/internal/apperror"
	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/enum"
	"github.com/paularynty/climaxlog/internal/stats"
)

const BcryptSaltRounds = 10
const SearchResultLimit = 20

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type UserService struct {
	Dep *dependency.Dependency
}

func NewUserService(dep *dependency.Dependency) *UserService {
	checkDependency("UserService", dep)

	return &UserService{
		Dep: dep,
	}
}

func (s *UserService) CreateUser(ctx context.Context, request *dto.CreateUserRequest) (*dto.UserResponse, error) {
	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(request.Password.Password), BcryptSaltRounds)
	if err != nil {
		return nil, err
	}

	modelUser := model.User{
		Username:            request.Username,
		PasswordHash:        string(passwordBytes),
		FirstDayOfWeek:      1,
		DefaultProfileChart: string(enum.ChartDailyHeatmap),
	}

	err = gorm.G[model.User](s.Dep.DB).Create(ctx, &modelUser)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("username already in use")
		}
		return nil, err
	}

	s.Dep.Logger.Info("user registered", "userID", modelUser.ID)

	return userToUserResponse(&modelUser), nil
}

func (s *UserService) LoginUser(ctx context.Context, request *dto.LoginUserRequest) (*dto.UserWithTokenResponse, error) {
	modelUser, err := gorm.G[model.User](s.Dep.DB).Where("username = ?", request.Username).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(modelUser.PasswordHash), []byte(request.Password.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	userToken, err := s.issueNewTokenForUser(ctx, modelUser.ID, false)
	if err != nil {
		return nil, err
	}

	return userToUserWithTokenResponse(&modelUser, userToken), nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	modelUser, err := findUser(ctx, s.Dep.DB, userID)
	if err != nil {
		return nil, err
	}

	return userToUserResponse(modelUser), nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	modelUser, err := gorm.G[model.User](s.Dep.DB).Where("username = ?", username).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	return userToUserResponse(&modelUser), nil
}

func (s *UserService) UpdateUserPassword(ctx context.Context, userID uint, request *dto.UpdateUserPasswordRequest) (*dto.UserWithTokenResponse, error) {
	modelUser, err := findUser(ctx, s.Dep.DB, userID)
	if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(modelUser.PasswordHash), []byte(request.OldPassword.OldPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	newPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword.NewPassword), BcryptSaltRounds)
	if err != nil {
		return nil, err
	}

	_, err = gorm.G[model.User](s.Dep.DB).Where("id = ?", userID).Update(ctx, "password_hash", string(newPasswordBytes))
	if err != nil {
		return nil, err
	}

	// every other session is signed out
	userToken, err := s.issueNewTokenForUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	return userToUserWithTokenResponse(modelUser, userToken), nil
}

// UpdateProfile replaces the username and bio. An empty bio is stored as nil.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, request *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	modelUser, err := findUser(ctx, s.Dep.DB, userID)
	if err != nil {
		return nil, err
	}

	bio := request.Bio
	if bio != nil {
		trimmed := strings.TrimSpace(*bio)
		if trimmed == "" {
			bio = nil
		} else {
			bio = &trimmed
		}
	}

	modelUser.Username = request.Username
	modelUser.Bio = bio

	err = s.Dep.DB.WithContext(ctx).Save(modelUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("username already in use")
		}
		return nil, err
	}

	return userToUserResponse(modelUser), nil
}

// UpdateSettings writes only the fields present in the request.
func (s *UserService) UpdateSettings(ctx context.Context, userID uint, request *dto.UpdateSettingsRequest) (*dto.UserResponse, error) {
	modelUser, err := findUser(ctx, s.Dep.DB, userID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if request.PublicProfile != nil {
		fields["public_profile"] = *request.PublicProfile
	}
	if request.PublicOrgasms != nil {
		fields["public_orgasms"] = *request.PublicOrgasms
	}
	if request.TrackChastityStatus != nil {
		fields["track_chastity_status"] = *request.TrackChastityStatus
	}
	if request.FirstDayOfWeek != nil {
		fields["first_day_of_week"] = *request.FirstDayOfWeek
	}
	if request.DefaultProfileChart != nil {
		fields["default_profile_chart"] = *request.DefaultProfileChart
	}
	if request.Timezone != nil {
		if *request.Timezone == "" {
			fields["timezone"] = nil
		} else {
			fields["timezone"] = *request.Timezone
		}
	}

	if len(fields) == 0 {
		return userToUserResponse(modelUser), nil
	}

	err = s.Dep.DB.WithContext(ctx).Model(modelUser).Updates(fields).Error
	if err != nil {
		return nil, err
	}

	return s.GetUserByID(ctx, userID)
}

func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	if s.Dep.Cfg.IsRedisEnabled {
		err := logoutUserByRedis(ctx, s.Dep.Redis, userID)
		if err != nil {
			return err
		}

		if err := s.Dep.Redis.ZRem(ctx, HeartBeatPrefix, userID).Err(); err != nil {
			s.Dep.Logger.Warn("failed to remove heartbeat", "userID", userID, "err", err)
		}
	}

	// entries, sessions, follows, charts and tokens go with the row
	res := s.Dep.DB.WithContext(ctx).Unscoped().Delete(&model.User{}, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}

	s.Dep.Logger.Info("user deleted", "userID", userID)

	return nil
}

func (s *UserService) LogoutUser(ctx context.Context, userID uint) error {
	if s.Dep.Cfg.IsRedisEnabled {
		return logoutUserByRedis(ctx, s.Dep.Redis, userID)
	} else {
		return logoutUserByDB(ctx, s.Dep.DB, userID)
	}
}

func (s *UserService) validateUserTokenDB(ctx context.Context, token string, userID uint) error {
	modelToken, err := gorm.G[model.Token](s.Dep.DB).Where("token = ?", token).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Unauthorized("invalid token")
		}
		return err
	}

	if modelToken.UserID != userID {
		return apperror.Unauthorized("token does not match user")
	}

	// sliding expiry, measured from the last use
	idle := time.Duration(s.Dep.Cfg.UserTokenExpiry) * time.Second
	if time.Since(modelToken.UpdatedAt) > idle {
		_, _ = gorm.G[model.Token](s.Dep.DB.Unscoped()).Where("id = ?", modelToken.ID).Delete(ctx)
		return apperror.Unauthorized("invalid token")
	}

	_, err = gorm.G[model.Token](s.Dep.DB).Where("id = ?", modelToken.ID).Update(ctx, "updated_at", time.Now())
	if err != nil {
		return err
	}

	s.updateHeartBeat(userID)
	return nil
}

func (s *UserService) validateUserTokenRedis(ctx context.Context, token string, userID uint) error {
	_, err := s.Dep.Redis.Get(ctx, buildTokenKey(userID, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperror.Unauthorized("invalid token")
		}
		return err
	}

	// A rough way to implement sliding expiration
	s.Dep.Redis.Expire(ctx, buildTokenKey(userID, token), time.Duration(s.Dep.Cfg.UserTokenExpiry)*time.Second)

	s.updateHeartBeat(userID)
	return nil
}

func (s *UserService) ValidateUserToken(ctx context.Context, token string, userID uint) error {
	if s.Dep.Cfg.IsRedisEnabled {
		return s.validateUserTokenRedis(ctx, token, userID)
	} else {
		return s.validateUserTokenDB(ctx, token, userID)
	}
}

// SearchUsers matches public profiles by username prefix.
func (s *UserService) SearchUsers(ctx context.Context, userID uint, prefix string) ([]dto.SimpleUser, error) {
	escaped := likeEscaper.Replace(prefix)

	modelUsers, err := gorm.G[model.User](s.Dep.DB).
		Where("public_profile = ?", true).
		Where("id <> ?", userID).
		Where("username LIKE ? ESCAPE '!'", escaped+"%").
		Order("username").
		Limit(SearchResultLimit).
		Find(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]dto.SimpleUser, 0, len(modelUsers))
	for _, mu := range modelUsers {
		users = append(users, *userToSimpleUser(&mu))
	}

	return users, nil
}

// GetPublicProfile shows a profile to viewerID. Private profiles look missing to
// everyone but their owner.
func (s *UserService) GetPublicProfile(ctx context.Context, viewerID uint, username string, tz string) (*dto.PublicProfileResponse, error) {
	target, err := gorm.G[model.User](s.Dep.DB).Where("username = ?", username).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	isSelf := target.ID == viewerID
	if !target.PublicProfile && !isSelf {
		return nil, apperror.NotFound("user not found")
	}

	followers, err := gorm.G[model.Follow](s.Dep.DB).Where("following_id = ?", target.ID).Count(ctx, "*")
	if err != nil {
		return nil, err
	}

	following, err := gorm.G[model.Follow](s.Dep.DB).Where("follower_id = ?", target.ID).Count(ctx, "*")
	if err != nil {
		return nil, err
	}

	isFollowing, err := gorm.G[model.Follow](s.Dep.DB).
		Where("follower_id = ? AND following_id = ?", viewerID, target.ID).
		Count(ctx, "*")
	if err != nil {
		return nil, err
	}

	profile := &dto.PublicProfileResponse{
		SimpleUser:          *userToSimpleUser(&target),
		Bio:                 target.Bio,
		JoinedAt:            target.CreatedAt.Unix(),
		FollowerCount:       followers,
		FollowingCount:      following,
		IsFollowing:         isFollowing > 0,
		DefaultProfileChart: target.DefaultProfileChart,
	}

	now := time.Now()

	if target.PublicOrgasms || isSelf {
		loc, err := resolveLocation(tz, &target, s.Dep.Cfg.DefaultTimezone)
		if err != nil {
			return nil, err
		}

		orgasms, err := fetchPointEvents(ctx, s.Dep.DB, target.ID, nil, nil)
		if err != nil {
			return nil, err
		}

		events := toStatsEvents(orgasms)
		summary := stats.Summarize(events, now, loc)
		heatmap := stats.DailyHeatmap(events, now.In(loc).Year(), loc)
		profile.Summary = &summary
		profile.Heatmap = &heatmap
	}

	if target.TrackChastityStatus || isSelf {
		status := &dto.ChastityStatus{}

		active, err := gorm.G[model.ChastitySession](s.Dep.DB).
			Where("user_id = ? AND end_time IS NULL", target.ID).
			First(ctx)
		if err == nil {
			status.Active = true
			status.Since = &active.StartTime
			status.Duration = humanDuration(active.StartTime, now)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		profile.Chastity = status
	}

	return profile, nil
}
