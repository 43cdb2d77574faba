package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/paularynty/climaxlog/internal/apperror"
	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/dto"
	"github.com/paularynty/climaxlog/internal/enum"
	"github.com/paularynty/climaxlog/internal/stats"
	"github.com/paularynty/climaxlog/internal/util/jwt"
)

const HeartBeatPrefix = "heartbeat:"

func checkDependency(name string, dep *dependency.Dependency) {
	if dep.DB == nil {
		panic(name + ": db is nil")
	}

	if dep.Cfg.IsRedisEnabled && dep.Redis == nil {
		panic(name + ": redis is enabled but redis client is nil")
	}
}

func userToSettings(user *model.User) dto.Settings {
	timezone := ""
	if user.Timezone != nil {
		timezone = *user.Timezone
	}

	return dto.Settings{
		PublicProfile:       user.PublicProfile,
		PublicOrgasms:       user.PublicOrgasms,
		TrackChastityStatus: user.TrackChastityStatus,
		FirstDayOfWeek:      user.FirstDayOfWeek,
		DefaultProfileChart: user.DefaultProfileChart,
		Timezone:            timezone,
	}
}

func userToUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Bio:       user.Bio,
		Settings:  userToSettings(user),
		CreatedAt: user.CreatedAt.Unix(),
	}
}

func userToUserWithTokenResponse(user *model.User, token string) *dto.UserWithTokenResponse {
	return &dto.UserWithTokenResponse{
		UserResponse: *userToUserResponse(user),
		Token:        token,
	}
}

func userToSimpleUser(user *model.User) *dto.SimpleUser {
	return &dto.SimpleUser{
		ID:       user.ID,
		Username: user.Username,
	}
}

func orgasmToResponse(o *model.Orgasm) dto.OrgasmResponse {
	return dto.OrgasmResponse{
		ID:        o.ID,
		Timestamp: o.Timestamp,
		Type:      o.Type,
		Partner:   o.Partner,
		Note:      o.Note,
		CreatedAt: o.CreatedAt.Unix(),
	}
}

func sessionToResponse(s *model.ChastitySession, now time.Time) dto.ChastityResponse {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}

	return dto.ChastityResponse{
		ID:        s.ID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Note:      s.Note,
		Active:    s.EndTime == nil,
		Duration:  humanDuration(s.StartTime, end),
	}
}

// utcPtr normalizes stored instants so text-backed databases compare them in order.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// humanDuration renders b - a as "3 days", "1 hour" and so on.
func humanDuration(a, b time.Time) string {
	return strings.TrimSpace(humanize.RelTime(a, b, "", ""))
}

func weekdayOf(user *model.User) time.Weekday {
	if user.FirstDayOfWeek == 0 {
		return time.Sunday
	}
	return time.Monday
}

// resolveLocation picks the request timezone, then the user's preference, then
// the server default.
func resolveLocation(tz string, user *model.User, defaultTz string) (*time.Location, error) {
	name := tz
	if name == "" && user != nil && user.Timezone != nil {
		name = *user.Timezone
	}
	if name == "" {
		name = defaultTz
	}
	if name == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, apperror.BadRequest(fmt.Sprintf("unknown timezone %q", name))
	}
	return loc, nil
}

func findUser(ctx context.Context, db *gorm.DB, userID uint) (*model.User, error) {
	modelUser, err := gorm.G[model.User](db).Where("id = ?", userID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	return &modelUser, nil
}

// fetchPointEvents returns the user's entries ordered by timestamp. With a range
// only timestamped rows inside [from, to) are returned.
func fetchPointEvents(ctx context.Context, db *gorm.DB, userID uint, from, to *time.Time) ([]model.Orgasm, error) {
	q := gorm.G[model.Orgasm](db).Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("timestamp >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("timestamp < ?", to.UTC())
	}

	return q.Order("timestamp").Order("id").Find(ctx)
}

func fetchIntervalEvents(ctx context.Context, db *gorm.DB, userID uint) ([]model.ChastitySession, error) {
	return gorm.G[model.ChastitySession](db).Where("user_id = ?", userID).Order("start_time").Find(ctx)
}

// toStatsEvents drops legacy rows without a timestamp.
func toStatsEvents(orgasms []model.Orgasm) []stats.Event {
	events := make([]stats.Event, 0, len(orgasms))
	for _, o := range orgasms {
		if o.Timestamp == nil {
			continue
		}
		events = append(events, stats.Event{
			ID:        o.ID,
			Timestamp: *o.Timestamp,
			Type:      enum.OrgasmType(o.Type),
			Partner:   enum.Partner(o.Partner),
		})
	}
	return events
}

func toStatsIntervals(sessions []model.ChastitySession) []stats.Interval {
	intervals := make([]stats.Interval, 0, len(sessions))
	for _, s := range sessions {
		intervals = append(intervals, stats.Interval{
			ID:    s.ID,
			Start: s.StartTime,
			End:   s.EndTime,
		})
	}
	return intervals
}

// Heartbeat

func (s *UserService) updateHeartBeatByDB(userID uint) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, err := gorm.G[model.User](s.Dep.DB).Where("id = ?", userID).Update(ctx, "last_seen_at", time.Now())
		if err != nil {
			s.Dep.Logger.Warn("failed to update heartbeat for user", "userID", userID, "err", err)
		}
	}()
}

func (s *UserService) updateHeartBeatByRedis(userID uint) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := s.Dep.Redis.ZAdd(ctx, HeartBeatPrefix, redis.Z{
			Score:  float64(time.Now().Unix()),
			Member: userID,
		}).Err()

		if err != nil {
			s.Dep.Logger.Warn("failed to update heartbeat for user", "userID", userID, "err", err)
		}
	}()
}

func (s *UserService) updateHeartBeat(userID uint) {
	if s.Dep.Cfg.IsRedisEnabled {
		s.updateHeartBeatByRedis(userID)
	} else {
		s.updateHeartBeatByDB(userID)
	}
}

// Redis heartbeats are kept as long as a token could still be alive, so the
// sorted set doubles as the last-seen record.
func (s *UserService) clearExpiredHeartBeatsByRedis() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		cutoff := time.Now().Add(-time.Duration(s.Dep.Cfg.UserTokenAbsoluteExpiry) * time.Second)
		err := s.Dep.Redis.ZRemRangeByScore(ctx, HeartBeatPrefix, "-inf", strconv.FormatInt(cutoff.Unix(), 10)).Err()
		if err != nil {
			s.Dep.Logger.Warn("failed to clear expired heartbeats from redis", "err", err)
		}
	}()
}

func (s *UserService) getLastSeenByRedis(ctx context.Context) (map[uint]time.Time, error) {
	cutoff := time.Now().Add(-time.Duration(s.Dep.Cfg.UserTokenAbsoluteExpiry) * time.Second)
	zs, err := s.Dep.Redis.ZRangeByScoreWithScores(ctx, HeartBeatPrefix, &redis.ZRangeBy{
		Min: strconv.FormatInt(cutoff.Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	lastSeen := make(map[uint]time.Time, len(zs))
	for _, z := range zs {
		userID, err := strconv.ParseUint(fmt.Sprint(z.Member), 10, 64)
		if err != nil {
			return nil, err
		}
		lastSeen[uint(userID)] = time.Unix(int64(z.Score), 0)
	}

	// Async clear expired heartbeats
	s.clearExpiredHeartBeatsByRedis()

	return lastSeen, nil
}

type onlineStatusChecker struct {
	lastSeen map[uint]time.Time
	cutoff   time.Time
}

func newOnlineStatusChecker(lastSeen map[uint]time.Time, window time.Duration, now time.Time) *onlineStatusChecker {
	return &onlineStatusChecker{
		lastSeen: lastSeen,
		cutoff:   now.Add(-window),
	}
}

func (c *onlineStatusChecker) status(userID uint) (bool, *int64) {
	seen, ok := c.lastSeen[userID]
	if !ok {
		return false, nil
	}
	unix := seen.Unix()
	return seen.After(c.cutoff), &unix
}

// onlineStatusFor reads last-seen for users, from redis or from the loaded rows.
func (s *UserService) onlineStatusFor(ctx context.Context, users []model.User) (*onlineStatusChecker, error) {
	var lastSeen map[uint]time.Time

	if s.Dep.Cfg.IsRedisEnabled {
		var err error
		lastSeen, err = s.getLastSeenByRedis(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		lastSeen = make(map[uint]time.Time, len(users))
		for _, u := range users {
			if u.LastSeenAt != nil {
				lastSeen[u.ID] = *u.LastSeenAt
			}
		}
	}

	window := time.Duration(s.Dep.Cfg.OnlineWindowInSec) * time.Second
	return newOnlineStatusChecker(lastSeen, window, time.Now()), nil
}

// Tokens

func buildTokenKey(userID uint, token string) string {
	return fmt.Sprintf("user_token:%d:%s", userID, token)
}

func (s *UserService) issueNewTokenForUserByDB(ctx context.Context, userID uint, revokeAllTokens bool) (string, error) {
	if revokeAllTokens {
		if err := logoutUserByDB(ctx, s.Dep.DB, userID); err != nil {
			return "", err
		}
	}

	token, err := jwt.SignUserToken(s.Dep, userID)
	if err != nil {
		return "", err
	}

	err = gorm.G[model.Token](s.Dep.DB).Create(ctx, &model.Token{
		UserID: userID,
		Token:  token,
	})
	if err != nil {
		return "", err
	}

	s.updateHeartBeat(userID)

	return token, nil
}

func (s *UserService) issueNewTokenForUserByRedis(ctx context.Context, userID uint, revokeAllTokens bool) (string, error) {
	if revokeAllTokens {
		if err := logoutUserByRedis(ctx, s.Dep.Redis, userID); err != nil {
			return "", err
		}
	}

	token, err := jwt.SignUserToken(s.Dep, userID)
	if err != nil {
		return "", err
	}

	err = s.Dep.Redis.Set(ctx, buildTokenKey(userID, token), "", time.Duration(s.Dep.Cfg.UserTokenExpiry)*time.Second).Err()
	if err != nil {
		return "", err
	}

	s.updateHeartBeat(userID)

	return token, nil
}

func (s *UserService) issueNewTokenForUser(ctx context.Context, userID uint, revokeAllTokens bool) (string, error) {
	if s.Dep.Cfg.IsRedisEnabled {
		return s.issueNewTokenForUserByRedis(ctx, userID, revokeAllTokens)
	} else {
		return s.issueNewTokenForUserByDB(ctx, userID, revokeAllTokens)
	}
}

func logoutUserByDB(ctx context.Context, db *gorm.DB, userID uint) error {
	_, err := gorm.G[model.Token](db.Unscoped()).Where("user_id = ?", userID).Delete(ctx)
	return err
}

func logoutUserByRedis(ctx context.Context, client *redis.Client, userID uint) error {
	// A rough way to delete all tokens for the user
	iter := client.Scan(ctx, 0, buildTokenKey(userID, "*"), 100).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}
