package dto

import (
	"time"

	"github.com/paularynty/climaxlog/internal/stats"
)

// Orgasms

type OrgasmRequest struct {
	Timestamp *time.Time `json:"timestamp" validate:"required"`
	Type      string     `json:"type" validate:"required,orgasmtype"`
	Partner   string     `json:"partner" validate:"required,partner"`
	Note      *string    `json:"note" validate:"omitempty,max=1000"`
}

type ListOrgasmsQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type OrgasmResponse struct {
	ID        uint       `json:"id"`
	Timestamp *time.Time `json:"timestamp"`
	Type      string     `json:"type"`
	Partner   string     `json:"partner"`
	Note      *string    `json:"note"`
	CreatedAt int64      `json:"createdAt"`
}

type OrgasmsResponse struct {
	Orgasms []OrgasmResponse `json:"orgasms"`
}

// Chastity sessions

type ChastityRequest struct {
	StartTime *time.Time `json:"startTime" validate:"required"`
	EndTime   *time.Time `json:"endTime"`
	Note      *string    `json:"note" validate:"omitempty,max=1000"`
}

type EndChastityRequest struct {
	EndTime *time.Time `json:"endTime"`
}

type ChastityResponse struct {
	ID        uint       `json:"id"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Note      *string    `json:"note"`
	Active    bool       `json:"active"`
	Duration  string     `json:"duration"`
}

type ChastitySessionsResponse struct {
	Sessions []ChastityResponse `json:"sessions"`
}

type ActiveChastityResponse struct {
	Session *ChastityResponse `json:"session"`
}

// Stats

type StatsQuery struct {
	Tz string `form:"tz" validate:"omitempty,timezone"`
}

type PeriodsQuery struct {
	StatsQuery
	Granularity string `form:"granularity" validate:"omitempty,oneof=year month week"`
}

type YearQuery struct {
	StatsQuery
	Year int `form:"year" validate:"omitempty,min=1970,max=9999"`
}

type MonthQuery struct {
	YearQuery
	Month int `form:"month" validate:"omitempty,min=1,max=12"`
}

type DayHourQuery struct {
	StatsQuery
	Bin int `form:"bin" validate:"omitempty,oneof=1 3"`
}

// Social

type ChastityStatus struct {
	Active   bool       `json:"active"`
	Since    *time.Time `json:"since"`
	Duration string     `json:"duration"`
}

type PublicProfileResponse struct {
	SimpleUser
	Bio                 *string         `json:"bio"`
	JoinedAt            int64           `json:"joinedAt"`
	FollowerCount       int64           `json:"followerCount"`
	FollowingCount      int64           `json:"followingCount"`
	IsFollowing         bool            `json:"isFollowing"`
	DefaultProfileChart string          `json:"defaultProfileChart"`
	Summary             *stats.Summary  `json:"summary,omitempty"`
	Heatmap             *stats.Heatmap  `json:"heatmap,omitempty"`
	Chastity            *ChastityStatus `json:"chastity,omitempty"`
}

type FeedQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=200"`
}

const (
	FeedKindOrgasm        = "orgasm"
	FeedKindChastityStart = "chastity_start"
	FeedKindChastityEnd   = "chastity_end"
)

type FeedItem struct {
	Kind    string            `json:"kind"`
	User    SimpleUser        `json:"user"`
	At      time.Time         `json:"at"`
	Ago     string            `json:"ago"`
	Orgasm  *OrgasmResponse   `json:"orgasm,omitempty"`
	Session *ChastityResponse `json:"session,omitempty"`
}

type FeedResponse struct {
	Items []FeedItem `json:"items"`
}

// Dashboard

type DashboardChartsRequest struct {
	Charts []string `json:"charts" validate:"max=6,unique,dive,chartname"`
}

type DashboardChartsResponse struct {
	Charts []string `json:"charts"`
}
