package service

import (
	"context"
	"io"
	"time"

	"github.com/paularynty/climaxlog/internal/apperror"
	"github.com/paularynty/climaxlog/internal/chart"
	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/stats"
)

// StatsService loads a user's entries and hands them to the stats package.
type StatsService struct {
	Dep *dependency.Dependency
}

func NewStatsService(dep *dependency.Dependency) *StatsService {
	checkDependency("StatsService", dep)

	return &StatsService{
		Dep: dep,
	}
}

type statsInput struct {
	user   *model.User
	events []stats.Event
	loc    *time.Location
	now    time.Time
}

func (in *statsInput) firstDayOfWeek() time.Weekday {
	return weekdayOf(in.user)
}

// yearOr returns year, or the current year in the input location when zero.
func (in *statsInput) yearOr(year int) int {
	if year == 0 {
		return in.now.In(in.loc).Year()
	}
	return year
}

func (s *StatsService) load(ctx context.Context, userID uint, tz string) (*statsInput, error) {
	user, err := findUser(ctx, s.Dep.DB, userID)
	if err != nil {
		return nil, err
	}

	loc, err := resolveLocation(tz, user, s.Dep.Cfg.DefaultTimezone)
	if err != nil {
		return nil, err
	}

	orgasms, err := fetchPointEvents(ctx, s.Dep.DB, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	return &statsInput{
		user:   user,
		events: toStatsEvents(orgasms),
		loc:    loc,
		now:    time.Now(),
	}, nil
}

func (s *StatsService) Summary(ctx context.Context, userID uint, tz string) (*stats.Summary, error) {
	in, err := s.load(ctx, userID, tz)
	if err != nil {
		return nil, err
	}

	summary := stats.Summarize(in.events, in.now, in.loc)
	return &summary, nil
}

// Periods compares the current period with history. An empty granularity means month.
func (s *StatsService) Periods(ctx context.Context, userID uint, tz string, granularity string) (*stats.PeriodComparison, error) {
	if granularity == "" {
		granularity = string(stats.GranularityMonth)
	}
	g, ok := stats.ParseGranularity(granularity)
	if !ok {
		return nil, apperror.BadRequest("granularity must be one of year, month, week")
	}

	in, err := s.load(ctx, userID, tz)
	if err != nil {
		return nil, err
	}

	comparison := stats.ComparePeriods(in.events, in.user.CreatedAt, in.now, in.loc, g, in.firstDayOfWeek())
	return &comparison, nil
}

func (s *StatsService) Heatmap(ctx context.Context, userID uint, tz string, year int) (*stats.Heatmap, error) {
	in, err := s.load(ctx, userID, tz)
	if err != nil {
		return nil, err
	}

	heatmap := stats.DailyHeatmap(in.events, in.yearOr(year), in.loc)
	return &heatmap, nil
}

func (s *StatsService) HeatmapChart(ctx context.Context, userID uint, tz string, year int, w io.Writer) error {
	heatmap, err := s.Heatmap(ctx, userID, tz, year)
	if err != nil {
		return err
	}

	return chart.RenderDailyHeatmap(w, *heatmap)
}

// Month marks locked days from the user's chastity sessions. Zero year or month
// means the current one.
func (s *StatsService) Month(ctx context.Context, userID uint, tz string, year int, month int) (*stats.MonthCalendar, error) {
	in, err := s.load(ctx, userID, tz)
	if err != nil {
		return nil, err
	}

	sessions, err := fetchIntervalEvents(ctx, s.Dep.DB, userID)
	if err != nil {
		return nil, err
	}

	m := time.Month(month)
	if month == 0 {
		m = in.now.In(in.loc).Month()
	}

	calendar := stats.MonthGrid(
		in.events,
		toStatsIntervals(sessions),
		in.yearOr(year),
		m,
		in.now,
		in.loc,
		in.firstDayOfWeek(),
	)
	return &calendar, nil
}

func (s *StatsService) Weekly(ctx context.Context, userID uint, tz string, year int) ([]stats.WeekBlock, error) {
	in, err := s.load(ctx, userID, tz)
	if err != nil {
		return nil, err
	}

	// weeks belong to ISO years
	if year == 0 {
		year, _ = in.now.In(in.loc).ISOWeek()
	}

	return stats.WeeklyBlocks(in.events, year, in.loc), nil
}

func (s *StatsService) DayHour(ctx context.Context, userID uint, tz string, binHours int) (*stats.HourGrid, error) {
	in, err := s.load(ctx, userID, tz)
	if err != nil {
		return nil, err
	}

	grid := stats.DayHourGrid(in.events, in.loc, binHours)
	return &grid, nil
}

func (s *StatsService) Radial(ctx context.Context, userID uint, tz string) ([]stats.RadialSlot, error) {
	in, err := s.load(ctx, userID, tz)
	if err != nil {
		return nil, err
	}

	return stats.Radial(in.events, in.loc), nil
}

func (s *StatsService) Review(ctx context.Context, userID uint, tz string, year int) (*stats.YearReview, error) {
	in, err := s.load(ctx, userID, tz)
	if err != nil {
		return nil, err
	}

	review := stats.BuildYearReview(in.events, in.yearOr(year), in.loc, in.firstDayOfWeek())
	return &review, nil
}

// ReviewChart writes the year review as a standalone HTML page.
func (s *StatsService) ReviewChart(ctx context.Context, userID uint, tz string, year int, w io.Writer) error {
	review, err := s.Review(ctx, userID, tz, year)
	if err != nil {
		return err
	}

	return chart.RenderYearReview(w, *review)
}
