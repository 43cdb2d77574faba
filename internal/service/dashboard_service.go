package service

import (
	"context"

	"gorm.io/gorm"

	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/enum"
)

type DashboardService struct {
	Dep *dependency.Dependency
}

func NewDashboardService(dep *dependency.Dependency) *DashboardService {
	checkDependency("DashboardService", dep)

	return &DashboardService{
		Dep: dep,
	}
}

func defaultCharts() []string {
	charts := make([]string, 0, len(enum.ChartNames))
	for _, c := range enum.ChartNames {
		charts = append(charts, string(c))
	}
	return charts
}

// GetCharts returns the user's dashboard in display order. A user who never
// picked charts, or removed all of them, sees every chart.
func (s *DashboardService) GetCharts(ctx context.Context, userID uint) ([]string, error) {
	rows, err := gorm.G[model.DashboardChart](s.Dep.DB).
		Where("user_id = ?", userID).
		Order("position").
		Find(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return defaultCharts(), nil
	}

	charts := make([]string, 0, len(rows))
	for _, r := range rows {
		charts = append(charts, r.ChartName)
	}
	return charts, nil
}

// SetCharts replaces the dashboard with charts, in order.
func (s *DashboardService) SetCharts(ctx context.Context, userID uint, charts []string) ([]string, error) {
	if _, err := findUser(ctx, s.Dep.DB, userID); err != nil {
		return nil, err
	}

	err := s.Dep.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := gorm.G[model.DashboardChart](tx).Where("user_id = ?", userID).Delete(ctx); err != nil {
			return err
		}

		if len(charts) == 0 {
			return nil
		}

		rows := make([]model.DashboardChart, 0, len(charts))
		for i, c := range charts {
			rows = append(rows, model.DashboardChart{
				UserID:    userID,
				ChartName: c,
				Position:  i,
			})
		}
		return gorm.G[model.DashboardChart](tx).CreateInBatches(ctx, &rows, len(rows))
	})
	if err != nil {
		return nil, err
	}

	return s.GetCharts(ctx, userID)
}
