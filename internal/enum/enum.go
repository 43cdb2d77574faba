// Package enum holds the closed categorical sets shared by validation and statistics.
package enum

type OrgasmType string

const (
	TypeFull      OrgasmType = "FULL"
	TypeRuined    OrgasmType = "RUINED"
	TypeHandsfree OrgasmType = "HANDSFREE"
	TypeAnal      OrgasmType = "ANAL"
)

// OrgasmTypes is the display order used by breakdowns.
var OrgasmTypes = []OrgasmType{TypeFull, TypeRuined, TypeHandsfree, TypeAnal}

type Partner string

const (
	PartnerSolo     Partner = "SOLO"
	PartnerVirtual  Partner = "VIRTUAL"
	PartnerPhysical Partner = "PHYSICAL"
)

var Partners = []Partner{PartnerSolo, PartnerVirtual, PartnerPhysical}

type ChartName string

const (
	ChartDailyHeatmap     ChartName = "daily_heatmap"
	ChartMonthGrid        ChartName = "month_grid"
	ChartWeeklyBlocks     ChartName = "weekly_blocks"
	ChartDayHourGrid      ChartName = "day_hour_grid"
	ChartRadial           ChartName = "radial"
	ChartPeriodComparison ChartName = "period_comparison"
)

// ChartNames is also the default dashboard order.
var ChartNames = []ChartName{
	ChartDailyHeatmap,
	ChartMonthGrid,
	ChartWeeklyBlocks,
	ChartDayHourGrid,
	ChartRadial,
	ChartPeriodComparison,
}

func IsOrgasmType(s string) bool {
	return contains(OrgasmTypes, OrgasmType(s))
}

func IsPartner(s string) bool {
	return contains(Partners, Partner(s))
}

func IsChartName(s string) bool {
	return contains(ChartNames, ChartName(s))
}

func contains[T comparable](set []T, v T) bool {
	for _, item := range set {
		if item == v {
			return true
		}
	}
	return false
}
