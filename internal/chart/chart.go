// Package chart renders statistics as standalone echarts HTML pages.
package chart

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/paularynty/climaxlog/internal/enum"
	"github.com/paularynty/climaxlog/internal/stats"
)

const (
	chartWidth     = "100%"
	heatmapHeight  = "320px"
	barChartHeight = "360px"
	pieChartHeight = "360px"
	emptyHeight    = "200px"
)

var heatColors = []string{"#ebedf0", "#f9c0d3", "#f0739b", "#d6336c", "#8f1d47"}

var weekdayShort = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// RenderYearReview writes one HTML page holding every year review chart.
func RenderYearReview(w io.Writer, r stats.YearReview) error {
	page := components.NewPage()
	page.SetPageTitle(fmt.Sprintf("%d in review", r.Year))

	if r.TotalCount == 0 {
		page.AddCharts(emptyChart(fmt.Sprintf("%d in review", r.Year)))
		if err := page.Render(w); err != nil {
			return fmt.Errorf("rendering year review: %w", err)
		}
		return nil
	}

	page.AddCharts(
		commitHeatmap(r.Year, r.Commit),
		weekHourHeatmap(r.WeekHour),
		delayBar(r.Delays),
		typePie(r.Breakdown),
		partnerBar(r.Breakdown),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering year review: %w", err)
	}
	return nil
}

// RenderDailyHeatmap writes the month by day-of-month grid for a year.
func RenderDailyHeatmap(w io.Writer, h stats.Heatmap) error {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%d heatmap", h.Year),
			Width:     chartWidth,
			Height:    heatmapHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%d", h.Year),
			Subtitle: fmt.Sprintf("%d entries", h.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: dayOfMonthLabels()}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: monthLabels()}),
		visualMap(h.MaxCount),
	)

	data := make([]opts.HeatMapData, 0, len(h.Days))
	for _, d := range h.Days {
		date, err := time.Parse(time.DateOnly, d.Date)
		if err != nil {
			return fmt.Errorf("parsing heatmap date %q: %w", d.Date, err)
		}
		data = append(data, opts.HeatMapData{
			Name:  d.Date,
			Value: [3]any{date.Day() - 1, int(date.Month()) - 1, d.Count},
		})
	}
	hm.AddSeries("Entries", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("rendering heatmap: %w", err)
	}
	return nil
}

func emptyChart(title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: emptyHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "No data"}),
	)
	return bar
}

func visualMap(maxCount int) charts.GlobalOpts {
	return charts.WithVisualMapOpts(opts.VisualMap{
		Calculable: opts.Bool(true),
		Min:        0,
		Max:        float32(max(maxCount, 1)),
		InRange:    &opts.VisualMapInRange{Color: heatColors},
		Orient:     "horizontal",
		Left:       "center",
		Bottom:     "2%",
	})
}

func commitHeatmap(year int, c stats.CommitHeatmap) *charts.HeatMap {
	weeks := make([]string, len(c.Weeks))
	data := make([]opts.HeatMapData, 0, len(c.Weeks)*7)
	for i, week := range c.Weeks {
		weeks[i] = week.Start
		for j, day := range week.Days {
			if !day.InYear {
				continue
			}
			data = append(data, opts.HeatMapData{Name: day.Date, Value: [3]any{i, j, day.Count}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: heatmapHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Daily activity", Subtitle: fmt.Sprintf("%d entries in %d", c.Total, year)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: weeks}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: rotatedWeekdays(c.FirstDayOfWeek)}),
		visualMap(c.Max),
	)
	hm.AddSeries("Entries", data)
	return hm
}

func weekHourHeatmap(w stats.WeekHourDensity) *charts.HeatMap {
	hours := make([]string, 24)
	for h := range hours {
		hours[h] = fmt.Sprintf("%02d", h)
	}

	maxCount := 0
	data := make([]opts.HeatMapData, 0, 7*24)
	for row, cols := range w.Cells {
		for col, count := range cols {
			maxCount = max(maxCount, count)
			data = append(data, opts.HeatMapData{Value: [3]any{col, row, count}})
		}
	}

	subtitle := ""
	if w.MostCommon != nil {
		subtitle = fmt.Sprintf("Most common: %s %02d:00", w.MostCommon.Weekday, w.MostCommon.Hour)
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: heatmapHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Weekday and hour", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: hours}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}}),
		visualMap(maxCount),
	)
	hm.AddSeries("Entries", data)
	return hm
}

func delayBar(d stats.DelayDistribution) *charts.Bar {
	labels := make([]string, len(d.Bins))
	values := make([]opts.BarData, len(d.Bins))
	for i, b := range d.Bins {
		labels[i] = b.Label
		values[i] = opts.BarData{Value: b.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: barChartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Time between entries", Subtitle: fmt.Sprintf("%d intervals", d.Total)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	bar.SetXAxis(labels).AddSeries("Intervals", values)
	return bar
}

func typePie(b stats.Breakdown) *charts.Pie {
	data := make([]opts.PieData, 0, len(enum.OrgasmTypes))
	for _, t := range enum.OrgasmTypes {
		data = append(data, opts.PieData{Name: string(t), Value: b.ByType[t]})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: pieChartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "By type"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)
	pie.AddSeries("Type", data, charts.WithPieChartOpts(opts.PieChart{Radius: "60%"}))
	return pie
}

func partnerBar(b stats.Breakdown) *charts.Bar {
	labels := make([]string, len(enum.Partners))
	for i, p := range enum.Partners {
		labels[i] = string(p)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: barChartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "By partner and type"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)
	bar.SetXAxis(labels)

	for _, t := range enum.OrgasmTypes {
		values := make([]opts.BarData, len(enum.Partners))
		for i, p := range enum.Partners {
			values[i] = opts.BarData{Value: b.Matrix[t][p]}
		}
		bar.AddSeries(string(t), values, charts.WithBarChartOpts(opts.BarChart{Stack: "type"}))
	}
	return bar
}

func rotatedWeekdays(first time.Weekday) []string {
	labels := make([]string, 7)
	for i := range labels {
		labels[i] = weekdayShort[(int(first)+i)%7]
	}
	return labels
}

func monthLabels() []string {
	labels := make([]string, 12)
	for i := range labels {
		labels[i] = time.Month(i + 1).String()[:3]
	}
	return labels
}

func dayOfMonthLabels() []string {
	labels := make([]string, 31)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d", i+1)
	}
	return labels
}
