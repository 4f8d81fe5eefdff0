// Package chart turns video records into a bar chart of views per title.
package chart

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/yt-insights/ytviews/internal/models"
)

// Table is the chart input: one row per video, in record order
type Table struct {
	X   []string // titles
	Y   []int64  // view counts
	IDs []string // video IDs shown on hover
}

// NewTable builds the chart rows from records
func NewTable(records []models.VideoRecord) Table {
	t := Table{
		X:   make([]string, 0, len(records)),
		Y:   make([]int64, 0, len(records)),
		IDs: make([]string, 0, len(records)),
	}
	for _, r := range records {
		t.X = append(t.X, r.Title)
		t.Y = append(t.Y, r.Count)
		t.IDs = append(t.IDs, r.ID)
	}
	return t
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.X)
}

// NewBar configures a bar chart with title on the x axis and view count on
// the y axis.
func NewBar(title string, t Table) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title + " - YouTube views",
			Width:     "100%",
			Height:    "720px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d videos", t.Len()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger:   "item",
			Formatter: opts.FuncOpts(tooltipFormatter(t.IDs)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Video Title"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "View Count"}),
	)

	data := make([]opts.BarData, 0, t.Len())
	for _, count := range t.Y {
		data = append(data, opts.BarData{Value: count})
	}
	bar.SetXAxis(t.X).AddSeries("View Count", data)
	return bar
}

// Render writes the chart as a standalone HTML page
func Render(w io.Writer, title string, t Table) error {
	if err := NewBar(title, t).Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// tooltipFormatter returns the JS tooltip function. The source ends up inside
// a JSON string, so IDs are percent-encoded to keep quotes and backslashes
// out of it.
func tooltipFormatter(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "'" + url.PathEscape(id) + "'"
	}
	return "function (p) {" +
		" var ids = [" + strings.Join(quoted, ",") + "];" +
		" var esc = echarts.format.encodeHTML;" +
		" return esc(p.name) + '<br/>ID: ' + esc(decodeURIComponent(ids[p.dataIndex])) + '<br/>View Count: ' + p.value;" +
		" }"
}
