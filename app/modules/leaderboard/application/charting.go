package leaderboardservice

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

// ChartPalette holds the colors a rendered chart uses.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryBar  drawing.Color
	TextColor   drawing.Color
	StrokeColor drawing.Color
}

// DefaultPalette is the site theme.
var DefaultPalette = ChartPalette{
	Background:  drawing.Color{R: 0x1b, G: 0x1f, B: 0x23, A: 0xff},
	PrimaryBar:  drawing.Color{R: 0x2e, G: 0x8b, B: 0x57, A: 0xff},
	TextColor:   drawing.Color{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff},
	StrokeColor: drawing.Color{R: 0xc9, G: 0xa2, B: 0x27, A: 0xff},
}

// GenerateSportBreakdownChart produces a PNG bar chart of a tipster's win
// rate per sport. Bars follow the breakdown order, busiest sport first, with
// the tip count in the label.
func GenerateSportBreakdownChart(stats tipdomain.UserStats, palette ChartPalette) ([]byte, error) {
	if len(stats.SportBreakdown) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	bars := make([]chart.Value, len(stats.SportBreakdown))
	for i, sport := range stats.SportBreakdown {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%s (%d)", sport.Sport, sport.Count),
			Value: float64(sport.WinRate),
			Style: chart.Style{
				FillColor:   palette.PrimaryBar,
				StrokeColor: palette.StrokeColor,
				StrokeWidth: 1,
			},
		}
	}

	graph := chart.BarChart{
		Title:    "Win rate by sport",
		Width:    800,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		TitleStyle: chart.Style{
			FontColor: palette.TextColor,
		},
		XAxis: chart.Style{
			FontColor: palette.TextColor,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No tips recorded"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
