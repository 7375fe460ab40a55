// Package charts renders the dashboard visuals as PNGs so any client can
// embed them without reimplementing the aggregation.
package charts

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Glivan2903/minhagrana/internal/report"
)

// Renderer generates chart images from report data.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func sliceColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// CategoryPie renders one breakdown as a pie chart. Returns nil bytes when
// there is nothing to draw.
func (r *Renderer) CategoryPie(title string, slices []report.CategorySlice) ([]byte, error) {
	if len(slices) == 0 {
		return nil, nil
	}

	var total float64
	for _, s := range slices {
		total += s.Total.Reais()
	}
	if total <= 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		amount := s.Total.Reais()
		percentage := amount / total * 100
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: R$ %.2f (%.1f%%)", s.Name, amount, percentage),
			Value: amount,
			Style: chart.Style{
				FillColor: sliceColor(s.Color),
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category pie: %w", err)
	}
	return buf.Bytes(), nil
}

// IncomeExpenseDonut renders the month's income against its expenses.
// Returns nil bytes when both totals are zero.
func (r *Renderer) IncomeExpenseDonut(totals report.Totals) ([]byte, error) {
	income := totals.Income.Reais()
	expense := totals.Expense.Reais()
	if income <= 0 && expense <= 0 {
		return nil, nil
	}

	var values []chart.Value
	if income > 0 {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("Receitas: R$ %.2f", income),
			Value: income,
			Style: chart.Style{
				FillColor: sliceColor("#10B981"),
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}
	if expense > 0 {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("Despesas: R$ %.2f", expense),
			Value: expense,
			Style: chart.Style{
				FillColor: sliceColor("#EF4444"),
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}

	donut := chart.DonutChart{
		Title:  "Receitas x Despesas",
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	var buf bytes.Buffer
	if err := donut.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render summary donut: %w", err)
	}
	return buf.Bytes(), nil
}

// RunningBalance renders the cumulative balance series as a line chart.
// Returns nil bytes when the series has fewer than two points, go-chart
// cannot draw a line through a single point.
func (r *Renderer) RunningBalance(points []report.BalancePoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, nil
	}

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.Date.Time
		yValues[i] = p.Balance.Reais()
	}

	graph := chart.Chart{
		Title:  "Evolução do saldo",
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("02/01"),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("R$ %.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Saldo",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 3,
				},
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{
			FontSize:  12,
			FontColor: chart.ColorBlack,
		}),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render balance chart: %w", err)
	}
	return buf.Bytes(), nil
}
