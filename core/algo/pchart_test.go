package algo

import (
	"math"
	"testing"

	"github.com/huangsam/airqc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPChart(t *testing.T) {
	tests := []struct {
		name    string
		props   []schema.Proportion
		want    []float64
		wantErr error
	}{
		{
			name:  "typical",
			props: []schema.Proportion{{Key: "d1", Defects: 10, Total: 1000}, {Key: "d2", Defects: 25, Total: 2000}},
			want:  []float64{0.01, 0.0125},
		},
		{
			name:  "no defects",
			props: []schema.Proportion{{Key: "d1", Defects: 0, Total: 1000}, {Key: "d2", Defects: 0, Total: 500}},
			want:  []float64{0, 0},
		},
		{
			name:  "all defective",
			props: []schema.Proportion{{Key: "d1", Defects: 7, Total: 7}},
			want:  []float64{1},
		},
		{
			name:  "empty",
			props: nil,
			want:  []float64{},
		},
		{
			name:    "zero total",
			props:   []schema.Proportion{{Key: "d1", Defects: 0, Total: 0}},
			wantErr: schema.ErrDivisionByZero,
		},
		{
			name:    "defects above total",
			props:   []schema.Proportion{{Key: "d1", Defects: 5, Total: 4}},
			wantErr: schema.ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PChart(tt.props)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Values())
		})
	}
}

func TestPChartLimits(t *testing.T) {
	props := []schema.Proportion{
		{Key: "d1", Defects: 10, Total: 1000},
		{Key: "d2", Defects: 30, Total: 2000},
	}
	got, err := PChartLimits(props)
	require.NoError(t, err)
	require.Len(t, got, 2)

	center := 40.0 / 3000.0
	for i, p := range got {
		assert.InDelta(t, center, p.Center, 1e-12)
		sigma := math.Sqrt(center * (1 - center) / float64(props[i].Total))
		assert.InDelta(t, center+3*sigma, p.UCL, 1e-12)
		assert.InDelta(t, math.Max(0, center-3*sigma), p.LCL, 1e-12)
	}
	// Larger samples get tighter limits.
	assert.Less(t, got[1].UCL, got[0].UCL)

	t.Run("clamped", func(t *testing.T) {
		got, err := PChartLimits([]schema.Proportion{{Key: "d1", Defects: 1, Total: 2}, {Key: "d2", Defects: 0, Total: 1}})
		require.NoError(t, err)
		for _, p := range got {
			assert.GreaterOrEqual(t, p.LCL, 0.0)
			assert.LessOrEqual(t, p.UCL, 1.0)
		}
	})

	t.Run("no defects collapses limits", func(t *testing.T) {
		got, err := PChartLimits([]schema.Proportion{{Key: "d1", Total: 1000}})
		require.NoError(t, err)
		assert.Equal(t, 0.0, got[0].UCL)
		assert.Equal(t, 0.0, got[0].LCL)
	})

	t.Run("zero total", func(t *testing.T) {
		_, err := PChartLimits([]schema.Proportion{{Key: "d1"}})
		assert.ErrorIs(t, err, schema.ErrDivisionByZero)
	})
}
