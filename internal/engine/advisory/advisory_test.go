package advisory

import (
	"strings"
	"testing"

	"github.com/aristath/portfolio-sentinel/internal/domain"
)

func TestAdvise_PriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want string // substring of the expected message
	}{
		{
			name: "high risk wins over everything",
			in: Input{
				RiskLabel:      domain.RiskLabelHigh,
				TopSector:      "Technology",
				TopSectorPct:   80,
				SharpeRatio:    -1,
				TotalReturnPct: -20,
				CryptoPct:      90,
			},
			want: "defensive sectors",
		},
		{
			name: "top sector over 40 percent",
			in: Input{
				RiskLabel:    domain.RiskLabelMedium,
				TopSector:    "Technology",
				TopSectorPct: 45.5,
			},
			want: "Technology makes up 45.5%",
		},
		{
			name: "weak sharpe with negative return",
			in: Input{
				RiskLabel:      domain.RiskLabelLow,
				TopSectorPct:   30,
				SharpeRatio:    0.2,
				TotalReturnPct: -5,
			},
			want: "underperforming",
		},
		{
			name: "weak sharpe with positive return does not fire",
			in: Input{
				RiskLabel:      domain.RiskLabelLow,
				SharpeRatio:    0.2,
				TotalReturnPct: 5,
			},
			want: "looks balanced",
		},
		{
			name: "crypto exposure over 20 percent",
			in: Input{
				RiskLabel:   domain.RiskLabelMedium,
				SharpeRatio: 1,
				CryptoPct:   25,
			},
			want: "high volatility",
		},
		{
			name: "balanced default",
			in: Input{
				RiskLabel:   domain.RiskLabelLow,
				SharpeRatio: 1.2,
			},
			want: "looks balanced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advise(tt.in)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Advise() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestAdvise_NeverEmpty(t *testing.T) {
	if got := Advise(Input{}); got == "" {
		t.Error("advisory must never be empty")
	}
}
