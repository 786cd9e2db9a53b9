package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCeilPercent(t *testing.T) {
	assert.Equal(t, 25, ceilPercent(35, 70))
	assert.Equal(t, 27, ceilPercent(35, 75))
	assert.Equal(t, 23, ceilPercent(35, 65))
	assert.Equal(t, 18, ceilPercent(35, 75, 65))
	assert.Equal(t, 8, ceilPercent(19, 40))
	assert.Equal(t, 70, ceilPercent(100, 70))
	assert.Equal(t, 35, ceilPercent(35, 100))
	assert.Equal(t, 0, ceilPercent(0, 75, 65))
}

func TestCeilPercent_LargeBase(t *testing.T) {
	assert.Equal(t, 975_000_000_000_000, ceilPercent(2_000_000_000_000_000, 75, 65))
	assert.Equal(t, 1_400_000_000_000_000, ceilPercent(2_000_000_000_000_000, 70))
	assert.Equal(t, math.MaxInt, ceilPercent(math.MaxInt, 100, 100))
	assert.Equal(t, 5, ceilPercent(9, 75, 65)) // 4.3875
}

func TestFacts_Reduction(t *testing.T) {
	monday := time.Date(2019, 3, 11, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	assert.Equal(t, 0, Facts{}.reduction())
	assert.Equal(t, 35, Facts{Date: &monday}.reduction())
	assert.Equal(t, 0, Facts{Date: &monday, Holiday: true}.reduction())
	assert.Equal(t, 0, Facts{Date: &tuesday}.reduction())
}

func TestEvaluate_RuleNames(t *testing.T) {
	monday := time.Date(2019, 3, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		f    Facts
		cost int
		rule string
	}{
		{"toddler on night", Facts{Type: "night", Age: intPtr(3), BaseCost: 19}, 0, "under-six-free"},
		{"night no age", Facts{Type: "night", BaseCost: 19}, 0, "night-without-age"},
		{"night senior", Facts{Type: "night", Age: intPtr(70), BaseCost: 19}, 8, "night-senior"},
		{"night adult", Facts{Type: "night", Age: intPtr(6), BaseCost: 19}, 19, "night-standard"},
		{"youth monday", Facts{Type: "1jour", Age: intPtr(14), Date: &monday, BaseCost: 35}, 25, "day-youth"},
		{"no age monday", Facts{Type: "1jour", Date: &monday, BaseCost: 35}, 23, "day-without-age"},
		{"senior monday", Facts{Type: "1jour", Age: intPtr(65), Date: &monday, BaseCost: 35}, 18, "day-senior"},
		{"adult holiday monday", Facts{Type: "1jour", Age: intPtr(64), Date: &monday, Holiday: true, BaseCost: 35}, 35, "day-standard"},
		{"unlisted type uses day rules", Facts{Type: "semaine", Age: intPtr(30), Date: &monday, BaseCost: 200}, 130, "day-standard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, rule := Evaluate(tt.f)
			assert.Equal(t, tt.cost, cost)
			assert.Equal(t, tt.rule, rule)
		})
	}
}

func TestRules_LastRuleCatchesEverything(t *testing.T) {
	last := Rules[len(Rules)-1]
	_, ok := last.Price(Facts{Type: "anything", Age: intPtr(40), BaseCost: 1})
	assert.True(t, ok)
}
