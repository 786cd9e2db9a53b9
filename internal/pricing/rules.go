package pricing

import (
	"time"

	"github.com/iliyamo/liftpass/internal/model"
)

const (
	freeUnderAge       = 6
	youthUnderAge      = 15
	seniorOverAge      = 64
	mondayReduction    = 35
	youthPercent       = 70
	seniorPercent      = 75
	nightSeniorPercent = 40
)

// Facts is everything a rule may look at. Holiday is only meaningful when Date
// is set and the pass is not a night pass.
type Facts struct {
	Type     string
	Age      *int
	Date     *time.Time
	BaseCost int
	Holiday  bool
}

func (f Facts) night() bool { return f.Type == model.NightPass }

func (f Facts) ageUnder(n int) bool { return f.Age != nil && *f.Age < n }

func (f Facts) ageOver(n int) bool { return f.Age != nil && *f.Age > n }

// reduction is the date-based percentage off a day pass: 35 on a Monday that is
// not a holiday, 0 otherwise.
func (f Facts) reduction() int {
	if f.Date == nil || f.Holiday {
		return 0
	}
	if f.Date.Weekday() == time.Monday {
		return mondayReduction
	}
	return 0
}

// Rule prices a request when it applies. Rules are pure; the first matching rule
// in Rules wins.
type Rule struct {
	Name  string
	Price func(f Facts) (cost int, ok bool)
}

// Rules is the fixed evaluation order.
var Rules = []Rule{
	{Name: "under-six-free", Price: underSixFree},
	{Name: "night-without-age", Price: nightWithoutAge},
	{Name: "night-senior", Price: nightSenior},
	{Name: "night-standard", Price: nightStandard},
	// Youth ignores the Monday reduction.
	{Name: "day-youth", Price: dayYouth},
	{Name: "day-without-age", Price: dayWithoutAge},
	{Name: "day-senior", Price: daySenior},
	{Name: "day-standard", Price: dayStandard},
}

// Evaluate runs Rules in order and returns the first price produced, together
// with the name of the rule that produced it.
func Evaluate(f Facts) (int, string) {
	for _, r := range Rules {
		if cost, ok := r.Price(f); ok {
			return cost, r.Name
		}
	}
	return 0, ""
}

func underSixFree(f Facts) (int, bool) {
	if f.ageUnder(freeUnderAge) {
		return 0, true
	}
	return 0, false
}

func nightWithoutAge(f Facts) (int, bool) {
	if f.night() && f.Age == nil {
		return 0, true
	}
	return 0, false
}

func nightSenior(f Facts) (int, bool) {
	if f.night() && f.ageOver(seniorOverAge) {
		return ceilPercent(f.BaseCost, nightSeniorPercent), true
	}
	return 0, false
}

func nightStandard(f Facts) (int, bool) {
	if f.night() {
		return f.BaseCost, true
	}
	return 0, false
}

func dayYouth(f Facts) (int, bool) {
	if !f.night() && f.ageUnder(youthUnderAge) {
		return ceilPercent(f.BaseCost, youthPercent), true
	}
	return 0, false
}

func dayWithoutAge(f Facts) (int, bool) {
	if !f.night() && f.Age == nil {
		return ceilPercent(f.BaseCost, 100-f.reduction()), true
	}
	return 0, false
}

func daySenior(f Facts) (int, bool) {
	if !f.night() && f.ageOver(seniorOverAge) {
		return ceilPercent(f.BaseCost, seniorPercent, 100-f.reduction()), true
	}
	return 0, false
}

func dayStandard(f Facts) (int, bool) {
	if !f.night() {
		return ceilPercent(f.BaseCost, 100-f.reduction()), true
	}
	return 0, false
}

// ceilPercent applies each percentage to base in turn and rounds the result up
// to a whole unit. Integer arithmetic keeps 100 * 70% at exactly 70. Percents
// are in [0, 100], so splitting base by the denominator keeps every product
// within the result's magnitude.
func ceilPercent(base int, percents ...int) int {
	p, den := 1, 1
	for _, pc := range percents {
		p *= pc
		den *= 100
	}
	if base <= 0 || p <= 0 {
		return 0
	}
	hi, lo := base/den, base%den
	return hi*p + (lo*p+den-1)/den
}
