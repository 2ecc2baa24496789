package planner

import "github.com/fitmeal/mealplan-backend/internal/model"

// DailyCounters is the diversity state of one day. It is mutated only by
// DiversityTracker.Update once a meal is final.
type DailyCounters struct {
	BreadMains     int                 `json:"bread_mains"`
	NoodleMains    int                 `json:"noodle_mains"`
	Processed      int                 `json:"processed"`
	SnackDrink     int                 `json:"snack_drink"`
	CarbSources    map[string]struct{} `json:"-"`
	ProteinSources map[string]struct{} `json:"-"`
	CoreKeywords   map[string]struct{} `json:"-"`
}

// NewDailyCounters returns empty counters for a new day.
func NewDailyCounters() *DailyCounters {
	return &DailyCounters{
		CarbSources:    make(map[string]struct{}),
		ProteinSources: make(map[string]struct{}),
		CoreKeywords:   make(map[string]struct{}),
	}
}

// DiversityTracker checks and commits day-wide diversity limits.
type DiversityTracker struct {
	classifier *Classifier
	caps       DailyCaps
}

// NewDiversityTracker creates a tracker enforcing caps.
func NewDiversityTracker(classifier *Classifier, caps DailyCaps) *DiversityTracker {
	return &DiversityTracker{classifier: classifier, caps: caps}
}

type setTally struct {
	breadMain, noodleMain bool
	processed, snackDrink int
}

func (d *DiversityTracker) tally(items []model.FoodCandidate) setTally {
	var t setTally
	for _, it := range items {
		if it.Role == model.RoleMain {
			t.breadMain = t.breadMain || d.classifier.IsBread(it.FoodName)
			t.noodleMain = t.noodleMain || d.classifier.IsNoodle(it.FoodName)
		}
		if d.classifier.IsHighlyProcessed(it.FoodName) {
			t.processed++
		}
		if d.classifier.IsSnackOrDrink(it.FoodName) {
			t.snackDrink++
		}
	}
	return t
}

// Violates reports whether adding items to the day would exceed a cap or
// repeat a core keyword.
func (d *DiversityTracker) Violates(items []model.FoodCandidate, c *DailyCounters) bool {
	t := d.tally(items)
	if t.breadMain && c.BreadMains+1 > d.caps.BreadMains {
		return true
	}
	if t.noodleMain && c.NoodleMains+1 > d.caps.NoodleMains {
		return true
	}
	if c.Processed+t.processed > d.caps.Processed {
		return true
	}
	if c.SnackDrink+t.snackDrink > d.caps.SnackDrink {
		return true
	}

	inSet := make(map[string]struct{}, len(items))
	for _, it := range items {
		kw := d.classifier.CoreKeyword(it.FoodName)
		if kw == "" {
			continue
		}
		if _, seen := c.CoreKeywords[kw]; seen {
			return true
		}
		if _, seen := inSet[kw]; seen {
			return true
		}
		inSet[kw] = struct{}{}
	}
	return false
}

// SharesCoreKeyword reports whether cand repeats the core keyword of an item
// already in the meal.
func (d *DiversityTracker) SharesCoreKeyword(cand model.FoodCandidate, meal []model.FoodCandidate) bool {
	kw := d.classifier.CoreKeyword(cand.FoodName)
	if kw == "" {
		return false
	}
	for _, it := range meal {
		if d.classifier.CoreKeyword(it.FoodName) == kw {
			return true
		}
	}
	return false
}

// Update commits a finalized meal into c.
func (d *DiversityTracker) Update(items []model.FoodCandidate, c *DailyCounters) {
	t := d.tally(items)
	if t.breadMain {
		c.BreadMains++
	}
	if t.noodleMain {
		c.NoodleMains++
	}
	c.Processed += t.processed
	c.SnackDrink += t.snackDrink

	for _, it := range items {
		switch it.Role {
		case model.RoleMain:
			c.CarbSources[it.CarbSourceTag] = struct{}{}
		case model.RoleProtein:
			c.ProteinSources[it.ProteinSourceTag] = struct{}{}
		}
		if kw := d.classifier.CoreKeyword(it.FoodName); kw != "" {
			c.CoreKeywords[kw] = struct{}{}
		}
	}
}
