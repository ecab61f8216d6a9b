package engine

// ScoreWeights holds the tunable scalars of the priority formula.
//
// The values are calibrated empirically; the defaults reproduce the observed
// upstream behavior exactly and are the sole sort key for placement order, so
// change them only deliberately.
type ScoreWeights struct {
	// Quadrant base scores.
	UrgentImportant       float64
	NotUrgentImportant    float64
	UrgentNotImportant    float64
	NotUrgentNotImportant float64

	// Overdue tasks score OverdueBase + OverduePerDay×daysOverdue, which
	// guarantees they outrank everything else.
	OverdueBase   float64
	OverduePerDay float64
	DueToday      float64

	// Duration pressure: estimatedHours / max(daysUntilDue, DuePressureFloor)
	// × DurationPressure. Pulls large near-deadline tasks forward even within
	// the same quadrant.
	DurationPressure float64
	DuePressureFloor float64

	// Age bonus: min(daysSinceCreated×AgePerDay, AgeMax). Prevents starvation
	// of undated backlog items.
	AgePerDay float64
	AgeMax    float64
}

// DefaultScoreWeights returns the calibrated upstream constants.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		UrgentImportant:       100,
		NotUrgentImportant:    80,
		UrgentNotImportant:    60,
		NotUrgentNotImportant: 40,

		OverdueBase:   200,
		OverduePerDay: 25,
		DueToday:      150,

		DurationPressure: 15,
		DuePressureFloor: 0.5,

		AgePerDay: 1,
		AgeMax:    10,
	}
}

func (w ScoreWeights) isZero() bool { return w == ScoreWeights{} }

func (w ScoreWeights) base(q Quadrant) float64 {
	switch q {
	case QuadrantUrgentImportant:
		return w.UrgentImportant
	case QuadrantNotUrgentImportant:
		return w.NotUrgentImportant
	case QuadrantUrgentNotImportant:
		return w.UrgentNotImportant
	default:
		return w.NotUrgentNotImportant
	}
}

// deadlineCurve interpolates the proximity bonus for tasks due in 1..30 days.
// Each segment is linear between its endpoints; beyond 30 days the bonus is a
// flat tail. Calibrated empirically, same caveat as ScoreWeights.
var deadlineCurve = []struct {
	loDays, hiDays   int
	loScore, hiScore float64
}{
	{1, 3, 140, 100},
	{4, 7, 90, 50},
	{8, 14, 50, 25},
	{15, 30, 20, 5},
}

const deadlineTail = 5.0

func (w ScoreWeights) deadlineTerm(daysUntilDue int) float64 {
	if daysUntilDue < 0 {
		return w.OverdueBase + w.OverduePerDay*float64(-daysUntilDue)
	}
	if daysUntilDue == 0 {
		return w.DueToday
	}
	for _, seg := range deadlineCurve {
		if daysUntilDue >= seg.loDays && daysUntilDue <= seg.hiDays {
			if seg.hiDays == seg.loDays {
				return seg.loScore
			}
			frac := float64(daysUntilDue-seg.loDays) / float64(seg.hiDays-seg.loDays)
			return seg.loScore + (seg.hiScore-seg.loScore)*frac
		}
	}
	return deadlineTail
}

// Score computes the placement priority of a task as seen from today.
//
// score = quadrant base + deadline proximity + duration pressure + age bonus.
// Typical range is 40–180; extreme overdue/urgent cases exceed 300. The
// function is pure: same task, same today, same weights ⇒ same score.
func Score(t Task, today Day, w ScoreWeights) (float64, Quadrant) {
	if w.isZero() {
		w = DefaultScoreWeights()
	}
	q := t.Quadrant()
	score := w.base(q)

	hasDue := !t.DueDate.IsZero()
	daysUntilDue := 0
	if hasDue {
		daysUntilDue = today.DaysUntil(t.DueDate)
	}

	// Deadline term: zero for completed or undated tasks.
	if hasDue && !t.Completed {
		score += w.deadlineTerm(daysUntilDue)
	}

	// Duration pressure: zero for overdue or undated tasks.
	if hasDue && !t.Completed && daysUntilDue >= 0 {
		denom := float64(daysUntilDue)
		if denom < w.DuePressureFloor {
			denom = w.DuePressureFloor
		}
		score += t.EstimatedHours / denom * w.DurationPressure
	}

	// Age bonus, bounded so old backlog cannot outrank deadlines.
	if !t.CreatedAt.IsZero() {
		age := float64(DayOf(t.CreatedAt).DaysUntil(today)) * w.AgePerDay
		if age > w.AgeMax {
			age = w.AgeMax
		}
		if age > 0 {
			score += age
		}
	}

	return score, q
}
