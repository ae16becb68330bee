// session/rewards.go
package session

// Totals is the transient per-visit accumulation of points and badges. It is
// never persisted; the authoritative record is the content service's
// completed-activity set.
type Totals struct {
	TotalPoints  int      `json:"total_points"`
	EarnedBadges []string `json:"earned_badges"`
}

// Rewards accumulates points and badges across the activities of one lesson
// visit. Badges are per-activity rewards, not unique achievements: a token
// earned twice appears twice, in completion order. De-duplication, if any,
// is a display concern.
type Rewards struct {
	totals Totals
}

func (r *Rewards) Add(points int, badge string) Totals {
	r.totals.TotalPoints += points
	if badge != "" {
		r.totals.EarnedBadges = append(r.totals.EarnedBadges, badge)
	}
	return r.Totals()
}

func (r *Rewards) Totals() Totals {
	badges := make([]string, len(r.totals.EarnedBadges))
	copy(badges, r.totals.EarnedBadges)
	return Totals{TotalPoints: r.totals.TotalPoints, EarnedBadges: badges}
}

func (r *Rewards) Reset() {
	r.totals = Totals{}
}
