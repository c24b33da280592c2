package analysis

import "github.com/imishinist/n8n-timings/internal/models"

// Aggregate groups attempts by node name in first-seen order and computes
// per-node statistics.
func Aggregate(attempts []models.RunAttempt) []*models.NodeStats {
	var order []string
	groups := make(map[string][]models.RunAttempt)

	for _, a := range attempts {
		name := a.NodeName()
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], a)
	}

	stats := make([]*models.NodeStats, 0, len(order))
	for _, name := range order {
		stats = append(stats, nodeStats(name, groups[name]))
	}
	return stats
}

// nodeStats computes one node's statistics. Duration aggregates only cover
// timed attempts and fall back to zero when there are none; the success rate
// is taken over every attempt.
func nodeStats(name string, attempts []models.RunAttempt) *models.NodeStats {
	s := &models.NodeStats{
		NodeName: name,
		Count:    len(attempts),
		Attempts: attempts,
	}

	timed := 0
	for _, a := range attempts {
		switch a.Status() {
		case models.StatusSuccess:
			s.SuccessCount++
		case models.StatusError:
			s.ErrorCount++
		}

		d, ok := a.Duration()
		if !ok {
			continue
		}
		if timed == 0 || d < s.MinSeconds {
			s.MinSeconds = d
		}
		if timed == 0 || d > s.MaxSeconds {
			s.MaxSeconds = d
		}
		s.TotalSeconds += d
		timed++
	}

	if timed > 0 {
		s.AverageSeconds = s.TotalSeconds / float64(timed)
	}
	if s.Count > 0 {
		s.SuccessRatePct = float64(s.SuccessCount) / float64(s.Count) * 100
	}
	return s
}
