package reviews

import "math"

var categoryNames = []string{"cleanliness", "staff", "facilities", "value", "location"}

// Summarize computes a rating summary over the given samples. Callers must
// pass only visible reviews; no filtering happens here. The empty input is
// not an error, it yields the canonical zero summary.
func Summarize(samples []RatingSample) Summary {
	s := Summary{
		TotalCount:         len(samples),
		RatingDistribution: make(map[int]int, 5),
		RatingPercentages:  make(map[int]int, 5),
		CategoryAverages:   make(map[string]*float64, len(categoryNames)),
	}
	for k := 1; k <= 5; k++ {
		s.RatingDistribution[k] = 0
		s.RatingPercentages[k] = 0
	}
	for _, name := range categoryNames {
		s.CategoryAverages[name] = nil
	}

	if len(samples) == 0 {
		return s
	}

	var overallSum, overallN int
	catSum := make(map[string]int, len(categoryNames))
	catN := make(map[string]int, len(categoryNames))

	for _, r := range samples {
		// Values outside 1-5 should not occur; skip them rather than
		// letting them skew the mean.
		if r.Overall >= 1 && r.Overall <= 5 {
			s.RatingDistribution[r.Overall]++
			overallSum += r.Overall
			overallN++
		}

		for name, v := range r.categories() {
			if v != nil && *v >= 1 && *v <= 5 {
				catSum[name] += *v
				catN[name]++
			}
		}
	}

	if overallN > 0 {
		s.AverageRating = round1(float64(overallSum) / float64(overallN))
	}

	// Each bucket rounds independently; 3x33% not summing to 100 is fine.
	for k := 1; k <= 5; k++ {
		s.RatingPercentages[k] = int(math.Round(100 * float64(s.RatingDistribution[k]) / float64(s.TotalCount)))
	}

	// Each category averages over only the reviews that rated it.
	for _, name := range categoryNames {
		if catN[name] > 0 {
			avg := round1(float64(catSum[name]) / float64(catN[name]))
			s.CategoryAverages[name] = &avg
		}
	}

	return s
}

func (r RatingSample) categories() map[string]*int {
	return map[string]*int{
		"cleanliness": r.Cleanliness,
		"staff":       r.Staff,
		"facilities":  r.Facilities,
		"value":       r.Value,
		"location":    r.Location,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
