package reviews

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func samplesFromOveralls(overalls ...int) []RatingSample {
	out := make([]RatingSample, 0, len(overalls))
	for _, o := range overalls {
		out = append(out, RatingSample{Overall: o})
	}
	return out
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0.0, s.AverageRating)
	assert.Equal(t, 0, s.TotalCount)
	for k := 1; k <= 5; k++ {
		assert.Equal(t, 0, s.RatingDistribution[k])
		assert.Equal(t, 0, s.RatingPercentages[k])
	}
	for _, name := range categoryNames {
		avg, ok := s.CategoryAverages[name]
		require.True(t, ok, "category %s missing", name)
		assert.Nil(t, avg)
	}
}

func TestSummarizeAverageRounding(t *testing.T) {
	// 13/3 = 4.333... rounds to one decimal
	s := Summarize(samplesFromOveralls(5, 4, 4))
	assert.Equal(t, 4.3, s.AverageRating)
	assert.Equal(t, 3, s.TotalCount)

	// 7/2 = 3.5 stays exact
	s = Summarize(samplesFromOveralls(4, 3))
	assert.Equal(t, 3.5, s.AverageRating)

	// 14/3 = 4.666... rounds up
	s = Summarize(samplesFromOveralls(5, 5, 4))
	assert.Equal(t, 4.7, s.AverageRating)
}

func TestSummarizeDistribution(t *testing.T) {
	s := Summarize(samplesFromOveralls(5, 5, 4, 4, 3, 3))

	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 2, 4: 2, 5: 2}, s.RatingDistribution)

	total := 0
	for _, n := range s.RatingDistribution {
		total += n
	}
	assert.Equal(t, s.TotalCount, total)
}

func TestSummarizePercentages(t *testing.T) {
	s := Summarize(samplesFromOveralls(5, 5, 4, 3))

	assert.Equal(t, 50, s.RatingPercentages[5])
	assert.Equal(t, 25, s.RatingPercentages[4])
	assert.Equal(t, 25, s.RatingPercentages[3])
	assert.Equal(t, 0, s.RatingPercentages[2])
	assert.Equal(t, 0, s.RatingPercentages[1])
}

func TestSummarizePercentagesRoundIndependently(t *testing.T) {
	// Three thirds each round to 33; the buckets do not have to sum to 100.
	s := Summarize(samplesFromOveralls(5, 4, 3))

	assert.Equal(t, 33, s.RatingPercentages[5])
	assert.Equal(t, 33, s.RatingPercentages[4])
	assert.Equal(t, 33, s.RatingPercentages[3])
}

func TestSummarizeCategoryAverages(t *testing.T) {
	samples := []RatingSample{
		{Overall: 5, Cleanliness: intPtr(5), Staff: intPtr(4)},
		{Overall: 4, Cleanliness: intPtr(4)},
		{Overall: 3},
	}

	s := Summarize(samples)

	// Cleanliness averages over the two reviews that rated it.
	require.NotNil(t, s.CategoryAverages["cleanliness"])
	assert.Equal(t, 4.5, *s.CategoryAverages["cleanliness"])

	// Staff was rated once.
	require.NotNil(t, s.CategoryAverages["staff"])
	assert.Equal(t, 4.0, *s.CategoryAverages["staff"])

	// Never-rated categories stay null, not zero.
	assert.Nil(t, s.CategoryAverages["facilities"])
	assert.Nil(t, s.CategoryAverages["value"])
	assert.Nil(t, s.CategoryAverages["location"])
}

func TestSummarizeSkipsOutOfRangeOverall(t *testing.T) {
	samples := []RatingSample{
		{Overall: 5},
		{Overall: 0},
		{Overall: 9},
	}

	s := Summarize(samples)

	// Out-of-range rows still count toward the total but not the mean.
	assert.Equal(t, 3, s.TotalCount)
	assert.Equal(t, 5.0, s.AverageRating)
	assert.Equal(t, 1, s.RatingDistribution[5])
}

func TestSummarizeSingleReview(t *testing.T) {
	s := Summarize(samplesFromOveralls(4))

	assert.Equal(t, 4.0, s.AverageRating)
	assert.Equal(t, 1, s.TotalCount)
	assert.Equal(t, 100, s.RatingPercentages[4])
}
