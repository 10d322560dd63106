package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCommentRatio 验证注释率计算以及 code 为 0 的兜底。
func TestCommentRatio(t *testing.T) {
	assert.Equal(t, 0.0, CommentRatio(5, 0))
	assert.Equal(t, 0.0, CommentRatio(0, 10))
	assert.InDelta(t, 50.0, CommentRatio(1, 2), 1e-9)
	assert.InDelta(t, 150.0, CommentRatio(3, 2), 1e-9)
}

// TestRateRatioBoundaries 验证四档边界为左闭右开。
func TestRateRatioBoundaries(t *testing.T) {
	cases := []struct {
		ratio float64
		want  Rating
	}{
		{0, RatingPoor},
		{4.999, RatingPoor},
		{5, RatingReasonable},
		{14.99, RatingReasonable},
		{15, RatingWell},
		{24.99, RatingWell},
		{25, RatingVerbose},
		{300, RatingVerbose},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, RateRatio(tc.ratio), "ratio %v", tc.ratio)
	}
}

// TestRatingString 确认每一档都有展示文本。
func TestRatingString(t *testing.T) {
	assert.Equal(t, "poorly commented", RatingPoor.String())
	assert.Equal(t, "reasonably commented", RatingReasonable.String())
	assert.Equal(t, "well commented", RatingWell.String())
	assert.Equal(t, "possibly over-commented", RatingVerbose.String())
}

// TestLineMetricsAdd 验证逐字段累加。
func TestLineMetricsAdd(t *testing.T) {
	m := LineMetrics{Total: 4, Code: 2, Comment: 1, Blank: 1}
	m.Add(LineMetrics{Total: 3, Code: 1, Block: 2})

	assert.Equal(t, LineMetrics{Total: 7, Code: 3, Comment: 1, Blank: 1, Block: 2}, m)
	assert.InDelta(t, 100.0/3, m.Ratio(), 1e-9)
}
