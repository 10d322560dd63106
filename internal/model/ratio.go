package model

// Rating 是注释率的四档评价。
type Rating int

const (
	RatingPoor Rating = iota
	RatingReasonable
	RatingWell
	RatingVerbose
)

// 评价分档边界（百分比，左闭右开）。
const (
	reasonableThreshold = 5.0
	wellThreshold       = 15.0
	verboseThreshold    = 25.0
)

// CommentRatio 计算 comment/code*100。
// code 为 0 时注释率无定义，按 0 处理。
func CommentRatio(comment, code int64) float64 {
	if code <= 0 {
		return 0
	}
	return float64(comment) / float64(code) * 100
}

// RateRatio 按四档规则评价注释率。
// 全局注释率与排行中单文件注释率使用同一套规则。
func RateRatio(ratio float64) Rating {
	switch {
	case ratio < reasonableThreshold:
		return RatingPoor
	case ratio < wellThreshold:
		return RatingReasonable
	case ratio < verboseThreshold:
		return RatingWell
	default:
		return RatingVerbose
	}
}

// String 返回评价的展示文本。
func (r Rating) String() string {
	switch r {
	case RatingPoor:
		return "poorly commented"
	case RatingReasonable:
		return "reasonably commented"
	case RatingWell:
		return "well commented"
	case RatingVerbose:
		return "possibly over-commented"
	default:
		return "unknown"
	}
}
