package languages

import (
	"strings"

	"goloc/internal/model"
)

// LineKind 是单行的分类结果。
type LineKind int

const (
	LineBlank LineKind = iota
	LineCode
	LineComment
	LineBlock
)

// String 返回分类名称，主要用于测试输出。
func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineCode:
		return "code"
	case LineComment:
		return "comment"
	case LineBlock:
		return "block"
	default:
		return "unknown"
	}
}

// utf8BOM 是 UTF-8 字节序标记。
const utf8BOM = "\ufeff"

// normalizeLine 用于去除每行末尾的换行符。
// 该函数适配 Windows 的 \r\n 与 Unix 的 \n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// applyLineClassification 根据分类结果更新统计值。
//
// 约束说明：
// - 每次调用都默认是“处理完一整行”，因此 Total 固定 +1
// - 每行只落入一个分类，保证 Code+Comment+Blank+Block == Total
func applyLineClassification(metrics *model.LineMetrics, kind LineKind) {
	metrics.Total++

	switch kind {
	case LineCode:
		metrics.Code++
	case LineComment:
		metrics.Comment++
	case LineBlock:
		metrics.Block++
	default:
		metrics.Blank++
	}
}

// hasAnyPrefix 判断 text 是否以任一标记开头。
func hasAnyPrefix(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.HasPrefix(text, marker) {
			return true
		}
	}
	return false
}
