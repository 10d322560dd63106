package languages

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"goloc/internal/model"
)

// ErrInvalidEncoding 表示文件内容不是合法 UTF-8。
var ErrInvalidEncoding = errors.New("invalid utf-8 encoding")

// BlockPolicy 决定与块注释同行的代码如何处理。
type BlockPolicy int

const (
	// BlockPolicyMask 只屏蔽起止标记之间的子串，行内剩余部分继续参与分类。
	BlockPolicyMask BlockPolicy = iota
	// BlockPolicyLine 凡是被块注释触及的行整行丢弃，同行代码不计入 LOC。
	BlockPolicyLine
)

// ParseBlockPolicy 解析命令行/配置中的策略名称。
func ParseBlockPolicy(name string) (BlockPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mask":
		return BlockPolicyMask, nil
	case "line":
		return BlockPolicyLine, nil
	default:
		return BlockPolicyMask, fmt.Errorf("unsupported block policy %q, allowed values: mask, line", name)
	}
}

// String 返回策略名称。
func (p BlockPolicy) String() string {
	if p == BlockPolicyLine {
		return "line"
	}
	return "mask"
}

// Classifier 是基于标记子串的行分类器。
// 它本身不可变，可以被多个 worker 共享；每次分析的块注释状态由 lineEngine 单独持有。
type Classifier struct {
	singleLine []string
	blockStart string
	blockEnd   string
	policy     BlockPolicy
}

// NewClassifier 根据注释语法和块注释策略创建分类器。
func NewClassifier(syntax CommentSyntax, policy BlockPolicy) *Classifier {
	classifier := &Classifier{policy: policy}
	for _, marker := range syntax.SingleLine {
		if marker != "" {
			classifier.singleLine = append(classifier.singleLine, marker)
		}
	}
	if syntax.HasBlock() {
		classifier.blockStart = syntax.MultiLine.Start
		classifier.blockEnd = syntax.MultiLine.End
	}
	return classifier
}

// Analyze 采用流式读取逐行分类，避免一次性加载大文件。
func (c *Classifier) Analyze(reader io.Reader) (model.LineMetrics, error) {
	var metrics model.LineMetrics
	engine := c.newEngine()

	bufferedReader := bufio.NewReader(reader)
	for lineNo := 1; ; lineNo++ {
		line, err := bufferedReader.ReadString('\n')
		// EOF 且没有任何剩余字符时，说明已经没有可处理行，直接退出。
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return metrics, err
		}

		if !utf8.ValidString(line) {
			return metrics, fmt.Errorf("line %d: %w", lineNo, ErrInvalidEncoding)
		}
		if lineNo == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}

		applyLineClassification(&metrics, engine.classify(normalizeLine(line)))

		// EOF 但 line 非空代表“最后一行没有换行符”，这行已经处理完，随后退出。
		if errors.Is(err, io.EOF) {
			break
		}
	}

	return metrics, nil
}

// ClassifyLines 对内存中的行序列分类，返回逐行结果与汇总。
func (c *Classifier) ClassifyLines(lines []string) ([]LineKind, model.LineMetrics) {
	var metrics model.LineMetrics
	engine := c.newEngine()

	kinds := make([]LineKind, 0, len(lines))
	for _, line := range lines {
		kind := engine.classify(normalizeLine(line))
		kinds = append(kinds, kind)
		applyLineClassification(&metrics, kind)
	}
	return kinds, metrics
}

func (c *Classifier) newEngine() *lineEngine {
	return &lineEngine{classifier: c}
}

// lineEngine 维护一次分析过程中的块注释状态。
// 块注释只有一层：块内再次出现起始标记会被忽略，不做嵌套计数。
type lineEngine struct {
	classifier *Classifier
	inBlock    bool
}

// classify 对单行分类并推进块注释状态。
func (e *lineEngine) classify(line string) LineKind {
	rest, touched := e.stripBlocks(line)
	if touched {
		if e.classifier.policy == BlockPolicyLine || strings.TrimSpace(rest) == "" {
			return LineBlock
		}
	}

	trimmed := strings.TrimSpace(rest)
	if trimmed == "" {
		return LineBlank
	}
	if hasAnyPrefix(trimmed, e.classifier.singleLine) {
		return LineComment
	}
	// 行尾注释（x = 1 # note）仍然算代码行。
	return LineCode
}

// stripBlocks 去掉行内属于块注释的部分，返回剩余文本以及该行是否被块注释触及。
// 结束标记只在起始标记之后查找，因此 "/*/" 不会自行闭合。
// 未闭合的块注释会一直延续到文件末尾。
func (e *lineEngine) stripBlocks(line string) (string, bool) {
	start, end := e.classifier.blockStart, e.classifier.blockEnd
	if start == "" || end == "" {
		return line, false
	}

	var kept strings.Builder
	touched := false
	remaining := line

	for {
		if e.inBlock {
			touched = true
			idx := strings.Index(remaining, end)
			if idx < 0 {
				return kept.String(), touched
			}
			e.inBlock = false
			remaining = remaining[idx+len(end):]
			continue
		}

		idx := strings.Index(remaining, start)
		if idx < 0 {
			kept.WriteString(remaining)
			return kept.String(), touched
		}
		kept.WriteString(remaining[:idx])
		e.inBlock = true
		remaining = remaining[idx+len(start):]
	}
}
