// Package ignore 解析忽略文件（默认 .gitignore）并计算需要排除的相对路径。
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrIgnoreFileMissing 表示要求使用忽略文件但文件不存在。
	ErrIgnoreFileMissing = errors.New("ignore file not found")
	// ErrInvalidPattern 表示忽略文件中存在无法解析的模式。
	ErrInvalidPattern = errors.New("invalid ignore pattern")
)

// rule 是一条归一化后的忽略规则。
// contents 匹配以该模式命名的目录下的全部内容，只给不以 / 结尾的模式设置。
type rule struct {
	source   string
	pattern  string
	contents string
	negate   bool
}

// matches 判断规则是否命中路径本身或其所在的某一级目录。
func (r rule) matches(relativePath string) bool {
	if matched, _ := doublestar.Match(r.pattern, relativePath); matched {
		return true
	}
	if r.contents == "" {
		return false
	}
	matched, _ := doublestar.Match(r.contents, relativePath)
	return matched
}

// Matcher 持有按出现顺序排列的忽略规则，后出现的规则优先。
type Matcher struct {
	rules []rule
}

// Load 从指定路径读取忽略文件。
func Load(path string) (*Matcher, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrIgnoreFileMissing, path)
		}
		return nil, fmt.Errorf("open ignore file: %w", err)
	}
	defer file.Close()

	matcher, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return matcher, nil
}

// Parse 逐行解析忽略模式，空行与 # 开头的行被跳过。
func Parse(reader io.Reader) (*Matcher, error) {
	matcher := &Matcher{}

	scanner := bufio.NewScanner(reader)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		item, ok := parseRule(line)
		if !ok {
			continue
		}
		if !doublestar.ValidatePattern(item.pattern) {
			return nil, fmt.Errorf("%w at line %d: %q", ErrInvalidPattern, lineNo, line)
		}
		matcher.rules = append(matcher.rules, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore patterns: %w", err)
	}
	return matcher, nil
}

// parseRule 把一行模式转换为 doublestar 模式：
// - ! 开头表示重新包含
// - / 结尾表示目录及其下全部内容
// - / 开头表示锚定在根目录
// - 不含内部 / 的模式可以匹配任意层级
// - 不以 / 结尾的模式既可以命中文件，也可以命中同名目录下的全部内容
func parseRule(line string) (rule, bool) {
	item := rule{source: line}

	if strings.HasPrefix(line, "!") {
		item.negate = true
		line = line[1:]
	}

	directory := strings.HasSuffix(line, "/")
	line = strings.TrimRight(line, "/")

	anchored := strings.HasPrefix(line, "/")
	line = strings.TrimLeft(line, "/")
	if line == "" {
		return rule{}, false
	}

	if !anchored && !strings.Contains(line, "/") {
		line = "**/" + line
	}
	if directory {
		line += "/**"
	} else {
		item.contents = line + "/**"
	}

	item.pattern = line
	return item, true
}

// Len 返回规则数量。
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Match 判断相对路径（以 / 分隔）是否被忽略。
func (m *Matcher) Match(relativePath string) bool {
	if m == nil {
		return false
	}

	ignored := false
	for _, item := range m.rules {
		if item.negate != ignored {
			// 当前结论与规则方向一致时无需再匹配。
			continue
		}
		if item.matches(relativePath) {
			ignored = !item.negate
		}
	}
	return ignored
}

// Exclude 从文件列表中去掉被忽略的路径，保持原有顺序。
func (m *Matcher) Exclude(files []string) []string {
	if m.Len() == 0 {
		return files
	}

	kept := make([]string, 0, len(files))
	for _, file := range files {
		if !m.Match(file) {
			kept = append(kept, file)
		}
	}
	return kept
}
