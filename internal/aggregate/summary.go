// Package aggregate 负责把单文件结果合并为按后缀分组的汇总。
//
// 每个 worker 独占一个 Summary，扫描阶段没有共享可变状态；
// 所有 worker 结束后再按分片顺序调用 Merge 归并。
// 总数的合并满足结合律与交换律，最长文件与排行的平局处理依赖合并顺序，
// 因此归并顺序必须固定。
package aggregate

import (
	"sort"
	"time"

	"goloc/internal/model"
)

// ExtensionSummary 是单个后缀的累计结果。
type ExtensionSummary struct {
	Extension string
	Files     int64
	Metrics   model.LineMetrics
	Longest   *model.FileLOC

	top *topK
}

func newExtensionSummary(ext string, limit int) *ExtensionSummary {
	return &ExtensionSummary{
		Extension: ext,
		top:       newTopK(limit),
	}
}

// add 合入一个文件结果。
// 最长文件只在 Code 严格大于当前值时更新，平局保留先出现的文件。
func (e *ExtensionSummary) add(file model.FileMetrics) {
	e.Files++
	e.Metrics.Add(file.Metrics)

	if e.Longest == nil || file.Metrics.Code > e.Longest.Code {
		e.Longest = &model.FileLOC{Path: file.Path, Code: file.Metrics.Code}
	}

	e.top.offer(model.RatioEntry{
		Ratio:   file.Metrics.Ratio(),
		Comment: file.Metrics.Comment,
		Path:    file.Path,
	})
}

// merge 合入另一个分片中同一后缀的结果。
func (e *ExtensionSummary) merge(other *ExtensionSummary) {
	e.Files += other.Files
	e.Metrics.Add(other.Metrics)

	if other.Longest != nil && (e.Longest == nil || other.Longest.Code > e.Longest.Code) {
		longest := *other.Longest
		e.Longest = &longest
	}

	e.top.merge(other.top)
}

// TopRatios 返回注释率排行（降序）。
func (e *ExtensionSummary) TopRatios() []model.RatioEntry {
	return e.top.sorted()
}

func (e *ExtensionSummary) snapshot() model.ExtensionMetrics {
	item := model.ExtensionMetrics{
		Extension: e.Extension,
		Files:     e.Files,
		Metrics:   e.Metrics,
		TopRatios: e.TopRatios(),
	}
	if e.Longest != nil {
		longest := *e.Longest
		item.Longest = &longest
	}
	return item
}

// Summary 是一次扫描（或一个分片）的完整累计状态。
type Summary struct {
	topK      int
	keepFiles bool

	byExt   map[string]*ExtensionSummary
	total   model.TotalMetrics
	skipped int64
	files   []model.FileMetrics
	errors  []model.ScanError
}

// Option 调整 Summary 的行为。
type Option func(*Summary)

// WithFiles 让 Summary 保留文件级明细。
func WithFiles() Option {
	return func(s *Summary) {
		s.keepFiles = true
	}
}

// NewSummary 创建空的汇总，topK 为每个后缀保留的注释率排行长度，0 表示不统计排行。
func NewSummary(topK int, options ...Option) *Summary {
	summary := &Summary{
		topK:  topK,
		byExt: make(map[string]*ExtensionSummary),
	}
	for _, option := range options {
		option(summary)
	}
	return summary
}

// Add 合入一个文件结果（merge_into）。
func (s *Summary) Add(file model.FileMetrics) {
	s.extension(file.Extension).add(file)
	s.total.AddFileMetrics(file.Metrics)
	if s.keepFiles {
		s.files = append(s.files, file)
	}
}

// AddError 记录一个单文件错误，该文件不计入任何总数。
func (s *Summary) AddError(scanErr model.ScanError) {
	s.errors = append(s.errors, scanErr)
}

// AddSkipped 记录一个因后缀不在语法表中而跳过的文件。
func (s *Summary) AddSkipped() {
	s.skipped++
}

// Merge 把另一个分片的结果合入当前汇总（merge_summaries）。
// other 合并后不应再被使用。
func (s *Summary) Merge(other *Summary) {
	if other == nil {
		return
	}

	for _, ext := range other.sortedExtensions() {
		s.extension(ext).merge(other.byExt[ext])
	}

	s.total.Merge(other.total)
	s.skipped += other.skipped
	if s.keepFiles {
		s.files = append(s.files, other.files...)
	}
	s.errors = append(s.errors, other.errors...)
}

// MergeSummaries 按给定顺序归并多个分片结果，返回新的 Summary。
func MergeSummaries(topK int, parts []*Summary, options ...Option) *Summary {
	combined := NewSummary(topK, options...)
	for _, part := range parts {
		combined.Merge(part)
	}
	return combined
}

// Extension 返回某个后缀的累计结果，不存在时返回 nil。
func (s *Summary) Extension(ext string) *ExtensionSummary {
	return s.byExt[ext]
}

// Total 返回全局总计。
func (s *Summary) Total() model.TotalMetrics {
	return s.total
}

// Result 生成最终输出模型。
// 后缀按名称排序，文件与错误按路径排序，便于输出稳定。
func (s *Summary) Result(scannedPath string, elapsed time.Duration) model.ScanResult {
	result := model.ScanResult{
		ScannedPath: scannedPath,
		Elapsed:     elapsed,
		Total:       s.total,
		Skipped:     s.skipped,
		Extensions:  make([]model.ExtensionMetrics, 0, len(s.byExt)),
		Errors:      append([]model.ScanError{}, s.errors...),
	}

	for _, ext := range s.sortedExtensions() {
		result.Extensions = append(result.Extensions, s.byExt[ext].snapshot())
	}

	if s.keepFiles {
		result.Files = append([]model.FileMetrics{}, s.files...)
		sort.Slice(result.Files, func(i int, j int) bool {
			return result.Files[i].Path < result.Files[j].Path
		})
	}

	sort.Slice(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	return result
}

func (s *Summary) extension(ext string) *ExtensionSummary {
	summary, ok := s.byExt[ext]
	if !ok {
		summary = newExtensionSummary(ext, s.topK)
		s.byExt[ext] = summary
	}
	return summary
}

func (s *Summary) sortedExtensions() []string {
	keys := make([]string, 0, len(s.byExt))
	for ext := range s.byExt {
		keys = append(keys, ext)
	}
	sort.Strings(keys)
	return keys
}
