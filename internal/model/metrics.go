// Package model 定义 goloc 的核心数据模型。
// 这些结构会被分类器、聚合器、扫描器、输出层和命令层共同使用。
package model

import "time"

// LineMetrics 表示一组行级统计值。
//
// 注意：
// - Total 表示总行数（每行计 1）
// - Code 即 LOC，带行尾注释的代码行只计入 Code
// - Comment 即 CLOC，只统计以单行注释标记开头的纯注释行
// - Block 统计被块注释吞掉的行，不计入 Comment
// - 恒有 Code + Comment + Blank + Block == Total，但 Comment <= Code 不成立
type LineMetrics struct {
	Total   int64 `json:"total"`
	Code    int64 `json:"code"`
	Comment int64 `json:"comment"`
	Blank   int64 `json:"blank"`
	Block   int64 `json:"block"`
}

// Add 将另一个统计结果叠加到当前对象。
func (m *LineMetrics) Add(other LineMetrics) {
	m.Total += other.Total
	m.Code += other.Code
	m.Comment += other.Comment
	m.Blank += other.Blank
	m.Block += other.Block
}

// Ratio 返回该组统计的注释率（百分比）。
func (m LineMetrics) Ratio() float64 {
	return CommentRatio(m.Comment, m.Code)
}

// FileMetrics 表示单文件扫描结果。
// Extension 为归一化后缀（不带点号，小写）。
type FileMetrics struct {
	Path      string      `json:"path"`
	Extension string      `json:"extension"`
	Metrics   LineMetrics `json:"metrics"`
}

// FileLOC 记录某个后缀下代码行数最多的文件。
type FileLOC struct {
	Path string `json:"path"`
	Code int64  `json:"code"`
}

// RatioEntry 是注释率排行中的一项。
type RatioEntry struct {
	Ratio   float64 `json:"ratio"`
	Comment int64   `json:"comment"`
	Path    string  `json:"path"`
}

// ExtensionMetrics 表示某个后缀的聚合结果。
type ExtensionMetrics struct {
	Extension string       `json:"extension"`
	Files     int64        `json:"files"`
	Metrics   LineMetrics  `json:"metrics"`
	Longest   *FileLOC     `json:"longest,omitempty"`
	TopRatios []RatioEntry `json:"top_ratios,omitempty"`
}

// ScanError 记录单文件扫描失败信息。
// 设计为“错误不阻断全量扫描”，失败文件不计入任何总数。
type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// TotalMetrics 表示项目级总计信息。
// 在 LineMetrics 基础上额外增加 Files 字段，
// 用于表达“本次扫描统计到了多少个有效源码文件”。
type TotalMetrics struct {
	Files int64 `json:"files"`
	LineMetrics
}

// AddFileMetrics 累加一个文件的统计值到项目总计中。
func (m *TotalMetrics) AddFileMetrics(other LineMetrics) {
	m.Files++
	m.LineMetrics.Add(other)
}

// Merge 合并另一个总计（用于并行分片结果归并）。
func (m *TotalMetrics) Merge(other TotalMetrics) {
	m.Files += other.Files
	m.LineMetrics.Add(other.LineMetrics)
}

// 扫描模式。
const (
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
)

// ScanResult 是 scan 命令的完整输出模型。
// 包含后缀级汇总、全局总计、可选的文件级明细和错误列表。
type ScanResult struct {
	ScannedPath string             `json:"scanned_path"`
	Mode        string             `json:"mode"`
	Workers     int                `json:"workers"`
	Elapsed     time.Duration      `json:"elapsed_ns"`
	Extensions  []ExtensionMetrics `json:"extensions"`
	Total       TotalMetrics       `json:"total"`
	Skipped     int64              `json:"skipped"`
	Files       []FileMetrics      `json:"files,omitempty"`
	Errors      []ScanError        `json:"errors"`
}
