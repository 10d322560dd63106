package scanner

import (
	"os"
	"path/filepath"

	"goloc/internal/aggregate"
	"goloc/internal/languages"
	"goloc/internal/model"
)

// workerResult 表示单个文件的扫描产物。
// 两个字段都为 nil 表示文件后缀不在语法表中，被跳过。
type workerResult struct {
	fileMetrics *model.FileMetrics
	scanError   *model.ScanError
}

// scanFile 读取单个文件并执行行分类。
// 打开、读取、解码、关闭失败都会被转换为 ScanError，不会中断整体扫描。
func (s *Service) scanFile(root string, relativePath string) workerResult {
	ext := languages.ExtensionOf(relativePath)
	classifier, ok := s.classifiers[ext]
	if !ok {
		return workerResult{}
	}

	file, openErr := os.Open(filepath.Join(root, filepath.FromSlash(relativePath)))
	if openErr != nil {
		return s.failed(relativePath, openErr)
	}

	metrics, analyzeErr := classifier.Analyze(file)
	closeErr := file.Close()

	if analyzeErr != nil {
		return s.failed(relativePath, analyzeErr)
	}
	if closeErr != nil {
		return s.failed(relativePath, closeErr)
	}

	return workerResult{
		fileMetrics: &model.FileMetrics{
			Path:      relativePath,
			Extension: ext,
			Metrics:   metrics,
		},
	}
}

func (s *Service) failed(relativePath string, err error) workerResult {
	s.logger.Warn("skip unreadable file", "path", relativePath, "error", err)
	return workerResult{
		scanError: &model.ScanError{
			Path:  relativePath,
			Error: err.Error(),
		},
	}
}

// scanChunk 顺序扫描一个分片，结果写入该分片独占的 Summary。
func (s *Service) scanChunk(root string, files []string) *aggregate.Summary {
	summary := s.newSummary()
	for _, relativePath := range files {
		result := s.scanFile(root, relativePath)
		switch {
		case result.fileMetrics != nil:
			summary.Add(*result.fileMetrics)
		case result.scanError != nil:
			summary.AddError(*result.scanError)
		default:
			summary.AddSkipped()
		}
	}
	return summary
}
