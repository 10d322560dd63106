// Package scanner 提供扫描调度能力。
// 该层负责目录遍历、后缀过滤、忽略文件排除、分片并发执行和结果归并，不负责行分类细节。
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"goloc/internal/aggregate"
	"goloc/internal/ignore"
	"goloc/internal/languages"
	"goloc/internal/model"
)

var (
	// ErrPathNotFound 表示扫描目标不存在。
	ErrPathNotFound = errors.New("scan path does not exist")
	// ErrWorkerPanic 表示某个分片的 worker 发生 panic，整次扫描失败。
	ErrWorkerPanic = errors.New("scan worker panicked")
)

// DefaultIgnoreFile 是默认的忽略文件名。
const DefaultIgnoreFile = ".gitignore"

// Options 存放一次扫描的可配置参数。
type Options struct {
	// Extensions 限定参与统计的后缀，为空表示不限制。
	Extensions []string
	// UseIgnore 为 true 时读取根目录下的 IgnoreFile 并排除命中的文件。
	UseIgnore  bool
	IgnoreFile string
	// Parallel 为 true 且文件数不少于 Workers+1 时才会并发执行。
	Parallel    bool
	Workers     int
	TopK        int
	KeepFiles   bool
	BlockPolicy languages.BlockPolicy
}

// Service 是扫描服务对象。
type Service struct {
	options     Options
	classifiers map[string]*languages.Classifier
	logger      *slog.Logger
}

// NewService 创建扫描服务。
// 每个后缀的分类器在这里一次性构造，之后以只读方式被所有 worker 共享。
func NewService(registry *languages.Registry, options Options, logger *slog.Logger) *Service {
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	if options.TopK < 0 {
		options.TopK = 0
	}
	if strings.TrimSpace(options.IgnoreFile) == "" {
		options.IgnoreFile = DefaultIgnoreFile
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	classifiers := make(map[string]*languages.Classifier)
	for _, ext := range registry.Extensions() {
		classifier, _ := registry.Classifier(ext, options.BlockPolicy)
		classifiers[ext] = classifier
	}

	return &Service{
		options:     options,
		classifiers: classifiers,
		logger:      logger,
	}
}

// ScanPath 扫描目录或单文件。
// 路径不存在、忽略文件缺失或无法解析都是致命错误，并且都在扫描开始前检测。
func (s *Service) ScanPath(targetPath string) (model.ScanResult, error) {
	var result model.ScanResult

	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return result, errors.New("scan path is empty")
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return result, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("%w: %s", ErrPathNotFound, absoluteTarget)
		}
		return result, fmt.Errorf("stat path: %w", err)
	}

	root := absoluteTarget
	if !info.IsDir() {
		root = filepath.Dir(absoluteTarget)
	}

	var matcher *ignore.Matcher
	if s.options.UseIgnore {
		matcher, err = ignore.Load(filepath.Join(root, s.options.IgnoreFile))
		if err != nil {
			return result, err
		}
	}

	startedAt := time.Now()

	files, err := s.collectFiles(absoluteTarget, info)
	if err != nil {
		return result, err
	}
	candidates := len(files)
	files = s.filterExtensions(files)
	files = matcher.Exclude(files)

	s.logger.Debug("scan plan",
		"root", root,
		"candidates", candidates,
		"selected", len(files),
		"ignore_rules", matcher.Len(),
		"parallel", s.options.Parallel,
		"workers", s.options.Workers,
	)

	summary, mode, workers, err := s.run(root, files)
	if err != nil {
		return result, err
	}

	result = summary.Result(absoluteTarget, time.Since(startedAt))
	result.Mode = mode
	result.Workers = workers
	return result, nil
}

// run 选择顺序或并发执行。
// 并发时每个分片由一个 goroutine 独占处理，全部结束后按分片创建顺序归并。
func (s *Service) run(root string, files []string) (*aggregate.Summary, string, int, error) {
	if !s.options.Parallel || len(files) < s.options.Workers+1 {
		if s.options.Parallel {
			s.logger.Debug("too few files for parallel scan, falling back to sequential",
				"files", len(files),
				"workers", s.options.Workers,
			)
		}
		return s.scanChunk(root, files), model.ModeSequential, 1, nil
	}

	chunks := Partition(files, s.options.Workers)
	parts := make([]*aggregate.Summary, len(chunks))

	// worker 内的 panic 转换为错误返回。
	var group errgroup.Group
	for index, chunk := range chunks {
		group.Go(func() (err error) {
			defer func() {
				if recovered := recover(); recovered != nil {
					err = fmt.Errorf("%w: chunk %d: %v", ErrWorkerPanic, index, recovered)
				}
			}()
			parts[index] = s.scanChunk(root, chunk)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, "", 0, err
	}

	return aggregate.MergeSummaries(s.options.TopK, parts, s.summaryOptions()...), model.ModeParallel, len(chunks), nil
}

// collectFiles 收集待扫描文件的相对路径（以 / 分隔，按字典序）。
// 子目录无法读取时记录告警并跳过该目录，只有根目录不可读才返回错误。
func (s *Service) collectFiles(target string, info fs.FileInfo) ([]string, error) {
	if !info.IsDir() {
		return []string{filepath.Base(target)}, nil
	}

	files := make([]string, 0)
	walkErr := filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == target {
				return walkErr
			}
			s.logger.Warn("skip unreadable path", "path", path, "error", walkErr)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		relativePath, relErr := filepath.Rel(target, path)
		if relErr != nil {
			relativePath = path
		}
		files = append(files, filepath.ToSlash(relativePath))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", target, walkErr)
	}
	return files, nil
}

// filterExtensions 按 Options.Extensions 过滤文件。
func (s *Service) filterExtensions(files []string) []string {
	if len(s.options.Extensions) == 0 {
		return files
	}

	allowed := make(map[string]struct{}, len(s.options.Extensions))
	for _, ext := range s.options.Extensions {
		if normalized := languages.NormalizeExtension(ext); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	kept := make([]string, 0, len(files))
	for _, file := range files {
		if _, ok := allowed[languages.ExtensionOf(file)]; ok {
			kept = append(kept, file)
		}
	}
	return kept
}

func (s *Service) newSummary() *aggregate.Summary {
	return aggregate.NewSummary(s.options.TopK, s.summaryOptions()...)
}

func (s *Service) summaryOptions() []aggregate.Option {
	if s.options.KeepFiles {
		return []aggregate.Option{aggregate.WithFiles()}
	}
	return nil
}
