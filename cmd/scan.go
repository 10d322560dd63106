package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"goloc/internal/config"
	"goloc/internal/languages"
	"goloc/internal/report"
	"goloc/internal/scanner"

	"github.com/spf13/cobra"
)

var (
	// errInsightsNeedExtensions 表示 --insights 缺少 --ext，扫描开始前直接失败。
	errInsightsNeedExtensions = errors.New("--insights is available only when --ext is specified")
	// errOutputNeedsJSON 表示 --output 只能与 --format json 一起使用。
	errOutputNeedsJSON = errors.New("--output is available only with --format json")
)

// scanOptions 存放 scan 命令的可配置参数。
type scanOptions struct {
	extensions   []string
	useGitignore bool
	ignoreFile   string
	insights     bool
	parallel     bool
	workers      int
	topK         int
	format       string
	output       string
	files        bool
	blockPolicy  string
	configPath   string
	verbose      bool
}

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	goloc scan .
//	goloc scan ./project -e go -e py --insights
//	goloc scan ./project -g --parallel --format json --output result.json
func newScanCmd() *cobra.Command {
	options := scanOptions{
		ignoreFile:  scanner.DefaultIgnoreFile,
		workers:     runtime.NumCPU(),
		topK:        5,
		format:      "table",
		blockPolicy: languages.BlockPolicyMask.String(),
	}

	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "扫描目录或文件并输出代码行统计",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], options)
		},
	}

	flags := scanCmd.Flags()
	flags.StringSliceVarP(&options.extensions, "ext", "e", nil, "只统计指定后缀，可重复或以逗号分隔，如 -e go,py")
	flags.BoolVarP(&options.useGitignore, "use-gitignore", "g", false, "排除忽略文件中列出的文件")
	flags.StringVar(&options.ignoreFile, "ignore-file", options.ignoreFile, "忽略文件名，相对扫描根目录")
	flags.BoolVarP(&options.insights, "insights", "i", false, "输出按后缀的统计与注释率排行（需要 --ext）")
	flags.BoolVarP(&options.parallel, "parallel", "p", false, "按分片并发扫描")
	flags.IntVar(&options.workers, "workers", options.workers, "并发 worker 数量")
	flags.IntVar(&options.topK, "top", options.topK, "每个后缀保留的注释率排行长度")
	flags.StringVar(&options.format, "format", options.format, "输出格式: table 或 json")
	flags.StringVar(&options.output, "output", "", "json 导出文件路径")
	flags.BoolVar(&options.files, "files", false, "输出文件级明细")
	flags.StringVar(&options.blockPolicy, "block-policy", options.blockPolicy, "块注释同行代码的处理: mask 或 line")
	flags.StringVar(&options.configPath, "config", "", "配置文件路径，默认读取扫描根目录下的 "+config.DefaultFileName)
	flags.BoolVarP(&options.verbose, "verbose", "v", false, "输出调试日志")

	return scanCmd
}

// runScan 完成参数校验、配置合并、扫描与输出。
// 配置冲突与非法参数都在扫描开始前返回。
func runScan(cmd *cobra.Command, target string, options scanOptions) error {
	cfg, err := loadScanConfig(options.configPath, target)
	if err != nil {
		return err
	}
	options.applyConfig(cmd.Flags().Changed, cfg)

	format := strings.ToLower(strings.TrimSpace(options.format))
	if format != "table" && format != "json" {
		return errors.New("unsupported format, allowed values: table, json")
	}
	if strings.TrimSpace(options.output) != "" && format != "json" {
		return errOutputNeedsJSON
	}
	if options.insights && len(options.extensions) == 0 {
		return errInsightsNeedExtensions
	}
	if options.workers <= 0 {
		return errors.New("workers must be greater than 0")
	}
	if options.topK < 0 {
		return errors.New("top must not be negative")
	}

	policy, err := languages.ParseBlockPolicy(options.blockPolicy)
	if err != nil {
		return err
	}

	registry, err := languages.NewRegistry(cfg.Syntax)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), options.verbose)
	service := scanner.NewService(registry, scanner.Options{
		Extensions:  options.extensions,
		UseIgnore:   options.useGitignore,
		IgnoreFile:  options.ignoreFile,
		Parallel:    options.parallel,
		Workers:     options.workers,
		TopK:        options.topK,
		KeepFiles:   options.files,
		BlockPolicy: policy,
	}, logger)

	result, err := service.ScanPath(target)
	if err != nil {
		return err
	}

	switch format {
	case "table":
		return report.PrintTable(cmd.OutOrStdout(), result, report.Options{
			Insights: options.insights,
			Files:    options.files,
		})
	default:
		if err := report.PrintJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}

		outputPath := strings.TrimSpace(options.output)
		if outputPath == "" {
			return nil
		}
		if err := report.WriteJSONFile(outputPath, result); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "JSON exported to %s\n", outputPath)
		return nil
	}
}

// applyConfig 用配置文件补齐命令行未显式设置的参数。
func (o *scanOptions) applyConfig(changed func(string) bool, cfg config.FileConfig) {
	if !changed("ext") && len(cfg.Extensions) > 0 {
		o.extensions = append([]string(nil), cfg.Extensions...)
	}
	if !changed("use-gitignore") && cfg.UseGitignore != nil {
		o.useGitignore = *cfg.UseGitignore
	}
	if !changed("ignore-file") && cfg.IgnoreFile != nil {
		o.ignoreFile = *cfg.IgnoreFile
	}
	if !changed("parallel") && cfg.Parallel != nil {
		o.parallel = *cfg.Parallel
	}
	if !changed("workers") && cfg.Workers != nil {
		o.workers = *cfg.Workers
	}
	if !changed("top") && cfg.TopK != nil {
		o.topK = *cfg.TopK
	}
	if !changed("block-policy") && cfg.BlockPolicy != nil {
		o.blockPolicy = *cfg.BlockPolicy
	}
}

// loadScanConfig 读取显式指定的配置文件，或扫描根目录下的默认配置文件。
func loadScanConfig(explicitPath string, target string) (config.FileConfig, error) {
	if explicitPath != "" {
		return loadExplicitConfig(explicitPath)
	}

	root := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		root = filepath.Dir(target)
	}
	return config.LoadConfig(filepath.Join(root, config.DefaultFileName))
}

// newLogger 创建写入 stderr 的文本日志，默认只输出告警及以上级别。
func newLogger(writer io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
