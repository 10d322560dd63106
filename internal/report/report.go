// Package report 提供 goloc 的输出能力。
// 当前实现支持 table 控制台格式和 JSON 格式（含文件导出）。
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"goloc/internal/model"
)

// Options 控制表格输出包含哪些部分。
type Options struct {
	// Insights 输出按后缀的 LOC 表以及注释率排行。
	Insights bool
	// Files 输出文件级明细（需要扫描时保留文件结果）。
	Files bool
}

// ratingColors 为四档评价分配终端颜色。
var ratingColors = map[model.Rating]lipgloss.Color{
	model.RatingPoor:       lipgloss.Color("9"),
	model.RatingReasonable: lipgloss.Color("11"),
	model.RatingWell:       lipgloss.Color("10"),
	model.RatingVerbose:    lipgloss.Color("13"),
}

// styles 绑定到具体 writer 的渲染器，非终端输出时不会带 ANSI 转义。
type styles struct {
	renderer *lipgloss.Renderer
	heading  lipgloss.Style
}

func newStyles(writer io.Writer) styles {
	renderer := lipgloss.NewRenderer(writer)
	return styles{
		renderer: renderer,
		heading:  renderer.NewStyle().Bold(true),
	}
}

func (s styles) rating(ratio float64) string {
	rating := model.RateRatio(ratio)
	return s.renderer.NewStyle().Foreground(ratingColors[rating]).Render(rating.String())
}

// PrintTable 使用表格展示扫描结果。
func PrintTable(writer io.Writer, result model.ScanResult, options Options) error {
	st := newStyles(writer)
	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)

	if err := printSummary(tw, st, result); err != nil {
		return err
	}

	if options.Insights {
		if err := printExtensions(tw, st, result.Extensions); err != nil {
			return err
		}
		if err := printTopRatios(tw, st, result.Extensions); err != nil {
			return err
		}
	}

	if options.Files && len(result.Files) > 0 {
		if err := printFiles(tw, st, result.Files); err != nil {
			return err
		}
	}

	if len(result.Errors) > 0 {
		if _, err := fmt.Fprintf(tw, "\n%s\n", st.heading.Render("--- ERRORS ---")); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(tw, "FILE\tMESSAGE"); err != nil {
			return err
		}
		for _, item := range result.Errors {
			if _, err := fmt.Fprintf(tw, "%s\t%s\n", item.Path, item.Error); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}

func printSummary(tw io.Writer, st styles, result model.ScanResult) error {
	ratio := result.Total.Ratio()
	mode := result.Mode
	if result.Mode == model.ModeParallel {
		mode = fmt.Sprintf("%s (%d workers)", result.Mode, result.Workers)
	}

	rows := [][2]string{
		{"SCANNED PATH", result.ScannedPath},
		{"MODE", mode},
		{"DURATION", fmt.Sprintf("%.2f s", result.Elapsed.Seconds())},
		{"FILES", humanize.Comma(result.Total.Files)},
		{"SKIPPED", humanize.Comma(result.Skipped)},
		{"LINES OF CODE", humanize.Comma(result.Total.Code)},
		{"COMMENT LINES", humanize.Comma(result.Total.Comment)},
		{"COMMENT RATIO", fmt.Sprintf("%.2f%%\t%s", ratio, st.rating(ratio))},
	}

	if _, err := fmt.Fprintln(tw, st.heading.Render("----- GOLOC SUMMARY -----")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}

// printExtensions 按 LOC 降序输出每个后缀的汇总与最长文件。
func printExtensions(tw io.Writer, st styles, extensions []model.ExtensionMetrics) error {
	ordered := append([]model.ExtensionMetrics(nil), extensions...)
	sort.SliceStable(ordered, func(i int, j int) bool {
		if ordered[i].Metrics.Code != ordered[j].Metrics.Code {
			return ordered[i].Metrics.Code > ordered[j].Metrics.Code
		}
		return ordered[i].Extension < ordered[j].Extension
	})

	if _, err := fmt.Fprintf(tw, "\n%s\n", st.heading.Render("--- LOC PER EXTENSION ---")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(tw, "EXTENSION\tFILES\tCODE\tCOMMENT\tRATIO\tLONGEST FILE"); err != nil {
		return err
	}
	for _, item := range ordered {
		longest := "-"
		if item.Longest != nil && item.Metrics.Code > 0 {
			longest = fmt.Sprintf("%s (%s LOC)", item.Longest.Path, humanize.Comma(item.Longest.Code))
		}
		if _, err := fmt.Fprintf(
			tw,
			".%s\t%s\t%s\t%s\t%.2f%%\t%s\n",
			item.Extension,
			humanize.Comma(item.Files),
			humanize.Comma(item.Metrics.Code),
			humanize.Comma(item.Metrics.Comment),
			item.Metrics.Ratio(),
			longest,
		); err != nil {
			return err
		}
	}
	return nil
}

// printTopRatios 输出每个后缀注释率最高的文件。
func printTopRatios(tw io.Writer, st styles, extensions []model.ExtensionMetrics) error {
	if _, err := fmt.Fprintf(tw, "\n%s\n", st.heading.Render("--- TOP COMMENT RATIO ---")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(tw, "EXTENSION\tRANK\tFILE\tCOMMENT\tRATIO\tRATING"); err != nil {
		return err
	}
	for _, item := range extensions {
		for rank, entry := range item.TopRatios {
			if _, err := fmt.Fprintf(
				tw,
				".%s\t%d\t%s\t%s\t%.2f%%\t%s\n",
				item.Extension,
				rank+1,
				entry.Path,
				humanize.Comma(entry.Comment),
				entry.Ratio,
				st.rating(entry.Ratio),
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func printFiles(tw io.Writer, st styles, files []model.FileMetrics) error {
	if _, err := fmt.Fprintf(tw, "\n%s\n", st.heading.Render("--- FILES ---")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(tw, "FILE\tEXTENSION\tTOTAL\tCODE\tCOMMENT\tBLANK\tBLOCK"); err != nil {
		return err
	}
	for _, item := range files {
		if _, err := fmt.Fprintf(
			tw,
			"%s\t.%s\t%d\t%d\t%d\t%d\t%d\n",
			item.Path,
			item.Extension,
			item.Metrics.Total,
			item.Metrics.Code,
			item.Metrics.Comment,
			item.Metrics.Blank,
			item.Metrics.Block,
		); err != nil {
			return err
		}
	}
	return nil
}

// PrintJSON 把扫描结果按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, result model.ScanResult) error {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := writer.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteJSONFile 将 JSON 结果导出到指定路径。
// 如果目录不存在会自动创建。
func WriteJSONFile(path string, result model.ScanResult) error {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, content, 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}
