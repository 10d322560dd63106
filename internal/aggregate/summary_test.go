package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goloc/internal/model"
)

// fileResult 是测试辅助函数，快速构造单文件结果。
func fileResult(path, ext string, code, comment int64) model.FileMetrics {
	return model.FileMetrics{
		Path:      path,
		Extension: ext,
		Metrics: model.LineMetrics{
			Total:   code + comment,
			Code:    code,
			Comment: comment,
		},
	}
}

// sampleFiles 生成一组跨多个后缀、长度与注释率各异的文件结果。
func sampleFiles() []model.FileMetrics {
	files := make([]model.FileMetrics, 0, 30)
	for i := 0; i < 30; i++ {
		ext := []string{"go", "py", "js"}[i%3]
		files = append(files, fileResult(fmt.Sprintf("f%02d.%s", i, ext), ext, int64(10+i*7%23), int64(i%5)))
	}
	return files
}

func summarize(files []model.FileMetrics) *Summary {
	summary := NewSummary(3)
	for _, file := range files {
		summary.Add(file)
	}
	return summary
}

// TestAddAccumulatesTotals 验证 merge_into 的总数与文件数累加。
func TestAddAccumulatesTotals(t *testing.T) {
	summary := NewSummary(5)
	summary.Add(fileResult("a.py", "py", 10, 2))
	summary.Add(fileResult("b.py", "py", 4, 1))
	summary.Add(fileResult("c.go", "go", 7, 0))

	py := summary.Extension("py")
	require.NotNil(t, py)
	assert.Equal(t, int64(2), py.Files)
	assert.Equal(t, int64(14), py.Metrics.Code)
	assert.Equal(t, int64(3), py.Metrics.Comment)

	total := summary.Total()
	assert.Equal(t, int64(3), total.Files)
	assert.Equal(t, int64(21), total.Code)
	assert.Equal(t, int64(3), total.Comment)
	assert.Nil(t, summary.Extension("rs"))
}

// TestLongestFileKeepsFirstOnTie 验证最长文件严格大于才替换。
func TestLongestFileKeepsFirstOnTie(t *testing.T) {
	summary := NewSummary(0)
	summary.Add(fileResult("first.go", "go", 20, 0))
	summary.Add(fileResult("second.go", "go", 20, 0))
	summary.Add(fileResult("short.go", "go", 3, 0))

	assert.Equal(t, &model.FileLOC{Path: "first.go", Code: 20}, summary.Extension("go").Longest)

	summary.Add(fileResult("third.go", "go", 21, 0))
	assert.Equal(t, "third.go", summary.Extension("go").Longest.Path)
}

// TestTopRatiosBounded 验证排行长度受限，且淘汰最低注释率。
func TestTopRatiosBounded(t *testing.T) {
	summary := NewSummary(2)
	summary.Add(fileResult("low.py", "py", 100, 1))
	summary.Add(fileResult("high.py", "py", 10, 5))
	summary.Add(fileResult("mid.py", "py", 10, 2))
	summary.Add(fileResult("empty.py", "py", 0, 3))

	top := summary.Extension("py").TopRatios()
	require.Len(t, top, 2)
	assert.Equal(t, "high.py", top[0].Path)
	assert.InDelta(t, 50.0, top[0].Ratio, 1e-9)
	assert.Equal(t, "mid.py", top[1].Path)
	assert.Equal(t, int64(2), top[1].Comment)
}

// TestTopRatiosTieKeepsEarlier 验证注释率相同时不挤掉已有条目。
func TestTopRatiosTieKeepsEarlier(t *testing.T) {
	summary := NewSummary(1)
	summary.Add(fileResult("b.go", "go", 10, 1))
	summary.Add(fileResult("a.go", "go", 20, 2))

	top := summary.Extension("go").TopRatios()
	require.Len(t, top, 1)
	assert.Equal(t, "b.go", top[0].Path)
}

// TestTopRatiosDisabled 验证 K 为 0 时不收集排行。
func TestTopRatiosDisabled(t *testing.T) {
	summary := NewSummary(0)
	summary.Add(fileResult("a.go", "go", 10, 5))

	assert.Empty(t, summary.Extension("go").TopRatios())
	result := summary.Result("/tmp", 0)
	assert.Nil(t, result.Extensions[0].TopRatios)
}

// TestMergeAssociative 验证 (A+B)+C 与 A+(B+C) 的总数一致。
func TestMergeAssociative(t *testing.T) {
	files := sampleFiles()
	a := func() *Summary { return summarize(files[:7]) }
	b := func() *Summary { return summarize(files[7:19]) }
	c := func() *Summary { return summarize(files[19:]) }

	left := a()
	left.Merge(b())
	left.Merge(c())

	right := b()
	right.Merge(c())
	combined := a()
	combined.Merge(right)

	leftResult := left.Result("", 0)
	rightResult := combined.Result("", 0)
	assert.Equal(t, leftResult.Total, rightResult.Total)
	require.Len(t, rightResult.Extensions, len(leftResult.Extensions))
	for i := range leftResult.Extensions {
		assert.Equal(t, leftResult.Extensions[i].Metrics, rightResult.Extensions[i].Metrics)
		assert.Equal(t, leftResult.Extensions[i].Files, rightResult.Extensions[i].Files)
		assert.Equal(t, leftResult.Extensions[i].Longest.Code, rightResult.Extensions[i].Longest.Code)
		assert.Equal(t, leftResult.Extensions[i].TopRatios, rightResult.Extensions[i].TopRatios)
	}
}

// TestPartitionInvariance 验证任意分片方式归并后与顺序统计一致。
func TestPartitionInvariance(t *testing.T) {
	files := sampleFiles()
	sequential := summarize(files).Result("", 0)

	for chunks := 1; chunks <= len(files); chunks++ {
		parts := make([]*Summary, 0, chunks)
		for i := 0; i < chunks; i++ {
			part := NewSummary(3)
			for j := i; j < len(files); j += chunks {
				part.Add(files[j])
			}
			parts = append(parts, part)
		}

		merged := MergeSummaries(3, parts).Result("", 0)
		assert.Equal(t, sequential.Total, merged.Total, "chunks=%d", chunks)
		for i := range sequential.Extensions {
			assert.Equal(t, sequential.Extensions[i].Metrics, merged.Extensions[i].Metrics, "chunks=%d", chunks)
			assert.Equal(t, sequential.Extensions[i].Longest.Code, merged.Extensions[i].Longest.Code, "chunks=%d", chunks)
		}
	}
}

// TestMergeLongestPrefersEarlierPart 验证归并时平局保留先合并的分片。
func TestMergeLongestPrefersEarlierPart(t *testing.T) {
	first := NewSummary(0)
	first.Add(fileResult("one.go", "go", 9, 0))
	second := NewSummary(0)
	second.Add(fileResult("two.go", "go", 9, 0))

	merged := MergeSummaries(0, []*Summary{first, second})
	assert.Equal(t, "one.go", merged.Extension("go").Longest.Path)

	merged = MergeSummaries(0, []*Summary{second, first})
	assert.Equal(t, "two.go", merged.Extension("go").Longest.Path)
}

// TestMergeCarriesErrorsAndFiles 验证错误、跳过数与文件明细随归并传递。
func TestMergeCarriesErrorsAndFiles(t *testing.T) {
	first := NewSummary(2, WithFiles())
	first.Add(fileResult("z.go", "go", 1, 0))
	first.AddError(model.ScanError{Path: "y.go", Error: "denied"})
	first.AddSkipped()

	second := NewSummary(2, WithFiles())
	second.Add(fileResult("a.py", "py", 2, 1))
	second.AddError(model.ScanError{Path: "b.go", Error: "bad encoding"})

	merged := MergeSummaries(2, []*Summary{first, second}, WithFiles())
	result := merged.Result("/repo", 0)

	assert.Equal(t, "/repo", result.ScannedPath)
	assert.Equal(t, int64(1), result.Skipped)
	require.Len(t, result.Files, 2)
	assert.Equal(t, "a.py", result.Files[0].Path)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "b.go", result.Errors[0].Path)
	require.Len(t, result.Extensions, 2)
	assert.Equal(t, "go", result.Extensions[0].Extension)
	assert.Equal(t, "py", result.Extensions[1].Extension)
}

// TestResultWithoutFiles 验证默认不保留文件明细。
func TestResultWithoutFiles(t *testing.T) {
	summary := NewSummary(1)
	summary.Add(fileResult("a.go", "go", 1, 0))

	result := summary.Result("", 0)
	assert.Nil(t, result.Files)
	assert.NotNil(t, result.Errors)
}
