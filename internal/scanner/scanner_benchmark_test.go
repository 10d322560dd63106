package scanner

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// prepareBenchmarkFile 创建一个用于单文件扫描基准测试的 Go 文件。
func prepareBenchmarkFile(b *testing.B) string {
	b.Helper()

	tempDir := b.TempDir()
	filePath := filepath.Join(tempDir, "large.go")

	lines := make([]string, 0, 6000)
	lines = append(lines, "package main", "")
	for i := 0; i < 2000; i++ {
		lines = append(lines, "var value"+strconv.Itoa(i)+" = 1 // inline comment")
		lines = append(lines, "/* block comment */")
		lines = append(lines, "func f"+strconv.Itoa(i)+"() { _ = value"+strconv.Itoa(i)+" }")
	}

	if err := os.WriteFile(filePath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		b.Fatalf("write benchmark fixture failed: %v", err)
	}
	return filePath
}

// prepareBenchmarkDirectory 创建目录扫描基准测试数据。
func prepareBenchmarkDirectory(b *testing.B) string {
	b.Helper()

	tempDir := b.TempDir()
	for i := 0; i < 200; i++ {
		writeFixtureFile(b, filepath.Join(tempDir, "pkg", "g"+strconv.Itoa(i)+".go"), "package p\nvar x = 1 // c")
		writeFixtureFile(b, filepath.Join(tempDir, "web", "j"+strconv.Itoa(i)+".js"), "const x = 1; // c")
	}
	return tempDir
}

// BenchmarkScanSingleFile 衡量单文件扫描性能。
func BenchmarkScanSingleFile(b *testing.B) {
	filePath := prepareBenchmarkFile(b)
	service := newTestService(b, Options{Workers: 1})

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := service.ScanPath(filePath); err != nil {
			b.Fatalf("scan failed: %v", err)
		}
	}
}

// BenchmarkScanDirectorySequential 衡量目录顺序扫描性能。
func BenchmarkScanDirectorySequential(b *testing.B) {
	dirPath := prepareBenchmarkDirectory(b)
	service := newTestService(b, Options{TopK: 5})

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := service.ScanPath(dirPath); err != nil {
			b.Fatalf("scan failed: %v", err)
		}
	}
}

// BenchmarkScanDirectoryParallel 衡量目录分片并发扫描性能。
func BenchmarkScanDirectoryParallel(b *testing.B) {
	dirPath := prepareBenchmarkDirectory(b)
	service := newTestService(b, Options{TopK: 5, Parallel: true, Workers: 8})

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := service.ScanPath(dirPath); err != nil {
			b.Fatalf("scan failed: %v", err)
		}
	}
}
