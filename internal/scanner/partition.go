package scanner

// Partition 把文件列表按块切分为至多 n 个非空分片，保持原有顺序。
// 各分片大小最多相差 1；文件数少于 n 时分片数等于文件数，避免出现空分片。
func Partition(files []string, n int) [][]string {
	if len(files) == 0 || n <= 0 {
		return nil
	}
	if n > len(files) {
		n = len(files)
	}

	base, extra := len(files)/n, len(files)%n
	chunks := make([][]string, 0, n)
	offset := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		// 使用完整切片表达式，防止分片 append 时覆盖相邻分片。
		chunks = append(chunks, files[offset:offset+size:offset+size])
		offset += size
	}
	return chunks
}
