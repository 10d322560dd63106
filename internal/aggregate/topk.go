package aggregate

import (
	"container/heap"
	"sort"

	"goloc/internal/model"
)

// ratioHeap 是按注释率排序的小根堆，堆顶为当前最低注释率。
type ratioHeap []model.RatioEntry

func (h ratioHeap) Len() int           { return len(h) }
func (h ratioHeap) Less(i, j int) bool { return h[i].Ratio < h[j].Ratio }
func (h ratioHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *ratioHeap) Push(x any) {
	*h = append(*h, x.(model.RatioEntry))
}

func (h *ratioHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// topK 保留注释率最高的至多 limit 个条目，内存占用与文件数量无关。
type topK struct {
	limit int
	items ratioHeap
}

func newTopK(limit int) *topK {
	if limit < 0 {
		limit = 0
	}
	return &topK{limit: limit}
}

// offer 尝试加入一个条目。
// 已满时只有严格高于堆顶的条目才会挤掉堆顶，注释率相同时保留先到的条目。
func (t *topK) offer(entry model.RatioEntry) {
	if t.limit == 0 {
		return
	}
	if len(t.items) < t.limit {
		heap.Push(&t.items, entry)
		return
	}
	if entry.Ratio > t.items[0].Ratio {
		t.items[0] = entry
		heap.Fix(&t.items, 0)
	}
}

// merge 按对方的排行顺序把全部条目重新提交一遍，平局结果与堆内布局无关。
func (t *topK) merge(other *topK) {
	if other == nil {
		return
	}
	for _, entry := range other.sorted() {
		t.offer(entry)
	}
}

// sorted 返回按注释率降序的副本，注释率相同按路径升序。
func (t *topK) sorted() []model.RatioEntry {
	if len(t.items) == 0 {
		return nil
	}
	result := append([]model.RatioEntry(nil), t.items...)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Ratio != result[j].Ratio {
			return result[i].Ratio > result[j].Ratio
		}
		return result[i].Path < result[j].Path
	})
	return result
}
