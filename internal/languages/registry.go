// Package languages 提供注释语法表与行分类器。
// 语法表在进程启动时加载一次，之后只读，并以指针形式显式传给每个 worker。
package languages

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed comments.toml
var bundledSyntaxTable []byte

// BlockMarkers 描述块注释的起止标记。
type BlockMarkers struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// SyntaxEntry 是语法表中一项的原始形态。
// single_line 允许字符串或字符串数组，因此用 any 承接后再归一化。
// 用户配置文件中的覆盖项复用同一结构。
type SyntaxEntry struct {
	SingleLine any           `toml:"single_line"`
	MultiLine  *BlockMarkers `toml:"multi_line"`
}

// CommentSyntax 是归一化后的注释语法描述，加载后不可变。
type CommentSyntax struct {
	Extension  string
	SingleLine []string
	MultiLine  *BlockMarkers
}

// HasBlock 判断块注释是否可用（起止标记都非空）。
func (s CommentSyntax) HasBlock() bool {
	return s.MultiLine != nil && s.MultiLine.Start != "" && s.MultiLine.End != ""
}

// LanguageDescriptor 用于对外展示后缀及其注释标记。
type LanguageDescriptor struct {
	Extension  string
	SingleLine []string
	Block      string
}

// Registry 管理后缀到注释语法的映射。
type Registry struct {
	syntaxByExt map[string]CommentSyntax
}

// NewRegistry 加载内置语法表，并叠加调用方给出的覆盖项。
// 覆盖项的键与内置表一致（可带点号），同名后缀整体替换。
func NewRegistry(overrides map[string]SyntaxEntry) (*Registry, error) {
	entries, err := parseSyntaxTable(bundledSyntaxTable)
	if err != nil {
		return nil, fmt.Errorf("load bundled syntax table: %w", err)
	}

	registry := &Registry{
		syntaxByExt: make(map[string]CommentSyntax, len(entries)+len(overrides)),
	}
	if err := registry.register(entries); err != nil {
		return nil, err
	}
	if err := registry.register(overrides); err != nil {
		return nil, fmt.Errorf("apply syntax overrides: %w", err)
	}

	return registry, nil
}

// parseSyntaxTable 解析 TOML 形式的语法表。
func parseSyntaxTable(data []byte) (map[string]SyntaxEntry, error) {
	entries := make(map[string]SyntaxEntry)
	if err := toml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Registry) register(entries map[string]SyntaxEntry) error {
	for key, entry := range entries {
		ext := NormalizeExtension(key)
		if ext == "" {
			return fmt.Errorf("empty extension key %q", key)
		}

		markers, err := toMarkers(entry.SingleLine)
		if err != nil {
			return fmt.Errorf("extension %q: %w", key, err)
		}

		syntax := CommentSyntax{
			Extension:  ext,
			SingleLine: markers,
		}
		if entry.MultiLine != nil && entry.MultiLine.Start != "" && entry.MultiLine.End != "" {
			block := *entry.MultiLine
			syntax.MultiLine = &block
		}

		r.syntaxByExt[ext] = syntax
	}
	return nil
}

// toMarkers 把 single_line 的原始值归一化为标记列表，空标记会被丢弃。
func toMarkers(value any) ([]string, error) {
	var raw []string

	switch typed := value.(type) {
	case nil:
		return nil, nil
	case string:
		raw = []string{typed}
	case []string:
		raw = typed
	case []any:
		for _, item := range typed {
			marker, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("single_line item must be a string, got %T", item)
			}
			raw = append(raw, marker)
		}
	default:
		return nil, fmt.Errorf("single_line must be a string or an array of strings, got %T", value)
	}

	markers := make([]string, 0, len(raw))
	for _, marker := range raw {
		if marker != "" {
			markers = append(markers, marker)
		}
	}
	return markers, nil
}

// Lookup 根据后缀查找注释语法，后缀可带点号，大小写不敏感。
func (r *Registry) Lookup(ext string) (CommentSyntax, bool) {
	syntax, ok := r.syntaxByExt[NormalizeExtension(ext)]
	return syntax, ok
}

// SyntaxForFile 根据文件路径的后缀查找注释语法。
func (r *Registry) SyntaxForFile(path string) (CommentSyntax, bool) {
	return r.Lookup(filepath.Ext(path))
}

// Classifier 为指定后缀构造行分类器。
func (r *Registry) Classifier(ext string, policy BlockPolicy) (*Classifier, bool) {
	syntax, ok := r.Lookup(ext)
	if !ok {
		return nil, false
	}
	return NewClassifier(syntax, policy), true
}

// Extensions 返回已注册后缀（不带点号，已排序）。
func (r *Registry) Extensions() []string {
	result := make([]string, 0, len(r.syntaxByExt))
	for ext := range r.syntaxByExt {
		result = append(result, ext)
	}
	sort.Strings(result)
	return result
}

// Languages 返回已注册语法清单，供 language 子命令展示。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.syntaxByExt))
	for _, ext := range r.Extensions() {
		syntax := r.syntaxByExt[ext]
		item := LanguageDescriptor{
			Extension:  ext,
			SingleLine: append([]string(nil), syntax.SingleLine...),
		}
		if syntax.HasBlock() {
			item.Block = syntax.MultiLine.Start + " " + syntax.MultiLine.End
		}
		result = append(result, item)
	}
	return result
}

// ExtensionOf 返回路径的归一化后缀。
func ExtensionOf(path string) string {
	return NormalizeExtension(filepath.Ext(path))
}

// NormalizeExtension 去掉首部点号并转小写。
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimPrefix(ext, ".")
	return strings.ToLower(ext)
}
