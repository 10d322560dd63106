// Package config 提供 goloc 配置文件（.goloc.toml）的读取。
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"goloc/internal/languages"
)

// DefaultFileName 是扫描根目录下默认查找的配置文件名。
const DefaultFileName = ".goloc.toml"

// FileConfig 对应配置文件内容。
// 指针字段用于区分“未配置”和“配置为零值”，命令行显式传参优先于配置文件。
type FileConfig struct {
	Workers      *int                             `toml:"workers"`
	TopK         *int                             `toml:"top_k"`
	Parallel     *bool                            `toml:"parallel"`
	UseGitignore *bool                            `toml:"use_gitignore"`
	IgnoreFile   *string                          `toml:"ignore_file"`
	Extensions   []string                         `toml:"extensions"`
	BlockPolicy  *string                          `toml:"block_policy"`
	Syntax       map[string]languages.SyntaxEntry `toml:"syntax"`
}

// LoadConfig 读取指定路径的配置文件。文件不存在不视为错误。
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, errors.New("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}

	var cfg FileConfig
	metadata, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("decode config: unknown key %q", undecoded[0].String())
	}

	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// validate 检查数值与枚举类配置项。
func (c FileConfig) validate() error {
	if c.Workers != nil && *c.Workers <= 0 {
		return fmt.Errorf("config: workers must be greater than 0, got %d", *c.Workers)
	}
	if c.TopK != nil && *c.TopK < 0 {
		return fmt.Errorf("config: top_k must not be negative, got %d", *c.TopK)
	}
	if c.BlockPolicy != nil {
		if _, err := languages.ParseBlockPolicy(*c.BlockPolicy); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
