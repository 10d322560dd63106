package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"goloc/internal/config"
	"goloc/internal/languages"

	"github.com/spf13/cobra"
)

// newLanguageCmd 创建 language 子命令。
// 命令用于展示当前语法表中的后缀以及对应注释标记。
func newLanguageCmd() *cobra.Command {
	var configPath string

	languageCmd := &cobra.Command{
		Use:   "language",
		Short: "展示注释语法表",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var overrides map[string]languages.SyntaxEntry
			if configPath != "" {
				cfg, err := loadExplicitConfig(configPath)
				if err != nil {
					return err
				}
				overrides = cfg.Syntax
			}

			registry, err := languages.NewRegistry(overrides)
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "EXTENSION\tSINGLE LINE\tMULTI LINE"); err != nil {
				return err
			}

			for _, item := range registry.Languages() {
				single := strings.Join(item.SingleLine, " ")
				if single == "" {
					single = "-"
				}
				block := item.Block
				if block == "" {
					block = "-"
				}
				if _, err := fmt.Fprintf(writer, ".%s\t%s\t%s\n", item.Extension, single, block); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}

	languageCmd.Flags().StringVar(&configPath, "config", "", "配置文件路径（用于叠加自定义语法）")

	return languageCmd
}

// loadExplicitConfig 读取用户显式指定的配置文件，文件必须存在。
func loadExplicitConfig(path string) (config.FileConfig, error) {
	if !fileExists(path) {
		return config.FileConfig{}, fmt.Errorf("config file not found: %s", path)
	}
	return config.LoadConfig(path)
}
