// Package cmd 提供 goloc 的命令行入口与子命令编排。
package cmd

import (
	"github.com/spf13/cobra"
)

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	rootCmd := newRootCmd(version)
	return rootCmd.Execute()
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "goloc",
		Short: "按后缀统计代码行与注释行",
		Long: "goloc 按文件后缀统计代码行（LOC）与纯注释行（CLOC），\n" +
			"支持后缀过滤、忽略文件排除、分片并发扫描以及注释率排行。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd())
	rootCmd.AddCommand(newScanCmd())

	return rootCmd
}
