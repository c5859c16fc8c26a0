// Package cmd 提供 parcluster CLI 的命令实现
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	// Version 是当前版本号
	Version = "0.1.0"
)

var (
	// 全局配置
	debug bool
	quiet bool
)

// rootCmd 是根命令
var rootCmd = &cobra.Command{
	Use:   "parcluster",
	Short: "单机多 worker 并行执行与基准对比工具",
	Long: `parcluster 在单机上把一个纯函数分发到多个隔离的 worker 执行，
支持静态分块与动态队列两种调度方式，并对不同执行策略做计时对比。`,
	Version: Version,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// 全局 flags
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "启用调试日志")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "静默模式")

	// 禁用默认的 completion 命令
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetRootCmd 返回根命令（用于测试）
func GetRootCmd() *cobra.Command {
	return rootCmd
}
