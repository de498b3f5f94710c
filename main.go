// platformer 服务端权威的多人平台跳跃游戏服务
//
// 用法：
//
//	platformer serve          - 启动游戏服务
//	platformer schema         - 输出 WebSocket 协议的 JSON Schema
//	platformer level          - 校验并概述关卡文件
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagEnvFile string
	flagLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "platformer",
	Short:         "Server-authoritative 2D platformer",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default configs/platformer.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file with PLATFORMER_* overrides")
	rootCmd.PersistentFlags().StringVar(&flagLevel, "level", "", "Level file (default: built-in level)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(levelCmd)
}
