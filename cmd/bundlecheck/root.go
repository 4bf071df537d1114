package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(cc *commandContext) *cobra.Command {
	root := &cobra.Command{
		Use:           "bundlecheck",
		Short:         "对照 Steam 库检查捆绑包里哪些游戏已经拥有",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cc.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&cc.configFlag, "config", "c", "", "配置文件路径（默认 ./bundlecheck.toml 或 XDG 配置目录）")
	root.PersistentFlags().BoolVarP(&cc.verbose, "verbose", "v", false, "输出调试日志（每个标题的判定过程）")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err: err}
	})

	root.AddCommand(newCheckCommand(cc))
	root.AddCommand(newRefreshCommand(cc))
	root.AddCommand(newStatusCommand(cc))
	root.AddCommand(newSetupCommand(cc))
	return root
}

// exactArgs 与 cobra.ExactArgs 相同，但把错误标记为用法错误（退出码 2）。
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}
