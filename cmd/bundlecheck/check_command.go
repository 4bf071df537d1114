package main

import (
	"github.com/spf13/cobra"

	"github.com/John-Robertt/bundlecheck/internal/app/check"
	"github.com/John-Robertt/bundlecheck/internal/catalog"
	"github.com/John-Robertt/bundlecheck/internal/library"
	"github.com/John-Robertt/bundlecheck/internal/logging"
)

func newCheckCommand(cc *commandContext) *cobra.Command {
	var (
		asJSON      bool
		refresh     bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "check <url|file>",
		Short: "检查捆绑包页面（URL 或保存的 HTML 文件）中每个游戏的拥有状态",
		Example: `  bundlecheck check https://www.humblebundle.com/games/some-bundle
  bundlecheck check ./bundle.html --json > report.json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cc.requireConfigured(); err != nil {
				return err
			}
			ctx := cmd.Context()

			page, err := catalog.Load(ctx, args[0], cc.http)
			if err != nil {
				return err
			}

			ld := cc.loader()
			var snap library.Snapshot
			if refresh {
				snap, err = ld.Refresh(ctx)
			} else {
				snap, err = ld.Load(ctx)
			}
			if err != nil {
				return notConfigured(err, cc.eff.Path)
			}

			var obs check.Observer
			if !asJSON && logging.IsTerminal(cc.stderr) {
				obs = newProgressUI(cc.stderr)
			}

			rr, err := check.Execute(ctx, check.Input{
				Source:      page.URL,
				Entries:     page.Entries,
				Snapshot:    snap,
				Matcher:     cc.matcher(),
				Concurrency: cc.eff.Concurrency,
			}, obs)
			if err != nil {
				return err
			}
			return emitReport(cc.stdout, cc.stderr, rr, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "stdout 只输出 JSON 报告（非终端时默认如此）")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "忽略缓存，重新同步 Steam 库")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "并发判定的 worker 数（1-32，默认读配置）")
	return cmd
}
