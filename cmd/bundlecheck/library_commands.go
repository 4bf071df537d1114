package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/bundlecheck/internal/config"
	"github.com/John-Robertt/bundlecheck/internal/library"
)

func newRefreshCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "丢弃缓存并重新同步 Steam 库",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cc.requireConfigured(); err != nil {
				return err
			}
			snap, err := cc.loader().Refresh(cmd.Context())
			if err != nil {
				return notConfigured(err, cc.eff.Path)
			}
			printSynced(cc, snap)
			return nil
		},
	}
}

func newStatusCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "查看配置与本地缓存状态（不访问网络）",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := cc.store(true)
			st := cc.loaderWith(store).Status()
			fmt.Fprintln(cc.stdout, renderStatus(cc.eff, st, store.LibraryPath(), time.Now()))
			return nil
		},
	}
}

func renderStatus(eff config.EffectiveConfig, st library.Status, cachePath string, now time.Time) string {
	cfgPath := eff.Path
	if !eff.Exists {
		cfgPath += "（不存在，使用默认值）"
	}

	creds := "未配置（运行 bundlecheck setup）"
	if st.Configured {
		creds = "已配置（Steam ID " + eff.SteamID + "）"
	}

	snapshot := "无"
	synced := syncedAgo(time.Time{}, now)
	if st.Cached {
		state := "已过期"
		if st.Fresh {
			state = "有效"
		}
		snapshot = fmt.Sprintf("已拥有 %s，愿望单 %s（%s，TTL %s）",
			humanize.Comma(int64(st.Owned)), humanize.Comma(int64(st.Wishlisted)), state, eff.CacheTTL)
		synced = syncedAgo(st.FetchedAt, now)
	}

	rows := [][]string{
		{"配置文件", cfgPath},
		{"凭据", creds},
		{"缓存文件", cachePath},
		{"库快照", snapshot},
		{"同步", synced},
	}
	return renderTable([]string{"项", "值"}, rows, nil)
}

func printSynced(cc *commandContext, snap library.Snapshot) {
	fmt.Fprintf(cc.stdout, "已同步 Steam 库：已拥有 %s，愿望单 %s\n",
		humanize.Comma(int64(len(snap.Owned))), humanize.Comma(int64(len(snap.Wishlist))))
}
