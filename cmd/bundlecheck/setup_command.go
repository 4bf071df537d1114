package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/bundlecheck/internal/config"
)

func newSetupCommand(cc *commandContext) *cobra.Command {
	var (
		apiKey  string
		steamID string
		noSync  bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "保存 Steam API key 与 Steam ID，并同步一次库",
		Long: `保存 Steam Web API key（https://steamcommunity.com/dev/apikey）与 17 位 SteamID64。
配置写入当前生效的配置文件（--config、./bundlecheck.toml 或 XDG 配置目录），其余字段保持不变。`,
		Args:        exactArgs(0),
		Annotations: map[string]string{annotationReplacesCredentials: "true"},
		RunE:        func(cmd *cobra.Command, args []string) error {
			apiKey = strings.TrimSpace(apiKey)
			steamID = strings.TrimSpace(steamID)
			if apiKey == "" {
				return usageError{err: errors.New("--api-key 不能为空")}
			}
			if !config.ValidSteamID(steamID) {
				return usageError{err: fmt.Errorf("--steam-id 必须是 17 位数字（SteamID64），实际 %q", steamID)}
			}

			fc, _, err := config.ReadFile(cc.eff.Path)
			if err != nil {
				return err
			}
			fc.SteamAPIKey = apiKey
			fc.SteamID = steamID
			if err := config.Save(cc.eff.Path, fc); err != nil {
				return err
			}
			fmt.Fprintf(cc.stdout, "已写入配置：%s\n", cc.eff.Path)

			cc.eff.SteamAPIKey = apiKey
			cc.eff.SteamID = steamID
			if noSync {
				return nil
			}
			snap, err := cc.loader().Refresh(cmd.Context())
			if err != nil {
				return err
			}
			printSynced(cc, snap)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Steam Web API key")
	cmd.Flags().StringVar(&steamID, "steam-id", "", "17 位 SteamID64")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "只写配置，不立即同步")
	return cmd
}
