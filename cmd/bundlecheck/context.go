package main

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/bundlecheck/internal/config"
	"github.com/John-Robertt/bundlecheck/internal/infra/cache"
	"github.com/John-Robertt/bundlecheck/internal/infra/httpx"
	"github.com/John-Robertt/bundlecheck/internal/library"
	"github.com/John-Robertt/bundlecheck/internal/logging"
	"github.com/John-Robertt/bundlecheck/internal/matcher"
	"github.com/John-Robertt/bundlecheck/internal/steam"
)

// commandContext 持有各子命令共享的配置、日志与 HTTP client。
type commandContext struct {
	stdout io.Writer
	stderr io.Writer

	configFlag string
	verbose    bool

	eff       config.EffectiveConfig
	http      *http.Client
	logCloser io.Closer
}

func newCommandContext(stdout, stderr io.Writer) *commandContext {
	return &commandContext{stdout: stdout, stderr: stderr}
}

// annotationReplacesCredentials 标记会重写凭据的子命令：已存储的凭据即使非法也不阻止它运行。
const annotationReplacesCredentials = "bundlecheck/replaces-credentials"

// prepare 读取配置并初始化日志；cmd 若定义了 --concurrency 且被显式指定，则覆盖配置。
func (c *commandContext) prepare(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	cli := config.CLIArgs{
		ConfigPath:         strings.TrimSpace(c.configFlag),
		ReplaceCredentials: cmd.Annotations[annotationReplacesCredentials] == "true",
	}
	if f := cmd.Flags().Lookup("concurrency"); f != nil && f.Changed {
		n, err := cmd.Flags().GetInt("concurrency")
		if err != nil {
			return usageError{err: err}
		}
		cli.Concurrency, cli.ConcurrencySet = n, true
	}

	eff, err := config.LoadEffective(cwd, cli)
	if err != nil {
		return err
	}
	c.eff = eff

	closer, err := logging.Setup(logging.Options{
		Verbose: c.verbose,
		File:    eff.LogFile,
		Stderr:  c.stderr,
	})
	if err != nil {
		return err
	}
	c.logCloser = closer

	hc, err := httpx.NewClient(eff.ProxyURL)
	if err != nil {
		return &config.Error{Code: config.ErrCodeInvalid, Path: eff.Path, Err: err}
	}
	c.http = hc
	return nil
}

func (c *commandContext) close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close()
	}
}

// store 打开 cache_dir；readOnly 用于只查看状态的命令，写入与清除都会被拒绝。
func (c *commandContext) store(readOnly bool) cache.Store {
	return cache.New(c.eff.CacheDir, readOnly)
}

func (c *commandContext) loader() *library.Loader {
	return c.loaderWith(c.store(false))
}

func (c *commandContext) loaderWith(st cache.Store) *library.Loader {
	return &library.Loader{
		Store:   st,
		Client:  steam.NewClient(c.eff.SteamAPIBaseURL, c.eff.SteamStoreBaseURL, c.http),
		TTL:     c.eff.CacheTTL,
		APIKey:  c.eff.SteamAPIKey,
		SteamID: c.eff.SteamID,
	}
}

func (c *commandContext) matcher() *matcher.Matcher {
	if len(c.eff.ExtraEditionMarkers) == 0 {
		return matcher.Default()
	}
	return matcher.New(matcher.DefaultVocabulary().With(c.eff.ExtraEditionMarkers...))
}

// requireConfigured 把“缺凭据”统一映射为 config_not_configured。
func (c *commandContext) requireConfigured() error {
	return c.eff.RequireConfigured()
}

func notConfigured(err error, path string) error {
	if errors.Is(err, library.ErrNotConfigured) {
		return &config.Error{Code: config.ErrCodeNotConfigured, Path: path}
	}
	return err
}
