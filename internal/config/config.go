package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/John-Robertt/bundlecheck/internal/infra/fsx"
)

const (
	// ErrCodeNotFound 表示 --config 显式指定的文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeNotConfigured 表示缺少 steam_api_key 或 steam_id，无法同步库。
	ErrCodeNotConfigured = "config_not_configured"
)

const (
	AppName  = "bundlecheck"
	FileName = "bundlecheck.toml"

	DefaultConcurrency  = 4
	DefaultCacheTTL     = time.Hour
	DefaultAPIBaseURL   = "https://api.steampowered.com"
	DefaultStoreBaseURL = "https://store.steampowered.com"

	EnvAPIKey  = "BUNDLECHECK_STEAM_API_KEY"
	EnvSteamID = "BUNDLECHECK_STEAM_ID"
)

// 通过可替换的函数指针，让测试不依赖真实的 XDG 目录。
var (
	userConfigDir = func() string { return filepath.Join(xdg.ConfigHome, AppName) }
	userCacheDir  = func() string { return filepath.Join(xdg.CacheHome, AppName) }
)

// CLIArgs 只包含 CLI 暴露的覆盖项，并保留“是否显式指定”的信息。
type CLIArgs struct {
	ConfigPath string

	Concurrency    int
	ConcurrencySet bool

	// ReplaceCredentials 表示本次命令会重写凭据（setup）：已存储/环境变量里的凭据
	// 既不校验也不生效，其余字段照常校验。
	ReplaceCredentials bool
}

// FileConfig 对应 bundlecheck.toml 的解析结构。
type FileConfig struct {
	SteamAPIKey       string        `toml:"steam_api_key,omitempty"`
	SteamID           string        `toml:"steam_id,omitempty" validate:"omitempty,steamid"`
	CacheTTL          string        `toml:"cache_ttl,omitempty" validate:"omitempty,duration"`
	CacheDir          string        `toml:"cache_dir,omitempty"`
	Concurrency       int           `toml:"concurrency,omitempty"`
	Proxy             *ProxyConfig  `toml:"proxy,omitempty"`
	SteamAPIBaseURL   string        `toml:"steam_api_base_url,omitempty" validate:"omitempty,http_url"`
	SteamStoreBaseURL string        `toml:"steam_store_base_url,omitempty" validate:"omitempty,http_url"`
	LogFile           string        `toml:"log_file,omitempty"`
	Matcher           MatcherConfig `toml:"matcher,omitempty"`
}

type ProxyConfig struct {
	URL string `toml:"url" validate:"omitempty,url"`
}

type MatcherConfig struct {
	ExtraEditionMarkers []string `toml:"extra_edition_markers,omitempty" validate:"dive,required"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// Path 是本次采用的配置文件路径；Exists=false 表示该文件尚不存在（全部取默认值）。
	Path   string
	Exists bool

	SteamAPIKey string
	SteamID     string

	CacheTTL time.Duration
	CacheDir string

	Concurrency int
	ProxyURL    string

	SteamAPIBaseURL   string
	SteamStoreBaseURL string

	LogFile string

	ExtraEditionMarkers []string
}

// Configured 表示是否具备同步 Steam 库所需的凭据。
func (c EffectiveConfig) Configured() bool {
	return c.SteamAPIKey != "" && c.SteamID != ""
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeNotConfigured:
		return fmt.Sprintf("%s：尚未配置 steam_api_key / steam_id（运行 bundlecheck setup，或设置 %s / %s）", e.Code, EnvAPIKey, EnvSteamID)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// RequireConfigured 在凭据缺失时返回 config_not_configured。
func (c EffectiveConfig) RequireConfigured() error {
	if c.Configured() {
		return nil
	}
	return &Error{Code: ErrCodeNotConfigured, Path: c.Path}
}

// Discover 按固定顺序确定配置文件路径：
// 1) --config 显式指定（必须存在）
// 2) <cwd>/bundlecheck.toml（存在才采用）
// 3) $XDG_CONFIG_HOME/bundlecheck/bundlecheck.toml（可以不存在）
func Discover(cwd, explicit string) (path string, exists bool, err error) {
	if p := strings.TrimSpace(explicit); p != "" {
		p = absCleanFrom(cwd, p)
		fi, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return p, false, &Error{Code: ErrCodeNotFound, Path: p, Err: os.ErrNotExist}
			}
			return p, false, &Error{Code: ErrCodeInvalid, Path: p, Err: err}
		}
		if fi.IsDir() {
			return p, false, &Error{Code: ErrCodeInvalid, Path: p, Err: fmt.Errorf("期望文件，实际是目录")}
		}
		return p, true, nil
	}

	local := filepath.Join(cwd, FileName)
	if fi, err := os.Stat(local); err == nil && !fi.IsDir() {
		return local, true, nil
	}

	user := filepath.Join(userConfigDir(), FileName)
	if fi, err := os.Stat(user); err == nil && !fi.IsDir() {
		return user, true, nil
	}
	return user, false, nil
}

// LoadEffective 发现并读取配置文件，然后与环境变量、CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：CLI > 环境变量 > 配置文件 > 内置默认。
// 环境变量只覆盖凭据（steam_api_key / steam_id）。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath, _, err := Discover(cwdAbs, cli.ConfigPath)
	if err != nil {
		return EffectiveConfig{}, err
	}

	fc, exists, err := ReadFile(cfgPath)
	if err != nil {
		return EffectiveConfig{}, err
	}

	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		fc.SteamAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSteamID)); v != "" {
		fc.SteamID = v
	}

	ec, err := merge(cli, fc, cfgPath)
	if err != nil {
		return EffectiveConfig{}, err
	}
	ec.Exists = exists
	return ec, nil
}

func merge(cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	fc.SteamAPIKey = strings.TrimSpace(fc.SteamAPIKey)
	fc.SteamID = strings.TrimSpace(fc.SteamID)
	if cli.ReplaceCredentials {
		fc.SteamAPIKey, fc.SteamID = "", ""
	}
	if err := Validate(fc); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	concurrency := fc.Concurrency
	if cli.ConcurrencySet {
		concurrency = cli.Concurrency
	}
	if concurrency == 0 {
		concurrency = DefaultConcurrency
	}
	// 范围 [1, 32]；超出截断。
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > 32 {
		concurrency = 32
	}

	ttl := DefaultCacheTTL
	if s := strings.TrimSpace(fc.CacheTTL); s != "" {
		// Validate 已保证可解析且非负。
		ttl, _ = time.ParseDuration(s)
	}

	cacheDir := strings.TrimSpace(fc.CacheDir)
	if cacheDir == "" {
		cacheDir = userCacheDir()
	} else {
		cacheDir = absCleanFrom(filepath.Dir(cfgPath), cacheDir)
	}

	logFile := strings.TrimSpace(fc.LogFile)
	if logFile != "" {
		logFile = absCleanFrom(filepath.Dir(cfgPath), logFile)
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}

	return EffectiveConfig{
		Path:                cfgPath,
		SteamAPIKey:         fc.SteamAPIKey,
		SteamID:             fc.SteamID,
		CacheTTL:            ttl,
		CacheDir:            cacheDir,
		Concurrency:         concurrency,
		ProxyURL:            proxyURL,
		SteamAPIBaseURL:     baseURLOr(fc.SteamAPIBaseURL, DefaultAPIBaseURL),
		SteamStoreBaseURL:   baseURLOr(fc.SteamStoreBaseURL, DefaultStoreBaseURL),
		LogFile:             logFile,
		ExtraEditionMarkers: append([]string(nil), fc.Matcher.ExtraEditionMarkers...),
	}, nil
}

func baseURLOr(s, def string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if s == "" {
		return def
	}
	return s
}

// ReadFile 读取并解析 TOML 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func ReadFile(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	return fc, true, nil
}

// Save 校验后把 fc 原子写入 path（覆盖同名文件，权限 0600：文件里有 API key）。
func Save(path string, fc FileConfig) error {
	if err := Validate(fc); err != nil {
		return &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	b, err := toml.Marshal(fc)
	if err != nil {
		return &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	return fsx.WriteFile(path, b, fsx.ModeSecret)
}

var (
	validate  = newValidator()
	steamIDRE = regexp.MustCompile(`^[0-9]{17}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 报错里使用 toml 字段名，和用户在文件里看到的一致。
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("steamid", func(fl validator.FieldLevel) bool {
		return steamIDRE.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d >= 0
	})
	return v
}

// Validate 校验字段格式；错误信息已本地化为中文。
func Validate(fc FileConfig) error {
	err := validate.Struct(fc)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "；"))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "FileConfig.")
	switch fe.Tag() {
	case "steamid":
		return fmt.Sprintf("%s 必须是 17 位数字（SteamID64），实际 %q", field, fe.Value())
	case "duration":
		return fmt.Sprintf("%s 必须是非负时长（例如 30m、1h），实际 %q", field, fe.Value())
	case "http_url":
		return fmt.Sprintf("%s 必须是 http/https URL，实际 %q", field, fe.Value())
	case "url":
		return fmt.Sprintf("%s 不是合法 URL：%q", field, fe.Value())
	case "required":
		return fmt.Sprintf("%s 不能为空", field)
	default:
		return fmt.Sprintf("%s 不满足规则 %s", field, fe.Tag())
	}
}

// ValidSteamID 报告 s 是否是 17 位 SteamID64。
func ValidSteamID(s string) bool {
	return steamIDRE.MatchString(s)
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}
