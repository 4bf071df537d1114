// Package fsx 提供配置文件与库快照共用的原子落盘。
package fsx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// ModePublic 用于库快照等可公开内容。
	ModePublic os.FileMode = 0o644
	// ModeSecret 用于含 API key 的配置文件。
	ModeSecret os.FileMode = 0o600
)

// 测试替换它来模拟 EXDEV、权限错误等 rename 失败。
var renameFunc = os.Rename

// NotRegularFileError 表示目标路径已存在但不是普通文件（目录、符号链接等）。
type NotRegularFileError struct {
	Path string
	Mode os.FileMode
}

func (e *NotRegularFileError) Error() string {
	kind := "非普通文件"
	if e.Mode.IsDir() {
		kind = "目录"
	}
	return fmt.Sprintf("无法写入 %q：目标是%s", e.Path, kind)
}

// CrossDeviceError 表示 rename 跨越了文件系统（EXDEV）。
// 临时文件与目标同目录，出现它通常意味着目标目录本身是跨挂载点的符号链接。
type CrossDeviceError struct {
	Path string
	Err  error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("写入 %q 失败（EXDEV，跨文件系统）：请把该目录配置为真实路径：%v", e.Path, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// WriteFile 把 data 原子写到 path：同目录临时文件 + fsync + rename。
//
// 父目录不存在时创建；目标已存在则覆盖；读方只会看到旧内容或新内容。
func WriteFile(path string, data []byte, perm os.FileMode) error {
	path = filepath.Clean(path)
	if fi, err := os.Lstat(path); err == nil {
		if !fi.Mode().IsRegular() {
			return &NotRegularFileError{Path: path, Mode: fi.Mode()}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// 前缀带 '.'，中途失败残留也不会与正式文件混淆。
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := renameFunc(tmpName, path); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Path: path, Err: err}
		}
		return err
	}
	committed = true

	syncDir(dir)
	return nil
}

// Remove 删除 path；不存在不算错误。
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// syncDir 尽力持久化目录项；Windows 不支持对目录 fsync。
func syncDir(dir string) {
	if runtime.GOOS == "windows" {
		return
	}
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = f.Sync()
	_ = f.Close()
}
