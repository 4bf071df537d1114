package fsx

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func assertNoTemp(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}

func TestWriteFile_CreatesParentsAndReplaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache", "bundlecheck")
	path := filepath.Join(dir, "library.json")

	if err := WriteFile(path, []byte("v1"), ModePublic); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := WriteFile(path, []byte("v2"), ModePublic); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != "v2" {
		t.Fatalf("期望覆盖为 v2，实际 %q", string(b))
	}
	assertNoTemp(t, dir)
}

func TestWriteFile_SecretMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundlecheck.toml")

	if err := WriteFile(path, []byte(`steam_api_key = "k"`), ModeSecret); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat 失败：%v", err)
	}
	if runtime.GOOS != "windows" && fi.Mode().Perm() != ModeSecret {
		t.Fatalf("期望权限 0600，实际 %v", fi.Mode().Perm())
	}
}

func TestWriteFile_RenameFailLeavesNothing(t *testing.T) {
	dir := t.TempDir()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error { return os.ErrPermission }
	defer func() { renameFunc = old }()

	err := WriteFile(filepath.Join(dir, "library.json"), []byte("{}"), ModePublic)
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("期望 ErrPermission，实际：%v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "library.json")); !os.IsNotExist(err) {
		t.Fatalf("不应写出最终文件")
	}
	assertNoTemp(t, dir)
}

func TestWriteFile_TargetIsDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	err := WriteFile(path, []byte("{}"), ModePublic)
	var ne *NotRegularFileError
	if !errors.As(err, &ne) {
		t.Fatalf("期望 NotRegularFileError，实际：%T %v", err, err)
	}
	if !strings.Contains(err.Error(), "目录") {
		t.Fatalf("错误信息应说明目标是目录：%v", err)
	}
}

func TestRemove_MissingIsOK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	if err := Remove(path); err != nil {
		t.Fatalf("不存在时不应报错：%v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入失败：%v", err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("删除失败：%v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("文件应已删除")
	}
}
