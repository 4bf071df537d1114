package main

import (
	"context"
	"io"
	"os"
	"os/signal"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 执行 CLI 并返回退出码：0 成功，1 运行失败，2 参数/配置错误。
func run(args []string, stdout, stderr io.Writer) int {
	cc := newCommandContext(stdout, stderr)
	defer cc.close()

	root := newRootCommand(cc)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	code := exitCodeFor(err)
	if msg := humanizeError(err); msg != "" {
		writeLine(stderr, "错误："+msg)
	}
	if code == exitUsage && isUsageError(err) {
		writeLine(stderr, "使用 \"bundlecheck --help\" 查看用法。")
	}
	return code
}

func writeLine(w io.Writer, s string) {
	_, _ = io.WriteString(w, s+"\n")
}
