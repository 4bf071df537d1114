//go:build unix

package fsx

import (
	"errors"
	"syscall"
)

// errors.Is 会展开 *os.LinkError。
func isEXDEV(err error) bool { return errors.Is(err, syscall.EXDEV) }
