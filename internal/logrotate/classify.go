package logrotate

import (
	"errors"
	"io/fs"
	"syscall"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/retry"
)

// ClassifyFsError maps filesystem errors onto the retry taxonomy. Missing
// files, bad permissions, a full disk or a read-only filesystem will not fix
// themselves between attempts; busy-file conditions will.
func ClassifyFsError(err error) retry.Class {
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, syscall.ENOENT),
		errors.Is(err, syscall.EACCES),
		errors.Is(err, syscall.EPERM),
		errors.Is(err, syscall.ENOSPC),
		errors.Is(err, syscall.EROFS):
		return retry.Permanent
	case errors.Is(err, syscall.EBUSY),
		errors.Is(err, syscall.ETXTBSY),
		errors.Is(err, syscall.EAGAIN):
		return retry.Transient
	}
	return retry.Transient
}
