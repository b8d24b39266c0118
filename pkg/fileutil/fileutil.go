// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Options controls CopyFile.
type Options struct {
	// Dereference copies the file a symbolic link points to rather than
	// the link itself.
	Dereference bool
}

// CopyFile copies src to dst, replacing dst if it exists. Data is
// written to a temporary file next to dst and moved into place, so a
// failed copy leaves dst as it was.
func CopyFile(src, dst string, opts Options) (err error) {
	fi, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		if !opts.Dereference {
			return copySymlink(src, dst)
		}
		if fi, err = os.Stat(src); err != nil {
			return err
		}
	}
	if fi.IsDir() {
		return fmt.Errorf("omitting directory %s", src)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err = io.Copy(tmp, srcFile); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err = tmp.Chmod(fi.Mode().Perm()); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func copySymlink(src, dst string) error {
	link, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Symlink(link, dst)
}

// Move renames src to dst. When the two are on different file systems
// the file is copied and src removed instead.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var le *os.LinkError
	if !errors.As(err, &le) || !errors.Is(le.Err, syscall.EXDEV) {
		return err
	}
	if err := CopyFile(src, dst, Options{}); err != nil {
		return err
	}
	return os.Remove(src)
}

// Identical reports whether two files have the same contents. A missing
// file is never identical to anything.
func Identical(file1, file2 string) (bool, error) {
	sum1, err := digest(file1)
	if err != nil || sum1 == nil {
		return false, err
	}
	sum2, err := digest(file2)
	if err != nil || sum2 == nil {
		return false, err
	}
	return bytes.Equal(sum1, sum2), nil
}

func digest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return h.Sum(nil), nil
}
