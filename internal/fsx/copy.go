package fsx

import (
	"io"
	"os"
	"path/filepath"

	"ulbuild/internal/sdkerr"
)

// CopyTree mirrors src into dst, creating dst and every subdirectory.
// Symbolic links are followed. The first failure aborts the copy and leaves
// whatever was already written in place.
func CopyTree(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return sdkerr.Filesystem("create dir", dst, err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return sdkerr.Filesystem("read dir", src, err)
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		info, err := os.Stat(from)
		if err != nil {
			return sdkerr.Filesystem("stat", from, err)
		}
		if info.IsDir() {
			if err := CopyTree(from, to); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(from, to); err != nil {
			return err
		}
	}
	return nil
}

// CopyFile copies the contents of src to dst, replacing dst.
func CopyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return sdkerr.Filesystem("open", src, err)
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return sdkerr.Filesystem("create dir", filepath.Dir(dst), err)
	}

	dest, err := os.Create(dst)
	if err != nil {
		return sdkerr.Filesystem("create", dst, err)
	}
	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return sdkerr.Filesystem("copy", dst, err)
	}
	if err := dest.Close(); err != nil {
		return sdkerr.Filesystem("close", dst, err)
	}
	return nil
}
