package fetch

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"

	"ulbuild/internal/sdkerr"
)

// SevenZip extracts 7z archives.
type SevenZip struct{}

// Extract writes every entry of the 7z archive in data below dest. Any
// failure, including writing the extracted files, is a decompression failure.
func (SevenZip) Extract(data []byte, dest string) error {
	reader, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return sdkerr.Decompression("open 7z", "", err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return sdkerr.Decompression("prepare extract dir", dest, err)
	}

	for _, file := range reader.File {
		target, err := entryPath(dest, file.Name)
		if err != nil {
			return sdkerr.Decompression("extract", file.Name, err)
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return sdkerr.Decompression("create dir", target, err)
			}
			continue
		}
		if err := extractFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *sevenzip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return sdkerr.Decompression("prepare file", target, err)
	}
	rc, err := file.Open()
	if err != nil {
		return sdkerr.Decompression("open entry", file.Name, err)
	}
	defer rc.Close()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return sdkerr.Decompression("create file", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return sdkerr.Decompression("write entry", target, err)
	}
	if err := out.Close(); err != nil {
		return sdkerr.Decompression("close file", target, err)
	}
	return nil
}

// entryPath joins an archive entry name onto dest and rejects names that
// would land outside it.
func entryPath(dest, name string) (string, error) {
	clean := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("absolute entry path %q", name)
	}
	target := filepath.Join(dest, clean)
	rel, err := filepath.Rel(dest, target)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("entry %q escapes destination", name)
	}
	return target, nil
}
