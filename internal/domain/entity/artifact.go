package entity

import (
	"fmt"
	"io"
	"os"
)

// Artifact is an encoded animation file produced at some pipeline stage.
// Whoever holds the artifact owns the backing file; ownership moves with the
// value and ends with Discard or MoveTo.
type Artifact struct {
	Path   string
	SizeKB float64
}

// NewArtifact wraps the file at path as an owned artifact, recording its
// current size.
func NewArtifact(path string) (*Artifact, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &Artifact{Path: path, SizeKB: float64(fi.Size()) / 1024}, nil
}

// Discard removes the backing file and releases ownership. Safe on a nil
// artifact, after MoveTo, and when called twice.
func (a *Artifact) Discard() {
	if a == nil || a.Path == "" {
		return
	}
	_ = os.Remove(a.Path)
	a.Path = ""
}

// MoveTo hands the backing file over to dst. Rename fails across
// filesystems, so it falls back to copy+remove. After a successful move the
// artifact no longer owns a file and Discard becomes a no-op.
func (a *Artifact) MoveTo(dst string) error {
	if a == nil || a.Path == "" {
		return fmt.Errorf("artifact: no file to move")
	}
	if err := os.Rename(a.Path, dst); err != nil {
		if err := a.CopyTo(dst); err != nil {
			return fmt.Errorf("move %s: %w", a.Path, err)
		}
		_ = os.Remove(a.Path)
	}
	a.Path = ""
	return nil
}

// CopyTo writes a byte-identical copy of the artifact to dst. The artifact
// keeps ownership of its backing file.
func (a *Artifact) CopyTo(dst string) error {
	src, err := os.Open(a.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", a.Path, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
