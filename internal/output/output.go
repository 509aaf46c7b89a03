// Package output owns where finished images go on disk.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is used in every generated file name.
const TimestampLayout = "2006-01-02_15-04-05"

// Namer hands out unique, timestamped paths inside one directory.
type Namer struct {
	Dir    string
	Prefix string
	Ext    string

	now   func() time.Time
	newID func() string
}

// NewNamer returns a Namer for files of the given format ("png" or "svg").
func NewNamer(dir, prefix, format string) *Namer {
	return &Namer{
		Dir:    dir,
		Prefix: prefix,
		Ext:    strings.ToLower(format),
		now:    time.Now,
		newID:  func() string { return uuid.NewString()[:8] },
	}
}

// Next returns a fresh path. The short id keeps names apart when several
// images finish within the same second.
func (n *Namer) Next() string {
	name := fmt.Sprintf("%s_%s_%s.%s", n.Prefix, n.now().Format(TimestampLayout), n.newID(), n.Ext)
	return filepath.Join(n.Dir, name)
}

// EnsureDir creates the output directory if needed.
func (n *Namer) EnsureDir() error {
	if err := os.MkdirAll(n.Dir, 0o755); err != nil {
		return fmt.Errorf("output: create %s: %w", n.Dir, err)
	}
	return nil
}

// Save writes a file through a temporary sibling and renames it into place,
// so a failed encode never leaves a truncated image behind.
func Save(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("output: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("output: close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("output: rename to %s: %w", path, err)
	}
	return nil
}
