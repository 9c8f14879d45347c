// Package discover enumerates the files a batch run will check.
package discover

import (
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// MissingPolicy decides what happens when a configured directory cannot be listed.
type MissingPolicy string

const (
	// MissingError reports a *DiscoveryError.
	MissingError MissingPolicy = "error"
	// MissingSkip yields nothing for the directory.
	MissingSkip MissingPolicy = "skip"
)

// ParseMissingPolicy converts a flag or config value into a MissingPolicy.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(s) {
	case "", MissingError:
		return MissingError, nil
	case MissingSkip:
		return MissingSkip, nil
	}
	return "", errors.Newf("invalid missing directory policy %q (want %s or %s)", s, MissingError, MissingSkip)
}

// Target is one file selected for checking.
type Target struct {
	Path    string // directory joined with the file name
	Pattern string // glob that selected the file
}

// DiscoveryError reports a directory that could not be listed.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string {
	return "cannot read directory " + e.Dir + ": " + e.Err.Error()
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// Discoverer lists matching files in a sequence of directories.
type Discoverer struct {
	Pattern string
	Missing MissingPolicy
	FS      FileSystem
}

// Validate reports whether the pattern is a well-formed glob.
func (d *Discoverer) Validate() error {
	if d.Pattern == "" {
		return errors.New("file pattern is empty")
	}
	if _, err := filepath.Match(d.Pattern, ""); err != nil {
		return errors.Wrapf(err, "invalid file pattern %q", d.Pattern)
	}
	return nil
}

// linksToDir reports whether the symlink at path resolves to a directory. A
// dangling link is left for the tool to report.
func (d *Discoverer) linksToDir(path string) bool {
	info, err := d.FS.Stat(path)
	return err == nil && info.IsDir()
}

// Targets yields every matching non-directory entry of every directory, in
// directory order. A symlink to a directory counts as a directory.
// Directories are listed only when the sequence reaches them. Entries are
// neither sorted beyond the listing order nor deduplicated across
// directories. Iteration stops after the first error.
func (d *Discoverer) Targets(dirs []string) iter.Seq2[Target, error] {
	return func(yield func(Target, error) bool) {
		for _, dir := range dirs {
			entries, err := d.FS.ReadDir(dir)
			if err != nil {
				if d.Missing == MissingSkip {
					continue
				}
				yield(Target{}, &DiscoveryError{Dir: dir, Err: err})
				return
			}

			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				ok, err := filepath.Match(d.Pattern, entry.Name())
				if err != nil {
					yield(Target{}, errors.Wrapf(err, "invalid file pattern %q", d.Pattern))
					return
				}
				if !ok {
					continue
				}
				path := filepath.Join(dir, entry.Name())
				if entry.Type()&fs.ModeSymlink != 0 && d.linksToDir(path) {
					continue
				}
				if !yield(Target{Path: path, Pattern: d.Pattern}, nil) {
					return
				}
			}
		}
	}
}
