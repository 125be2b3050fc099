package hasher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"massnet.org/mdhash/hashutil"
)

var (
	// ErrChecksumMismatch is returned when a file does not match its entry.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrMalformedLine is returned for check file lines that cannot be parsed.
	ErrMalformedLine = errors.New("malformed checksum line")
)

// Entry is one line of a checksum file.
type Entry struct {
	Digest hashutil.Digest
	Path   string
}

// Verdict is the result of checking one Entry.
type Verdict struct {
	Entry
	Result *Result
}

// OK reports whether the file was read and matched its entry.
func (v *Verdict) OK() bool {
	return v.Result.Err == nil && v.Result.Digest.Equal(v.Digest)
}

// Err returns the read error, ErrChecksumMismatch, or nil.
func (v *Verdict) Err() error {
	if v.Result.Err != nil {
		return v.Result.Err
	}
	if !v.Result.Digest.Equal(v.Digest) {
		return errors.Wrap(ErrChecksumMismatch, v.Path)
	}
	return nil
}

// Verify hashes every entry's file and compares it with the expected digest.
// Files are always read; recorded digests are never trusted.
func (h *Hasher) Verify(ctx context.Context, entries []Entry) []*Verdict {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	results := h.hashFiles(ctx, paths, false)

	verdicts := make([]*Verdict, len(entries))
	for i, e := range entries {
		verdicts[i] = &Verdict{Entry: e, Result: results[i]}
	}
	return verdicts
}

// FormatLine renders a digest in the "<hex>  <path>" checksum file layout.
func FormatLine(d hashutil.Digest, path string) string {
	return fmt.Sprintf("%s  %s", d, path)
}

// ParseLine parses "<hex>  <path>" or the binary-mode "<hex> *<path>".
func ParseLine(line string, size int) (Entry, error) {
	i := strings.IndexByte(line, ' ')
	if i < 0 || i+2 > len(line) {
		return Entry{}, errors.Wrap(ErrMalformedLine, line)
	}
	if line[i+1] != ' ' && line[i+1] != '*' {
		return Entry{}, errors.Wrap(ErrMalformedLine, line)
	}
	d, err := hashutil.DecodeDigest(line[:i], size)
	if err != nil {
		return Entry{}, errors.Wrapf(ErrMalformedLine, "%s: %v", line, err)
	}
	path := line[i+2:]
	if path == "" {
		return Entry{}, errors.Wrap(ErrMalformedLine, line)
	}
	return Entry{Digest: d, Path: path}, nil
}

// ReadEntries parses a checksum file. Blank lines and lines starting with
// '#' are skipped.
func ReadEntries(r io.Reader, size int) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := ParseLine(line, size)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
