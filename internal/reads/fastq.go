package reads

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// maxCheckRecords bounds how many records per file the structural FASTQ
// check inspects. Enough to catch truncation and format mixups without
// scanning multi-gigabyte inputs.
const maxCheckRecords = 250

// openReader opens a read file, transparently decompressing gzip inputs.
func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		return &gzipReadCloser{gz: gz, file: f}, nil
	}
	return f, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fErr
}

// ValidFASTQ reports whether every file in the read set looks like
// well-formed FASTQ. Unreadable files count as invalid rather than erroring:
// the gate plus the force flag decide what happens next, not this check.
// Forward and reverse files are checked concurrently.
func ValidFASTQ(rs ReadSet) bool {
	g := new(errgroup.Group)
	for _, path := range rs.Locations() {
		path := path
		g.Go(func() error {
			return checkFASTQFile(path)
		})
	}
	return g.Wait() == nil
}

// checkFASTQFile structurally validates the first maxCheckRecords records:
// '@' header, sequence, '+' separator, quality line of equal length.
func checkFASTQFile(path string) error {
	r, err := openReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	records := 0
	for records < maxCheckRecords {
		header, ok := nextLine(scanner)
		if !ok {
			break
		}
		if !strings.HasPrefix(header, "@") {
			return fmt.Errorf("%s: record %d: header does not start with '@'", path, records+1)
		}
		seq, ok := nextLine(scanner)
		if !ok || len(seq) == 0 {
			return fmt.Errorf("%s: record %d: missing sequence", path, records+1)
		}
		sep, ok := nextLine(scanner)
		if !ok || !strings.HasPrefix(sep, "+") {
			return fmt.Errorf("%s: record %d: missing '+' separator", path, records+1)
		}
		qual, ok := nextLine(scanner)
		if !ok || len(qual) != len(seq) {
			return fmt.Errorf("%s: record %d: quality length does not match sequence", path, records+1)
		}
		records++
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if records == 0 {
		return fmt.Errorf("%s: no FASTQ records found", path)
	}
	return nil
}

func nextLine(s *bufio.Scanner) (string, bool) {
	if !s.Scan() {
		return "", false
	}
	return s.Text(), true
}

// Records streams up to limit FASTQ records from path, calling fn with each
// header and sequence. Used by platform detection, which only needs a
// bounded sample of reads.
func Records(path string, limit int, fn func(header, seq string) error) error {
	r, err := openReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for n := 0; n < limit; n++ {
		header, ok := nextLine(scanner)
		if !ok {
			break
		}
		seq, _ := nextLine(scanner)
		nextLine(scanner) // separator
		nextLine(scanner) // quality
		if err := fn(header, seq); err != nil {
			return err
		}
	}
	return scanner.Err()
}
