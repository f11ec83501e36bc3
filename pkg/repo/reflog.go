package repo

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/shved/get/pkg/object"
)

// ErrHeadUpdatedButLogAppendFailed is matched by *LogAppendError.
var ErrHeadUpdatedButLogAppendFailed = errors.New("head updated but log append failed")

// LogAppendError indicates HEAD was moved but the LOG line describing the
// move could not be written. The commit or restore itself succeeded.
type LogAppendError struct {
	OldHead object.Digest
	NewHead object.Digest
	Err     error
}

func (e *LogAppendError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (old=%s new=%s): %v", ErrHeadUpdatedButLogAppendFailed, e.OldHead, e.NewHead, e.Err)
}

func (e *LogAppendError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *LogAppendError) Is(target error) bool {
	return target == ErrHeadUpdatedButLogAppendFailed
}

// LogEntry is one line of .get/LOG.
type LogEntry struct {
	OldHead   object.Digest
	NewHead   object.Digest
	Timestamp int64
	Op        string
	Summary   string
}

// appendLog writes "<old> <new> <unix-ts> <op>: <summary>" to .get/LOG.
// Only the first line of a multi-line message is kept.
func (r *Repo) appendLog(e LogEntry) error {
	summary, _, _ := strings.Cut(e.Summary, "\n")
	line := fmt.Sprintf("%s %s %d %s: %s\n", e.OldHead, e.NewHead, e.Timestamp, e.Op, summary)

	p := logPath(r.RootDir)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return object.WrapIO("open", p, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return object.WrapIO("write", p, err)
	}
	return nil
}

// ReadLog returns LOG entries newest first, at most limit of them when
// limit > 0. Lines that do not parse are skipped.
func (r *Repo) ReadLog(limit int) ([]LogEntry, error) {
	p := logPath(r.RootDir)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log: %w", object.WrapIO("open", p, err))
	}
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		e, ok := parseLogLine(scanner.Text())
		if ok {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", object.WrapIO("scan", p, err))
	}

	// Return newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func parseLogLine(line string) (LogEntry, bool) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 4)
	if len(parts) < 4 {
		return LogEntry{}, false
	}
	oldHead, newHead := object.Digest(parts[0]), object.Digest(parts[1])
	if !oldHead.Valid() || !newHead.Valid() {
		return LogEntry{}, false
	}
	ts, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return LogEntry{}, false
	}
	op, summary, ok := strings.Cut(parts[3], ": ")
	if !ok {
		op = strings.TrimSuffix(parts[3], ":")
	}
	return LogEntry{
		OldHead:   oldHead,
		NewHead:   newHead,
		Timestamp: ts,
		Op:        op,
		Summary:   summary,
	}, true
}
