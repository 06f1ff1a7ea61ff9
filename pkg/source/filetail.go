package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const tailPollInterval = 250 * time.Millisecond

// TailFile follows a growing file from its current end, streaming each
// completed line on the returned channel. Truncation (log rotation in
// place) reseeks to the start. The channel closes when ctx is cancelled.
func TailFile(ctx context.Context, path string, logger *slog.Logger) (<-chan string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	f.Seek(0, io.SeekEnd)

	ch := make(chan string)
	go func() {
		defer f.Close()
		defer close(ch)

		reader := bufio.NewReader(f)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line, err := reader.ReadString('\n')
			if err != nil {
				// No new data; poll, watching for truncation.
				select {
				case <-ctx.Done():
					return
				case <-time.After(tailPollInterval):
				}
				info, serr := f.Stat()
				if serr != nil {
					continue
				}
				pos, _ := f.Seek(0, io.SeekCurrent)
				if info.Size() < pos {
					f.Seek(0, io.SeekStart)
					reader.Reset(f)
				}
				continue
			}

			select {
			case ch <- strings.TrimRight(line, "\n"):
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("tailing file", "path", path)
	return ch, nil
}
