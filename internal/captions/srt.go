package captions

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteSRT renders the track as sequential SRT blocks:
// index line, "start --> end" line, the (possibly multi-line) text, then a
// blank separator. Pure serialization; timing comes from the segmenter.
func WriteSRT(w io.Writer, track []Caption) error {
	for _, c := range track {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			c.Index, Timestamp(c.Start), Timestamp(c.End), c.Text)
		if err != nil {
			return fmt.Errorf("write srt entry %d: %w", c.Index, err)
		}
	}
	return nil
}

// SaveSRT writes the track to path, creating parent directories as needed.
func SaveSRT(path string, track []Caption) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create subtitle directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- path derives from the configured output dir
	if err != nil {
		return fmt.Errorf("create srt file: %w", err)
	}

	writeErr := WriteSRT(f, track)
	if closeErr := f.Close(); writeErr == nil && closeErr != nil {
		writeErr = fmt.Errorf("close srt file: %w", closeErr)
	}
	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}
	return nil
}

// ParseSRT reads SRT blocks back into a caption track. Millisecond precision
// is preserved exactly; sub-millisecond detail lost during serialization is
// not recovered.
func ParseSRT(r io.Reader) ([]Caption, error) {
	scanner := bufio.NewScanner(r)

	var track []Caption
	for {
		c, ok, err := parseBlock(scanner)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		track = append(track, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	return track, nil
}

// parseBlock consumes one caption block. Returns ok=false on clean EOF.
func parseBlock(scanner *bufio.Scanner) (Caption, bool, error) {
	// Skip blank lines between blocks.
	var indexLine string
	for {
		if !scanner.Scan() {
			return Caption{}, false, nil
		}
		indexLine = strings.TrimSpace(scanner.Text())
		if indexLine != "" {
			break
		}
	}

	index, err := strconv.Atoi(indexLine)
	if err != nil {
		return Caption{}, false, fmt.Errorf("%w: bad index line %q", ErrMalformedSRT, indexLine)
	}

	if !scanner.Scan() {
		return Caption{}, false, fmt.Errorf("%w: missing timing line for entry %d", ErrMalformedSRT, index)
	}
	timing := strings.TrimSpace(scanner.Text())
	parts := strings.Split(timing, " --> ")
	if len(parts) != 2 {
		return Caption{}, false, fmt.Errorf("%w: bad timing line %q", ErrMalformedSRT, timing)
	}
	start, err := parseTimestamp(parts[0])
	if err != nil {
		return Caption{}, false, err
	}
	end, err := parseTimestamp(parts[1])
	if err != nil {
		return Caption{}, false, err
	}

	var text []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		text = append(text, line)
	}

	return Caption{
		Index: index,
		Start: start,
		End:   end,
		Text:  strings.Join(text, "\n"),
	}, true, nil
}

// parseTimestamp parses HH:MM:SS,mmm into seconds.
func parseTimestamp(s string) (float64, error) {
	var hours, minutes, secs, millis int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d:%d,%d", &hours, &minutes, &secs, &millis); err != nil {
		return 0, fmt.Errorf("%w: bad timestamp %q", ErrMalformedSRT, s)
	}
	return float64(hours*3600+minutes*60+secs) + float64(millis)/1000, nil
}
