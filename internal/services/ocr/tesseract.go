package ocr

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var ErrRecognizerUnavailable = errors.New("ocr recognizer unavailable")

// Word is one recognized token with its pixel box and confidence (0-100,
// negative for non-word layout rows).
type Word struct {
	Text       string  `json:"text"`
	Left       int     `json:"left"`
	Top        int     `json:"top"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

type Options struct {
	Binary   string
	Language string
	Timeout  time.Duration
}

// Tesseract shells out to the tesseract CLI.
type Tesseract struct {
	log  *slog.Logger
	opts Options
}

func NewTesseract(log *slog.Logger, opts Options) *Tesseract {
	if opts.Binary == "" {
		opts.Binary = "tesseract"
	}
	if opts.Language == "" {
		opts.Language = "ind+eng"
	}
	return &Tesseract{
		log:  log,
		opts: opts,
	}
}

// Recognize runs the word-level pass and returns every TSV word row.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]Word, error) {
	const op = "ocr.Tesseract.Recognize"

	out, err := t.run(ctx, img, "tsv")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	words, err := ParseTSV(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	t.log.Debug("recognized words", "count", len(words))
	return words, nil
}

// Text runs the plain-text pass used for ingestion. The page is preprocessed
// first; box coordinates are never read from this pass.
func (t *Tesseract) Text(ctx context.Context, img image.Image) (string, error) {
	const op = "ocr.Tesseract.Text"

	out, err := t.run(ctx, Preprocess(img))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(out), nil
}

func (t *Tesseract) run(ctx context.Context, img image.Image, configs ...string) ([]byte, error) {
	binary, err := exec.LookPath(t.opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognizerUnavailable, err)
	}

	if t.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
		defer cancel()
	}

	var input bytes.Buffer
	if err := png.Encode(&input, img); err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}

	args := append([]string{"stdin", "stdout", "-l", t.opts.Language, "--oem", "3", "--psm", "1"}, configs...)
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = &input
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w: %s", t.opts.Binary, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// ParseTSV reads tesseract TSV output and returns the non-empty word rows
// (level 5) in reading order.
func ParseTSV(r io.Reader) ([]Word, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, scanner.Err()
	}

	columns := make(map[string]int)
	for i, name := range strings.Split(scanner.Text(), "\t") {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"level", "left", "top", "width", "height", "conf", "text"} {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("tsv column %q missing", name)
		}
	}

	var words []Word
	for scanner.Scan() {
		record := strings.Split(scanner.Text(), "\t")
		if len(record) <= columns["text"] || record[columns["level"]] != "5" {
			continue
		}

		text := strings.TrimSpace(record[columns["text"]])
		if text == "" {
			continue
		}

		word := Word{Text: text}
		fields := []struct {
			name string
			dst  *int
		}{
			{"left", &word.Left},
			{"top", &word.Top},
			{"width", &word.Width},
			{"height", &word.Height},
		}
		var err error
		for _, f := range fields {
			if *f.dst, err = strconv.Atoi(record[columns[f.name]]); err != nil {
				return nil, fmt.Errorf("parse %s: %w", f.name, err)
			}
		}
		if word.Confidence, err = strconv.ParseFloat(record[columns["conf"]], 64); err != nil {
			return nil, fmt.Errorf("parse conf: %w", err)
		}

		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tsv: %w", err)
	}
	return words, nil
}
