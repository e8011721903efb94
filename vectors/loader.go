package vectors

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/poiesic/semanalyzer/core"
)

// Format is the on-disk layout of a vector resource.
type Format int

const (
	// FormatAuto picks a format from the file extension.
	FormatAuto Format = iota
	// FormatBinary is the word2vec binary layout.
	FormatBinary
	// FormatText is the word2vec text layout, with or without a header line.
	FormatText
)

const maxLineSize = 4 * 1024 * 1024

// LoadOption configures how a vector resource is read.
type LoadOption func(*loadOptions)

type loadOptions struct {
	format Format
	limit  int
	logger *slog.Logger
}

// WithFormat forces the resource format instead of detecting it.
func WithFormat(format Format) LoadOption {
	return func(o *loadOptions) {
		o.format = format
	}
}

// WithLimit reads at most n entries from the resource.
// Zero or negative means no limit.
func WithLimit(n int) LoadOption {
	return func(o *loadOptions) {
		o.limit = n
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) LoadOption {
	return func(o *loadOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

func newLoadOptions(opts []LoadOption) *loadOptions {
	o := &loadOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DetectFormat picks a format from a file extension.
// ".txt" and ".vec" are text; everything else is treated as binary.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".vec":
		return FormatText
	default:
		return FormatBinary
	}
}

// Load reads a vector resource from path.
//
// Returns an error wrapping core.ErrVectorResourceNotFound when the file is
// missing or unreadable, and core.ErrVectorFormat when its contents cannot be parsed.
func Load(path string, opts ...LoadOption) (*Index, error) {
	o := newLoadOptions(opts)
	logger := o.logger.With("component", "vector-loader")

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrVectorResourceNotFound, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", core.ErrVectorResourceNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrVectorResourceNotFound, err)
	}
	defer f.Close()

	format := o.format
	if format == FormatAuto {
		format = DetectFormat(path)
	}

	logger.Debug("loading vectors", "path", path, "binary", format == FormatBinary, "limit", o.limit)

	var ix *Index
	switch format {
	case FormatText:
		ix, err = readText(f, path, o.limit)
	default:
		ix, err = readBinary(f, path, o.limit, info.Size())
	}
	if err != nil {
		logger.Error("failed to load vectors", "path", path, "err", err)
		return nil, err
	}

	logger.Info("loaded vectors", "path", path, "tokens", ix.Len(), "dim", ix.Dim())
	return ix, nil
}

// readBinary parses the word2vec binary layout:
// an ASCII header "<count> <dim>\n" followed by count entries of
// "<token> " and dim little-endian float32 values.
// size is the length of the resource and bounds what the header may claim.
func readBinary(r io.Reader, path string, limit int, size int64) (*Index, error) {
	br := bufio.NewReaderSize(r, 1<<20)

	header, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %w", core.ErrVectorFormat, err)
	}
	count, dim, err := parseHeader(header)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < count {
		count = limit
	}
	body := size - int64(len(header))
	entry := int64(dim)*4 + 2
	if int64(count) > body/entry {
		return nil, fmt.Errorf("%w: header claims %d entries of dimension %d but only %d bytes follow",
			core.ErrVectorFormat, count, dim, body)
	}

	ix := newIndex(path, dim, min(count, 1<<20))
	raw := make([]byte, dim*4)
	for i := 0; i < count; i++ {
		token, err := readBinaryToken(br)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", core.ErrVectorFormat, i, err)
		}
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("%w: entry %d (%q) truncated: %w", core.ErrVectorFormat, i, token, err)
		}
		vector := make([]float32, dim)
		for j := range vector {
			vector[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[j*4:]))
		}
		if err := ix.add(token, vector); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// readBinaryToken reads bytes up to the next space, skipping the newline
// some writers place between entries.
func readBinaryToken(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return "", err
		}
		if b == ' ' {
			break
		}
		if b == '\n' && sb.Len() == 0 {
			continue
		}
		sb.WriteByte(b)
	}
	if sb.Len() == 0 {
		return "", errors.New("empty token")
	}
	return sb.String(), nil
}

// readText parses "<token> f1 ... fdim" lines. A leading "<count> <dim>"
// header line is optional.
func readText(r io.Reader, path string, limit int) (*Index, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var ix *Index
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if lineNo == 1 && len(fields) == 2 {
			if _, dim, err := parseHeader(scanner.Text()); err == nil {
				ix = newIndex(path, dim, 0)
				continue
			}
		}
		if ix == nil {
			ix = newIndex(path, len(fields)-1, 0)
		}
		vector := make([]float32, len(fields)-1)
		for j, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", core.ErrVectorFormat, lineNo, err)
			}
			vector[j] = float32(v)
		}
		if err := ix.add(fields[0], vector); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if limit > 0 && ix.Len() >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrVectorFormat, err)
	}
	if ix == nil || ix.Len() == 0 {
		return nil, fmt.Errorf("%w: no vectors in %s", core.ErrVectorFormat, path)
	}
	return ix, nil
}

// MaxDimension bounds the vector dimension accepted from a header.
const MaxDimension = 1 << 16

func parseHeader(line string) (count, dim int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: header %q", core.ErrVectorFormat, strings.TrimSpace(line))
	}
	count, err = strconv.Atoi(fields[0])
	if err != nil || count <= 0 {
		return 0, 0, fmt.Errorf("%w: header count %q", core.ErrVectorFormat, fields[0])
	}
	dim, err = strconv.Atoi(fields[1])
	if err != nil || dim <= 0 || dim > MaxDimension {
		return 0, 0, fmt.Errorf("%w: header dimension %q", core.ErrVectorFormat, fields[1])
	}
	return count, dim, nil
}
