package vectors

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/poiesic/semanalyzer/core"
)

// WriteBinary writes entries in the word2vec binary layout.
// Every entry must have the same dimensionality.
func WriteBinary(w io.Writer, entries []core.WordVector) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no vectors", core.ErrVectorFormat)
	}
	dim := len(entries[0].Vector)
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(entries), dim)
	buf := make([]byte, 4)
	for _, e := range entries {
		if len(e.Vector) != dim {
			return fmt.Errorf("%w: token %q has %d dimensions, want %d", core.ErrVectorFormat, e.Token, len(e.Vector), dim)
		}
		bw.WriteString(e.Token)
		bw.WriteByte(' ')
		for _, v := range e.Vector {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
			bw.Write(buf)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteText writes entries in the word2vec text layout with a header line.
func WriteText(w io.Writer, entries []core.WordVector) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no vectors", core.ErrVectorFormat)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(entries), len(entries[0].Vector))
	for _, e := range entries {
		bw.WriteString(e.Token)
		for _, v := range e.Vector {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteBinaryFile writes entries to path in the word2vec binary layout.
func WriteBinaryFile(path string, entries []core.WordVector) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBinary(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
