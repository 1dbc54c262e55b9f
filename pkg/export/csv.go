package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/lintang-b-s/roaddist/pkg/resultview"
)

var csvHeader = []string{"vertex", "distance"}

var rankedHeader = []string{"rank", "vertex", "distance"}

func formatDistance(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// WriteCSV. write `vertex,distance` rows with a header row.
func WriteCSV(w io.Writer, records []resultview.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	row := make([]string, 2)
	for _, r := range records {
		row[0] = strconv.FormatInt(r.Vertex, 10)
		row[1] = formatDistance(r.Distance)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRanked. write `rank,vertex,distance` rows for nearest/farthest results, rank starts at 1.
func WriteRanked(w io.Writer, records []resultview.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rankedHeader); err != nil {
		return err
	}
	row := make([]string, 3)
	for i, r := range records {
		row[0] = strconv.Itoa(i + 1)
		row[1] = strconv.FormatInt(r.Vertex, 10)
		row[2] = formatDistance(r.Distance)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile. WriteCSV to path, zstd compressed when path ends with .zst.
func WriteFile(path string, records []resultview.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw

	var enc *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		enc, err = zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return err
		}
		w = enc
	}

	if err = WriteCSV(w, records); err != nil {
		return fmt.Errorf("write export file %s: %w", path, err)
	}
	if enc != nil {
		if err = enc.Close(); err != nil {
			return err
		}
	}
	return bw.Flush()
}
