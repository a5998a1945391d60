package instance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"q.log/qpsimplex/model"
)

// File suffixes of an instance stored under a common base path.
const (
	QuadSuffix      = "_Q.csv"
	LinearSuffix    = "_u.csv"
	IncidenceSuffix = "_A.csv"
	PartitionSuffix = "_P.csv"
)

// Reader reads the CSV files of an instance to construct a problem.
//
// <base>_Q.csv holds Q, one row per line. <base>_u.csv holds q, either one
// value per line or a single row. The partition comes from <base>_A.csv, a
// k×n 0/1 incidence matrix, or, when that file is missing, from
// <base>_P.csv, one block per line listing its indices.
type Reader struct {
	base string
}

func NewReader(base string) *Reader {
	return &Reader{
		base: base,
	}
}

// ConstructProblem returns the problem stored under the reader's base path,
// with a sparse Q backend when sparse is set.
func (r *Reader) ConstructProblem(sparse bool) (*model.Problem, error) {
	q, err := r.readQuad()
	if err != nil {
		return nil, err
	}
	u, err := r.readLinear()
	if err != nil {
		return nil, err
	}
	p, err := r.readPartition()
	if err != nil {
		return nil, err
	}

	var op model.Operator
	if sparse {
		op, err = model.SparseOf(q)
	} else {
		op, err = model.NewDense(q)
	}
	if err != nil {
		return nil, fmt.Errorf("%s%s: %w", r.base, QuadSuffix, err)
	}
	return model.New(op, u, p)
}

func (r *Reader) readQuad() (*mat.Dense, error) {
	name := r.base + QuadSuffix
	rows, err := readFloats(name)
	if err != nil {
		return nil, err
	}
	return toDense(name, rows)
}

func (r *Reader) readLinear() ([]float64, error) {
	name := r.base + LinearSuffix
	rows, err := readFloats(name)
	if err != nil {
		return nil, err
	}
	var u []float64
	for _, row := range rows {
		u = append(u, row...)
	}
	return u, nil
}

func (r *Reader) readPartition() (model.Partition, error) {
	name := r.base + IncidenceSuffix
	rows, err := readFloats(name)
	switch {
	case err == nil:
		a, err := toDense(name, rows)
		if err != nil {
			return nil, err
		}
		p, err := model.FromIncidence(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return p, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	name = r.base + PartitionSuffix
	records, err := readRecords(name)
	if err != nil {
		return nil, err
	}
	p := make(model.Partition, 0, len(records))
	for line, rec := range records {
		block := make([]int, len(rec))
		for j, field := range rec {
			if block[j], err = strconv.Atoi(field); err != nil {
				return nil, fmt.Errorf("%s:%d: %q: %w", name, line+1, field, ErrFormat)
			}
		}
		p = append(p, block)
	}
	return p, nil
}

// readRecords returns the non-empty comma-separated records of a file, with
// blanks trimmed.
func readRecords(name string) ([][]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %v: %w", name, err, ErrFormat)
		}
		fields := rec[:0]
		for _, field := range rec {
			if field = strings.TrimSpace(field); field != "" {
				fields = append(fields, field)
			}
		}
		if len(fields) > 0 {
			records = append(records, fields)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no data: %w", name, ErrFormat)
	}
	return records, nil
}

func readFloats(name string) ([][]float64, error) {
	records, err := readRecords(name)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, len(records))
	for i, rec := range records {
		rows[i] = make([]float64, len(rec))
		for j, field := range rec {
			if rows[i][j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("%s:%d: %q: %w", name, i+1, field, ErrFormat)
			}
		}
	}
	return rows, nil
}

func toDense(name string, rows [][]float64) (*mat.Dense, error) {
	c := len(rows[0])
	data := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("%s:%d: %d columns, want %d: %w", name, i+1, len(row), c, ErrFormat)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), c, data), nil
}
