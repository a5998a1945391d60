package instance

import (
	"bufio"
	"errors"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"q.log/qpsimplex/model"
)

// WriteProblem stores Q, q and the partition under base in the layout read by
// Reader, writing the partition as <base>_P.csv. Values are written with the
// shortest representation that parses back to the same float64.
func WriteProblem(base string, Q mat.Matrix, q []float64, p model.Partition) error {
	n, _ := Q.Dims()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, Q)
	}
	if err := writeFile(base+QuadSuffix, func(w *bufio.Writer) {
		for _, row := range rows {
			writeRow(w, row, strconv.AppendFloat)
		}
	}); err != nil {
		return err
	}

	if err := writeFile(base+LinearSuffix, func(w *bufio.Writer) {
		for _, v := range q {
			writeRow(w, []float64{v}, strconv.AppendFloat)
		}
	}); err != nil {
		return err
	}

	return writeFile(base+PartitionSuffix, func(w *bufio.Writer) {
		for _, block := range p {
			writeRow(w, block, func(b []byte, i int, _ byte, _, _ int) []byte {
				return strconv.AppendInt(b, int64(i), 10)
			})
		}
	})
}

// WriteProblemOf stores a problem with WriteProblem.
func WriteProblemOf(base string, p *model.Problem) error {
	return WriteProblem(base, p.Q, p.Linear(), p.Blocks())
}

func writeFile(name string, fill func(w *bufio.Writer)) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	fill(w)
	return w.Flush()
}

func writeRow[T any](w *bufio.Writer, row []T, appendFn func([]byte, T, byte, int, int) []byte) {
	var buf []byte
	for j, v := range row {
		if j > 0 {
			buf = append(buf, ',')
		}
		buf = appendFn(buf, v, 'g', -1, 64)
	}
	buf = append(buf, '\n')
	_, _ = w.Write(buf)
}
