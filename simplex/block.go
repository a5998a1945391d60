package simplex

// ProjectBlocks stores in dst the projection of x onto the product of
// simplices given by blocks: each block of coordinates is projected on its own
// simplex, independently of the others. dst may alias x.
func ProjectBlocks(dst, x []float64, blocks [][]int, m Method) []float64 {
	dst = resize(dst, len(x))
	var in, out []float64
	for _, block := range blocks {
		in = in[:0]
		for _, i := range block {
			in = append(in, x[i])
		}
		out = m.Project(out, in)
		for k, i := range block {
			dst[i] = out[k]
		}
	}
	return dst
}

// ReducedGradient stores in dst the projection of -g onto the directions that
// keep every block sum constant and leave active coordinates fixed.
//
// For a block with inactive set I and mean m of g over I, dstᵢ = m - gᵢ on I
// and 0 elsewhere. A block with no inactive coordinate gets zero.
func ReducedGradient(dst, g []float64, active []bool, blocks [][]int) []float64 {
	dst = resize(dst, len(g))
	for _, block := range blocks {
		var sum float64
		free := 0
		for _, i := range block {
			if !active[i] {
				sum += g[i]
				free++
			}
		}
		var mean float64
		if free > 0 {
			mean = sum / float64(free)
		}
		for _, i := range block {
			if active[i] {
				dst[i] = 0
			} else {
				dst[i] = mean - g[i]
			}
		}
	}
	return dst
}
