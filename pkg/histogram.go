package dnndata

import "sort"

// weightedHistogram accumulates weights into the bins defined by edges.
// Bins are half-open [edge[i], edge[i+1]) except the last one, which also
// includes its right edge. Samples outside [edges[0], edges[last]] are
// dropped. Edges must be ascending; len(edges) = number of bins + 1.
//
// These are the same semantics as the histograms the downstream model was
// trained on, so edge cases here must not be "improved".
func weightedHistogram(samples []float64, weights []float64, edges []float64) []float64 {
	nBins := len(edges) - 1
	hist := make([]float64, nBins)

	for i, sample := range samples {
		if sample < edges[0] || sample > edges[nBins] {
			continue
		}
		// First edge >= sample. A sample equal to an edge starts that
		// edge's bin, any other sample falls in the bin to the left.
		pos := sort.SearchFloat64s(edges, sample)
		bin := pos
		if pos == len(edges) || edges[pos] != sample {
			bin = pos - 1
		}
		if bin == nBins {
			// Right edge of the last bin is inclusive.
			bin--
		}
		hist[bin] += weights[i]
	}
	return hist
}
