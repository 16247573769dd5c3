package vecmath

import "math"

func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine returns 0 for empty or unequal-length vectors. A zero norm is
// replaced by 1 so a zero vector is never NaN-similar to anything.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	na := math.Sqrt(normA)
	if na == 0 {
		na = 1
	}
	nb := math.Sqrt(normB)
	if nb == 0 {
		nb = 1
	}
	return dot / (na * nb)
}

// Normalize returns an L2-normalized copy of v. The zero vector is returned unchanged.
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	n := Norm(v)
	if n == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = x / n
	}
	return out
}

// AddInto adds src to dst element-wise. dst must be at least as long as src.
func AddInto(dst, src []float64) {
	for i, x := range src {
		dst[i] += x
	}
}

func Float64s(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// NearestCentroid scans centroids in order and keeps the first one with the
// highest cosine similarity, so exact ties resolve to the lowest index.
func NearestCentroid(v []float64, centroids [][]float64) int {
	best := 0
	bestSim := math.Inf(-1)
	for i, c := range centroids {
		sim := Cosine(v, c)
		if sim > bestSim {
			best = i
			bestSim = sim
		}
	}
	return best
}
