package qconv

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// truncatedStd is the standard deviation of a unit normal truncated to [-2, 2].
const truncatedStd = 0.87962566103423978

// glorotNormal fills a (kernels*group, params) matrix as a (kernels, group, params)
// tensor: fan_in = group*kernels, fan_out = params*kernels, samples from a normal
// truncated at two standard deviations.
func glorotNormal(kernels, group, params int, seed uint64) *mat.Dense {
	fanIn := float64(group * kernels)
	fanOut := float64(params * kernels)
	std := math.Sqrt(2/(fanIn+fanOut)) / truncatedStd

	n := distuv.Normal{Mu: 0, Sigma: std, Src: rand.NewPCG(seed, seed)}
	data := make([]float64, kernels*group*params)
	for i := range data {
		v := n.Rand()
		for math.Abs(v) > 2*std {
			v = n.Rand()
		}
		data[i] = v
	}
	return mat.NewDense(kernels*group, params, data)
}

// randomNormal returns size samples from N(mean, std).
func randomNormal(size int, mean, std float64, seed uint64) []float64 {
	n := distuv.Normal{Mu: mean, Sigma: std, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
	out := make([]float64, size)
	for i := range out {
		out[i] = n.Rand()
	}
	return out
}
