// Package brain provides the neural decision functions that drive agents:
// a small feed-forward network evaluated with gonum, the threshold adapter
// that turns its output into a jump decision, and a few baseline policies.
package brain

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/vovakirdan/flappy-neat/internal/core"
)

// Network is the only view the harness has of a trained model.
type Network interface {
	Activate(inputs []float64) []float64
}

// Layout describes a two-layer network.
type Layout struct {
	Inputs  int
	Hidden  int
	Outputs int
}

// DefaultLayout returns the layout for flappy observations with one output.
func DefaultLayout(hidden int) Layout {
	return Layout{Inputs: core.ObservationSize, Hidden: hidden, Outputs: 1}
}

// Size returns the number of weights and biases in the layout.
func (l Layout) Size() int {
	return l.Hidden*l.Inputs + l.Hidden + l.Outputs*l.Hidden + l.Outputs
}

// Valid reports whether every dimension is positive.
func (l Layout) Valid() bool {
	return l.Inputs > 0 && l.Hidden > 0 && l.Outputs > 0
}

// FeedForward is a fully connected network with a tanh hidden layer and a
// sigmoid output layer. Activate allocates its own scratch, so distinct
// goroutines may share one network.
type FeedForward struct {
	layout Layout
	w1     *mat.Dense    // hidden x inputs
	b1     *mat.VecDense // hidden
	w2     *mat.Dense    // outputs x hidden
	b2     *mat.VecDense // outputs
}

// NewFeedForward builds a network from a flat parameter vector laid out as
// W1 (row-major), B1, W2 (row-major), B2. The slice is copied.
func NewFeedForward(l Layout, params []float64) (*FeedForward, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("brain: invalid layout %+v", l)
	}
	if len(params) != l.Size() {
		return nil, fmt.Errorf("brain: layout %+v needs %d parameters, got %d", l, l.Size(), len(params))
	}

	p := make([]float64, len(params))
	copy(p, params)

	take := func(n int) []float64 {
		s := p[:n:n]
		p = p[n:]
		return s
	}
	return &FeedForward{
		layout: l,
		w1:     mat.NewDense(l.Hidden, l.Inputs, take(l.Hidden*l.Inputs)),
		b1:     mat.NewVecDense(l.Hidden, take(l.Hidden)),
		w2:     mat.NewDense(l.Outputs, l.Hidden, take(l.Outputs*l.Hidden)),
		b2:     mat.NewVecDense(l.Outputs, take(l.Outputs)),
	}, nil
}

// Layout returns the network dimensions.
func (f *FeedForward) Layout() Layout {
	return f.layout
}

// Activate runs a forward pass. It panics if len(inputs) does not match the
// layout.
func (f *FeedForward) Activate(inputs []float64) []float64 {
	if len(inputs) != f.layout.Inputs {
		panic(fmt.Sprintf("brain: %d inputs for a %d-input network", len(inputs), f.layout.Inputs))
	}
	x := mat.NewVecDense(len(inputs), inputs)

	var h mat.VecDense
	h.MulVec(f.w1, x)
	h.AddVec(&h, f.b1)
	for i := 0; i < h.Len(); i++ {
		h.SetVec(i, math.Tanh(h.AtVec(i)))
	}

	var o mat.VecDense
	o.MulVec(f.w2, &h)
	o.AddVec(&o, f.b2)

	out := make([]float64, o.Len())
	for i := range out {
		out[i] = sigmoid(o.AtVec(i))
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// RandomParams draws an initial parameter vector with Xavier-scaled weights
// and zero biases.
func RandomParams(l Layout, rng *rand.Rand) []float64 {
	p := make([]float64, l.Size())
	scale1 := math.Sqrt(2.0 / float64(l.Inputs))
	scale2 := math.Sqrt(2.0 / float64(l.Hidden))

	i := 0
	for ; i < l.Hidden*l.Inputs; i++ {
		p[i] = rng.NormFloat64() * scale1
	}
	i += l.Hidden
	for end := i + l.Outputs*l.Hidden; i < end; i++ {
		p[i] = rng.NormFloat64() * scale2
	}
	return p
}
