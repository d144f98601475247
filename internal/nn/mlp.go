package nn

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
)

// MLP is a small feedforward network used for inference. Hidden layers use
// ReLU; the output layer is linear and Forward returns its argmax.
type MLP struct {
	InputSize  int
	Hidden1    int
	Hidden2    int // 0 means no second hidden layer
	OutputSize int

	// Per layer, per unit: bias followed by input weights
	Weights []float32

	h1  []float32
	h2  []float32
	out []float32
}

// NewMLP creates a zero-weight MLP with the given architecture
func NewMLP(inputSize, hidden1, hidden2, outputSize int) *MLP {
	m := &MLP{
		InputSize:  inputSize,
		Hidden1:    hidden1,
		Hidden2:    hidden2,
		OutputSize: outputSize,
		h1:         make([]float32, hidden1),
		out:        make([]float32, outputSize),
	}
	if hidden2 > 0 {
		m.h2 = make([]float32, hidden2)
	}
	m.Weights = make([]float32, m.NumWeights())
	return m
}

// NumWeights returns the total number of weights including biases
func (m *MLP) NumWeights() int {
	last := m.Hidden1
	n := (m.InputSize + 1) * m.Hidden1
	if m.Hidden2 > 0 {
		n += (m.Hidden1 + 1) * m.Hidden2
		last = m.Hidden2
	}
	return n + (last+1)*m.OutputSize
}

// SetWeights copies weights into the network
func (m *MLP) SetWeights(weights []float32) error {
	if len(weights) != len(m.Weights) {
		return fmt.Errorf("nn: got %d weights, network %dx%dx%dx%d needs %d",
			len(weights), m.InputSize, m.Hidden1, m.Hidden2, m.OutputSize, len(m.Weights))
	}
	copy(m.Weights, weights)
	return nil
}

// Forward runs the network and returns the index of the largest output.
// input must hold at least InputSize values. Not safe for concurrent use.
func (m *MLP) Forward(input []float32) int {
	w := m.Weights
	w = dense(input[:m.InputSize], m.h1, w, true)
	last := m.h1
	if m.Hidden2 > 0 {
		w = dense(m.h1, m.h2, w, true)
		last = m.h2
	}
	dense(last, m.out, w, false)
	return argmax(m.out)
}

// Outputs returns a copy of the output layer from the last Forward call
func (m *MLP) Outputs() []float32 {
	res := make([]float32, len(m.out))
	copy(res, m.out)
	return res
}

// dense fills out from in and returns the unconsumed weights
func dense(in, out, w []float32, activate bool) []float32 {
	off := 0
	for j := range out {
		sum := w[off]
		off++
		for _, x := range in {
			sum += x * w[off]
			off++
		}
		if activate && sum < 0 {
			sum = 0
		}
		out[j] = sum
	}
	return w[off:]
}

func argmax(vals []float32) int {
	best := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[best] {
			best = i
		}
	}
	return best
}

// Randomize fills the weights with a Xavier-like initialization
func (m *MLP) Randomize(rng *rand.Rand) {
	scale := float32(math.Sqrt(2.0 / float64(len(m.Weights))))
	for i := range m.Weights {
		m.Weights[i] = float32(rng.NormFloat64()) * scale
	}
}

// WeightsFile is the on-disk format for a trained network
type WeightsFile struct {
	InputSize  int       `json:"input_size"`
	Hidden1    int       `json:"hidden1"`
	Hidden2    int       `json:"hidden2"`
	OutputSize int       `json:"output_size"`
	Weights    []float32 `json:"weights"`
}

// SaveWeights writes the architecture and weights as JSON
func (m *MLP) SaveWeights(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(WeightsFile{
		InputSize:  m.InputSize,
		Hidden1:    m.Hidden1,
		Hidden2:    m.Hidden2,
		OutputSize: m.OutputSize,
		Weights:    m.Weights,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadMLP builds a network from a weights file
func LoadMLP(path string) (*MLP, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wf WeightsFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("decode weights %s: %w", path, err)
	}
	if wf.InputSize < 1 || wf.Hidden1 < 1 || wf.Hidden2 < 0 || wf.OutputSize < 1 {
		return nil, fmt.Errorf("weights %s: invalid architecture %dx%dx%dx%d",
			path, wf.InputSize, wf.Hidden1, wf.Hidden2, wf.OutputSize)
	}
	m := NewMLP(wf.InputSize, wf.Hidden1, wf.Hidden2, wf.OutputSize)
	if err := m.SetWeights(wf.Weights); err != nil {
		return nil, fmt.Errorf("weights %s: %w", path, err)
	}
	return m, nil
}
