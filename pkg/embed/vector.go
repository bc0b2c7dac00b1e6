// Package embed builds fixed-length load-signature vectors from an
// athlete's trailing training history, used for similarity search over
// historical athlete-weeks. Embeddings are a retrieval aid only; they are
// not part of the classifier's feature schema.
package embed

// Vector is a fixed-length float32 vector for similarity search.
type Vector []float32

// Common embedding dimensions.
const (
	Dim32 = 32
	Dim64 = 64
)

// NewVector creates a zeroed vector with the specified dimension.
func NewVector(dim int) Vector {
	return make(Vector, dim)
}

// Dim returns the dimension of the vector.
func (v Vector) Dim() int {
	return len(v)
}

// Copy creates a deep copy of the vector.
func (v Vector) Copy() Vector {
	result := make(Vector, len(v))
	copy(result, v)
	return result
}
