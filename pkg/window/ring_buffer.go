package window

import "math"

// RingBuffer is a fixed-capacity circular buffer of load values that keeps
// running sums, giving O(1) amortized window updates instead of rescanning
// the window on every push. It is not safe for concurrent use: each
// athlete's window state is owned by a single goroutine.
type RingBuffer struct {
	data     []float64
	capacity int
	size     int
	head     int // next write position
	sum      float64
	sumSq    float64
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		data:     make([]float64, capacity),
		capacity: capacity,
	}
}

// Push adds a value, evicting the oldest when full.
func (rb *RingBuffer) Push(v float64) {
	if rb.size == rb.capacity {
		old := rb.data[rb.head]
		rb.sum -= old
		rb.sumSq -= old * old
	} else {
		rb.size++
	}
	rb.data[rb.head] = v
	rb.head = (rb.head + 1) % rb.capacity
	rb.sum += v
	rb.sumSq += v * v
}

// Size returns the current number of values.
func (rb *RingBuffer) Size() int { return rb.size }

// IsFull reports whether the buffer is at capacity.
func (rb *RingBuffer) IsFull() bool { return rb.size == rb.capacity }

// Capacity returns the maximum capacity.
func (rb *RingBuffer) Capacity() int { return rb.capacity }

// Sum returns the running sum of buffered values.
func (rb *RingBuffer) Sum() float64 { return rb.sum }

// Mean returns the mean of buffered values, 0 when empty.
func (rb *RingBuffer) Mean() float64 {
	if rb.size == 0 {
		return 0
	}
	return rb.sum / float64(rb.size)
}

// SampleStd returns the sample standard deviation (n-1 denominator) of the
// buffered values. Requires at least 2 values; returns 0 otherwise.
func (rb *RingBuffer) SampleStd() float64 {
	if rb.size < 2 {
		return 0
	}
	n := float64(rb.size)
	mean := rb.sum / n
	variance := (rb.sumSq - n*mean*mean) / (n - 1)
	// Running sums can go fractionally negative from float cancellation.
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// ToSlice returns buffered values in insertion order (oldest first).
func (rb *RingBuffer) ToSlice() []float64 {
	result := make([]float64, rb.size)
	if rb.size == 0 {
		return result
	}
	start := 0
	if rb.size == rb.capacity {
		start = rb.head
	}
	for i := 0; i < rb.size; i++ {
		result[i] = rb.data[(start+i)%rb.capacity]
	}
	return result
}

// Last returns the most recent value and whether one exists.
func (rb *RingBuffer) Last() (float64, bool) {
	if rb.size == 0 {
		return 0, false
	}
	return rb.data[(rb.head-1+rb.capacity)%rb.capacity], true
}

// Clear empties the buffer.
func (rb *RingBuffer) Clear() {
	rb.size = 0
	rb.head = 0
	rb.sum = 0
	rb.sumSq = 0
}
