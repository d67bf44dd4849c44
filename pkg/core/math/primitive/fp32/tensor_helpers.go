package fp32

// ComputeStrides returns the canonical row-major strides for the given shape.
// Example: shape [2,3,4] -> strides [12,4,1].
func ComputeStrides(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}

	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}

	return strides
}

// SizeFromShape computes the total number of elements described by the shape.
func SizeFromShape(shape []int) int {
	size := 1
	if len(shape) == 0 {
		return 0
	}
	for _, dim := range shape {
		if dim <= 0 {
			return 0
		}
		size *= dim
	}
	return size
}

// EnsureStrides returns the provided strides if they match the shape; otherwise it falls back to canonical row-major strides.
func EnsureStrides(strides []int, shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	if len(strides) != len(shape) {
		return ComputeStrides(shape)
	}
	return strides
}

// IsContiguous reports whether the strides describe a dense row-major layout for the shape.
func IsContiguous(strides []int, shape []int) bool {
	if len(shape) == 0 {
		return true
	}
	canonical := ComputeStrides(shape)
	if len(strides) != len(canonical) {
		return false
	}
	for i := range canonical {
		if strides[i] != canonical[i] {
			return false
		}
	}
	return true
}

// advanceOffsets advances the multi-dimensional indices/offsets tuple.
// Returns true if the iteration should continue, false when the final
// element has been processed.
func advanceOffsets(shape []int, indices []int, offsets []int, strides [][]int) bool {
	if len(shape) == 0 {
		return false
	}

	for dim := len(shape) - 1; dim >= 0; dim-- {
		indices[dim]++
		for buf := range offsets {
			offsets[buf] += strides[buf][dim]
		}

		if indices[dim] < shape[dim] {
			return true
		}

		for buf := range offsets {
			offsets[buf] -= strides[buf][dim] * shape[dim]
		}
		indices[dim] = 0
	}

	return false
}
