// Package quant provides the dense complex operator algebra underlying
// the spin simulation.
//
// The package defines the fundamental types for finite-dimensional
// quantum mechanics:
//
//   - [Operator]: square complex matrix with value semantics
//   - [Observable]: Hermitian operator (validated on construction)
//   - [DensityMatrix]: Hermitian, unit-trace, positive operator
//
// Composite Hilbert spaces are built with [TensorProduct] and reduced
// with [PartialTrace]. Tensor composition is a left fold: the first
// factor varies slowest in the composite basis, and every caller that
// embeds subsystem operators must use the same ordering.
//
// All operations return new values; an Operator is never mutated after
// construction, so values may be shared freely across goroutines.
package quant
