// Package schedule dispatches a function over an input sequence through a
// cluster pool under two scheduling disciplines.
//
// The static scheduler precomputes one contiguous chunk per worker; use it
// when per-item cost is uniform and large. The dynamic scheduler lets
// workers claim items on demand from a shared queue; use it when per-item
// cost is variable, at the price of per-item coordination overhead.
// Both restore the original input order in their results regardless of
// completion order.
package schedule
