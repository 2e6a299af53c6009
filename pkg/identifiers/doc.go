// Package identifiers provides the order list identifier value type.
//
// An OrderListID tags a logical grouping of orders. It wraps a single
// string payload that is fixed at construction, so values are safe to share
// between goroutines and can be used directly as map keys:
//
//	a := identifiers.NewOrderListID("OL-001")
//	b := identifiers.NewOrderListID("OL-001")
//	a == b // true
//
// Two construction paths exist:
//
//   - NewOrderListID accepts any Go string and never fails.
//   - OrderListIDFromForeign copies text out of a string object owned by
//     another runtime (see ForeignString). The caller vouches for the
//     handle; misuse is reported as a typed error instead of corrupting
//     memory.
//
// No format rule is imposed on the payload. Validation of untrusted input
// belongs upstream of this package.
//
// Values handed to a foreign runtime are owned through the handle registry
// in internal/registry; Go-side values are reclaimed by the garbage
// collector like any other string.
package identifiers
