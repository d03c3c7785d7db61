// Package domain defines the core business entities for QuickPass.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SizePreset: A physical document-photo size and its countries
//   - Service: A purchasable photo product
//   - EditTransform: The user-adjustable composition geometry
//   - CartItem and Order: Immutable snapshots owned by the cart store
//   - AppSession: A read-only view of the interactive edit session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
