// Package services implements the driving port interfaces.
// Services contain the core business logic of QuickPass: the preset and
// service catalogs, country resolution, the cart and order lifecycle and the
// edit-session state machine. They orchestrate calls to driven ports
// (adapters) and never touch storage or rendering directly.
package services
