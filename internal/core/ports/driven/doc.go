// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - StateStore: Keyed persistence for user, cart and order records
//   - Compositor: Renders source photos into fixed-size rasters
//   - ImageDecoder: Decodes acquired image bytes
//   - Clock: Time source and timed tasks for the simulated delays
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - BlobStore: Keeps rendered images out of the records. Without it, images are embedded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or imaging package
package driven
