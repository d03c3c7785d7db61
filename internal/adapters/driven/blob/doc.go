// Package blob groups driven.BlobStore implementations used to keep rendered
// photos out of the persisted cart and order records.
//
// Adapters:
//   - filesystem: images under a local directory
//   - s3: images in an S3-compatible bucket (AWS, MinIO, R2)
package blob
