package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransform indicates an edit transform outside its allowed ranges.
	ErrInvalidTransform = errors.New("invalid edit transform")

	// Acquisition Errors.

	// ErrAcquisition wraps any failure to obtain a source image.
	// The session keeps its previous state; the user may fall back to upload.
	ErrAcquisition = errors.New("acquisition failed")

	// ErrUnsupportedImage indicates input bytes that are not JPEG, PNG or WebP.
	ErrUnsupportedImage = errors.New("unsupported image type")

	// ErrDecodeFailed indicates the image header was recognised but decoding failed.
	ErrDecodeFailed = errors.New("image decode failed")

	// ErrImageTooLarge indicates a source image beyond the configured pixel limits.
	ErrImageTooLarge = errors.New("image too large")

	// Approve Errors.

	// ErrMissingSource indicates approve was called before a photo was captured.
	ErrMissingSource = errors.New("no source image")

	// ErrMissingService indicates approve was called before a service was chosen.
	ErrMissingService = errors.New("no service selected")

	// Cart Errors.

	// ErrEmptyCart indicates checkout was requested with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCheckoutInProgress indicates a payment is already pending for this session.
	ErrCheckoutInProgress = errors.New("checkout in progress")

	// Persistence Errors.

	// ErrQuotaExceeded indicates a record larger than the store accepts.
	// Callers treat it as a warning; the in-memory state stays authoritative.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)
