package verification

import "errors"

var (
	// ErrNoImageSource means the caller provided neither a direct URL nor
	// a storage path. Rejected before the vision service is called.
	ErrNoImageSource = errors.New("either image_url or storage_path must be provided")
	// ErrVisionUnavailable wraps a vision service failure. Fatal on the
	// on-demand verification path.
	ErrVisionUnavailable = errors.New("vision service unavailable")
	ErrVerificationNotFound = errors.New("image verification not found")
)
