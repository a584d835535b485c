package friendsearch

import "github.com/kailas-cloud/friendsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation              = domain.ErrValidation
	ErrInvalidSearchParameters = domain.ErrInvalidSearchParameters
	ErrInternal                = domain.ErrInternal
)

// ValidationError names the rejected parameter. Use errors.As() to extract it.
type ValidationError = domain.ValidationError
