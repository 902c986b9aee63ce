package genealogy

import "github.com/teranos/ancestry/errors"

// Sentinel errors for lineage reconstruction.
var (
	// ErrIndividualNotFound is returned when a requested individual is absent
	// from the store. It wraps errors.ErrNotFound.
	ErrIndividualNotFound = errors.Wrap(errors.ErrNotFound, "individual does not exist")

	// ErrReservedID is returned by Load for a row whose identifier is 0 or negative.
	ErrReservedID = errors.Wrap(errors.ErrInvalidRequest, "identifier must be positive (0 is reserved for no parent)")

	// ErrOptionViolation is returned when an invalid Option or Query is supplied.
	ErrOptionViolation = errors.Wrap(errors.ErrInvalidRequest, "invalid option")

	// ErrNilStore is returned when a nil store is passed.
	ErrNilStore = errors.New("store is nil")
)

func individualNotFound(id ID) error {
	return errors.WithHint(
		errors.Wrapf(ErrIndividualNotFound, "individual %d", id),
		"roots must be present in the loaded population",
	)
}
