package plant

import "errors"

var (
	// ErrPlantNotFound is returned when a plant ID does not exist.
	ErrPlantNotFound = errors.New("plant not found")

	// ErrInvalidQuery is returned when a Query carries an unknown kind.
	ErrInvalidQuery = errors.New("invalid plant query")
)
