package sim

import "errors"

var (
	// ErrIdentityCollision is returned when a specific package id is requested
	// while a live package already holds it.
	ErrIdentityCollision = errors.New("package id already in use")

	// ErrInvalidPackageID is returned for id 0, which marks an empty package.
	ErrInvalidPackageID = errors.New("invalid package id")

	// ErrInconsistentNetwork is returned when some sender cannot reach a storehouse
	// or has no outgoing links.
	ErrInconsistentNetwork = errors.New("inconsistent network")

	// ErrEmptyRouterSelection is returned when a receiver is requested from an
	// empty ReceiverPreferences. Seen during a run, it means the network was edited
	// after validation.
	ErrEmptyRouterSelection = errors.New("no receivers to choose from")

	// ErrUnknownReceiver is returned when a routing edge names a receiver that is
	// not part of the network.
	ErrUnknownReceiver = errors.New("unknown receiver")

	ErrDuplicateNode    = errors.New("duplicate node")
	ErrUnknownNode      = errors.New("unknown node")
	ErrInvalidLink      = errors.New("invalid link")
	ErrInvalidParameter = errors.New("invalid parameter")
)
