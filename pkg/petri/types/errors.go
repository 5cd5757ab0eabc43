package types

import "errors"

// Sentinel errors, one family per error kind from the error handling
// design: configuration, invariant, decode, protocol and io. Call sites
// wrap these with fmt.Errorf("...: %w", Err...) so context travels with
// the error while errors.Is keeps working.
var (
	// Configuration errors, fatal at startup.
	ErrNodeCountMismatch = errors.New("number of nets differs from number of nodes")
	ErrNoNetsFound       = errors.New("no nets found")
	ErrNoNodesProvided   = errors.New("no nodes provided")
	ErrSelfNotInNodes    = errors.New("local node address is not present in the nodes list")

	// Invariant errors, fatal wherever they're detected.
	ErrUnknownTransition   = errors.New("transition id missing from global map")
	ErrExternalImmediate   = errors.New("immediate instruction cannot target an external transition")
	ErrExternalityMismatch = errors.New("instruction's external flag disagrees with actual target ownership")

	// Decode / protocol errors, fatal in the listener.
	ErrDecodeEnvelope  = errors.New("failed decoding message envelope")
	ErrDecodeEvent     = errors.New("failed decoding event")
	ErrUnknownFeeder   = errors.New("message routed from an unknown feeding node")
	ErrFeedingNodeShut = errors.New("feeding node inbox closed mid-run")
)
