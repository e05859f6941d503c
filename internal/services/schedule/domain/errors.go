package domain

import perr "glowdesk/internal/platform/errors"

// Sentinel outcomes of the completion state machine and regeneration protocol.
// These are expected user-facing results, not system failures
var (
	// ErrAlreadyFinalized rejects a completion on a non-pending occurrence
	ErrAlreadyFinalized = perr.New(perr.ErrorCodeConflict, "occurrence already finalized")

	// ErrGracePeriodExpired rejects a completion arriving after the grace window
	ErrGracePeriodExpired = perr.New(perr.ErrorCodeConflict, "grace period expired")

	// ErrRegenerationConflict surfaces a lock race that persisted past the automatic retry
	ErrRegenerationConflict = perr.New(perr.ErrorCodeConflict, "regeneration conflict, retry the mutation")
)
