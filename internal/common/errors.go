// Package common defines shared sentinel errors used across the draft,
// materialization, and submission layers of checkride. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Submission pipeline errors. Both abort the attempt and leave the
	// local draft untouched so the user can retry.
	ErrUploadFailed  = errors.New("asset upload failed")
	ErrPersistFailed = errors.New("submission persist failed")

	// Session errors.
	ErrSessionActive = errors.New("another session is active for this data dir")
	ErrSessionClosed = errors.New("session is closed")
)
