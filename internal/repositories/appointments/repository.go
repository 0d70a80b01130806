// Package appointments links finished submissions back to the scheduled
// appointment they originated from. The link is best-effort from the
// composer's perspective: the submission is already durable when it runs.
package appointments

import "context"

// Linker writes the submission id onto the originating appointment.
type Linker interface {
	Link(ctx context.Context, appointmentID, submissionID string) error
}
