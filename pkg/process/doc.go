// Package process creates, observes and controls operating-system processes,
// presenting one API over the Windows priority-class/waitable-handle model and
// the POSIX nice/signal model.
//
// A Process is either started by this package (via StartConfig and Start) or
// attached to an existing OS process (via GetByID, ListAll or Current). Both
// kinds share the same lifecycle: NotStarted -> Starting -> Running -> Exited.
// PIDs can be recycled by the OS, so every process reference carries an
// identity timestamp that is checked before control operations are attempted.
//
// Closing a Process releases its OS handle but never terminates the
// underlying process; termination is always an explicit Kill.
package process
