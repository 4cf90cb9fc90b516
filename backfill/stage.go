package backfill

// Stage is where a run is in its lifecycle. A run starts Running and ends exactly once, either Completed or
// Cancelled.
type Stage string

const (
	Idle      Stage = "Idle"      // No run has been started
	Running   Stage = "Running"   // The run is visiting containers, one per frame
	Completed Stage = "Completed" // Every container in the snapshot was visited
	Cancelled Stage = "Cancelled" // The run was stopped before it visited every container
)

// Finished reports whether a run in this stage will visit no more containers.
func (s Stage) Finished() bool {
	return s == Completed || s == Cancelled
}

// end moves r from Running to the final stage. It returns false when r has already ended.
func (r *run) end(final Stage) bool {
	if r.stage != Running || !final.Finished() {
		return false
	}
	r.stage = final
	return true
}
