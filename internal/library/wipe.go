package library

import (
	"context"

	"tonearm/internal/events"
	"tonearm/internal/logging"
	"tonearm/internal/manifest"
)

// WipeStep records the outcome of one stage of WipeEverything.
type WipeStep struct {
	Name string
	Err  error
}

// WipeReport lists every stage attempted during a wipe. Failed reports
// whether any stage errored.
type WipeReport struct {
	Steps []WipeStep
}

func (r *WipeReport) record(name string, err error) {
	r.Steps = append(r.Steps, WipeStep{Name: name, Err: err})
}

// Failed reports whether any step in the report errored.
func (r *WipeReport) Failed() bool {
	for _, step := range r.Steps {
		if step.Err != nil {
			return true
		}
	}
	return false
}

// WipeEverything destroys the remote library and all local state. Every
// stage is attempted even when an earlier one fails; the report carries the
// per-stage outcomes so the caller can surface partial wipes.
func (s *Service) WipeEverything(ctx context.Context) *WipeReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &WipeReport{}

	if s.remote != nil {
		report.record("delete remote media", s.wipeRemoteMedia(ctx))
		report.record("delete remote manifest", s.remote.DeleteObject(ctx, manifest.Key))
	}
	if s.media != nil {
		report.record("clear media cache", s.media.Clear())
	}
	report.record("clear search index", s.index.Clear())
	report.record("remove local manifest cache", s.local.Remove())

	s.current = nil
	for _, step := range report.Steps {
		if step.Err != nil {
			s.logger.Warn("wipe step failed",
				logging.String("step", step.Name), logging.Error(step.Err))
		}
	}
	s.bus.Publish(events.Event{Type: events.LibraryWiped})
	return report
}

func (s *Service) wipeRemoteMedia(ctx context.Context) error {
	objects, err := s.remote.ListObjects(ctx, manifest.ObjectPrefix)
	if err != nil {
		return err
	}
	var firstErr error
	for _, obj := range objects {
		if err := s.remote.DeleteObject(ctx, obj.Key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
