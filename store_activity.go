package valuestore

import (
	"context"

	"github.com/goliatone/go-valuestore/pkg/activity"
)

func (s *Store) eventInput(input activity.PropsEventInput) activity.PropsEventInput {
	input.Component = s.cfg.component
	input.Identity = s.cfg.identity
	return input
}

// emitting reports whether events with verb reach any hook.
func (s *Store) emitting(verb string) bool {
	return s.cfg.emitter.Emits(verb)
}

// emit forwards event to the configured hooks. Store operations cannot fail,
// so hook errors are reported to the logger only.
func (s *Store) emit(event activity.Event) {
	if !s.emitting(event.Verb) {
		return
	}
	if err := s.cfg.emitter.Emit(context.Background(), event); err != nil {
		s.logOperation(OperationEvent{Op: OpActivity, Path: event.Verb, Err: err})
	}
}
