package metrics

import "errors"

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordOutcomes forwards the records to every sink and joins the errors.
func (m *MultiSink) RecordOutcomes(recs []OutcomeRecord) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordOutcomes(recs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordPass forwards pass totals to the sinks that support them.
func (m *MultiSink) RecordPass(p PassSummary) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(PassRecorder); ok {
			if err := r.RecordPass(p); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordFleet forwards fleet snapshots to the sinks that support them.
func (m *MultiSink) RecordFleet(f FleetSnapshot) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(FleetRecorder); ok {
			if err := r.RecordFleet(f); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordEvent forwards events to the sinks that support them.
func (m *MultiSink) RecordEvent(ev EventRecord) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(EventRecorder); ok {
			if err := r.RecordEvent(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks holding resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
