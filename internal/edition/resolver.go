package edition

import (
	"fmt"

	"github.com/corduroy/collector/internal/domain"
)

// CandidateError reports the identifier that failed to parse as an edition id
type CandidateError struct {
	Candidate string
	Err       error
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("artId/editionId must be numeric, got '%s'", e.Candidate)
}

func (e *CandidateError) Unwrap() error {
	return e.Err
}

// Request carries the identifier fields of a claim.
// A nil PIN means no PIN was supplied.
type Request struct {
	PIN   *string
	ArtID string
}

// Resolver maps scanned identifiers to canonical edition ids.
// Its tables are fixed at construction and safe for concurrent use.
type Resolver struct {
	pins   Mapping
	labels Mapping
}

// NewResolver validates the tables and returns a resolver.
// Label values must be edition ids; PIN values must be edition ids or known labels.
func NewResolver(pins, labels Mapping) (*Resolver, error) {
	for _, label := range labels.Keys() {
		if _, err := domain.ParseEditionID(labels[label]); err != nil {
			return nil, fmt.Errorf("label %q: %w", label, err)
		}
	}

	for _, pin := range pins.Keys() {
		value := pins[pin]
		if domain.IsNumeric(value) {
			if _, err := domain.ParseEditionID(value); err != nil {
				return nil, fmt.Errorf("pin %q: %w", pin, err)
			}
			continue
		}
		if _, ok := labels[value]; !ok {
			return nil, fmt.Errorf("pin %q maps to %q which is neither an edition id nor a known label", pin, value)
		}
	}

	return &Resolver{pins: pins.Clone(), labels: labels.Clone()}, nil
}

// Resolve produces the canonical edition id for a claim request.
// It fails with domain.ErrPINNotFound for an unknown PIN and
// a *CandidateError wrapping domain.ErrInvalidEditionID when the final candidate is not numeric.
func (r *Resolver) Resolve(req Request) (domain.EditionID, error) {
	candidate := req.ArtID

	if req.PIN != nil {
		mapped, ok := r.pins[*req.PIN]
		if !ok {
			return domain.EditionID{}, domain.ErrPINNotFound
		}
		candidate = mapped
	}

	if candidate != "" && !domain.IsNumeric(candidate) {
		if mapped, ok := r.labels[candidate]; ok {
			candidate = mapped
		}
	}

	id, err := domain.ParseEditionID(candidate)
	if err != nil {
		return domain.EditionID{}, &CandidateError{Candidate: candidate, Err: err}
	}

	return id, nil
}

// Pins returns a copy of the PIN table
func (r *Resolver) Pins() Mapping {
	return r.pins.Clone()
}

// Labels returns a copy of the label table
func (r *Resolver) Labels() Mapping {
	return r.labels.Clone()
}
