package paywall

import "paywall-go/internal/model"

// requireCap enforces the capability check guarding every privileged entry
// point: the presented capability must be bound to exactly the resource
// being mutated. Callers must return before touching any state when this
// fails.
func requireCap(cap *model.OwnerCap, subjectID string) error {
	if cap == nil || cap.SubjectID != subjectID {
		return errUnauthorized(CodeCapMismatch, "capability is not bound to resource %s", subjectID)
	}
	return nil
}

// Cap loads a capability by ID.
func (s *Service) Cap(id string) (*model.OwnerCap, error) {
	cap, err := s.ledger.GetCap(id)
	if err != nil {
		return nil, err
	}
	if cap == nil {
		return nil, errMismatch(CodeNotFound, "capability not found: %s", id)
	}
	return cap, nil
}

// TransferCap hands a capability to another identity, so administration of
// its resource can be handed off. Only the current holder may transfer.
func (s *Service) TransferCap(capID string, from, to model.Identity) (*model.OwnerCap, error) {
	cap, err := s.Cap(capID)
	if err != nil {
		return nil, err
	}
	if cap.Owner != from {
		return nil, errUnauthorized(CodeNotOwner, "capability %s is not held by %s", capID, from)
	}

	cap.Owner = to
	ev := s.newEvent(EventCapTransferred, from, cap.ID, 0, "to="+string(to))
	if err := s.ledger.TransferCap(cap, ev); err != nil {
		return nil, err
	}

	s.logger.Info("capability transferred", "cap", cap.ID, "to", to)
	return cap, nil
}
