package service

import (
	"context"

	"github.com/google/uuid"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// EntityRef points a file at the registry record it documents.
type EntityRef struct {
	Type domain.EntityType `json:"entity_type" form:"entity_type"`
	ID   uuid.UUID         `json:"entity_id" form:"entity_id"`
}

// entityLinker checks that a file attachment target exists in the tenant.
type entityLinker struct {
	regRepo       port.RegistrationRepository
	renewalRepo   port.RenewalRepository
	variationRepo port.VariationRepository
}

func newEntityLinker(
	regRepo port.RegistrationRepository,
	renewalRepo port.RenewalRepository,
	variationRepo port.VariationRepository,
) *entityLinker {
	return &entityLinker{regRepo: regRepo, renewalRepo: renewalRepo, variationRepo: variationRepo}
}

// resolve validates ref and returns the pointer pair stored on FileMeta.
// A nil ref yields an unattached file.
func (l *entityLinker) resolve(ctx context.Context, tenantID uuid.UUID, ref *EntityRef) (*domain.EntityType, *uuid.UUID, error) {
	if ref == nil || ref.Type == "" {
		return nil, nil, nil
	}
	var err error
	switch ref.Type {
	case domain.EntityRegistration:
		_, err = l.regRepo.GetByID(ctx, tenantID, ref.ID)
	case domain.EntityRenewal:
		_, err = l.renewalRepo.GetByID(ctx, tenantID, ref.ID)
	case domain.EntityVariation:
		_, err = l.variationRepo.GetByID(ctx, tenantID, ref.ID)
	default:
		return nil, nil, domain.ErrInvalidEntityType
	}
	if err != nil {
		return nil, nil, err
	}
	t, id := ref.Type, ref.ID
	return &t, &id, nil
}
