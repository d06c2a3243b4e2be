package mappers

import (
	"fmt"
	"time"

	"harvestcycle/internal/domain/replacement"
	vo "harvestcycle/internal/domain/replacement/valueobjects"
	"harvestcycle/internal/infrastructure/persistence/models"
)

// ReplacementRequestMapper converts between the aggregate and its row.
type ReplacementRequestMapper struct{}

func NewReplacementRequestMapper() *ReplacementRequestMapper {
	return &ReplacementRequestMapper{}
}

func (m *ReplacementRequestMapper) ToModel(r *replacement.ReplacementRequest) *models.ReplacementRequestModel {
	if r == nil {
		return nil
	}
	return &models.ReplacementRequestModel{
		ID:               r.ID(),
		SubscriberID:     r.SubscriberID(),
		WeekStart:        r.WeekStart().UnixMilli(),
		Type:             r.Type().String(),
		Reason:           r.Reason(),
		Status:           r.Status().String(),
		AppliedToOrderID: r.AppliedToOrderID(),
		AdminNotes:       r.AdminNotes(),
		Version:          r.Version(),
		CreatedAt:        r.CreatedAt().UnixMilli(),
		UpdatedAt:        r.UpdatedAt().UnixMilli(),
	}
}

func (m *ReplacementRequestMapper) ToDomain(model *models.ReplacementRequestModel) (*replacement.ReplacementRequest, error) {
	if model == nil {
		return nil, nil
	}
	r, err := replacement.ReconstructReplacementRequest(
		model.ID,
		model.SubscriberID,
		time.UnixMilli(model.WeekStart).UTC(),
		vo.RequestType(model.Type),
		model.Reason,
		vo.RequestStatus(model.Status),
		model.AppliedToOrderID,
		model.AdminNotes,
		model.Version,
		time.UnixMilli(model.CreatedAt).UTC(),
		time.UnixMilli(model.UpdatedAt).UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct replacement request %s: %w", model.ID, err)
	}
	return r, nil
}

func (m *ReplacementRequestMapper) ToDomainList(rows []*models.ReplacementRequestModel) ([]*replacement.ReplacementRequest, error) {
	out := make([]*replacement.ReplacementRequest, 0, len(rows))
	for _, row := range rows {
		r, err := m.ToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
