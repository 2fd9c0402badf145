package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// GetAllCouriersQueryHandler lists the courier directory for admins.
type GetAllCouriersQueryHandler struct {
	couriers ports.CourierRepository
}

func NewGetAllCouriersQueryHandler(couriers ports.CourierRepository) GetAllCouriersQueryHandler {
	return GetAllCouriersQueryHandler{couriers: couriers}
}

// Handle returns couriers in directory order: creation time, then id.
func (h GetAllCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCouriersQuery,
) ([]GetAllCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if !query.Actor().Is(actor.Admin) {
		return nil, errs.NewForbiddenError(query.Actor().Role().String(), "list couriers")
	}

	couriers, err := h.couriers.List(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]GetAllCouriersQueryResponse, 0, len(couriers))
	for _, c := range couriers {
		res = append(res, GetAllCouriersQueryResponse{
			ID:           c.ID(),
			Name:         c.Name(),
			Availability: c.Availability(),
			CreatedAt:    c.CreatedAt(),
		})
	}
	return res, nil
}
