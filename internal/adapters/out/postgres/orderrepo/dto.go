// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The status is stored as its wire string, not an integer, so rows written by
// older services with legacy status values stay readable; Normalize maps them
// back on load. Rate and closing columns are null until the corresponding
// part of the lifecycle happens.
type OrderDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID  `gorm:"type:uuid;index"`
	HelperID    *uuid.UUID `gorm:"type:uuid;index"`
	Status      string     `gorm:"index"`

	RateTotalPermille      *int
	RatePlatformPermille   *int
	RateTeamLeaderPermille *int
	RateTeamLeaderID       *uuid.UUID `gorm:"type:uuid"`
	RateSource             *string

	ClosingDeliveredCount  *int
	ClosingReturnedCount   *int
	ClosingEtcCount        *int
	ClosingUnitPrice       *int64
	ClosingEtcPricePerUnit *int64
	ClosingExtraCosts      []ExtraCostDTO `gorm:"serializer:json"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ExtraCostDTO is one extra cost line inside the serialized closing report.
type ExtraCostDTO struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:          aggregate.ID().Bytes(),
		RequesterID: aggregate.RequesterID().Bytes(),
		Status:      aggregate.Status().String(),
	}

	if helper := aggregate.Helper(); helper != nil {
		raw := helper.Bytes()
		dto.HelperID = &raw
	}

	if rate := aggregate.Rate(); rate != nil {
		total := rate.TotalPermille()
		platform := rate.PlatformPermille()
		teamLeader := rate.TeamLeaderPermille()
		source := rate.Source().String()
		dto.RateTotalPermille = &total
		dto.RatePlatformPermille = &platform
		dto.RateTeamLeaderPermille = &teamLeader
		dto.RateSource = &source
		if leaderID := rate.TeamLeader(); leaderID != nil {
			raw := leaderID.Bytes()
			dto.RateTeamLeaderID = &raw
		}
	}

	if closing := aggregate.Closing(); closing != nil {
		delivered := closing.DeliveredCount()
		returned := closing.ReturnedCount()
		etc := closing.EtcCount()
		unitPrice := closing.UnitPrice()
		etcPrice := closing.EtcPricePerUnit()
		dto.ClosingDeliveredCount = &delivered
		dto.ClosingReturnedCount = &returned
		dto.ClosingEtcCount = &etc
		dto.ClosingUnitPrice = &unitPrice
		dto.ClosingEtcPricePerUnit = &etcPrice

		costs := closing.ExtraCosts()
		dto.ClosingExtraCosts = make([]ExtraCostDTO, 0, len(costs))
		for _, cost := range costs {
			dto.ClosingExtraCosts = append(dto.ClosingExtraCosts, ExtraCostDTO{
				Label:  cost.Label(),
				Amount: cost.Amount(),
			})
		}
	}

	return dto
}

// toDomain converts a database DTO to an order aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	requesterID, err := kernel.UUIDFromBytes(dto.RequesterID[:])
	if err != nil {
		return nil, err
	}

	var helperID *kernel.UUID
	if dto.HelperID != nil {
		hID, helperErr := kernel.UUIDFromBytes((*dto.HelperID)[:])
		if helperErr != nil {
			return nil, helperErr
		}
		helperID = &hID
	}

	rate, err := rateFromDTO(dto)
	if err != nil {
		return nil, err
	}
	closing, err := closingFromDTO(dto)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, requesterID, helperID, order.Normalize(dto.Status), rate, closing)
}

func rateFromDTO(dto OrderDTO) (*settlement.RateSnapshot, error) {
	if dto.RateTotalPermille == nil || dto.RatePlatformPermille == nil ||
		dto.RateTeamLeaderPermille == nil || dto.RateSource == nil {
		return nil, nil //nolint:nilnil //null columns mean no frozen rate
	}

	source, err := settlement.RateSourceFromString(*dto.RateSource)
	if err != nil {
		return nil, err
	}

	var teamLeaderID *kernel.UUID
	if dto.RateTeamLeaderID != nil {
		leaderID, leaderErr := kernel.UUIDFromBytes((*dto.RateTeamLeaderID)[:])
		if leaderErr != nil {
			return nil, leaderErr
		}
		teamLeaderID = &leaderID
	}

	rate, err := settlement.NewRateSnapshot(
		*dto.RateTotalPermille, *dto.RatePlatformPermille, *dto.RateTeamLeaderPermille,
		teamLeaderID, source,
	)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func closingFromDTO(dto OrderDTO) (*order.ClosingData, error) {
	if dto.ClosingDeliveredCount == nil || dto.ClosingReturnedCount == nil ||
		dto.ClosingEtcCount == nil || dto.ClosingUnitPrice == nil || dto.ClosingEtcPricePerUnit == nil {
		return nil, nil //nolint:nilnil //null columns mean no closing report yet
	}

	costs := make([]order.ExtraCost, 0, len(dto.ClosingExtraCosts))
	for _, costDTO := range dto.ClosingExtraCosts {
		cost, err := order.NewExtraCost(costDTO.Label, costDTO.Amount)
		if err != nil {
			return nil, err
		}
		costs = append(costs, cost)
	}

	closing, err := order.NewClosingData(
		*dto.ClosingDeliveredCount, *dto.ClosingReturnedCount, *dto.ClosingEtcCount,
		*dto.ClosingUnitPrice, *dto.ClosingEtcPricePerUnit, costs,
	)
	if err != nil {
		return nil, err
	}
	return &closing, nil
}
