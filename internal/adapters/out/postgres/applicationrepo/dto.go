// Package applicationrepo provides data transfer objects and mapping
// functions for helper application persistence.
package applicationrepo

import (
	"marketplace/internal/core/domain/model/application"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"

	"github.com/google/uuid"
)

// ApplicationDTO represents the database structure for persisting helper
// applications. Rate columns stay null until the application wins selection
// and its commission snapshot is frozen.
type ApplicationDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID  `gorm:"type:uuid;index:idx_applications_order_helper,unique"`
	HelperID     uuid.UUID  `gorm:"type:uuid;index:idx_applications_order_helper,unique"`
	TeamLeaderID *uuid.UUID `gorm:"type:uuid"`
	Selected     bool

	RateTotalPermille      *int
	RatePlatformPermille   *int
	RateTeamLeaderPermille *int
	RateTeamLeaderID       *uuid.UUID `gorm:"type:uuid"`
	RateSource             *string
}

// TableName specifies the database table name for application entities.
func (ApplicationDTO) TableName() string {
	return "applications"
}

// fromDomain converts an application aggregate to its database
// representation.
func fromDomain(aggregate *application.Application) ApplicationDTO {
	dto := ApplicationDTO{
		ID:       aggregate.ID().Bytes(),
		OrderID:  aggregate.OrderID().Bytes(),
		HelperID: aggregate.HelperID().Bytes(),
		Selected: aggregate.Selected(),
	}

	if leaderID := aggregate.TeamLeader(); leaderID != nil {
		raw := leaderID.Bytes()
		dto.TeamLeaderID = &raw
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
		if rateLeaderID := rate.TeamLeader(); rateLeaderID != nil {
			raw := rateLeaderID.Bytes()
			dto.RateTeamLeaderID = &raw
		}
	}

	return dto
}

// toDomain converts a database DTO to an application aggregate.
func toDomain(dto ApplicationDTO) (*application.Application, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	helperID, err := kernel.UUIDFromBytes(dto.HelperID[:])
	if err != nil {
		return nil, err
	}

	var teamLeaderID *kernel.UUID
	if dto.TeamLeaderID != nil {
		leaderID, leaderErr := kernel.UUIDFromBytes((*dto.TeamLeaderID)[:])
		if leaderErr != nil {
			return nil, leaderErr
		}
		teamLeaderID = &leaderID
	}

	rate, err := rateFromDTO(dto)
	if err != nil {
		return nil, err
	}

	return application.RestoreApplication(id, orderID, helperID, teamLeaderID, rate, dto.Selected)
}

func rateFromDTO(dto ApplicationDTO) (*settlement.RateSnapshot, error) {
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
