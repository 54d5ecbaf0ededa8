// Package application provides the helper Application aggregate: one helper's
// bid for one order. The application carries the commission rate frozen at
// selection time, which is one of the tiers the rate resolver consults.
package application

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
)

var (
	// ErrApplicationIsNotConstructed is returned when an Application was not
	// created through NewApplication or RestoreApplication.
	ErrApplicationIsNotConstructed = errors.New(
		"Application must be created via NewApplication constructor",
	)

	// ErrApplicationAlreadySelected rejects freezing a rate onto an
	// already-selected application.
	ErrApplicationAlreadySelected = errors.New("application is already selected")
)

// Application is one helper's application to an order. At most one application
// per order is ever selected; selection freezes the resolved rate snapshot
// onto the record in the same transaction as the order's status transition,
// so the rate can never drift between selection and snapshot write.
type Application struct {
	id           kernel.UUID
	orderID      kernel.UUID
	helperID     kernel.UUID
	teamLeaderID *kernel.UUID
	rate         *settlement.RateSnapshot
	selected     bool

	isConstructed bool
}

// NewApplication creates an unselected application. The team leader, when
// present, is the one whose rate overrides and leader share apply.
func NewApplication(id, orderID, helperID kernel.UUID, teamLeaderID *kernel.UUID) (*Application, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), helperID.Validate()); err != nil {
		return nil, err
	}
	if teamLeaderID != nil {
		if err := teamLeaderID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Application{
		id:            id,
		orderID:       orderID,
		helperID:      helperID,
		teamLeaderID:  teamLeaderID,
		isConstructed: true,
	}, nil
}

// RestoreApplication rehydrates an application from persistence.
func RestoreApplication(
	id, orderID, helperID kernel.UUID,
	teamLeaderID *kernel.UUID,
	rate *settlement.RateSnapshot,
	selected bool,
) (*Application, error) {
	a, err := NewApplication(id, orderID, helperID, teamLeaderID)
	if err != nil {
		return nil, err
	}
	if rate != nil {
		if err = rate.Validate(); err != nil {
			return nil, err
		}
	}

	a.rate = rate
	a.selected = selected
	return a, nil
}

// Validate ensures the application was built via a constructor.
func (a *Application) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrApplicationIsNotConstructed
	}
	return nil
}

// ID returns the application's unique identifier.
func (a *Application) ID() kernel.UUID {
	return a.id
}

// OrderID returns the order applied to.
func (a *Application) OrderID() kernel.UUID {
	return a.orderID
}

// HelperID returns the applying helper.
func (a *Application) HelperID() kernel.UUID {
	return a.helperID
}

// TeamLeader returns the helper's team leader, or nil for independents.
func (a *Application) TeamLeader() *kernel.UUID {
	return a.teamLeaderID
}

// Rate returns the frozen rate snapshot, or nil before selection.
func (a *Application) Rate() *settlement.RateSnapshot {
	return a.rate
}

// Selected reports whether this application won the order.
func (a *Application) Selected() bool {
	return a.selected
}

// Select marks the application selected and freezes the resolved rate onto
// it. Both happen together: a selected application without a frozen rate
// must never exist.
func (a *Application) Select(rate settlement.RateSnapshot) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	if a.selected {
		return ErrApplicationAlreadySelected
	}

	a.rate = &rate
	a.selected = true
	return nil
}
