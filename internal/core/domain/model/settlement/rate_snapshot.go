package settlement

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRateSnapshotIsNotConstructed = errors.New(
	"RateSnapshot must be created via NewRateSnapshot constructor",
)

// RateSource tags where a resolved rate came from, for auditability.
type RateSource int

const (
	// SourceUnknown catches uninitialized RateSource values.
	SourceUnknown RateSource = iota

	// SourceApplicationSnapshot: the rate was already frozen on the helper's
	// application record for this order.
	SourceApplicationSnapshot

	// SourceOrderSnapshot: the rate was frozen on the order at creation time,
	// covering the gap before a helper is chosen.
	SourceOrderSnapshot

	// SourceEffectiveLookup: the rate came from a live lookup of the helper's
	// effective commission policy at resolution time.
	SourceEffectiveLookup
)

func rateSourceNames() map[RateSource]string {
	return map[RateSource]string{
		SourceApplicationSnapshot: "application_snapshot",
		SourceOrderSnapshot:       "order_snapshot",
		SourceEffectiveLookup:     "effective_lookup",
	}
}

// String returns the wire name of the source tag, or "unknown".
func (s RateSource) String() string {
	if name, ok := rateSourceNames()[s]; ok {
		return name
	}
	return "unknown"
}

// RateSourceFromString parses a persisted source tag.
func RateSourceFromString(raw string) (RateSource, error) {
	for source, name := range rateSourceNames() {
		if name == raw {
			return source, nil
		}
	}
	return SourceUnknown, errs.NewValueIsInvalidErrorWithCause("rate source",
		fmt.Errorf("%q is not a known rate source", raw))
}

// Validate rejects unrecognized source tags.
func (s RateSource) Validate() error {
	if _, ok := rateSourceNames()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("rate source",
			fmt.Errorf("%d is not a valid rate source", s))
	}
	return nil
}

// RateSnapshot is a commission rate frozen for one order+helper pairing.
// Rates are permille integers so fee arithmetic stays exact. The share sum
// rule (platform + team leader == total) is enforced here, at construction,
// not re-validated at resolution time.
//
// A snapshot is immutable: once captured at helper-selection time it is never
// recomputed from current policy.
type RateSnapshot struct {
	totalPermille      int
	platformPermille   int
	teamLeaderPermille int
	teamLeaderID       *kernel.UUID
	source             RateSource

	guard guard.ConstructorGuard
}

// NewRateSnapshot creates a validated rate snapshot.
func NewRateSnapshot(
	totalPermille, platformPermille, teamLeaderPermille int,
	teamLeaderID *kernel.UUID,
	source RateSource,
) (RateSnapshot, error) {
	if totalPermille < 0 || totalPermille > 1000 {
		return RateSnapshot{}, errs.NewValueIsOutOfRangeError("total rate permille", totalPermille, 0, 1000)
	}
	if platformPermille < 0 || teamLeaderPermille < 0 {
		return RateSnapshot{}, errs.NewValueIsInvalidError("commission shares must be non-negative")
	}
	if platformPermille+teamLeaderPermille != totalPermille {
		return RateSnapshot{}, errs.NewValueIsInvalidErrorWithCause("commission shares",
			fmt.Errorf("platform %d + team leader %d != total %d",
				platformPermille, teamLeaderPermille, totalPermille))
	}
	if err := source.Validate(); err != nil {
		return RateSnapshot{}, err
	}
	if teamLeaderID != nil {
		if err := teamLeaderID.Validate(); err != nil {
			return RateSnapshot{}, err
		}
	}

	return RateSnapshot{
		totalPermille:      totalPermille,
		platformPermille:   platformPermille,
		teamLeaderPermille: teamLeaderPermille,
		teamLeaderID:       teamLeaderID,
		source:             source,
		guard:              guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the snapshot was built via NewRateSnapshot.
func (r RateSnapshot) Validate() error {
	return r.guard.Validate(ErrRateSnapshotIsNotConstructed)
}

// TotalPermille returns the full commission rate in permille.
func (r RateSnapshot) TotalPermille() int {
	return r.totalPermille
}

// PlatformPermille returns the platform's share in permille.
func (r RateSnapshot) PlatformPermille() int {
	return r.platformPermille
}

// TeamLeaderPermille returns the team leader's share in permille.
func (r RateSnapshot) TeamLeaderPermille() int {
	return r.teamLeaderPermille
}

// TeamLeader returns the team leader earning the leader share, or nil.
func (r RateSnapshot) TeamLeader() *kernel.UUID {
	return r.teamLeaderID
}

// Source returns the audit tag recording which tier resolved this rate.
func (r RateSnapshot) Source() RateSource {
	return r.source
}

// WithSource returns a copy of the snapshot retagged with the given source.
// The numeric rate never changes.
func (r RateSnapshot) WithSource(source RateSource) (RateSnapshot, error) {
	return NewRateSnapshot(r.totalPermille, r.platformPermille, r.teamLeaderPermille, r.teamLeaderID, source)
}
