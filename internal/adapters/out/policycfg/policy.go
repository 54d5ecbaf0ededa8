// Package policycfg loads the commission and deposit policy from a YAML
// file and serves it as an immutable snapshot. Changing the policy requires
// a restart; orders in flight are unaffected either way because their
// economics are frozen in rate snapshots at creation and match time.
package policycfg

import (
	"fmt"
	"os"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

// Hard-coded fallback when nothing is configured: 10% total, all platform.
const defaultTotalPermille = 100

// rateYAML is one commission rate entry in the policy file.
type rateYAML struct {
	TotalPermille      int `yaml:"total_permille"`
	PlatformPermille   int `yaml:"platform_permille"`
	TeamLeaderPermille int `yaml:"team_leader_permille"`
}

// policyYAML is the on-disk policy document. The deposit rate is an integer
// permille, same unit as the commission rates, so the calculator's floor is
// exact integer math.
type policyYAML struct {
	DepositPermille int                 `yaml:"deposit_permille"`
	GlobalRate      *rateYAML           `yaml:"global_rate"`
	Teams           map[string]rateYAML `yaml:"teams"`
	Helpers         map[string]rateYAML `yaml:"helpers"`
}

// Policy implements ports.PolicyProvider from a loaded YAML document.
// All rates are validated at load time, including the share-sum invariant,
// so resolution never fails.
type Policy struct {
	depositPermille int
	globalRate      settlement.RateSnapshot
	teamRates       map[kernel.UUID]settlement.RateSnapshot
	helperRates     map[kernel.UUID]settlement.RateSnapshot
}

// Load reads and validates the policy file at path.
func Load(path string) (*Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var doc policyYAML
	if err = yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}

	return build(doc)
}

func build(doc policyYAML) (*Policy, error) {
	if doc.DepositPermille < 0 || doc.DepositPermille > 1000 {
		return nil, errs.NewValueIsOutOfRangeError("deposit_permille", doc.DepositPermille, 0, 1000)
	}

	globalRate, err := defaultRate()
	if err != nil {
		return nil, err
	}
	if doc.GlobalRate != nil {
		globalRate, err = snapshotFromYAML(*doc.GlobalRate, nil)
		if err != nil {
			return nil, fmt.Errorf("global_rate: %w", err)
		}
	}

	p := &Policy{
		depositPermille: doc.DepositPermille,
		globalRate:      globalRate,
		teamRates:       make(map[kernel.UUID]settlement.RateSnapshot, len(doc.Teams)),
		helperRates:     make(map[kernel.UUID]settlement.RateSnapshot, len(doc.Helpers)),
	}

	for rawID, rate := range doc.Teams {
		leaderID, idErr := kernel.UUIDFromString(rawID)
		if idErr != nil {
			return nil, fmt.Errorf("teams[%s]: %w", rawID, idErr)
		}
		snapshot, rateErr := snapshotFromYAML(rate, &leaderID)
		if rateErr != nil {
			return nil, fmt.Errorf("teams[%s]: %w", rawID, rateErr)
		}
		p.teamRates[leaderID] = snapshot
	}

	for rawID, rate := range doc.Helpers {
		helperID, idErr := kernel.UUIDFromString(rawID)
		if idErr != nil {
			return nil, fmt.Errorf("helpers[%s]: %w", rawID, idErr)
		}
		snapshot, rateErr := snapshotFromYAML(rate, nil)
		if rateErr != nil {
			return nil, fmt.Errorf("helpers[%s]: %w", rawID, rateErr)
		}
		p.helperRates[helperID] = snapshot
	}

	return p, nil
}

// Default creates a policy with the hard-coded fallback rate and the given
// deposit permille. Used when no policy file is configured.
func Default(depositPermille int) (*Policy, error) {
	return build(policyYAML{DepositPermille: depositPermille})
}

// DepositPermille returns the configured deposit rate in [0, 1000].
func (p *Policy) DepositPermille() int {
	return p.depositPermille
}

// GlobalRate returns the global commission policy.
func (p *Policy) GlobalRate() settlement.RateSnapshot {
	return p.globalRate
}

// EffectiveRate resolves the helper's current commission rate: helper
// override, then team override, then global policy. The hard-coded default
// only applies when no global rate is configured, handled at load time.
func (p *Policy) EffectiveRate(helperID kernel.UUID, teamLeaderID *kernel.UUID) settlement.RateSnapshot {
	if rate, ok := p.helperRates[helperID]; ok {
		return rate
	}
	if teamLeaderID != nil {
		if rate, ok := p.teamRates[*teamLeaderID]; ok {
			return rate
		}
	}
	return p.globalRate
}

func snapshotFromYAML(rate rateYAML, teamLeaderID *kernel.UUID) (settlement.RateSnapshot, error) {
	return settlement.NewRateSnapshot(
		rate.TotalPermille, rate.PlatformPermille, rate.TeamLeaderPermille,
		teamLeaderID, settlement.SourceEffectiveLookup,
	)
}

func defaultRate() (settlement.RateSnapshot, error) {
	return settlement.NewRateSnapshot(
		defaultTotalPermille, defaultTotalPermille, 0,
		nil, settlement.SourceEffectiveLookup,
	)
}
