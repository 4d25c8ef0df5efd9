package state

import (
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/logging"
)

// Policy returns the negative balance policy stored in the settings, or
// fallback when none is stored.
func (s State) Policy(fallback ledger.Policy) ledger.Policy {
	if s.Settings.NegativeBalancePolicy == "" {
		return fallback
	}
	p, err := ledger.ParsePolicy(s.Settings.NegativeBalancePolicy)
	if err != nil {
		return fallback
	}
	return p
}

// SetPolicy stores a negative balance policy override. An empty Policy
// clears it.
type SetPolicy struct {
	Policy string
}

func (a SetPolicy) Name() string { return "set_policy" }

func (a SetPolicy) apply(r *Reducer, s State) (State, error) {
	next := s.Clone()
	if a.Policy == "" {
		next.Settings.NegativeBalancePolicy = ""
		r.log.Info("policy override cleared")
		return next, nil
	}
	p, err := ledger.ParsePolicy(a.Policy)
	if err != nil {
		return s, &ledgererror.ValidationError{Field: "policy", Reason: err.Error()}
	}
	next.Settings.NegativeBalancePolicy = string(p)
	r.log.Info("policy override stored", logging.F("policy", string(p)))
	return next, nil
}
