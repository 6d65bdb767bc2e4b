package commands

import (
	"errors"

	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/pricing"
	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

var ErrUpsertPricingRuleCommandIsNotConstructed = errors.New(
	"UpsertPricingRuleCommand must be created via NewUpsertPricingRuleCommand constructor",
)

// UpsertPricingRuleCommand creates or replaces a tariff rule by ID.
type UpsertPricingRuleCommand struct { //nolint:recvcheck //using for validation
	rule  pricing.Rule
	actor parcel.Actor

	guard guard.ConstructorGuard
}

func NewUpsertPricingRuleCommand(rule pricing.Rule, actor parcel.Actor) (UpsertPricingRuleCommand, error) {
	if err := errors.Join(rule.Validate(), actor.Validate()); err != nil {
		return UpsertPricingRuleCommand{}, err
	}
	if !actor.Role.IsAdministrative() {
		return UpsertPricingRuleCommand{}, errs.NewNotPermittedError(actor.Role, "change pricing rules")
	}
	if rule.MaxPrice != nil {
		maxPrice := *rule.MaxPrice
		rule.MaxPrice = &maxPrice
	}
	return UpsertPricingRuleCommand{rule: rule, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c UpsertPricingRuleCommand) Validate() error {
	return c.guard.Validate(ErrUpsertPricingRuleCommandIsNotConstructed)
}

func (c UpsertPricingRuleCommand) Rule() pricing.Rule  { return c.rule }
func (c UpsertPricingRuleCommand) Actor() parcel.Actor { return c.actor }
