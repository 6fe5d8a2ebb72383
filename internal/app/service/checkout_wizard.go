package service

import "github.com/clozet/clozet-backend/internal/app/model"

// The wizard is linear: address, delivery, payment. Back may jump to any
// earlier step; forward only moves one step once the current one is satisfied.

func requireStep(draft *model.CheckoutDraft, step model.CheckoutStep) error {
	if draft.Step != step {
		return ErrInvalidCheckoutStep
	}
	return nil
}

// preselect picks the default address, or the first one when none is default.
func preselect(addresses []model.Address) string {
	for _, a := range addresses {
		if a.IsDefault {
			return a.ID
		}
	}
	if len(addresses) > 0 {
		return addresses[0].ID
	}
	return ""
}

func containsAddress(addresses []model.Address, id string) bool {
	for _, a := range addresses {
		if a.ID == id {
			return true
		}
	}
	return false
}

// canAdvance reports whether next would succeed from the draft's current step.
func canAdvance(draft *model.CheckoutDraft, addresses []model.Address) bool {
	switch draft.Step {
	case model.CheckoutStepAddress:
		return !draft.NewAddressFormOpen && containsAddress(addresses, draft.SelectedAddressID)
	case model.CheckoutStepDelivery:
		return draft.DeliveryType.Valid()
	}
	return false
}

func applyNext(draft *model.CheckoutDraft, addresses []model.Address) error {
	switch draft.Step {
	case model.CheckoutStepAddress, model.CheckoutStepDelivery:
		if !canAdvance(draft, addresses) {
			return ErrStepPrecondition
		}
		draft.Step++
		return nil
	}
	return ErrInvalidCheckoutStep
}

func applyCheckoutBack(draft *model.CheckoutDraft, step model.CheckoutStep) error {
	if step < model.CheckoutStepAddress || step >= draft.Step {
		return ErrInvalidCheckoutStep
	}
	draft.Step = step
	return nil
}

func applyChooseDelivery(draft *model.CheckoutDraft, deliveryType model.DeliveryType) error {
	if err := requireStep(draft, model.CheckoutStepDelivery); err != nil {
		return err
	}
	if !deliveryType.Valid() {
		return ErrInvalidDeliveryType
	}
	draft.DeliveryType = deliveryType
	return nil
}
