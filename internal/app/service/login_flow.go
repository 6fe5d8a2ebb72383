package service

import (
	"strings"
	"time"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/google/uuid"
)

// demoNamespace seeds the deterministic ids of demo email identities, so the
// same demo address maps to the same profile on every login.
var demoNamespace = uuid.MustParse("6f1c3d5e-8a2b-4c7d-9e0f-1a2b3c4d5e6f")

// isDemoIdentifier matches the reserved demo address or anything starting with "demo".
func isDemoIdentifier(identifier, demoEmail string) bool {
	id := strings.ToLower(strings.TrimSpace(identifier))
	return id == demoEmail || strings.HasPrefix(id, "demo")
}

func demoIdentityID(channel model.Channel, identifier string) string {
	if channel == model.ChannelPhone {
		return model.DemoIDPrefix + "phone-" + identifier
	}
	return model.DemoIDPrefix + "user-" + uuid.NewSHA1(demoNamespace, []byte("clozet:"+strings.ToLower(identifier))).String()
}

func inputStep(channel model.Channel) model.LoginStep {
	if channel == model.ChannelPhone {
		return model.LoginStepPhone
	}
	return model.LoginStepEmail
}

// applyChooseMethod moves method to an input step, or switches between input steps.
func applyChooseMethod(flow *model.LoginFlow, channel model.Channel) error {
	if !channel.Valid() {
		return newValidationError("channel", "must be phone or email")
	}
	switch flow.Step {
	case model.LoginStepMethod, model.LoginStepPhone, model.LoginStepEmail:
	default:
		return ErrInvalidTransition
	}
	if flow.Channel != channel {
		flow.Identifier = ""
		flow.Demo = false
	}
	flow.Channel = channel
	flow.Step = inputStep(channel)
	return nil
}

// applyBack undoes one step: otp to the input step, input step to method.
func applyBack(flow *model.LoginFlow) error {
	switch flow.Step {
	case model.LoginStepOTP:
		flow.Step = inputStep(flow.Channel)
		flow.ResendAvailableAt = time.Time{}
	case model.LoginStepPhone, model.LoginStepEmail:
		flow.Step = model.LoginStepMethod
	default:
		return ErrInvalidTransition
	}
	return nil
}

// resendIn is the whole seconds left on the cooldown, rounded up.
func resendIn(flow *model.LoginFlow, now time.Time) int {
	if flow.ResendAvailableAt.IsZero() || !flow.ResendAvailableAt.After(now) {
		return 0
	}
	return (&CooldownError{Remaining: flow.ResendAvailableAt.Sub(now)}).Seconds()
}
