package parcel

import (
	"fmt"

	"pickupoint/internal/pkg/errs"
)

// DeliveryMode says where the parcel enters and leaves the network.
type DeliveryMode int

const (
	ModeUnknown DeliveryMode = iota
	RelayToRelay
	RelayToHome
	HomeToRelay
	HomeToHome
)

var modeNames = map[DeliveryMode]string{
	RelayToRelay: "relay_to_relay",
	RelayToHome:  "relay_to_home",
	HomeToRelay:  "home_to_relay",
	HomeToHome:   "home_to_home",
}

func ParseDeliveryMode(s string) (DeliveryMode, error) {
	for mode, name := range modeNames {
		if name == s {
			return mode, nil
		}
	}
	return ModeUnknown, errs.NewValueIsInvalidErrorWithCause("delivery_mode", fmt.Errorf("%q is not a delivery mode", s))
}

func (m DeliveryMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m DeliveryMode) Validate() error {
	if _, ok := modeNames[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery_mode", fmt.Errorf("%d is not a valid mode", m))
	}
	return nil
}

// PicksUpAtHome reports whether a courier collects the parcel from the sender.
func (m DeliveryMode) PicksUpAtHome() bool {
	switch m {
	case HomeToRelay, HomeToHome:
		return true
	case RelayToRelay, RelayToHome, ModeUnknown:
		return false
	}
	return false
}

// DeliversToHome reports whether the last leg ends at the recipient's address.
func (m DeliveryMode) DeliversToHome() bool {
	switch m {
	case RelayToHome, HomeToHome:
		return true
	case RelayToRelay, HomeToRelay, ModeUnknown:
		return false
	}
	return false
}

// UsesHomeBasePrice reports whether the home base price applies instead of the
// relay base price.
func (m DeliveryMode) UsesHomeBasePrice() bool {
	return m.PicksUpAtHome() || m.DeliversToHome()
}
