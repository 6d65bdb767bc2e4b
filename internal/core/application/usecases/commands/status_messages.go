package commands

import (
	"fmt"

	"pickupoint/internal/core/domain/model/parcel"
)

type statusMessage struct {
	title string
	body  string
	// smsRecipient is set for the statuses the recipient has to act on.
	smsRecipient bool
}

func messageFor(p *parcel.Parcel) statusMessage {
	code := p.TrackingCode()
	switch p.Status() {
	case parcel.Created:
		return statusMessage{title: "Parcel created", body: fmt.Sprintf("Parcel %s is registered.", code)}
	case parcel.DroppedAtOriginRelay:
		return statusMessage{title: "Parcel dropped off", body: fmt.Sprintf("Parcel %s was dropped at the relay point.", code)}
	case parcel.InTransit:
		return statusMessage{title: "Parcel in transit", body: fmt.Sprintf("Parcel %s is on its way.", code), smsRecipient: true}
	case parcel.AtDestinationRelay:
		return statusMessage{title: "Parcel at destination relay", body: fmt.Sprintf("Parcel %s reached the destination relay.", code)}
	case parcel.AvailableAtRelay:
		return statusMessage{
			title:        "Parcel ready for pickup",
			body:         fmt.Sprintf("Parcel %s is ready for pickup. Bring your delivery code.", code),
			smsRecipient: true,
		}
	case parcel.OutForDelivery:
		return statusMessage{title: "Out for delivery", body: fmt.Sprintf("Parcel %s is out for delivery.", code), smsRecipient: true}
	case parcel.Delivered:
		return statusMessage{title: "Parcel delivered", body: fmt.Sprintf("Parcel %s was delivered.", code), smsRecipient: true}
	case parcel.DeliveryFailed:
		return statusMessage{title: "Delivery failed", body: fmt.Sprintf("Delivery of parcel %s failed.", code), smsRecipient: true}
	case parcel.RedirectedToRelay:
		return statusMessage{
			title:        "Parcel redirected",
			body:         fmt.Sprintf("Parcel %s was redirected to a relay point.", code),
			smsRecipient: true,
		}
	case parcel.Disputed:
		return statusMessage{title: "Parcel disputed", body: fmt.Sprintf("Parcel %s is under review.", code)}
	case parcel.Cancelled:
		return statusMessage{title: "Parcel cancelled", body: fmt.Sprintf("Parcel %s was cancelled.", code)}
	case parcel.Expired:
		return statusMessage{title: "Parcel expired", body: fmt.Sprintf("Parcel %s was not collected in time.", code)}
	case parcel.Returned:
		return statusMessage{title: "Parcel returned", body: fmt.Sprintf("Parcel %s was returned to the sender.", code)}
	case parcel.StatusUnknown:
	}
	return statusMessage{}
}

// announceStatus queues the sender push and, where relevant, the recipient SMS.
func announceStatus(fx *effects, p *parcel.Parcel) {
	msg := messageFor(p)
	if msg.title == "" {
		return
	}
	fx.notify(p.SenderID(), msg.title, msg.body, p.TrackingCode())
	if msg.smsRecipient {
		fx.sms(p.RecipientPhone(), msg.body)
	}
}
