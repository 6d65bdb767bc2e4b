package commands_test

import (
	"strings"
	"testing"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/wallet"
	"pickupoint/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wrongCode(code string) string {
	digit := (code[0]-'0'+1)%10 + '0'
	return string(digit) + code[1:]
}

// assertValidWalk checks that the status changes in a timeline follow the
// transition graph one step at a time, starting from CREATED.
func assertValidWalk(t *testing.T, events []*parcel.Event) {
	t.Helper()
	current := parcel.Created
	for _, e := range events {
		if e.Kind() != parcel.EventStatusChanged {
			continue
		}
		require.NotNil(t, e.From())
		require.NotNil(t, e.To())
		assert.Equal(t, current, *e.From(), "event %s starts from the previous status", e.ID())
		assert.True(t, e.From().CanTransitionTo(*e.To()), "%s -> %s", e.From(), e.To())
		current = *e.To()
	}
}

func TestRelayToRelayJourney(t *testing.T) {
	w := newWorld(t)
	origin := w.relay("Relay Bè", 6.1319, 1.2228)
	destination := w.relay("Relay Tokoin", 6.1725, 1.2314)
	near := w.courier("Kofi", 6.1321, 1.2230)
	far := w.courier("Yao", 6.2000, 1.3000)
	agent := actor(t, parcel.RoleRelayAgent)

	p := w.relayToRelay(origin, destination)
	w.mustTransition(p, parcel.DroppedAtOriginRelay, agent)

	m := w.activeMission(p.ID())
	assert.Equal(t, mission.LegTransit, m.Leg())
	assert.True(t, origin.ID().IsEqualOptional(m.Pickup().RelayID))
	assert.True(t, destination.ID().IsEqualOptional(m.Delivery().RelayID))
	assert.True(t, m.Earnings().Equal(decimal.NewFromInt(700)))
	assert.True(t, near.IsEqualOptional(m.Cascade().Offeree()), "nearest courier gets the first offer")
	at, scheduled := w.offers.scheduledAt(m.ID())
	require.True(t, scheduled)
	assert.Equal(t, start.Add(w.rt.Policy.OfferWindow), at)
	assert.Equal(t, 1, w.notifier.pushesTo(near, "New mission"))

	_, err := w.accept(m, far)
	require.ErrorIs(t, err, errs.ErrIllegalState)

	m, err = w.accept(m, near)
	require.NoError(t, err)
	assert.Equal(t, mission.Assigned, m.Status())
	assert.True(t, near.IsEqualOptional(w.parcel(p.ID()).CourierID()))
	_, scheduled = w.offers.scheduledAt(m.ID())
	assert.False(t, scheduled)

	_, err = w.pickup(m, near, wrongCode(p.PickupCode().Value()))
	require.ErrorIs(t, err, errs.ErrInvalidCode)

	m, err = w.pickup(m, near, p.PickupCode().Value())
	require.NoError(t, err)
	assert.Equal(t, mission.InProgress, m.Status())
	assert.Equal(t, parcel.InTransit, w.parcel(p.ID()).Status())

	atRelay := point(t, 6.1726, 1.2315)
	m, err = w.deliver(m, near, "", &atRelay)
	require.NoError(t, err)
	assert.Equal(t, mission.Completed, m.Status())
	assert.Equal(t, parcel.AtDestinationRelay, w.parcel(p.ID()).Status())

	w.mustTransition(p, parcel.AvailableAtRelay, agent)
	_, err = w.transition(p, parcel.Delivered, agent)
	require.ErrorIs(t, err, errs.ErrPaymentPending)

	w.pay(p, 1000)
	delivered := w.mustTransition(p, parcel.Delivered, agent)
	assert.Equal(t, parcel.Delivered, delivered.Status())

	assert.True(t, w.balance(origin.OwnerID(), wallet.OwnerRelay).Equal(decimal.NewFromInt(75)))
	assert.True(t, w.balance(destination.OwnerID(), wallet.OwnerRelay).Equal(decimal.NewFromInt(75)))
	assert.True(t, w.balance(near, wallet.OwnerCourier).Equal(decimal.NewFromInt(700)))
	assert.True(t, w.balance(far, wallet.OwnerCourier).IsZero())

	_, err = w.transition(p, parcel.Delivered, agent)
	require.ErrorIs(t, err, errs.ErrIllegalTransition)
	assert.True(t, w.balance(near, wallet.OwnerCourier).Equal(decimal.NewFromInt(700)), "delivered parcels are paid once")

	events := w.timeline(p.ID())
	assert.Equal(t, parcel.EventParcelCreated, events[0].Kind())
	assert.Equal(t, 1, countEvents(events, parcel.EventMissionCreated))
	assert.Equal(t, 1, countEvents(events, parcel.EventMissionAssigned))
	assert.Equal(t, 1, countEvents(events, parcel.EventPickupConfirmed))
	assert.Equal(t, 1, countEvents(events, parcel.EventPaymentReceived))
	assert.Equal(t, 1, countEvents(events, parcel.EventRevenueDistributed))
	assertValidWalk(t, events)
}

func TestHomeToHomeDelivery_ProofChecks(t *testing.T) {
	w := newWorld(t)
	sender := point(t, 6.1300, 1.2200)
	recipient := point(t, 6.1800, 1.2400)
	courierID := w.courier("Kofi", 6.1301, 1.2201)

	p := w.homeToHome(sender, recipient)
	w.mustTransition(p, parcel.OutForDelivery, parcel.SystemActor())

	m := w.activeMission(p.ID())
	assert.Equal(t, mission.LegDelivery, m.Leg())
	assert.Equal(t, mission.PlaceGPS, m.Pickup().Kind)
	assert.Equal(t, mission.PlaceGPS, m.Delivery().Kind)
	assert.Equal(t, p.RecipientName(), m.Delivery().Label)
	assert.True(t, m.Earnings().Equal(decimal.NewFromInt(850)))

	m, err := w.accept(m, courierID)
	require.NoError(t, err)
	m, err = w.pickup(m, courierID, p.PickupCode().Value())
	require.NoError(t, err)

	code := p.DeliveryCode().Value()
	_, err = w.deliver(m, courierID, code, &recipient)
	require.ErrorIs(t, err, errs.ErrPaymentPending)

	w.pay(p, 1000)

	_, err = w.deliver(m, courierID, wrongCode(code), &recipient)
	require.ErrorIs(t, err, errs.ErrInvalidCode)

	// About 600 m north of the drop-off point.
	away := point(t, 6.1800+0.0054, 1.2400)
	_, err = w.deliver(m, courierID, code, &away)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
	assert.Equal(t, mission.InProgress, w.mission(m.ID()).Status())
	assert.Equal(t, parcel.OutForDelivery, w.parcel(p.ID()).Status())

	other := w.courier("Yao", 6.1300, 1.2200)
	_, err = w.deliver(m, other, code, &recipient)
	require.ErrorIs(t, err, errs.ErrNotPermitted)

	m, err = w.deliver(m, courierID, code, &recipient)
	require.NoError(t, err)
	assert.Equal(t, mission.Completed, m.Status())
	assert.Equal(t, parcel.Delivered, w.parcel(p.ID()).Status())
	assert.True(t, w.balance(courierID, wallet.OwnerCourier).Equal(decimal.NewFromInt(850)))
	assert.Positive(t, w.notifier.textsContaining(p.RecipientPhone(), "was delivered"))
	assertValidWalk(t, w.timeline(p.ID()))
}

func TestTransition_CreatedToDeliveredIsRefused(t *testing.T) {
	w := newWorld(t)
	origin := w.relay("Relay Bè", 6.1319, 1.2228)
	destination := w.relay("Relay Tokoin", 6.1725, 1.2314)
	p := w.relayToRelay(origin, destination)
	w.pay(p, 1000)

	_, err := w.transition(p, parcel.Delivered, actor(t, parcel.RoleAdmin))

	require.ErrorIs(t, err, errs.ErrIllegalTransition)
	assert.Equal(t, parcel.Created, w.parcel(p.ID()).Status())
	events := w.timeline(p.ID())
	assert.Zero(t, countEvents(events, parcel.EventStatusChanged))
	assert.Zero(t, countEvents(events, parcel.EventRevenueDistributed))
	assert.True(t, w.balance(origin.OwnerID(), wallet.OwnerRelay).IsZero())
	assert.True(t, w.balance(destination.OwnerID(), wallet.OwnerRelay).IsZero())
}

func TestTransition_RoleIsChecked(t *testing.T) {
	w := newWorld(t)
	p := w.relayToRelay(w.relay("Relay Bè", 6.1319, 1.2228), w.relay("Relay Tokoin", 6.1725, 1.2314))

	_, err := w.transition(p, parcel.DroppedAtOriginRelay, actor(t, parcel.RoleClient))
	require.ErrorIs(t, err, errs.ErrNotPermitted)

	cancelled, err := w.transition(p, parcel.Cancelled, actor(t, parcel.RoleClient))
	require.NoError(t, err)
	assert.Equal(t, parcel.Cancelled, cancelled.Status())
}

func TestTransition_OutForDeliveryWaitsForTransitLeg(t *testing.T) {
	w := newWorld(t)
	origin := w.relay("Relay Bè", 6.1319, 1.2228)
	destination := w.relay("Relay Tokoin", 6.1725, 1.2314)
	courierID := w.courier("Kofi", 6.1321, 1.2230)
	p := w.relayToRelay(origin, destination)
	w.mustTransition(p, parcel.DroppedAtOriginRelay, actor(t, parcel.RoleRelayAgent))

	m := w.activeMission(p.ID())
	m, err := w.accept(m, courierID)
	require.NoError(t, err)
	_, err = w.pickup(m, courierID, p.PickupCode().Value())
	require.NoError(t, err)

	_, err = w.transition(p, parcel.OutForDelivery, actor(t, parcel.RoleAdmin))
	require.ErrorIs(t, err, errs.ErrIllegalState)
	assert.Equal(t, parcel.InTransit, w.parcel(p.ID()).Status())
	assert.Equal(t, 1, countEvents(w.timeline(p.ID()), parcel.EventMissionCreated))
	assert.True(t, m.ID().IsEqual(w.activeMission(p.ID()).ID()))

	atRelay := point(t, 6.1726, 1.2315)
	m, err = w.deliver(m, courierID, "", &atRelay)
	require.NoError(t, err)
	assert.Equal(t, mission.Completed, m.Status())
	assert.Equal(t, parcel.AtDestinationRelay, w.parcel(p.ID()).Status())
}

func TestTransition_CancelClosesPendingMission(t *testing.T) {
	w := newWorld(t)
	p := w.relayToRelay(w.relay("Relay Bè", 6.1319, 1.2228), w.relay("Relay Tokoin", 6.1725, 1.2314))
	w.mustTransition(p, parcel.DroppedAtOriginRelay, actor(t, parcel.RoleRelayAgent))
	m := w.activeMission(p.ID())
	assert.True(t, m.Cascade().Broadcast, "no courier available, so the mission is open to all")

	w.mustTransition(p, parcel.Cancelled, actor(t, parcel.RoleAdmin))

	assert.Equal(t, mission.Cancelled, w.mission(m.ID()).Status())
	assert.Equal(t, 1, w.notifier.pushesTo(p.SenderID(), "Parcel cancelled"))
}

func TestTransition_DeliveryFailedRedirectsToNearestRelay(t *testing.T) {
	w := newWorld(t)
	recipient := point(t, 6.1800, 1.2400)
	w.relay("Relay Far", 6.3000, 1.5000)
	nearest := w.relay("Relay Near", 6.1810, 1.2410)
	courierID := w.courier("Kofi", 6.1301, 1.2201)

	p := w.homeToHome(point(t, 6.1300, 1.2200), recipient)
	w.mustTransition(p, parcel.OutForDelivery, parcel.SystemActor())
	m, err := w.accept(w.activeMission(p.ID()), courierID)
	require.NoError(t, err)
	m, err = w.pickup(m, courierID, p.PickupCode().Value())
	require.NoError(t, err)

	w.mustTransition(p, parcel.DeliveryFailed, courierActor(t, courierID))

	assert.Equal(t, mission.Failed, w.mission(m.ID()).Status())
	stored := w.parcel(p.ID())
	assert.True(t, nearest.ID().IsEqualOptional(stored.RedirectRelayID()))
	assert.True(t, nearest.ID().IsEqualOptional(stored.EffectiveDestinationRelayID()))

	events := w.timeline(p.ID())
	require.Equal(t, 1, countEvents(events, parcel.EventRelayRedirectAssigned))
	for _, e := range events {
		if e.Kind() == parcel.EventRelayRedirectAssigned {
			assert.Equal(t, nearest.ID().String(), e.Metadata()["relay_id"])
		}
	}

	w.mustTransition(p, parcel.RedirectedToRelay, courierActor(t, courierID))
	w.mustTransition(p, parcel.AvailableAtRelay, actor(t, parcel.RoleRelayAgent))
	assertValidWalk(t, w.timeline(p.ID()))
}

func TestRecordPayment_ByTrackingCode(t *testing.T) {
	w := newWorld(t)
	p := w.relayToRelay(w.relay("Relay Bè", 6.1319, 1.2228), w.relay("Relay Tokoin", 6.1725, 1.2314))

	cmd, err := commands.NewRecordPaymentCommand(nil, " "+strings.ToLower(p.TrackingCode())+" ", false, decimal.Zero, "card", "TX-1")
	require.NoError(t, err)
	failed, err := commands.NewRecordPaymentCommandHandler(w.uows, w.rt).Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, parcel.PaymentFailed, failed.PaymentStatus())

	cmd, err = commands.NewRecordPaymentCommand(nil, p.TrackingCode(), true, decimal.NewFromInt(1200), "card", "TX-2")
	require.NoError(t, err)
	paid, err := commands.NewRecordPaymentCommandHandler(w.uows, w.rt).Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid())
	assert.True(t, paid.SettledPrice().Equal(decimal.NewFromInt(1200)))

	_, err = commands.NewRecordPaymentCommandHandler(w.uows, w.rt).Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrIllegalState)

	events := w.timeline(p.ID())
	assert.Equal(t, 1, countEvents(events, parcel.EventPaymentFailed))
	assert.Equal(t, 1, countEvents(events, parcel.EventPaymentReceived))
}

func TestCreateParcel_TextsDeliveryCode(t *testing.T) {
	w := newWorld(t)
	p := w.relayToRelay(w.relay("Relay Bè", 6.1319, 1.2228), w.relay("Relay Tokoin", 6.1725, 1.2314))

	assert.Equal(t, parcel.Created, p.Status())
	assert.True(t, p.QuotedPrice().Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, w.notifier.textsContaining(p.RecipientPhone(), p.DeliveryCode().Value()))

	events := w.timeline(p.ID())
	require.Len(t, events, 1)
	assert.Equal(t, parcel.EventParcelCreated, events[0].Kind())
	assert.Equal(t, p.TrackingCode(), events[0].Metadata()["tracking_code"])
}
