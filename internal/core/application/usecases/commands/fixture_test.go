package commands_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	postgres_adapter "pickupoint/internal/adapters/out/postgres"
	"pickupoint/internal/adapters/out/postgres/dbtest"
	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/mission"
	"pickupoint/internal/core/domain/model/parcel"
	"pickupoint/internal/core/domain/model/relay"
	"pickupoint/internal/core/domain/model/wallet"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type funcUoWFactory func() commands.UoW

func (f funcUoWFactory) Create() commands.UoW { return f() }

type funcCourierUoWFactory func() commands.CourierUoW

func (f funcCourierUoWFactory) Create() commands.CourierUoW { return f() }

type funcWalletUoWFactory func() commands.WalletUoW

func (f funcWalletUoWFactory) Create() commands.WalletUoW { return f() }

type funcPricingUoWFactory func() commands.PricingUoW

func (f funcPricingUoWFactory) Create() commands.PricingUoW { return f() }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentMessage struct {
	to    string
	title string
	body  string
}

// recordingNotifier keeps every message for later assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	pushes []sentMessage
	texts  []sentMessage
}

func (n *recordingNotifier) Notify(_ context.Context, userID kernel.UUID, title, body, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, sentMessage{to: userID.String(), title: title, body: body})
	return nil
}

func (n *recordingNotifier) SMS(_ context.Context, phone, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, sentMessage{to: phone, body: body})
	return nil
}

func (n *recordingNotifier) pushesTo(id kernel.UUID, title string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, m := range n.pushes {
		if m.to == id.String() && m.title == title {
			count++
		}
	}
	return count
}

func (n *recordingNotifier) textsContaining(phone, fragment string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, m := range n.texts {
		if m.to == phone && strings.Contains(m.body, fragment) {
			count++
		}
	}
	return count
}

// recordingOffers is an OfferQueue that never fires on its own.
type recordingOffers struct {
	mu        sync.Mutex
	scheduled map[kernel.UUID]time.Time
	cancelled map[kernel.UUID]bool
}

func (q *recordingOffers) Schedule(_ context.Context, id kernel.UUID, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.scheduled[id] = at
	delete(q.cancelled, id)
	return nil
}

func (q *recordingOffers) Due(context.Context, time.Time, int) ([]kernel.UUID, error) {
	return nil, nil
}

func (q *recordingOffers) Cancel(_ context.Context, id kernel.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.scheduled, id)
	q.cancelled[id] = true
	return nil
}

func (q *recordingOffers) scheduledAt(id kernel.UUID) (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	at, ok := q.scheduled[id]
	return at, ok
}

type world struct {
	t        *testing.T
	factory  *postgres_adapter.GormUnitOfWorkFactory
	uows     commands.UoWFactory
	clock    *testClock
	notifier *recordingNotifier
	offers   *recordingOffers
	rt       commands.Runtime
}

func newWorld(t *testing.T) *world {
	t.Helper()
	factory := postgres_adapter.NewGormUnitOfWorkFactory(dbtest.NewSQLite(t))
	w := &world{
		t:        t,
		factory:  factory,
		uows:     funcUoWFactory(func() commands.UoW { return factory.Create() }),
		clock:    &testClock{now: start},
		notifier: &recordingNotifier{},
		offers:   &recordingOffers{scheduled: map[kernel.UUID]time.Time{}, cancelled: map[kernel.UUID]bool{}},
	}
	w.rt = commands.Runtime{
		Clock:    w.clock,
		Policy:   services.DefaultDispatchPolicy(),
		Splitter: services.NewRevenueSplitter(services.DefaultRevenueSplitConfig()),
		Notifier: w.notifier,
		Offers:   w.offers,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		RetryBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
		},
	}
	return w
}

func point(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func actor(t *testing.T, role parcel.ActorRole) parcel.Actor {
	t.Helper()
	a, err := parcel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func courierActor(t *testing.T, id kernel.UUID) parcel.Actor {
	t.Helper()
	a, err := parcel.NewActor(id, parcel.RoleCourier)
	require.NoError(t, err)
	return a
}

// tx runs fn in a committed unit of work.
func (w *world) tx(fn func(uow ports.UnitOfWork)) {
	w.t.Helper()
	ctx := context.Background()
	uow := w.factory.Create()
	require.NoError(w.t, uow.Begin(ctx))
	fn(uow)
	require.NoError(w.t, uow.Commit(ctx))
}

func (w *world) relay(name string, lat, lng float64) *relay.Relay {
	w.t.Helper()
	at := point(w.t, lat, lng)
	handler := commands.NewRegisterRelayCommandHandler(relayUoWFactory(w.factory))
	cmd, err := commands.NewRegisterRelayCommand(name, kernel.NewUUID(), "Lomé", &at)
	require.NoError(w.t, err)
	r, err := handler.Handle(context.Background(), cmd)
	require.NoError(w.t, err)
	return r
}

func relayUoWFactory(f *postgres_adapter.GormUnitOfWorkFactory) commands.RelayUoWFactory {
	return funcRelayUoWFactory(func() commands.RelayUoW { return f.Create() })
}

type funcRelayUoWFactory func() commands.RelayUoW

func (f funcRelayUoWFactory) Create() commands.RelayUoW { return f() }

func (w *world) courier(name string, lat, lng float64) kernel.UUID {
	w.t.Helper()
	at := point(w.t, lat, lng)
	handler := commands.NewCreateCourierCommandHandler(
		funcCourierUoWFactory(func() commands.CourierUoW { return w.factory.Create() }),
		w.clock,
	)
	cmd, err := commands.NewCreateCourierCommand(name, "+22890000000", &at)
	require.NoError(w.t, err)
	require.NoError(w.t, handler.Handle(context.Background(), cmd))
	return cmd.CourierID()
}

func fixedQuote(amount int64) commands.Quoter {
	return commands.QuoterFunc(func(context.Context, parcel.Spec) (decimal.Decimal, error) {
		return decimal.NewFromInt(amount), nil
	})
}

func (w *world) createParcel(spec parcel.Spec) *parcel.Parcel {
	w.t.Helper()
	if spec.SenderID.Validate() != nil {
		spec.SenderID = kernel.NewUUID()
	}
	if spec.RecipientName == "" {
		spec.RecipientName = "Ama Mensah"
	}
	if spec.RecipientPhone == "" {
		spec.RecipientPhone = "+228 90 11 22 33"
	}
	if spec.WeightKg == 0 {
		spec.WeightKg = 1.5
	}
	cmd, err := commands.NewCreateParcelCommand(spec)
	require.NoError(w.t, err)
	p, err := commands.NewCreateParcelCommandHandler(w.uows, fixedQuote(1000), w.rt).Handle(context.Background(), cmd)
	require.NoError(w.t, err)
	return p
}

func (w *world) relayToRelay(origin, destination *relay.Relay) *parcel.Parcel {
	w.t.Helper()
	o, d := origin.ID(), destination.ID()
	return w.createParcel(parcel.Spec{Mode: parcel.RelayToRelay, OriginRelayID: &o, DestinationRelayID: &d})
}

func (w *world) homeToHome(from, to kernel.GeoPoint) *parcel.Parcel {
	w.t.Helper()
	return w.createParcel(parcel.Spec{Mode: parcel.HomeToHome, OriginPoint: &from, DeliveryPoint: &to})
}

func (w *world) transition(p *parcel.Parcel, target parcel.Status, by parcel.Actor) (*parcel.Parcel, error) {
	w.t.Helper()
	cmd, err := commands.NewTransitionParcelCommand(p.ID(), target, by, "", nil)
	require.NoError(w.t, err)
	return commands.NewTransitionParcelCommandHandler(w.uows, w.rt).Handle(context.Background(), cmd)
}

func (w *world) mustTransition(p *parcel.Parcel, target parcel.Status, by parcel.Actor) *parcel.Parcel {
	w.t.Helper()
	updated, err := w.transition(p, target, by)
	require.NoError(w.t, err)
	return updated
}

func (w *world) pay(p *parcel.Parcel, amount int64) {
	w.t.Helper()
	id := p.ID()
	cmd, err := commands.NewRecordPaymentCommand(&id, "", true, decimal.NewFromInt(amount), "mobile_money", "PAY-"+p.TrackingCode())
	require.NoError(w.t, err)
	_, err = commands.NewRecordPaymentCommandHandler(w.uows, w.rt).Handle(context.Background(), cmd)
	require.NoError(w.t, err)
}

func (w *world) accept(m *mission.Mission, courierID kernel.UUID) (*mission.Mission, error) {
	w.t.Helper()
	cmd, err := commands.NewAcceptMissionCommand(m.ID(), courierID)
	require.NoError(w.t, err)
	return commands.NewAcceptMissionCommandHandler(w.uows, w.rt).Handle(context.Background(), cmd)
}

func (w *world) pickup(m *mission.Mission, courierID kernel.UUID, code string) (*mission.Mission, error) {
	w.t.Helper()
	cmd, err := commands.NewConfirmPickupCommand(m.ID(), courierID, code)
	require.NoError(w.t, err)
	return commands.NewConfirmPickupCommandHandler(w.uows, w.rt).Handle(context.Background(), cmd)
}

func (w *world) deliver(m *mission.Mission, courierID kernel.UUID, code string, at *kernel.GeoPoint) (*mission.Mission, error) {
	w.t.Helper()
	cmd, err := commands.NewConfirmDeliveryCommand(m.ID(), courierID, code, at)
	require.NoError(w.t, err)
	return commands.NewConfirmDeliveryCommandHandler(w.uows, w.rt).Handle(context.Background(), cmd)
}

func (w *world) parcel(id kernel.UUID) *parcel.Parcel {
	w.t.Helper()
	p, err := w.factory.Create().ParcelRepository().Get(context.Background(), id)
	require.NoError(w.t, err)
	return p
}

func (w *world) mission(id kernel.UUID) *mission.Mission {
	w.t.Helper()
	m, err := w.factory.Create().MissionRepository().Get(context.Background(), id)
	require.NoError(w.t, err)
	return m
}

// activeMission returns the parcel's non-terminal mission.
func (w *world) activeMission(parcelID kernel.UUID) *mission.Mission {
	w.t.Helper()
	m, err := w.factory.Create().MissionRepository().GetActiveByParcel(context.Background(), parcelID)
	require.NoError(w.t, err)
	return m
}

func (w *world) timeline(parcelID kernel.UUID) []*parcel.Event {
	w.t.Helper()
	var events []*parcel.Event
	for e, err := range w.factory.Create().EventLog().Timeline(context.Background(), parcelID) {
		require.NoError(w.t, err)
		events = append(events, e)
	}
	return events
}

func countEvents(events []*parcel.Event, kind parcel.EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind() == kind {
			n++
		}
	}
	return n
}

// balance returns the owner's wallet balance, zero when no wallet exists.
func (w *world) balance(ownerID kernel.UUID, kind wallet.OwnerKind) decimal.Decimal {
	w.t.Helper()
	wl, err := w.factory.Create().WalletRepository().GetByOwner(context.Background(), ownerID, kind)
	if err != nil {
		return decimal.Zero
	}
	return wl.Balance()
}
