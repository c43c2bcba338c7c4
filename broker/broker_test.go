package broker_test

import (
	"context"
	"testing"
	"time"

	"code.launchcurve.io/launchcurve/broker"
	"code.launchcurve.io/launchcurve/broker/mocks"
	"code.launchcurve.io/launchcurve/events"
	"code.launchcurve.io/launchcurve/libs/num"
	"code.launchcurve.io/launchcurve/logging"
	"code.launchcurve.io/launchcurve/types"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokerTst struct {
	*broker.Broker

	cfunc context.CancelFunc
	ctx   context.Context
	ctrl  *gomock.Controller
}

func getBroker(t *testing.T) *brokerTst {
	t.Helper()
	ctx, cfunc := context.WithCancel(context.Background())
	ctrl := gomock.NewController(t)
	return &brokerTst{
		Broker: broker.New(ctx, logging.NewTestLogger(), broker.NewDefaultConfig()),
		cfunc:  cfunc,
		ctx:    ctx,
		ctrl:   ctrl,
	}
}

func (b *brokerTst) randomEvt() *events.Trade {
	return events.NewTradeEvent(b.ctx, types.Trade{
		ID:            "trade-1",
		Asset:         "TKN-1",
		Trader:        "trader-1",
		Side:          types.SideBuy,
		ReserveAmount: num.NewUint(100),
		AssetAmount:   num.NewUint(10),
		Price:         num.NewUint(10),
		Fee:           num.NewUint(1),
	})
}

func (b *brokerTst) Finish() {
	b.cfunc()
	b.ctrl.Finish()
}

// mockSub is a mock subscriber with its control channels already wired
// up, so the broker select statements behave as they would with a live
// subscriber.
type mockSub struct {
	*mocks.MockSubscriber

	skip   chan struct{}
	closed chan struct{}
	ch     chan []events.Event
}

func (b *brokerTst) getSubscriber(ack bool, types ...events.Type) *mockSub {
	s := &mockSub{
		MockSubscriber: mocks.NewMockSubscriber(b.ctrl),
		skip:           make(chan struct{}),
		closed:         make(chan struct{}),
		ch:             make(chan []events.Event, 10),
	}
	s.EXPECT().Types().Return(types).AnyTimes()
	s.EXPECT().Ack().Return(ack).AnyTimes()
	s.EXPECT().Skip().DoAndReturn(func() <-chan struct{} { return s.skip }).AnyTimes()
	s.EXPECT().Closed().DoAndReturn(func() <-chan struct{} { return s.closed }).AnyTimes()
	s.EXPECT().C().DoAndReturn(func() chan<- []events.Event { return s.ch }).AnyTimes()
	return s
}

func TestSubscribe(t *testing.T) {
	t.Run("subscribers get distinct keys", testSubscribeDistinctKeys)
	t.Run("unsubscribed keys are recycled", testUnsubscribeRecyclesKeys)
}

func testSubscribeDistinctKeys(t *testing.T) {
	tstBroker := getBroker(t)
	defer tstBroker.Finish()

	sub1 := tstBroker.getSubscriber(true)
	sub2 := tstBroker.getSubscriber(true)
	sub1.EXPECT().SetID(gomock.Any()).Times(1)
	sub2.EXPECT().SetID(gomock.Any()).Times(1)

	k1 := tstBroker.Subscribe(sub1)
	k2 := tstBroker.Subscribe(sub2)
	assert.NotZero(t, k1)
	assert.NotZero(t, k2)
	assert.NotEqual(t, k1, k2)
}

func testUnsubscribeRecyclesKeys(t *testing.T) {
	tstBroker := getBroker(t)
	defer tstBroker.Finish()

	sub1 := tstBroker.getSubscriber(true)
	sub1.EXPECT().SetID(gomock.Any()).Times(1)
	k1 := tstBroker.Subscribe(sub1)
	tstBroker.Unsubscribe(k1)

	sub2 := tstBroker.getSubscriber(true)
	sub2.EXPECT().SetID(gomock.Any()).Times(1)
	k2 := tstBroker.Subscribe(sub2)
	assert.Equal(t, k1, k2)
}

func TestSendEvent(t *testing.T) {
	t.Run("required subscribers get events pushed", testSendRequired)
	t.Run("optional subscribers get events over their channel", testSendChannel)
	t.Run("typed subscribers only see their types", testSendTyped)
	t.Run("unsubscribed subscribers stop receiving", testSendAfterUnsubscribe)
}

func testSendRequired(t *testing.T) {
	tstBroker := getBroker(t)
	defer tstBroker.Finish()

	sub := tstBroker.getSubscriber(true)
	sub.EXPECT().SetID(gomock.Any()).Times(1)
	tstBroker.Subscribe(sub)

	done := make(chan struct{})
	evt := tstBroker.randomEvt()
	sub.EXPECT().Push(gomock.Any()).Times(1).Do(func(_ ...interface{}) {
		close(done)
	})

	tstBroker.Send(evt)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event in time")
	}
}

func testSendChannel(t *testing.T) {
	tstBroker := getBroker(t)
	defer tstBroker.Finish()

	sub := tstBroker.getSubscriber(false)
	sub.EXPECT().SetID(gomock.Any()).Times(1)
	tstBroker.Subscribe(sub)

	evt := tstBroker.randomEvt()
	tstBroker.Send(evt)
	select {
	case batch := <-sub.ch:
		require.Len(t, batch, 1)
		assert.Equal(t, evt.TraceID(), batch[0].TraceID())
	case <-time.After(time.Second):
		t.Fatal("subscriber channel did not receive the event in time")
	}
}

func testSendTyped(t *testing.T) {
	tstBroker := getBroker(t)
	defer tstBroker.Finish()

	trades := tstBroker.getSubscriber(false, events.TradeEvent)
	all := tstBroker.getSubscriber(false)
	trades.EXPECT().SetID(gomock.Any()).Times(1)
	all.EXPECT().SetID(gomock.Any()).Times(1)
	tstBroker.SubscribeBatch(trades, all)

	grad := events.NewGraduatedEvent(tstBroker.ctx, "TKN-1",
		num.NewUint(1000), num.NewUint(700), num.NewUint(200), num.NewUint(100))
	tstBroker.Send(grad)
	tstBroker.Send(tstBroker.randomEvt())

	// the trade subscriber only ever sees the trade
	select {
	case batch := <-trades.ch:
		require.Len(t, batch, 1)
		assert.Equal(t, events.TradeEvent, batch[0].Type())
	case <-time.After(time.Second):
		t.Fatal("typed subscriber did not receive the trade in time")
	}
	select {
	case batch := <-trades.ch:
		t.Fatalf("typed subscriber got an unexpected %s event", batch[0].Type())
	case <-time.After(50 * time.Millisecond):
	}

	// the catch-all subscriber sees both
	got := make([]events.Type, 0, 2)
	for len(got) < 2 {
		select {
		case batch := <-all.ch:
			for _, e := range batch {
				got = append(got, e.Type())
			}
		case <-time.After(time.Second):
			t.Fatal("catch-all subscriber did not receive both events in time")
		}
	}
	assert.Contains(t, got, events.TradeEvent)
	assert.Contains(t, got, events.GraduatedEvent)
}

func testSendAfterUnsubscribe(t *testing.T) {
	tstBroker := getBroker(t)
	defer tstBroker.Finish()

	sub := tstBroker.getSubscriber(false, events.TradeEvent)
	sub.EXPECT().SetID(gomock.Any()).Times(1)
	k := tstBroker.Subscribe(sub)

	tstBroker.Send(tstBroker.randomEvt())
	select {
	case <-sub.ch:
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event in time")
	}

	tstBroker.Unsubscribe(k)
	tstBroker.Send(tstBroker.randomEvt())
	select {
	case <-sub.ch:
		t.Fatal("unsubscribed subscriber still received an event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSendBatch(t *testing.T) {
	tstBroker := getBroker(t)
	defer tstBroker.Finish()

	sub := tstBroker.getSubscriber(false, events.TradeEvent)
	sub.EXPECT().SetID(gomock.Any()).Times(1)
	tstBroker.Subscribe(sub)

	batch := []events.Event{tstBroker.randomEvt(), tstBroker.randomEvt(), tstBroker.randomEvt()}
	tstBroker.SendBatch(batch)
	select {
	case got := <-sub.ch:
		assert.Len(t, got, 3)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the batch in time")
	}
}
