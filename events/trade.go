package events

import (
	"context"

	"code.launchcurve.io/launchcurve/types"
)

type Trade struct {
	*Base
	t types.Trade
}

func NewTradeEvent(ctx context.Context, t types.Trade) *Trade {
	return &Trade{
		Base: newBase(ctx, TradeEvent),
		t:    t,
	}
}

func (t *Trade) Trade() types.Trade {
	return t.t
}
