package events

import (
	"context"

	"code.launchcurve.io/launchcurve/libs/num"
)

// Graduated is emitted exactly once per engine, when the supply
// threshold is crossed and curve trading closes for good.
type Graduated struct {
	*Base
	asset          string
	finalSupply    *num.Uint
	liquidityFunds *num.Uint
	creatorFunds   *num.Uint
	platformFunds  *num.Uint
}

func NewGraduatedEvent(ctx context.Context, asset string, finalSupply, liquidityFunds, creatorFunds, platformFunds *num.Uint) *Graduated {
	return &Graduated{
		Base:           newBase(ctx, GraduatedEvent),
		asset:          asset,
		finalSupply:    finalSupply.Clone(),
		liquidityFunds: liquidityFunds.Clone(),
		creatorFunds:   creatorFunds.Clone(),
		platformFunds:  platformFunds.Clone(),
	}
}

func (g *Graduated) Asset() string {
	return g.asset
}

func (g *Graduated) FinalSupply() *num.Uint {
	return g.finalSupply.Clone()
}

// LiquidityFunds is the reserve amount handed to the external exchange
// migration step.
func (g *Graduated) LiquidityFunds() *num.Uint {
	return g.liquidityFunds.Clone()
}

// CreatorFunds is the reserve amount credited for creator withdrawal.
func (g *Graduated) CreatorFunds() *num.Uint {
	return g.creatorFunds.Clone()
}

// PlatformFunds is the reserve amount pushed to the platform recipient.
func (g *Graduated) PlatformFunds() *num.Uint {
	return g.platformFunds.Clone()
}
