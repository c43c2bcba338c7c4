package pool

import (
	"code.launchcurve.io/launchcurve/curve"
	"code.launchcurve.io/launchcurve/libs/num"
	"code.launchcurve.io/launchcurve/types"

	"github.com/pkg/errors"
)

// ErrInvalidParams covers all construction parameter rejections.
var ErrInvalidParams = errors.New("invalid engine parameters")

// Params are the construction parameters handed over by the issuance
// collaborator. They are immutable once the engine is built, and the
// full issuable supply is transferred into the engine with them.
type Params struct {
	Asset               string
	Creator             string
	PlatformRecipient   string
	CurveKind           curve.Kind
	BasePrice           *num.Uint
	Slope               *num.Uint
	GraduationThreshold *num.Uint
	FeeTier             types.FeeTier
	TotalIssuable       *num.Uint
}

// Validate checks the parameter set is complete and internally
// consistent. Curve level validation happens when the curve is built.
func (p Params) Validate() error {
	if p.Asset == "" {
		return errors.Wrap(ErrInvalidParams, "missing asset")
	}
	if p.Creator == "" {
		return errors.Wrap(ErrInvalidParams, "missing creator")
	}
	if p.PlatformRecipient == "" {
		return errors.Wrap(ErrInvalidParams, "missing platform recipient")
	}
	if p.BasePrice == nil || p.Slope == nil {
		return errors.Wrap(ErrInvalidParams, "missing curve parameters")
	}
	if p.TotalIssuable == nil || p.TotalIssuable.IsZero() {
		return errors.Wrap(ErrInvalidParams, "missing issuable supply")
	}
	if p.GraduationThreshold == nil || p.GraduationThreshold.IsZero() {
		return errors.Wrap(ErrInvalidParams, "missing graduation threshold")
	}
	if p.GraduationThreshold.GT(p.TotalIssuable) {
		return errors.Wrap(ErrInvalidParams, "graduation threshold exceeds issuable supply")
	}
	if p.GraduationThreshold.GT(curve.MaxTotalSupply) {
		return errors.Wrap(ErrInvalidParams, "graduation threshold exceeds max total supply")
	}
	if p.TotalIssuable.GT(curve.MaxTotalSupply) {
		return errors.Wrap(ErrInvalidParams, "issuable supply exceeds max total supply")
	}
	if _, err := p.FeeTier.Bps(); err != nil {
		return errors.Wrap(ErrInvalidParams, err.Error())
	}
	return nil
}
