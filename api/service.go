// Package api exposes the engine registry over a small JSON/HTTP
// surface. Amounts cross the wire as base-10 strings so they survive
// javascript number precision.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"code.launchcurve.io/launchcurve/curve"
	"code.launchcurve.io/launchcurve/libs/num"
	"code.launchcurve.io/launchcurve/logging"
	"code.launchcurve.io/launchcurve/pool"
	"code.launchcurve.io/launchcurve/registry"
	"code.launchcurve.io/launchcurve/types"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

// Service is the HTTP front of the registry and its engines.
type Service struct {
	*httprouter.Router

	log *logging.Logger
	cfg Config
	reg *registry.Registry
	srv *http.Server
}

// New wires all routes and returns a service ready to Start.
func New(log *logging.Logger, cfg Config, reg *registry.Registry) *Service {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	s := &Service{
		Router: httprouter.New(),
		log:    log,
		cfg:    cfg,
		reg:    reg,
	}

	s.POST("/api/v1/pools", s.CreatePool)
	s.GET("/api/v1/pools", s.ListPools)
	s.GET("/api/v1/pools/:asset", s.GetPool)
	s.POST("/api/v1/pools/:asset/buy", s.Buy)
	s.POST("/api/v1/pools/:asset/sell", s.Sell)
	s.GET("/api/v1/pools/:asset/estimate/buy", s.EstimateBuy)
	s.GET("/api/v1/pools/:asset/estimate/sell", s.EstimateSell)
	s.POST("/api/v1/pools/:asset/withdrawals/funds", s.WithdrawFunds)
	s.POST("/api/v1/pools/:asset/withdrawals/lp", s.WithdrawLP)
	return s
}

type CreatePoolRequest struct {
	Asset               string `json:"asset"`
	Creator             string `json:"creator"`
	PlatformRecipient   string `json:"platformRecipient"`
	Curve               string `json:"curve"`
	BasePrice           string `json:"basePrice"`
	Slope               string `json:"slope"`
	GraduationThreshold string `json:"graduationThreshold"`
	FeeTier             string `json:"feeTier"`
	TotalIssuable       string `json:"totalIssuable"`
}

type CreatePoolResponse struct {
	Asset string `json:"asset"`
}

type PoolResponse struct {
	Asset              string `json:"asset"`
	Creator            string `json:"creator"`
	Graduated          bool   `json:"graduated"`
	CurrentPrice       string `json:"currentPrice,omitempty"`
	CurrentSupply      string `json:"currentSupply"`
	ReserveBalance     string `json:"reserveBalance"`
	AssetReserve       string `json:"assetReserve"`
	TotalVolume        string `json:"totalVolume"`
	FeesCollected      string `json:"feesCollected"`
	GraduationProgress string `json:"graduationProgress"`
	WithdrawableFunds  string `json:"withdrawableFunds"`
	LPLocked           string `json:"lpLocked"`
	LPUnlockTime       string `json:"lpUnlockTime,omitempty"`
	LPTokenRef         string `json:"lpTokenRef,omitempty"`
}

type ListPoolsResponse struct {
	Assets []string `json:"assets"`
}

type TradeRequest struct {
	Trader string `json:"trader"`
	Amount string `json:"amount"`
	Min    string `json:"min,omitempty"`
}

type TradeResponse struct {
	ID            string `json:"id"`
	Side          string `json:"side"`
	ReserveAmount string `json:"reserveAmount"`
	AssetAmount   string `json:"assetAmount"`
	Price         string `json:"price"`
	Fee           string `json:"fee"`
	Refund        string `json:"refund"`
	Graduated     bool   `json:"graduated"`
}

type EstimateResponse struct {
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
}

type WithdrawRequest struct {
	Caller string `json:"caller"`
}

type WithdrawResponse struct {
	Amount string `json:"amount"`
}

// CreatePool builds a new engine from the request parameters.
func (s *Service) CreatePool(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := CreatePoolRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}
	kind, err := curve.KindFromString(req.Curve)
	if err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}
	tier, err := types.FeeTierFromString(req.FeeTier)
	if err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}
	basePrice, err := parseAmount("basePrice", req.BasePrice)
	if err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}
	slope, err := parseAmount("slope", req.Slope)
	if err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}
	threshold, err := parseAmount("graduationThreshold", req.GraduationThreshold)
	if err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}
	issuable, err := parseAmount("totalIssuable", req.TotalIssuable)
	if err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}

	eng, err := s.reg.Create(pool.Params{
		Asset:               req.Asset,
		Creator:             req.Creator,
		PlatformRecipient:   req.PlatformRecipient,
		CurveKind:           kind,
		BasePrice:           basePrice,
		Slope:               slope,
		GraduationThreshold: threshold,
		FeeTier:             tier,
		TotalIssuable:       issuable,
	})
	if err != nil {
		writeError(w, newError(err.Error()), statusOf(err))
		return
	}
	writeSuccess(w, CreatePoolResponse{Asset: eng.Asset()}, http.StatusCreated)
}

// ListPools returns the assets of all registered engines.
func (s *Service) ListPools(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeSuccess(w, ListPoolsResponse{Assets: s.reg.List()}, http.StatusOK)
}

// GetPool returns a full status snapshot of one engine.
func (s *Service) GetPool(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	eng, err := s.reg.Get(ps.ByName("asset"))
	if err != nil {
		writeError(w, newError(err.Error()), statusOf(err))
		return
	}

	resp := PoolResponse{
		Asset:              eng.Asset(),
		Creator:            eng.Creator(),
		Graduated:          eng.IsGraduated(),
		CurrentSupply:      eng.CurrentSupply().String(),
		ReserveBalance:     eng.ReserveBalance().String(),
		AssetReserve:       eng.AssetReserve().String(),
		TotalVolume:        eng.TotalVolume().String(),
		FeesCollected:      eng.FeesCollected().String(),
		GraduationProgress: eng.GraduationProgress().String(),
		WithdrawableFunds:  eng.WithdrawableCreatorFunds().String(),
	}
	if price, err := eng.CurrentPrice(); err == nil {
		resp.CurrentPrice = price.String()
	}
	lock := eng.LPLock()
	resp.LPLocked = lock.Locked.String()
	resp.LPTokenRef = lock.TokenRef
	if !lock.UnlockTime.IsZero() {
		resp.LPUnlockTime = lock.UnlockTime.Format(time.RFC3339)
	}
	writeSuccess(w, resp, http.StatusOK)
}

// Buy spends reserve currency on the curve.
func (s *Service) Buy(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.trade(w, r, ps, types.SideBuy)
}

// Sell returns asset units to the curve.
func (s *Service) Sell(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.trade(w, r, ps, types.SideSell)
}

func (s *Service) trade(w http.ResponseWriter, r *http.Request, ps httprouter.Params, side types.Side) {
	req := TradeRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}
	var min *num.Uint
	if req.Min != "" {
		if min, err = parseAmount("min", req.Min); err != nil {
			writeError(w, newError(err.Error()), http.StatusBadRequest)
			return
		}
	}
	eng, err := s.reg.Get(ps.ByName("asset"))
	if err != nil {
		writeError(w, newError(err.Error()), statusOf(err))
		return
	}

	var res *pool.TradeResult
	if side == types.SideBuy {
		res, err = eng.Buy(r.Context(), req.Trader, amount, min)
	} else {
		res, err = eng.Sell(r.Context(), req.Trader, amount, min)
	}
	if err != nil {
		writeError(w, newError(err.Error()), statusOf(err))
		return
	}

	writeSuccess(w, TradeResponse{
		ID:            res.Trade.ID,
		Side:          res.Trade.Side.String(),
		ReserveAmount: res.Trade.ReserveAmount.String(),
		AssetAmount:   res.Trade.AssetAmount.String(),
		Price:         res.Trade.Price.String(),
		Fee:           res.Trade.Fee.String(),
		Refund:        res.Refund.String(),
		Graduated:     res.Graduated,
	}, http.StatusOK)
}

// EstimateBuy previews a buy without executing it.
func (s *Service) EstimateBuy(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.estimate(w, r, ps, types.SideBuy)
}

// EstimateSell previews a sell without executing it.
func (s *Service) EstimateSell(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.estimate(w, r, ps, types.SideSell)
}

func (s *Service) estimate(w http.ResponseWriter, r *http.Request, ps httprouter.Params, side types.Side) {
	amount, err := parseAmount("amount", r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}
	eng, err := s.reg.Get(ps.ByName("asset"))
	if err != nil {
		writeError(w, newError(err.Error()), statusOf(err))
		return
	}

	var out, fee *num.Uint
	if side == types.SideBuy {
		out, fee, err = eng.EstimateBuy(amount)
	} else {
		out, fee, err = eng.EstimateSell(amount)
	}
	if err != nil {
		writeError(w, newError(err.Error()), statusOf(err))
		return
	}
	writeSuccess(w, EstimateResponse{Amount: out.String(), Fee: fee.String()}, http.StatusOK)
}

// WithdrawFunds drains the creator's graduation pull balance.
func (s *Service) WithdrawFunds(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.withdraw(w, r, ps, func(ctx context.Context, eng *pool.Engine, caller string) (*num.Uint, error) {
		return eng.WithdrawGraduationFunds(ctx, caller)
	})
}

// WithdrawLP releases the locked LP tokens once the lock has expired.
func (s *Service) WithdrawLP(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.withdraw(w, r, ps, func(ctx context.Context, eng *pool.Engine, caller string) (*num.Uint, error) {
		return eng.WithdrawLPTokens(ctx, caller)
	})
}

func (s *Service) withdraw(w http.ResponseWriter, r *http.Request, ps httprouter.Params, fn func(context.Context, *pool.Engine, string) (*num.Uint, error)) {
	req := WithdrawRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, newError(err.Error()), http.StatusBadRequest)
		return
	}
	eng, err := s.reg.Get(ps.ByName("asset"))
	if err != nil {
		writeError(w, newError(err.Error()), statusOf(err))
		return
	}
	amount, err := fn(r.Context(), eng, req.Caller)
	if err != nil {
		writeError(w, newError(err.Error()), statusOf(err))
		return
	}
	writeSuccess(w, WithdrawResponse{Amount: amount.String()}, http.StatusOK)
}

// Start binds the listener and serves until Stop is called.
func (s *Service) Start() error {
	s.srv = &http.Server{
		Addr:    fmt.Sprintf("%s:%v", s.cfg.IP, s.cfg.Port),
		Handler: cors.AllowAll().Handler(s), // middleware with cors
	}

	s.log.Info("starting api server", logging.String("address", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Service) Stop() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(context.Background())
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch errors.Cause(err) {
	case registry.ErrEngineNotFound:
		return http.StatusNotFound
	case registry.ErrEngineAlreadyExists,
		pool.ErrTradingClosed,
		pool.ErrAlreadyGraduated,
		pool.ErrNoWithdrawableFunds,
		pool.ErrNoLPTokensToWithdraw,
		pool.ErrLPTokensStillLocked:
		return http.StatusConflict
	case pool.ErrNotCreator:
		return http.StatusForbidden
	case pool.ErrInvalidAmount,
		pool.ErrInvalidParty,
		pool.ErrInsufficientBalance,
		pool.ErrSlippageTooHigh,
		pool.ErrInvalidParams,
		curve.ErrInvalidCurveParameters,
		curve.ErrUnknownCurveKind,
		curve.ErrSupplyCapExceeded,
		curve.ErrNumericOverflow:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseAmount(field, value string) (*num.Uint, error) {
	if value == "" {
		return nil, fmt.Errorf("missing %s field", field)
	}
	amount, overflow := num.UintFromString(value)
	if overflow {
		return nil, fmt.Errorf("%s is not a valid amount", field)
	}
	return amount, nil
}

func unmarshalBody(r *http.Request, into interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ErrInvalidRequest
	}
	return json.Unmarshal(body, into)
}

func writeError(w http.ResponseWriter, e error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf, _ := json.Marshal(e)
	w.Write(buf)
}

func writeSuccess(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf, _ := json.Marshal(data)
	w.Write(buf)
}

// ErrInvalidRequest is returned when the request body cannot be read.
var ErrInvalidRequest = newError("invalid request")

type HTTPError struct {
	ErrorStr string `json:"error"`
}

func (e HTTPError) Error() string {
	return e.ErrorStr
}

func newError(e string) HTTPError {
	return HTTPError{
		ErrorStr: e,
	}
}
