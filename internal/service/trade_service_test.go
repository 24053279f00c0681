package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zimtrader/internal/domain"
)

type fakeTradeRepo struct {
	created []*domain.Trade
	closed  []*domain.Trade
	byID    map[uuid.UUID]*domain.Trade
}

func newFakeTradeRepo() *fakeTradeRepo {
	return &fakeTradeRepo{byID: make(map[uuid.UUID]*domain.Trade)}
}

func (r *fakeTradeRepo) Create(ctx context.Context, trade *domain.Trade) error {
	r.created = append(r.created, trade)
	r.byID[trade.ID] = trade
	return nil
}

func (r *fakeTradeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	trade, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return trade, nil
}

func (r *fakeTradeRepo) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Trade, error) {
	var out []*domain.Trade
	for _, t := range r.byID {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTradeRepo) Close(ctx context.Context, trade *domain.Trade) error {
	r.closed = append(r.closed, trade)
	return nil
}

type fakeGateway struct {
	quote    float64
	quoteErr error
	orderErr error
	orders   []string
}

func (g *fakeGateway) GetQuote(ctx context.Context, symbol, instrumentType string) (float64, error) {
	return g.quote, g.quoteErr
}

func (g *fakeGateway) PlaceOrder(ctx context.Context, symbol string, qty float64, side, instrumentType string) error {
	if g.orderErr != nil {
		return g.orderErr
	}
	g.orders = append(g.orders, symbol)
	return nil
}

func TestOptionDisplaySymbol(t *testing.T) {
	assert.Equal(t, "AAPL 150C", OptionDisplaySymbol("AAPL", 150, "call"))
	assert.Equal(t, "TSLA 250.5P", OptionDisplaySymbol("TSLA", 250.5, "put"))
	assert.Equal(t, "ECONET 0.35C", OptionDisplaySymbol("ECONET", 0.35, "call"))
}

func TestSubmitTradeRejectsBadInputBeforeAnyWrite(t *testing.T) {
	cases := []struct {
		name  string
		input TradeInput
	}{
		{"missing symbol", TradeInput{Side: "BUY", Quantity: "10", InstrumentType: "stock"}},
		{"bad side", TradeInput{Symbol: "AAPL", Side: "HOLD", Quantity: "10", InstrumentType: "stock"}},
		{"zero quantity", TradeInput{Symbol: "AAPL", Side: "BUY", Quantity: "0", InstrumentType: "stock"}},
		{"negative quantity", TradeInput{Symbol: "AAPL", Side: "BUY", Quantity: "-5", InstrumentType: "stock"}},
		{"non numeric quantity", TradeInput{Symbol: "AAPL", Side: "BUY", Quantity: "ten", InstrumentType: "stock"}},
		{"fractional stock quantity", TradeInput{Symbol: "AAPL", Side: "BUY", Quantity: "1.5", InstrumentType: "stock"}},
		{"unknown instrument", TradeInput{Symbol: "AAPL", Side: "BUY", Quantity: "10", InstrumentType: "bond"}},
		{"option via generic form", TradeInput{Symbol: "AAPL", Side: "BUY", Quantity: "10", InstrumentType: "option"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeTradeRepo()
			svc := NewTradeService(repo, nil, zap.NewNop())

			_, err := svc.SubmitTrade(context.Background(), uuid.New(), tc.input)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Empty(t, repo.created)
		})
	}
}

func TestSubmitTradeNormalizesAndPrices(t *testing.T) {
	repo := newFakeTradeRepo()
	gw := &fakeGateway{quote: 189.5}
	svc := NewTradeService(repo, gw, zap.NewNop())

	trade, err := svc.SubmitTrade(context.Background(), uuid.New(), TradeInput{
		Symbol:         " aapl ",
		Side:           "buy",
		Quantity:       "10",
		InstrumentType: "stock",
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", trade.Symbol)
	assert.Equal(t, domain.SideBuy, trade.Side)
	assert.Equal(t, 10.0, trade.Quantity)
	assert.Equal(t, 189.5, trade.EntryPrice)
	assert.Equal(t, domain.TradeStatusOpen, trade.Status)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, []string{"AAPL"}, gw.orders)
}

func TestSubmitTradeAllowsFractionalCryptoQuantity(t *testing.T) {
	repo := newFakeTradeRepo()
	svc := NewTradeService(repo, nil, zap.NewNop())

	trade, err := svc.SubmitTrade(context.Background(), uuid.New(), TradeInput{
		Symbol:         "BTC/USD",
		Side:           "SELL",
		Quantity:       "0.25",
		InstrumentType: "crypto",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.25, trade.Quantity)
}

func TestSubmitTradeSurvivesQuoteFailure(t *testing.T) {
	repo := newFakeTradeRepo()
	gw := &fakeGateway{quoteErr: errors.New("upstream down")}
	svc := NewTradeService(repo, gw, zap.NewNop())

	trade, err := svc.SubmitTrade(context.Background(), uuid.New(), TradeInput{
		Symbol:         "DELTA",
		Side:           "BUY",
		Quantity:       "100",
		InstrumentType: "stock",
	})
	require.NoError(t, err)
	assert.Zero(t, trade.EntryPrice)
	assert.Len(t, repo.created, 1)
}

func TestSubmitTradeAbortsWhenOrderFails(t *testing.T) {
	repo := newFakeTradeRepo()
	gw := &fakeGateway{quote: 10, orderErr: errors.New("rejected")}
	svc := NewTradeService(repo, gw, zap.NewNop())

	_, err := svc.SubmitTrade(context.Background(), uuid.New(), TradeInput{
		Symbol:         "AAPL",
		Side:           "BUY",
		Quantity:       "10",
		InstrumentType: "stock",
	})
	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestSubmitOptionTrade(t *testing.T) {
	repo := newFakeTradeRepo()
	svc := NewTradeService(repo, nil, zap.NewNop())

	trade, err := svc.SubmitOptionTrade(context.Background(), uuid.New(), OptionTradeInput{
		UnderlyingAsset: "aapl",
		OptionType:      "CALL",
		StrikePrice:     "150",
		ExpiryDate:      "2026-12-18",
		Quantity:        "2",
		Premium:         "3.5",
		Side:            "buy",
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL 150C", trade.Symbol)
	assert.Equal(t, domain.InstrumentOption, trade.InstrumentType)
	assert.Equal(t, 2.0, trade.Quantity)
	assert.Equal(t, 3.5, trade.EntryPrice)
	require.NotNil(t, trade.Premium)
	assert.Equal(t, 3.5, *trade.Premium)
	require.NotNil(t, trade.ContractSize)
	assert.Equal(t, 100, *trade.ContractSize)
	require.NotNil(t, trade.UnderlyingAsset)
	assert.Equal(t, "AAPL", *trade.UnderlyingAsset)
}

func TestSubmitOptionTradeValidation(t *testing.T) {
	repo := newFakeTradeRepo()
	svc := NewTradeService(repo, nil, zap.NewNop())

	base := OptionTradeInput{
		UnderlyingAsset: "AAPL",
		OptionType:      "call",
		StrikePrice:     "150",
		ExpiryDate:      "2026-12-18",
		Quantity:        "1",
		Premium:         "2",
		Side:            "BUY",
	}

	broken := base
	broken.OptionType = "straddle"
	_, err := svc.SubmitOptionTrade(context.Background(), uuid.New(), broken)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)

	broken = base
	broken.ExpiryDate = "18/12/2026"
	_, err = svc.SubmitOptionTrade(context.Background(), uuid.New(), broken)
	require.ErrorAs(t, err, &vErr)

	broken = base
	broken.StrikePrice = "-1"
	_, err = svc.SubmitOptionTrade(context.Background(), uuid.New(), broken)
	require.ErrorAs(t, err, &vErr)

	assert.Empty(t, repo.created)
}

func TestCloseTrade(t *testing.T) {
	repo := newFakeTradeRepo()
	svc := NewTradeService(repo, nil, zap.NewNop())
	userID := uuid.New()

	trade := &domain.Trade{
		ID:             uuid.New(),
		UserID:         userID,
		Symbol:         "AAPL",
		InstrumentType: domain.InstrumentStock,
		Side:           domain.SideBuy,
		Quantity:       10,
		EntryPrice:     100,
		Status:         domain.TradeStatusOpen,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), trade))

	closed, err := svc.CloseTrade(context.Background(), userID, trade.ID, "110")
	require.NoError(t, err)

	assert.Equal(t, domain.TradeStatusClosed, closed.Status)
	require.NotNil(t, closed.PnL)
	assert.Equal(t, 100.0, *closed.PnL)
	assert.NotNil(t, closed.ClosedAt)
	assert.Len(t, repo.closed, 1)
}

func TestCloseTradeSellSideInvertsSign(t *testing.T) {
	repo := newFakeTradeRepo()
	svc := NewTradeService(repo, nil, zap.NewNop())
	userID := uuid.New()

	trade := &domain.Trade{
		ID:         uuid.New(),
		UserID:     userID,
		Symbol:     "DELTA",
		Side:       domain.SideSell,
		Quantity:   50,
		EntryPrice: 2.0,
		Status:     domain.TradeStatusOpen,
	}
	require.NoError(t, repo.Create(context.Background(), trade))

	closed, err := svc.CloseTrade(context.Background(), userID, trade.ID, "2.5")
	require.NoError(t, err)
	require.NotNil(t, closed.PnL)
	assert.Equal(t, -25.0, *closed.PnL)
}

func TestCloseTradeGuards(t *testing.T) {
	repo := newFakeTradeRepo()
	svc := NewTradeService(repo, nil, zap.NewNop())
	owner := uuid.New()

	trade := &domain.Trade{
		ID:         uuid.New(),
		UserID:     owner,
		Symbol:     "AAPL",
		Side:       domain.SideBuy,
		Quantity:   1,
		EntryPrice: 100,
		Status:     domain.TradeStatusOpen,
	}
	require.NoError(t, repo.Create(context.Background(), trade))

	// another user cannot see or close the trade
	_, err := svc.CloseTrade(context.Background(), uuid.New(), trade.ID, "110")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// closing twice fails
	_, err = svc.CloseTrade(context.Background(), owner, trade.ID, "110")
	require.NoError(t, err)
	_, err = svc.CloseTrade(context.Background(), owner, trade.ID, "120")
	assert.ErrorIs(t, err, domain.ErrTradeAlreadyClosed)

	// a missing exit price with no gateway is rejected
	open := &domain.Trade{
		ID:     uuid.New(),
		UserID: owner,
		Status: domain.TradeStatusOpen,
	}
	require.NoError(t, repo.Create(context.Background(), open))
	_, err = svc.CloseTrade(context.Background(), owner, open.ID, "")
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}
