package simulator

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"zimtrader/internal/domain"
)

// symbols the simulator draws from: ZSE listings plus a few US equities,
// forex pairs and crypto pairs.
var symbols = []string{
	"SEED CO", "TURNALL", "DELTA", "ECONET", "INNSCOR",
	"OK ZIMBABWE", "SIMBISA", "CBZ", "FBC", "NMBZ",
	"AAPL", "GOOGL", "TSLA", "EUR/USD", "GBP/USD",
	"BTC/USD", "ETH/USD", "XRP/USD",
}

var signalReasons = []string{
	"Strong upward momentum detected",
	"Resistance level approaching",
	"Volume spike detected",
	"Bullish pattern formation",
	"Support level reached",
	"Moving average crossover",
	"RSI oversold condition",
	"Breakout confirmation",
}

const (
	maxOpenPositions = 5
	maxRecentTrades  = 5
	maxSignals       = 2

	signalRefreshSpec = "*/8 * * * * *"
	positionOpenSpec  = "*/12 * * * * *"
	positionCloseSpec = "*/15 * * * * *"
	markToMarketSpec  = "*/3 * * * * *"
)

// Position is a simulated trading position. It lives entirely in memory and
// carries no financial decision authority.
type Position struct {
	ID         string     `json:"id"`
	Symbol     string     `json:"symbol"`
	Side       string     `json:"side"`
	Quantity   int        `json:"quantity"`
	EntryPrice float64    `json:"entry_price"`
	ExitPrice  *float64   `json:"exit_price,omitempty"`
	PnL        *float64   `json:"pnl,omitempty"`
	Confidence int        `json:"confidence"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

// Signal is a simulated trading signal
type Signal struct {
	Symbol     string    `json:"symbol"`
	Action     string    `json:"action"`
	Confidence int       `json:"confidence"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// Snapshot is a point-in-time copy of the simulator state
type Snapshot struct {
	Active       bool       `json:"active"`
	Positions    []Position `json:"positions"`
	RecentTrades []Position `json:"recent_trades"`
	Signals      []Signal   `json:"signals"`
	DailyPnL     float64    `json:"daily_pnl"`
	TotalPnL     float64    `json:"total_pnl"`
	TradeCount   int        `json:"trade_count"`
}

// Engine produces a continuously-evolving illusion of autonomous trading.
// Four periodic tasks share one arena of position records; a single mutex
// serializes every mutation so a close and a mark-to-market tick can never
// interleave on the same position.
type Engine struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *zap.Logger

	cron   *cron.Cron
	active bool

	positions  []*Position
	recent     []*Position
	signals    []Signal
	dailyPnL   float64
	tradeCount int
	seq        int
}

// NewEngine creates a simulator engine seeded with the given source of
// randomness
func NewEngine(logger *zap.Logger, seed int64) *Engine {
	return &Engine{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Activate enables or disables the simulation. Enabling seeds two signals
// and three open positions and starts the periodic tasks. Disabling is a
// hard reset: every periodic task is stopped and all simulated state is
// cleared.
func (e *Engine) Activate(enabled bool) error {
	e.mu.Lock()

	if enabled == e.active {
		e.mu.Unlock()
		return nil
	}

	if enabled {
		e.active = true
		e.seedLocked()

		c := cron.New(cron.WithSeconds())
		jobs := map[string]func(){
			signalRefreshSpec: e.refreshSignals,
			positionOpenSpec:  e.openPosition,
			positionCloseSpec: e.closeRandomPosition,
			markToMarketSpec:  e.markToMarket,
		}
		for spec, job := range jobs {
			if _, err := c.AddFunc(spec, job); err != nil {
				e.active = false
				e.clearLocked()
				e.mu.Unlock()
				return fmt.Errorf("failed to schedule simulator task: %w", err)
			}
		}
		c.Start()
		e.cron = c

		e.mu.Unlock()
		e.logger.Info("demo trading simulation activated")
		return nil
	}

	// Flip inactive and clear under the lock; running jobs observe the flag
	// and become no-ops. Stop outside the lock since it waits for in-flight
	// jobs, which need the lock to finish.
	e.active = false
	c := e.cron
	e.cron = nil
	e.clearLocked()
	e.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}

	e.logger.Info("demo trading simulation deactivated")
	return nil
}

// Active reports whether the simulation is running
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Snapshot returns a copy of the current simulator state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Active:       e.active,
		Positions:    make([]Position, 0, len(e.positions)),
		RecentTrades: make([]Position, 0, len(e.recent)),
		Signals:      append([]Signal(nil), e.signals...),
		DailyPnL:     e.dailyPnL,
		TradeCount:   e.tradeCount,
	}
	for _, p := range e.positions {
		snap.Positions = append(snap.Positions, *p)
	}
	for _, p := range e.recent {
		snap.RecentTrades = append(snap.RecentTrades, *p)
		if p.PnL != nil {
			snap.TotalPnL += *p.PnL
		}
	}
	return snap
}

func (e *Engine) seedLocked() {
	e.signals = []Signal{e.newSignal(), e.newSignal()}
	e.positions = nil
	for i := 0; i < 3; i++ {
		e.positions = append(e.positions, e.newPosition())
	}
	e.recent = nil
	e.dailyPnL = 0
	e.tradeCount = 8 + e.rng.Intn(5)
}

func (e *Engine) clearLocked() {
	e.positions = nil
	e.recent = nil
	e.signals = nil
	e.dailyPnL = 0
	e.tradeCount = 0
}

func (e *Engine) newSignal() Signal {
	action := domain.SideBuy
	if e.rng.Intn(2) == 0 {
		action = domain.SideSell
	}
	return Signal{
		Symbol:     symbols[e.rng.Intn(len(symbols))],
		Action:     action,
		Confidence: 70 + e.rng.Intn(31),
		Reason:     signalReasons[e.rng.Intn(len(signalReasons))],
		CreatedAt:  time.Now().UTC(),
	}
}

func (e *Engine) newPosition() *Position {
	side := domain.SideBuy
	if e.rng.Intn(2) == 0 {
		side = domain.SideSell
	}
	e.seq++
	return &Position{
		ID:         fmt.Sprintf("demo-%d-%d", time.Now().UnixMilli(), e.seq),
		Symbol:     symbols[e.rng.Intn(len(symbols))],
		Side:       side,
		Quantity:   100 + e.rng.Intn(901),
		EntryPrice: 10 + e.rng.Float64()*50,
		Confidence: 70 + e.rng.Intn(31),
		Status:     domain.TradeStatusOpen,
		CreatedAt:  time.Now().UTC(),
	}
}

// refreshSignals prepends one fresh signal and keeps only the newest two
func (e *Engine) refreshSignals() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}

	e.signals = append([]Signal{e.newSignal()}, e.signals...)
	if len(e.signals) > maxSignals {
		e.signals = e.signals[:maxSignals]
	}
}

// openPosition appends a new open position while under the cap and bumps
// the lifetime trade counter
func (e *Engine) openPosition() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}

	if len(e.positions) >= maxOpenPositions {
		return
	}
	e.positions = append(e.positions, e.newPosition())
	e.tradeCount++
}

// closeRandomPosition picks one open position uniformly at random, closes
// it with a price perturbation of up to ±5% of entry, and moves it to the
// recent-closed list
func (e *Engine) closeRandomPosition() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}

	if len(e.positions) == 0 {
		return
	}

	idx := e.rng.Intn(len(e.positions))
	pos := e.positions[idx]

	exitPrice := pos.EntryPrice * (1 + (e.rng.Float64()*0.1 - 0.05))
	pnl := realizedPnL(pos.Side, pos.EntryPrice, exitPrice, pos.Quantity)
	now := time.Now().UTC()

	pos.Status = domain.TradeStatusClosed
	pos.ExitPrice = &exitPrice
	pos.PnL = &pnl
	pos.ClosedAt = &now

	e.positions = append(e.positions[:idx], e.positions[idx+1:]...)
	e.recent = append([]*Position{pos}, e.recent...)
	if len(e.recent) > maxRecentTrades {
		e.recent = e.recent[:maxRecentTrades]
	}
	e.dailyPnL += pnl
}

// markToMarket refreshes each open position's unrealized PnL from a smaller
// ±2% perturbation without touching entry price or status
func (e *Engine) markToMarket() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}

	for _, pos := range e.positions {
		currentPrice := pos.EntryPrice * (1 + (e.rng.Float64()*0.04 - 0.02))
		pnl := realizedPnL(pos.Side, pos.EntryPrice, currentPrice, pos.Quantity)
		pos.PnL = &pnl
	}
}

// realizedPnL applies the side sign convention: buys profit when exit is
// above entry, sells profit when exit is below entry.
func realizedPnL(side string, entry, exit float64, quantity int) float64 {
	if side == domain.SideBuy {
		return (exit - entry) * float64(quantity)
	}
	return (entry - exit) * float64(quantity)
}
