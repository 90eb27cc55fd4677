// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Cassssian/five-crowns/internal/cache"
	"github.com/Cassssian/five-crowns/internal/models"
)

// GameStatus is the coarse lifecycle of a game.
type GameStatus string

const (
	StatusWaiting    GameStatus = "waiting"
	StatusInProgress GameStatus = "in_progress"
	StatusCompleted  GameStatus = "completed"
)

// TurnPhase is the sub-state within the active player's turn.
type TurnPhase string

const (
	PhaseAwaitingDraw         TurnPhase = "awaiting_draw"
	PhaseAwaitingDiscard      TurnPhase = "awaiting_discard"
	PhaseAwaitingEndOrLayDown TurnPhase = "awaiting_end_or_laydown"
)

// OnGameEndFunc handles a finished game: persisting results, notifying the
// lobby, releasing the tick loop.
type OnGameEndFunc func(gameID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int)

// GameEventType is an enum-like type for broadcasting game actions.
type GameEventType string

const (
	EventGameStart          GameEventType = "game_start"
	EventRoundStart         GameEventType = "round_start"
	EventPlayerTurn         GameEventType = "player_turn"
	EventPlayerDrawDeck     GameEventType = "player_draw_deck"     // public, card obfuscated
	EventPrivateDrawDeck    GameEventType = "private_draw_deck"    // private, full card
	EventPlayerDrawDiscard  GameEventType = "player_draw_discard"  // public, pile is visible
	EventPlayerDiscard      GameEventType = "player_discard"       // public, full card
	EventPlayerLayDown      GameEventType = "player_lay_down"      // public, combinations revealed
	EventPrivateLayDownFail GameEventType = "private_lay_down_fail"
	EventPlayerTimeout      GameEventType = "player_timeout"
	EventDeckRecycled       GameEventType = "deck_recycled"
	EventRoundEnd           GameEventType = "round_end"
	EventGameEnd            GameEventType = "game_end"
	EventPrivateSyncState   GameEventType = "private_sync_state"
)

// EventUser identifies a player within a GameEvent.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// EventCard carries card info in events. Public deck draws send only the ID.
type EventCard struct {
	ID      string      `json:"id"`
	Suit    models.Suit `json:"suit,omitempty"`
	Rank    models.Rank `json:"value,omitempty"`
	IsJoker bool        `json:"isJoker,omitempty"`
}

// GameEvent is the broadcast envelope consumed by the transport layer.
type GameEvent struct {
	Type         GameEventType          `json:"type"`
	User         *EventUser             `json:"user,omitempty"`
	Card         *EventCard             `json:"card,omitempty"`
	Combinations []models.Combination   `json:"combinations,omitempty"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
	State        *GameSnapshot          `json:"state,omitempty"`
}

func publicCard(c *models.Card) *EventCard {
	return &EventCard{ID: c.ID}
}

func fullCard(c *models.Card) *EventCard {
	return &EventCard{ID: c.ID, Suit: c.Suit, Rank: c.Rank, IsJoker: c.IsJoker}
}

// FiveCrownsGame holds the entire state for a single game instance in memory.
// All state transitions are synchronous function calls guarded by Mu; exactly
// one turn is active at a time, and actions from any other player are no-ops.
type FiveCrownsGame struct {
	ID      uuid.UUID
	LobbyID uuid.UUID

	Rules   GameRules
	Players []*models.GamePlayer

	Deck        []*models.Card
	DiscardPile []*models.Card

	Round    int
	WildRank models.Rank

	CurrentPlayerIndex int
	TurnID             int // increments each turn; guards stale AI timers
	Phase              TurnPhase
	Status             GameStatus

	// TimerRemaining counts down in host-driven ticks (see TickCountdown).
	TimerRemaining int

	// RoundOver is set between a successful lay-down and the host calling
	// InitializeNextRound (display pause). No turn actions are legal then.
	RoundOver       bool
	FinisherID      uuid.UUID
	LastRoundScores map[uuid.UUID]int
	WinnerID        uuid.UUID

	// AIThinkDelay paces AI decisions for UX. Zero collapses AI turns to
	// synchronous execution, which tests rely on.
	AIThinkDelay time.Duration

	Mu sync.Mutex

	rng         *rand.Rand
	actionIndex int
	aiTimer     *time.Timer
	aiRunning   bool

	// BroadcastFn sends an event to all players. Nil disables broadcasting.
	BroadcastFn func(ev GameEvent)

	// BroadcastToPlayerFn sends an event to a single player.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)

	// OnGameEnd is invoked (in its own goroutine) once the final round
	// resolves.
	OnGameEnd OnGameEndFunc
}

// NewFiveCrownsGame builds an empty instance in the waiting state.
func NewFiveCrownsGame() *FiveCrownsGame {
	id, _ := uuid.NewRandom()
	return &FiveCrownsGame{
		ID:           id,
		Rules:        DefaultGameRules(),
		Status:       StatusWaiting,
		Phase:        PhaseAwaitingDraw,
		AIThinkDelay: 1500 * time.Millisecond,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddPlayer seats a player before the game starts, or refreshes the
// connection of an existing seat.
func (g *FiveCrownsGame) AddPlayer(p *models.GamePlayer) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for i, pl := range g.Players {
		if pl.ID == p.ID {
			g.Players[i].Conn = p.Conn
			g.Players[i].Connected = true
			return
		}
	}
	if g.Status != StatusWaiting {
		log.Printf("game %s: player %s cannot join after start", g.ID, p.ID)
		return
	}
	g.Players = append(g.Players, p)
}

// Start moves the game from waiting to in_progress and deals round 1.
func (g *FiveCrownsGame) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Status != StatusWaiting {
		return nil
	}
	if len(g.Players) < MinPlayers || len(g.Players) > g.Rules.MaxPlayers {
		return fmt.Errorf("cannot start with %d players", len(g.Players))
	}
	g.Status = StatusInProgress
	g.fireEvent(GameEvent{Type: EventGameStart, Payload: map[string]interface{}{
		"players": len(g.Players),
		"rounds":  TotalRounds,
	}})
	g.logAction(uuid.Nil, string(EventGameStart), nil)
	return g.startRound(1)
}

// startRound deals the given round from a freshly built, freshly shuffled
// deck and hands the first turn to seat 0. Assumes lock is held.
func (g *FiveCrownsGame) startRound(round int) error {
	deck := Shuffle(NewDeck(), g.rng)
	hands, seed, remaining, err := Deal(deck, len(g.Players), round)
	if err != nil {
		// Configuration bug (too many players for the round); surfaced, not
		// swallowed.
		log.Printf("game %s: deal failed for round %d: %v", g.ID, round, err)
		return err
	}

	for i, p := range g.Players {
		p.Hand = hands[i]
		p.HasFinishedRound = false
	}
	g.Deck = remaining
	g.DiscardPile = []*models.Card{seed}
	g.Round = round
	g.WildRank = WildRankForRound(round)
	g.CurrentPlayerIndex = 0
	g.Phase = PhaseAwaitingDraw
	g.RoundOver = false
	g.FinisherID = uuid.Nil
	g.LastRoundScores = nil
	g.TurnID++
	g.resetCountdown()

	g.fireEvent(GameEvent{Type: EventRoundStart, Payload: map[string]interface{}{
		"round":          round,
		"wildCard":       int(g.WildRank),
		"cardsPerPlayer": CardsPerRound(round),
	}})
	g.logAction(uuid.Nil, string(EventRoundStart), map[string]interface{}{"round": round})
	g.broadcastPlayerTurn()
	g.scheduleAITurn()
	return nil
}

// resetCountdown re-arms the per-turn countdown. Assumes lock is held.
func (g *FiveCrownsGame) resetCountdown() {
	if g.Rules.TimerEnabled {
		g.TimerRemaining = g.Rules.TurnTimerSec
	} else {
		g.TimerRemaining = 0
	}
}

func (g *FiveCrownsGame) currentPlayer() *models.GamePlayer {
	if len(g.Players) == 0 || g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

func (g *FiveCrownsGame) getPlayerByID(playerID uuid.UUID) *models.GamePlayer {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// actionAllowed is the common gate for turn actions: game running, round not
// in its between-rounds pause, and the acting player holding the turn.
// Assumes lock is held.
func (g *FiveCrownsGame) actionAllowed(playerID uuid.UUID, phase TurnPhase) bool {
	if g.Status != StatusInProgress || g.RoundOver {
		return false
	}
	cur := g.currentPlayer()
	if cur == nil || cur.ID != playerID {
		log.Printf("game %s: action from %s out of turn, ignoring", g.ID, playerID)
		return false
	}
	if g.Phase != phase {
		log.Printf("game %s: action from %s in phase %s (want %s), ignoring", g.ID, playerID, g.Phase, phase)
		return false
	}
	return true
}

// DrawDeck draws the top card of the draw pile into the current player's
// hand. Precondition violations (not your turn, already drawn, empty pile)
// are silent no-ops.
func (g *FiveCrownsGame) DrawDeck(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.drawDeck(playerID)
}

func (g *FiveCrownsGame) drawDeck(playerID uuid.UUID) {
	if !g.actionAllowed(playerID, PhaseAwaitingDraw) {
		return
	}
	if len(g.Deck) == 0 {
		g.recycleDiscardPile()
	}
	if len(g.Deck) == 0 {
		log.Printf("game %s: draw pile empty, ignoring deck draw", g.ID)
		return
	}
	card := g.Deck[0]
	g.Deck = g.Deck[1:]
	p := g.currentPlayer()
	p.Hand = append(p.Hand, card)
	g.Phase = PhaseAwaitingDiscard

	g.fireEvent(GameEvent{
		Type:    EventPlayerDrawDeck,
		User:    &EventUser{ID: playerID},
		Card:    publicCard(card),
		Payload: map[string]interface{}{"deckSize": len(g.Deck)},
	})
	g.fireEventToPlayer(playerID, GameEvent{
		Type: EventPrivateDrawDeck,
		Card: fullCard(card),
	})
	g.logAction(playerID, string(EventPlayerDrawDeck), map[string]interface{}{"cardId": card.ID})
}

// recycleDiscardPile rebuilds an exhausted draw pile from everything under
// the discard pile's top card, reshuffled. The top card stays where it is.
// Assumes lock is held.
func (g *FiveCrownsGame) recycleDiscardPile() {
	if len(g.DiscardPile) <= 1 {
		return
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	buried := g.DiscardPile[:len(g.DiscardPile)-1]
	g.Deck = Shuffle(buried, g.rng)
	g.DiscardPile = []*models.Card{top}

	g.fireEvent(GameEvent{Type: EventDeckRecycled, Payload: map[string]interface{}{
		"deckSize": len(g.Deck),
	}})
	g.logAction(uuid.Nil, string(EventDeckRecycled), nil)
}

// DrawDiscard draws the visible top card of the discard pile.
func (g *FiveCrownsGame) DrawDiscard(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.drawDiscard(playerID)
}

func (g *FiveCrownsGame) drawDiscard(playerID uuid.UUID) {
	if !g.actionAllowed(playerID, PhaseAwaitingDraw) {
		return
	}
	if len(g.DiscardPile) == 0 {
		log.Printf("game %s: discard pile empty, ignoring discard draw", g.ID)
		return
	}
	idx := len(g.DiscardPile) - 1
	card := g.DiscardPile[idx]
	g.DiscardPile = g.DiscardPile[:idx]
	p := g.currentPlayer()
	p.Hand = append(p.Hand, card)
	g.Phase = PhaseAwaitingDiscard

	g.fireEvent(GameEvent{
		Type:    EventPlayerDrawDiscard,
		User:    &EventUser{ID: playerID},
		Card:    fullCard(card),
		Payload: map[string]interface{}{"discardSize": len(g.DiscardPile)},
	})
	g.logAction(playerID, string(EventPlayerDrawDiscard), map[string]interface{}{"cardId": card.ID})
}

// DiscardCard moves the named card from the current player's hand to the top
// of the discard pile, opening the lay-down-or-end-turn decision.
func (g *FiveCrownsGame) DiscardCard(playerID uuid.UUID, cardID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.discardCard(playerID, cardID)
}

func (g *FiveCrownsGame) discardCard(playerID uuid.UUID, cardID string) {
	if !g.actionAllowed(playerID, PhaseAwaitingDiscard) {
		return
	}
	p := g.currentPlayer()
	cardIdx := -1
	for i, c := range p.Hand {
		if c.ID == cardID {
			cardIdx = i
			break
		}
	}
	if cardIdx == -1 {
		log.Printf("game %s: player %s discard of unknown card %s, ignoring", g.ID, playerID, cardID)
		return
	}
	card := p.Hand[cardIdx]
	p.Hand = append(p.Hand[:cardIdx], p.Hand[cardIdx+1:]...)
	g.DiscardPile = append(g.DiscardPile, card)
	g.Phase = PhaseAwaitingEndOrLayDown

	g.fireEvent(GameEvent{
		Type: EventPlayerDiscard,
		User: &EventUser{ID: playerID},
		Card: fullCard(card),
	})
	g.logAction(playerID, string(EventPlayerDiscard), map[string]interface{}{"cardId": card.ID})
}

// EndTurn passes the turn to the next seat without laying down.
func (g *FiveCrownsGame) EndTurn(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.endTurn(playerID)
}

func (g *FiveCrownsGame) endTurn(playerID uuid.UUID) {
	if !g.actionAllowed(playerID, PhaseAwaitingEndOrLayDown) {
		return
	}
	g.logAction(playerID, "end_turn", nil)
	g.advanceTurn()
}

// advanceTurn moves to the next seat, resets the per-turn state and countdown
// and kicks an AI turn when the next seat is non-human. Assumes lock is held.
func (g *FiveCrownsGame) advanceTurn() {
	if g.Status != StatusInProgress || len(g.Players) == 0 {
		return
	}
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
	g.TurnID++
	g.Phase = PhaseAwaitingDraw
	g.resetCountdown()
	g.broadcastPlayerTurn()
	g.scheduleAITurn()
}

// broadcastPlayerTurn notifies all players whose turn it is now.
// Assumes lock is held.
func (g *FiveCrownsGame) broadcastPlayerTurn() {
	cur := g.currentPlayer()
	if cur == nil {
		return
	}
	g.fireEvent(GameEvent{
		Type: EventPlayerTurn,
		User: &EventUser{ID: cur.ID},
		Payload: map[string]interface{}{
			"turn":           g.TurnID,
			"round":          g.Round,
			"timerRemaining": g.TimerRemaining,
		},
	})
}

// SubmitCombinations attempts to go out with the given grouping of the
// current player's entire hand. On success the round ends immediately for
// everyone. On failure the reason is returned (and sent privately) and the
// turn state is unchanged; the player may retry.
func (g *FiveCrownsGame) SubmitCombinations(playerID uuid.UUID, combinations []models.Combination) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.submitCombinations(playerID, combinations)
}

func (g *FiveCrownsGame) submitCombinations(playerID uuid.UUID, combinations []models.Combination) error {
	if !g.actionAllowed(playerID, PhaseAwaitingEndOrLayDown) {
		return nil
	}
	p := g.currentPlayer()
	if err := ValidateLayDown(combinations, p.Hand, g.Round); err != nil {
		g.fireEventToPlayer(playerID, GameEvent{
			Type:    EventPrivateLayDownFail,
			Payload: map[string]interface{}{"message": err.Error()},
		})
		g.logAction(playerID, string(EventPrivateLayDownFail), map[string]interface{}{"reason": err.Error()})
		return err
	}

	p.Hand = nil
	p.HasFinishedRound = true
	g.fireEvent(GameEvent{
		Type:         EventPlayerLayDown,
		User:         &EventUser{ID: playerID},
		Combinations: combinations,
	})
	g.logAction(playerID, string(EventPlayerLayDown), map[string]interface{}{"combinations": len(combinations)})

	g.finishRound(playerID)
	return nil
}

// finishRound ends the round for every player: the first finisher scores 0,
// everyone else scores their hand as it stands. Assumes lock is held.
func (g *FiveCrownsGame) finishRound(finisherID uuid.UUID) {
	g.FinisherID = finisherID
	g.RoundOver = true
	g.TimerRemaining = 0

	scores := RoundScores(g.Players, g.Round)
	g.LastRoundScores = scores
	for _, p := range g.Players {
		p.Score += scores[p.ID]
	}

	payloadScores := make(map[string]interface{}, len(scores))
	totals := make(map[string]interface{}, len(g.Players))
	for _, p := range g.Players {
		payloadScores[p.ID.String()] = scores[p.ID]
		totals[p.ID.String()] = p.Score
	}
	g.fireEvent(GameEvent{
		Type: EventRoundEnd,
		User: &EventUser{ID: finisherID},
		Payload: map[string]interface{}{
			"round":       g.Round,
			"roundScores": payloadScores,
			"totals":      totals,
		},
	})
	g.logAction(finisherID, string(EventRoundEnd), map[string]interface{}{"round": g.Round})

	if g.Round >= TotalRounds {
		g.completeGame()
	}
	// Otherwise the host calls InitializeNextRound after its display pause.
}

// completeGame resolves the final round: winner determination and the
// end-of-game callback. The state is read-only afterwards. Assumes lock is
// held.
func (g *FiveCrownsGame) completeGame() {
	g.Status = StatusCompleted
	g.WinnerID = DetermineWinner(g.Players)

	finalScores := make(map[uuid.UUID]int, len(g.Players))
	payload := make(map[string]interface{}, len(g.Players))
	for _, p := range g.Players {
		finalScores[p.ID] = p.Score
		payload[p.ID.String()] = p.Score
	}
	g.fireEvent(GameEvent{
		Type: EventGameEnd,
		User: &EventUser{ID: g.WinnerID},
		Payload: map[string]interface{}{
			"winner": g.WinnerID.String(),
			"scores": payload,
		},
	})
	g.logAction(g.WinnerID, string(EventGameEnd), nil)

	if g.OnGameEnd != nil {
		go g.OnGameEnd(g.ID, g.WinnerID, finalScores)
	}
}

// InitializeNextRound deals the next round. The host invokes this after the
// round-end display pause; a no-op unless a round just finished and the game
// is still running.
func (g *FiveCrownsGame) InitializeNextRound() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Status != StatusInProgress || !g.RoundOver || g.Round >= TotalRounds {
		return nil
	}
	return g.startRound(g.Round + 1)
}

// FinalizeGame returns the winner of a completed game.
func (g *FiveCrownsGame) FinalizeGame() (uuid.UUID, bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Status != StatusCompleted {
		return uuid.Nil, false
	}
	return g.WinnerID, true
}

// TickCountdown advances the per-turn countdown by one tick. The host calls
// this once per wall-clock second; tests call it directly, so countdown
// behavior needs no real waits. On expiry the engine forces the remaining
// legal actions for the phase: a weighted draw plus a forced discard when the
// player has not acted, or a plain end-of-turn when only the lay-down choice
// is pending.
func (g *FiveCrownsGame) TickCountdown() {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Status != StatusInProgress || g.RoundOver || !g.Rules.TimerEnabled {
		return
	}
	g.TimerRemaining--
	if g.TimerRemaining > 0 {
		return
	}

	cur := g.currentPlayer()
	if cur == nil {
		return
	}
	g.fireEvent(GameEvent{Type: EventPlayerTimeout, User: &EventUser{ID: cur.ID}})
	g.logAction(cur.ID, string(EventPlayerTimeout), map[string]interface{}{"phase": string(g.Phase)})

	switch g.Phase {
	case PhaseAwaitingDraw:
		g.forceDraw(cur)
		if g.Phase == PhaseAwaitingDiscard {
			g.forceDiscard(cur)
		}
		if g.Phase == PhaseAwaitingEndOrLayDown {
			g.advanceTurn()
			return
		}
		// Neither pile had cards; the turn is forfeited.
		g.advanceTurn()
	case PhaseAwaitingDiscard:
		g.forceDiscard(cur)
		g.advanceTurn()
	case PhaseAwaitingEndOrLayDown:
		g.advanceTurn()
	}
}

// forceDraw performs the timeout draw: weighted random source when both piles
// have cards, otherwise whichever is available. Assumes lock is held.
func (g *FiveCrownsGame) forceDraw(p *models.GamePlayer) {
	src := RandomDrawSource(len(g.DiscardPile), g.rng)
	// A deck draw recycles the buried discards when the deck is out; only
	// fall back to the pile when recycling is impossible.
	if src == DrawSourceDeck && len(g.Deck) == 0 && len(g.DiscardPile) <= 1 {
		src = DrawSourceDiscard
	}
	if src == DrawSourceDiscard && len(g.DiscardPile) == 0 {
		src = DrawSourceDeck
	}
	switch src {
	case DrawSourceDeck:
		g.drawDeck(p.ID)
	case DrawSourceDiscard:
		g.drawDiscard(p.ID)
	}
}

// forceDiscard discards the highest-point card in hand. Assumes lock is held.
func (g *FiveCrownsGame) forceDiscard(p *models.GamePlayer) {
	card := ForcedDiscard(p.Hand)
	if card == nil {
		return
	}
	g.discardCard(p.ID, card.ID)
}

// scheduleAITurn drives the current player's turn when they are an AI. With a
// zero think delay the whole turn (and any following AI turns) runs
// synchronously; otherwise each decision is paced by AIThinkDelay with a
// stale-turn guard, since a fresh turn supersedes any pending timer.
// Assumes lock is held.
func (g *FiveCrownsGame) scheduleAITurn() {
	if g.Status != StatusInProgress || g.RoundOver {
		return
	}
	cur := g.currentPlayer()
	if cur == nil || !cur.IsAI {
		return
	}

	if g.AIThinkDelay <= 0 {
		if g.aiRunning {
			// Already inside the synchronous driver below; it will pick the
			// next step up itself.
			return
		}
		g.aiRunning = true
		defer func() { g.aiRunning = false }()
		for g.Status == StatusInProgress && !g.RoundOver {
			p := g.currentPlayer()
			if p == nil || !p.IsAI {
				return
			}
			g.aiStep(p)
		}
		return
	}

	turnID := g.TurnID
	phase := g.Phase
	if g.aiTimer != nil {
		g.aiTimer.Stop()
	}
	g.aiTimer = time.AfterFunc(g.AIThinkDelay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		// Ignore stale timers from a superseded turn or phase.
		if g.Status != StatusInProgress || g.RoundOver || g.TurnID != turnID || g.Phase != phase {
			return
		}
		cur := g.currentPlayer()
		if cur == nil || !cur.IsAI {
			return
		}
		g.aiStep(cur)
		g.scheduleAITurn()
	})
}

// aiStep performs exactly one AI decision for the current phase.
// Assumes lock is held.
func (g *FiveCrownsGame) aiStep(p *models.GamePlayer) {
	switch g.Phase {
	case PhaseAwaitingDraw:
		var top *models.Card
		if len(g.DiscardPile) > 0 {
			top = g.DiscardPile[len(g.DiscardPile)-1]
		}
		src := DecideDraw(p.Hand, top, g.Round)
		// drawDeck recycles the buried discards itself; fall back to the
		// pile only when there is nothing left to recycle.
		if src == DrawSourceDeck && len(g.Deck) == 0 && len(g.DiscardPile) <= 1 {
			src = DrawSourceDiscard
		}
		if src == DrawSourceDiscard && len(g.DiscardPile) == 0 {
			src = DrawSourceDeck
		}
		if len(g.Deck) == 0 && len(g.DiscardPile) == 0 {
			g.advanceTurn()
			return
		}
		if src == DrawSourceDiscard {
			g.drawDiscard(p.ID)
		} else {
			g.drawDeck(p.ID)
		}
	case PhaseAwaitingDiscard:
		card := ChooseDiscard(p.Hand, g.Round)
		if card == nil {
			g.advanceTurn()
			return
		}
		g.discardCard(p.ID, card.ID)
	case PhaseAwaitingEndOrLayDown:
		combos := SolveHand(p.Hand, g.Round)
		if ValidateLayDown(combos, p.Hand, g.Round) == nil {
			if err := g.submitCombinations(p.ID, combos); err == nil {
				return
			}
		}
		g.advanceTurn()
	}
}

// HandleDisconnect marks a player's connection as gone. The countdown keeps
// running; a stalled human is eventually forced by TickCountdown.
func (g *FiveCrownsGame) HandleDisconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if p := g.getPlayerByID(playerID); p != nil {
		p.Connected = false
		p.Conn = nil
	}
}

// HandleReconnect marks a player as connected again and replays the current
// state to them. The transport layer re-binds the connection itself.
func (g *FiveCrownsGame) HandleReconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	p := g.getPlayerByID(playerID)
	if p == nil {
		return
	}
	p.Connected = true
	snap := g.snapshot(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: snap})
}

// fireEvent broadcasts an event to all connected players. Assumes lock is
// held.
func (g *FiveCrownsGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends an event only to a specific player. Assumes lock is
// held.
func (g *FiveCrownsGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// logAction feeds the replay/historian queue. Best-effort: skipped entirely
// when Redis is not connected, and never blocks game logic.
func (g *FiveCrownsGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if cache.Rdb == nil {
		return
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorID:       actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, record); err != nil {
			log.Printf("game %s: failed to publish action record: %v", record.GameID, err)
		}
	}()
}
