package quiz

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Yashshukla011/quizegame/internal/model"
)

// Broadcaster delivers room events to connected participants. The ws
// hub implements it; rooms never talk to sockets directly.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, event string, payload any)
	BroadcastToPlayer(roomCode, playerID string, event string, payload any)
}

type actionKind int

const (
	actJoin actionKind = iota
	actStart
	actSubmit
	actConnected
	actDisconnected
	actTimeout
	actSnapshot
	actClose
)

type action struct {
	kind     actionKind
	playerID string
	name     string
	option   string
	round    int
	reply    chan result
}

type result struct {
	seat int
	snap model.RoomSnapshot
	err  error
}

type player struct {
	id        string
	name      string
	seat      int
	score     int
	answered  bool
	connected bool
}

// Room is one isolated quiz match. All mutations are funneled through a
// single-consumer action queue so that "has everyone answered" and
// "advance the round" are always evaluated against one consistent
// snapshot. Different rooms are fully independent.
type Room struct {
	code          string
	capacity      int
	mode          model.RoomMode
	policy        ScoringPolicy
	roundDuration time.Duration

	questions []model.Question
	cursor    int
	status    model.RoomStatus
	players   []*player
	byID      map[string]*player
	turn      int // seat index, turn-based only
	round     int // serial, guards against stale timers
	deadline  time.Time
	createdAt time.Time

	timer   *time.Timer
	actions chan action
	done    chan struct{}

	finished   atomic.Bool
	lastActive atomic.Int64 // unix nanos

	bc  Broadcaster
	log *zap.Logger

	closeOnce sync.Once
}

func newRoom(code string, questions []model.Question, settings model.RoomSettings, policy ScoringPolicy, bc Broadcaster, log *zap.Logger) *Room {
	r := &Room{
		code:          code,
		capacity:      settings.MaxPlayers,
		mode:          settings.Mode,
		policy:        policy,
		roundDuration: time.Duration(settings.TimePerQuestionSec) * time.Second,
		questions:     questions,
		status:        model.RoomWaiting,
		byID:          make(map[string]*player),
		createdAt:     time.Now(),
		actions:       make(chan action, 16),
		done:          make(chan struct{}),
		bc:            bc,
		log:           log,
	}
	r.lastActive.Store(time.Now().UnixNano())
	go r.run()
	return r
}

// Code returns the room's immutable join code.
func (r *Room) Code() string { return r.code }

// Finished reports whether the room has proclaimed its final ranking.
func (r *Room) Finished() bool { return r.finished.Load() }

// IdleSince returns the time of the last processed action.
func (r *Room) IdleSince() time.Time { return time.Unix(0, r.lastActive.Load()) }

// Join seats a new player, or reconnects an existing one. Rejoining
// with an already-seated id is idempotent: it only flips the connected
// flag and never touches score or the answered marker.
func (r *Room) Join(playerID, name string) (int, model.RoomSnapshot, error) {
	res := r.do(action{kind: actJoin, playerID: playerID, name: name})
	return res.seat, res.snap, res.err
}

// Start moves the room from WAITING to IN_PROGRESS. Host only.
func (r *Room) Start(playerID string) error {
	return r.do(action{kind: actStart, playerID: playerID}).err
}

// Submit records playerID's answer for the current round and advances
// the round when the mode's completion rule is met.
func (r *Room) Submit(playerID, option string) error {
	return r.do(action{kind: actSubmit, playerID: playerID, option: option}).err
}

// SetConnected flips a seated player's connection flag. Disconnecting
// never vacates the seat.
func (r *Room) SetConnected(playerID string, connected bool) error {
	kind := actDisconnected
	if connected {
		kind = actConnected
	}
	return r.do(action{kind: kind, playerID: playerID}).err
}

// Snapshot returns a consistent copy of the room state.
func (r *Room) Snapshot() model.RoomSnapshot {
	return r.do(action{kind: actSnapshot}).snap
}

// Close tears the room down. Safe to call more than once.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		select {
		case r.actions <- action{kind: actClose}:
		case <-r.done:
		}
	})
}

func (r *Room) do(act action) result {
	act.reply = make(chan result, 1)
	select {
	case r.actions <- act:
	case <-r.done:
		return result{err: ErrRoomNotFound}
	}
	select {
	case res := <-act.reply:
		return res
	case <-r.done:
		return result{err: ErrRoomNotFound}
	}
}

// post is the fire-and-forget variant used by the round timer.
func (r *Room) post(act action) {
	select {
	case r.actions <- act:
	case <-r.done:
	}
}

func (r *Room) run() {
	for act := range r.actions {
		r.lastActive.Store(time.Now().UnixNano())

		var res result
		switch act.kind {
		case actJoin:
			res.seat, res.err = r.handleJoin(act.playerID, act.name)
			res.snap = r.snapshot()
		case actStart:
			res.err = r.handleStart(act.playerID)
		case actSubmit:
			res.err = r.handleSubmit(act.playerID, act.option)
		case actConnected:
			res.err = r.handleConnected(act.playerID)
		case actDisconnected:
			res.err = r.handleDisconnected(act.playerID)
		case actTimeout:
			r.handleTimeout(act.round)
		case actSnapshot:
			res.snap = r.snapshot()
		case actClose:
			r.stopTimer()
			close(r.done)
			if act.reply != nil {
				act.reply <- res
			}
			return
		}

		if act.reply != nil {
			act.reply <- res
		}
	}
}

func (r *Room) handleJoin(playerID, name string) (int, error) {
	if p, ok := r.byID[playerID]; ok {
		// Reconnection: no mutation beyond the connected flag.
		if !p.connected {
			p.connected = true
			r.emitRoster()
		}
		return p.seat, nil
	}
	if r.status == model.RoomFinished {
		return 0, ErrRoomFinished
	}
	if len(r.players) >= r.capacity {
		return 0, ErrRoomFull
	}
	p := &player{
		id:        playerID,
		name:      name,
		seat:      len(r.players),
		connected: true,
	}
	r.players = append(r.players, p)
	r.byID[playerID] = p
	r.emitRoster()
	r.emitToRoom(model.EventChatMessage, model.ChatMessagePayload{
		Sender: "System",
		Text:   name + " joined the battle!",
	})
	return p.seat, nil
}

func (r *Room) handleStart(playerID string) error {
	switch r.status {
	case model.RoomInProgress:
		return ErrAlreadyStarted
	case model.RoomFinished:
		return ErrRoomFinished
	}
	if len(r.players) == 0 || r.players[0].id != playerID {
		return ErrNotHost
	}
	if len(r.players) < 2 {
		return ErrNotEnoughPlayers
	}
	r.status = model.RoomInProgress
	r.cursor = 0
	r.turn = 0
	r.round = 1
	r.armTimer()
	r.emitRoundStarted()
	return nil
}

func (r *Room) handleSubmit(playerID, option string) error {
	switch r.status {
	case model.RoomWaiting:
		return ErrNotStarted
	case model.RoomFinished:
		return ErrRoomFinished
	}
	p, ok := r.byID[playerID]
	if !ok {
		return ErrNotJoined
	}
	now := time.Now()
	if r.roundDuration > 0 && now.After(r.deadline) {
		// The round clock already ran out: this submission is a
		// zero-point non-answer and closes the round for everyone
		// still pending.
		r.expireRound()
		return nil
	}
	if r.mode == model.ModeTurnBased && r.players[r.turn].id != playerID {
		return ErrNotYourTurn
	}
	if p.answered {
		return ErrAlreadyAnswered
	}
	q := r.questions[r.cursor]
	if !containsOption(q.Options, option) {
		return ErrInvalidOption
	}

	correct := option == q.CorrectOption
	remaining := time.Duration(0)
	if r.roundDuration > 0 {
		remaining = r.deadline.Sub(now)
	}
	p.score += r.policy.Award(correct, remaining, r.roundDuration)
	p.answered = true

	if r.mode == model.ModeTurnBased {
		other := r.players[1-p.seat]
		if other.answered {
			r.emitScores()
			r.advance()
		} else {
			r.turn = 1 - p.seat
			r.emitScores()
		}
		return nil
	}

	r.emitScores()
	if r.roundComplete() {
		r.advance()
	}
	return nil
}

func (r *Room) handleConnected(playerID string) error {
	p, ok := r.byID[playerID]
	if !ok {
		return ErrNotJoined
	}
	if !p.connected {
		p.connected = true
		r.emitRoster()
	}
	return nil
}

func (r *Room) handleDisconnected(playerID string) error {
	p, ok := r.byID[playerID]
	if !ok {
		return ErrNotJoined
	}
	if p.connected {
		p.connected = false
		r.emitRoster()
	}
	// A dropped client must not leave the round stuck: if everyone
	// still connected has already answered, the round closes now.
	if r.status == model.RoomInProgress && r.mode == model.ModeBroadcast && r.roundComplete() {
		r.advance()
	}
	return nil
}

// handleTimeout is the deadline firing, funneled through the same
// queue as player actions. The round serial rejects stale timers.
func (r *Room) handleTimeout(round int) {
	if r.status != model.RoomInProgress || round != r.round {
		return
	}
	r.expireRound()
}

// expireRound force-marks every un-answered connected seat as answered
// with zero award, then runs the normal advancement check.
func (r *Room) expireRound() {
	for _, p := range r.players {
		if p.connected && !p.answered {
			p.answered = true
		}
	}
	r.emitScores()
	r.advance()
}

// roundComplete reports whether every currently-connected seat has
// answered. Disconnected seats count as auto-answered with zero award.
// An empty room never completes a round on its own.
func (r *Room) roundComplete() bool {
	anyConnected := false
	for _, p := range r.players {
		if !p.connected {
			continue
		}
		anyConnected = true
		if !p.answered {
			return false
		}
	}
	return anyConnected
}

func (r *Room) advance() {
	r.stopTimer()
	r.cursor++
	for _, p := range r.players {
		p.answered = false
	}
	r.turn = 0
	if r.cursor >= len(r.questions) {
		r.finish()
		return
	}
	r.round++
	r.armTimer()
	r.emitRoundStarted()
}

func (r *Room) finish() {
	r.status = model.RoomFinished
	r.finished.Store(true)
	r.deadline = time.Time{}
	r.emitToRoom(model.EventGameFinished, model.GameFinishedPayload{
		RoomCode: r.code,
		Mode:     r.mode,
		Total:    len(r.questions),
		Rankings: r.rankings(),
	})
	if r.log != nil {
		r.log.Info("game finished", zap.String("room", r.code))
	}
}

func (r *Room) armTimer() {
	if r.roundDuration <= 0 {
		return
	}
	r.deadline = time.Now().Add(r.roundDuration)
	round := r.round
	r.timer = time.AfterFunc(r.roundDuration, func() {
		r.post(action{kind: actTimeout, round: round})
	})
}

func (r *Room) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.deadline = time.Time{}
}

func (r *Room) rankings() []model.RankedPlayer {
	states := r.playerStates()
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].Score > states[j].Score
	})
	ranked := make([]model.RankedPlayer, len(states))
	for i, s := range states {
		ranked[i] = model.RankedPlayer{PlayerState: s, Rank: i + 1}
	}
	return ranked
}

func (r *Room) playerStates() []model.PlayerState {
	states := make([]model.PlayerState, len(r.players))
	for i, p := range r.players {
		states[i] = model.PlayerState{
			ID:          p.id,
			Name:        p.name,
			Seat:        p.seat,
			Score:       p.score,
			HasAnswered: p.answered,
			Connected:   p.connected,
		}
	}
	return states
}

func (r *Room) snapshot() model.RoomSnapshot {
	snap := model.RoomSnapshot{
		Code:      r.code,
		Status:    r.status,
		Mode:      r.mode,
		Capacity:  r.capacity,
		Cursor:    r.cursor,
		Total:     len(r.questions),
		Players:   r.playerStates(),
		CreatedAt: r.createdAt,
	}
	if len(r.players) > 0 {
		snap.HostPlayerID = r.players[0].id
	}
	if r.mode == model.ModeTurnBased && r.status == model.RoomInProgress && r.turn < len(r.players) {
		snap.TurnPlayerID = r.players[r.turn].id
	}
	if !r.deadline.IsZero() {
		d := r.deadline
		snap.Deadline = &d
	}
	return snap
}

func (r *Room) emitRoster() {
	r.emitToRoom(model.EventRosterUpdated, model.RosterUpdatedPayload{
		Players:  r.playerStates(),
		Capacity: r.capacity,
	})
}

func (r *Room) emitScores() {
	r.emitToRoom(model.EventScoreUpdated, model.ScoreUpdatedPayload{
		RoomCode: r.code,
		Players:  r.playerStates(),
	})
}

func (r *Room) emitRoundStarted() {
	payload := model.RoundStartedPayload{
		Question: r.questions[r.cursor].Public(),
		Index:    r.cursor,
		Total:    len(r.questions),
	}
	if !r.deadline.IsZero() {
		d := r.deadline
		payload.Deadline = &d
	}
	if r.mode == model.ModeTurnBased {
		payload.TurnPlayerID = r.players[r.turn].id
	}
	r.emitToRoom(model.EventRoundStarted, payload)
}

func (r *Room) emitToRoom(event string, payload any) {
	if r.bc != nil {
		r.bc.BroadcastToRoom(r.code, event, payload)
	}
}

// Relay forwards a chat message to everyone in the room. No transcript
// is kept.
func (r *Room) Relay(msg model.ChatMessagePayload) {
	r.emitToRoom(model.EventChatMessage, msg)
}

func containsOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}
