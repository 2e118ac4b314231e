package registry

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/tictac/internal/platform/errors"
	"github.com/louisbranch/tictac/internal/platform/i18n/catalog"
	"github.com/louisbranch/tictac/internal/services/game/domain/board"
	"github.com/louisbranch/tictac/internal/services/game/domain/session"
	"github.com/louisbranch/tictac/internal/services/game/protocol"
)

// Message catalog keys for free-text payloads.
const (
	msgWaiting              = "game.waiting"
	msgWin                  = "game.win"
	msgDraw                 = "game.draw"
	msgOpponentDisconnected = "game.opponent_disconnected"
)

var (
	// ErrNoActiveGame indicates the identity owns no session.
	ErrNoActiveGame = apperrors.New(apperrors.CodeNoActiveGame, "no active game")
	// ErrIdentityInUse indicates another live connection holds the identity.
	ErrIdentityInUse = apperrors.New(apperrors.CodeIdentityInUse, "identity already connected")
)

// Peer is the outbound half of a client connection.
//
// Send must not block: the registry calls it while holding its lock.
type Peer interface {
	Send(line string)
	Close() error
}

// Config configures a Registry.
type Config struct {
	// Locale selects the language of free-text payloads.
	Locale string
	// Logger receives lifecycle logs. Nil disables logging.
	Logger *zap.Logger
}

type texts struct {
	waiting              string
	win                  string
	draw                 string
	opponentDisconnected string
}

// Registry owns the session table and the player routing table.
type Registry struct {
	mu       sync.Mutex
	logger   *zap.Logger
	texts    texts
	sessions map[string]*session.Session
	owners   map[string]string
	peers    map[string]Peer
	waiting  []string
	live     map[Peer]struct{}
	closed   bool
}

// New creates an empty registry.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	printer := catalog.Default().Printer(cfg.Locale)
	return &Registry{
		logger: logger,
		texts: texts{
			waiting:              printer.Sprintf(msgWaiting),
			win:                  printer.Sprintf(msgWin),
			draw:                 printer.Sprintf(msgDraw),
			opponentDisconnected: printer.Sprintf(msgOpponentDisconnected),
		},
		sessions: make(map[string]*session.Session),
		owners:   make(map[string]string),
		peers:    make(map[string]Peer),
		live:     make(map[Peer]struct{}),
	}
}

// Attach records a live connection for shutdown bookkeeping. It reports false
// once CloseAll has run; the caller owns closing the rejected connection.
func (r *Registry) Attach(peer Peer) bool {
	if peer == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.live[peer] = struct{}{}
	return true
}

// Detach forgets a live connection.
func (r *Registry) Detach(peer Peer) {
	r.mu.Lock()
	delete(r.live, peer)
	r.mu.Unlock()
}

// Pairing describes where Connect seated a player.
type Pairing struct {
	// Paired is true when the player joined an existing WAITING session.
	Paired bool
	// SessionKey identifies the seated session.
	SessionKey string
	// Opponent is the waiting player the new player was matched with.
	Opponent string
}

// Connect routes identity to peer and seats it: into the oldest WAITING
// session owned by someone else, or into a new WAITING session.
func (r *Registry) Connect(identity string, peer Peer) (Pairing, error) {
	if identity == "" {
		return Pairing{}, fmt.Errorf("connect: identity is required")
	}
	if peer == nil {
		return Pairing{}, fmt.Errorf("connect %s: peer is required", identity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.peers[identity]; exists {
		return Pairing{}, apperrors.WithMetadata(apperrors.CodeIdentityInUse, ErrIdentityInUse.Message, map[string]string{
			"Player": identity,
		})
	}
	r.peers[identity] = peer
	r.live[peer] = struct{}{}

	if sess := r.popWaitingLocked(identity); sess != nil {
		if err := sess.Pair(identity); err != nil {
			// popWaitingLocked only returns pairable sessions.
			delete(r.peers, identity)
			return Pairing{}, fmt.Errorf("connect %s: %w", identity, err)
		}
		r.owners[identity] = sess.Key()
		opponent := sess.Player1()

		peer.Send(protocol.Opponent(opponent))
		peer.Send(protocol.Board(sess.Board()))
		peer.Send(protocol.Turn(sess.Turn()))
		peer.Send(protocol.Symbol(board.O))
		r.sendLocked(opponent, protocol.Opponent(identity))

		r.logger.Info("players paired",
			zap.String("session", sess.Key()),
			zap.String("player_x", opponent),
			zap.String("player_o", identity),
		)
		return Pairing{Paired: true, SessionKey: sess.Key(), Opponent: opponent}, nil
	}

	sess := session.NewWaiting(identity)
	r.sessions[sess.Key()] = sess
	r.owners[identity] = sess.Key()
	r.waiting = append(r.waiting, sess.Key())
	peer.Send(protocol.Waiting(r.texts.waiting))

	r.logger.Info("player waiting", zap.String("session", sess.Key()))
	return Pairing{SessionKey: sess.Key()}, nil
}

// popWaitingLocked removes and returns the first pairable WAITING session
// not owned by identity. Stale queue entries are dropped as they are seen.
func (r *Registry) popWaitingLocked(identity string) *session.Session {
	for i := 0; i < len(r.waiting); {
		key := r.waiting[i]
		sess, ok := r.sessions[key]
		if !ok || sess.Status() != session.StatusWaiting {
			r.waiting = append(r.waiting[:i], r.waiting[i+1:]...)
			continue
		}
		if key == identity {
			i++
			continue
		}
		r.waiting = append(r.waiting[:i], r.waiting[i+1:]...)
		return sess
	}
	return nil
}

// Move applies a move for identity and broadcasts the resulting BOARD line
// followed by TURN, WIN, or DRAW to both participants. A rejected move
// changes nothing and broadcasts nothing.
func (r *Registry) Move(identity string, cell board.Cell) (session.MoveOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessionLocked(identity)
	if !ok {
		return session.MoveOutcome{}, ErrNoActiveGame
	}
	outcome, err := sess.ApplyMove(identity, cell)
	if err != nil {
		return session.MoveOutcome{}, fmt.Errorf("move %s by %s: %w", cell, identity, err)
	}

	r.broadcastLocked(sess, protocol.Board(outcome.Board))
	switch outcome.Kind {
	case session.Win:
		r.broadcastLocked(sess, protocol.Win(outcome.Winner, r.texts.win))
		r.logger.Info("game won", zap.String("session", sess.Key()), zap.String("winner", outcome.Winner))
	case session.Draw:
		r.broadcastLocked(sess, protocol.Draw(r.texts.draw))
		r.logger.Info("game drawn", zap.String("session", sess.Key()))
	default:
		r.broadcastLocked(sess, protocol.Turn(outcome.Turn))
	}
	return outcome, nil
}

// Chat relays text from identity to every participant of its session,
// including the sender.
func (r *Registry) Chat(identity, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessionLocked(identity)
	if !ok {
		return ErrNoActiveGame
	}
	r.broadcastLocked(sess, protocol.Chat(identity, text))
	return nil
}

// Status sends TURN, OPPONENT (when paired), and STATUS OK to identity and
// returns the same snapshot.
func (r *Registry) Status(identity string) (session.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessionLocked(identity)
	if !ok {
		return session.Snapshot{}, ErrNoActiveGame
	}
	snapshot := sess.Snapshot(identity)
	r.sendLocked(identity, protocol.Turn(snapshot.Turn))
	if snapshot.Opponent != "" {
		r.sendLocked(identity, protocol.Opponent(snapshot.Opponent))
	}
	r.sendLocked(identity, protocol.StatusOK())
	return snapshot, nil
}

// Disconnect removes identity's routing entry and, if it owns a session,
// abandons and removes that session and notifies the remaining participant.
// Calling Disconnect for an unknown identity is a no-op.
func (r *Registry) Disconnect(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.peers, identity)

	sess, ok := r.sessionLocked(identity)
	if !ok {
		return
	}
	sess.Abandon()
	if opponent := sess.Opponent(identity); opponent != "" {
		r.sendLocked(opponent, protocol.OpponentDisconnected(r.texts.opponentDisconnected))
	}
	for _, participant := range sess.Participants() {
		delete(r.owners, participant)
	}
	delete(r.sessions, sess.Key())
	r.removeWaitingLocked(sess.Key())

	r.logger.Info("session removed",
		zap.String("session", sess.Key()),
		zap.String("left", identity),
	)
}

// CloseAll closes every live connection and refuses later attaches. Workers
// observe the close as a read error and run their normal disconnect path.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	r.closed = true
	peers := make([]Peer, 0, len(r.live))
	for peer := range r.live {
		peers = append(peers, peer)
	}
	r.mu.Unlock()

	for _, peer := range peers {
		if err := peer.Close(); err != nil {
			r.logger.Debug("close peer", zap.Error(err))
		}
	}
}

// SessionView is a copy of one session's state.
type SessionView struct {
	Key     string
	Player1 string
	Player2 string
	Status  session.Status
	Turn    board.Symbol
	Board   board.Board
	Winner  string
}

// Lookup returns a copy of the session identity belongs to.
func (r *Registry) Lookup(identity string) (SessionView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessionLocked(identity)
	if !ok {
		return SessionView{}, false
	}
	winner, _ := sess.Winner()
	return SessionView{
		Key:     sess.Key(),
		Player1: sess.Player1(),
		Player2: sess.Player2(),
		Status:  sess.Status(),
		Turn:    sess.Turn(),
		Board:   sess.Board(),
		Winner:  winner,
	}, true
}

// Stats counts registry entries.
type Stats struct {
	Waiting     int
	Active      int
	Terminated  int
	Players     int
	Connections int
}

// Stats returns current table sizes.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{Players: len(r.peers), Connections: len(r.live)}
	for _, sess := range r.sessions {
		switch sess.Status() {
		case session.StatusWaiting:
			stats.Waiting++
		case session.StatusActive:
			stats.Active++
		case session.StatusTerminated:
			stats.Terminated++
		}
	}
	return stats
}

// Players returns the connected identities in sorted order.
func (r *Registry) Players() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.peers))
	for identity := range r.peers {
		out = append(out, identity)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) sessionLocked(identity string) (*session.Session, bool) {
	key, ok := r.owners[identity]
	if !ok {
		return nil, false
	}
	sess, ok := r.sessions[key]
	return sess, ok
}

func (r *Registry) sendLocked(identity, line string) {
	if peer, ok := r.peers[identity]; ok {
		peer.Send(line)
	}
}

func (r *Registry) broadcastLocked(sess *session.Session, line string) {
	for _, participant := range sess.Participants() {
		r.sendLocked(participant, line)
	}
}

func (r *Registry) removeWaitingLocked(key string) {
	for i, waitingKey := range r.waiting {
		if waitingKey == key {
			r.waiting = append(r.waiting[:i], r.waiting[i+1:]...)
			return
		}
	}
}
