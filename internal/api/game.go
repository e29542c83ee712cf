package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/isaacjstriker/blockfall/games/blockfall"
	"github.com/isaacjstriker/blockfall/internal/bestscore"
	"github.com/isaacjstriker/blockfall/internal/database"
)

const (
	modeClassic = "classic"
	modeArcade  = "arcade"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Tokens, not cookies, authenticate the socket.
		return true
	},
}

// clientMessage is what the browser sends over the socket.
type clientMessage struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Release bool   `json:"release"`
}

type stateMessage struct {
	Type   string             `json:"type"`
	State  blockfall.Snapshot `json:"state"`
	Events []blockfall.Event  `json:"events,omitempty"`
	Best   int                `json:"best"`
}

type gameOverMessage struct {
	Type    string            `json:"type"`
	Score   int               `json:"score"`
	Lines   int               `json:"lines"`
	Level   int               `json:"level"`
	Best    int               `json:"best"`
	NewBest bool              `json:"newBest"`
	Events  []blockfall.Event `json:"events,omitempty"`
}

// handleGameConnection authenticates the player, upgrades the request and
// plays games on the connection until the client leaves. A restart after
// game over starts the next game on the same socket.
func (s *APIServer) handleGameConnection(w http.ResponseWriter, r *http.Request) {
	tokenString, ok := bearerToken(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "authorization required"})
		return
	}
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "invalid token"})
		return
	}
	arcade, _ := strconv.ParseBool(r.URL.Query().Get("arcade"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[WARN] Failed to upgrade connection:", err)
		return
	}
	defer conn.Close()

	g := &webGame{
		conn:    conn,
		player:  claims.Player,
		session: blockfall.NewSession(blockfall.WithTuning(s.tuning), blockfall.WithArcade(arcade)),
		tracker: bestscore.NewTracker(s.db, "blockfall-best-score:"+claims.Player),
		db:      s.db,
		tick:    s.tick,
	}
	g.tracker.Load(r.Context())
	g.run(r.Context())
}

// webGame owns one Session. Only run's goroutine touches it.
type webGame struct {
	conn    *websocket.Conn
	player  string
	session *blockfall.Session
	tracker *bestscore.Tracker
	db      *database.DB
	tick    time.Duration

	newBest bool
	over    bool
}

func (g *webGame) run(ctx context.Context) {
	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	inputChan := g.readInputs(done)

	last := time.Now()
	for {
		select {
		case in, ok := <-inputChan:
			if !ok {
				// Client disconnected
				return
			}
			g.session.Apply(in)

		case now := <-ticker.C:
			g.session.Step(now.Sub(last))
			last = now

			if g.observe(ctx) {
				g.newBest = true
			}
			events := g.session.DrainEvents()

			if g.session.State() == blockfall.StateGameOver {
				if !g.over {
					g.over = true
					if err := g.finish(ctx, events); err != nil {
						return
					}
				}
				// Wait for a restart or for the client to leave.
				continue
			}
			if g.over {
				g.over = false
				g.newBest = false
			}

			msg := stateMessage{Type: "state", State: g.session.Snapshot(), Events: events, Best: g.tracker.Best()}
			if err := g.conn.WriteJSON(msg); err != nil {
				// Client disconnected
				return
			}
		}
	}
}

// readInputs decodes client messages until the connection fails or done
// is closed.
func (g *webGame) readInputs(done <-chan struct{}) <-chan blockfall.Input {
	inputChan := make(chan blockfall.Input)
	go func() {
		defer close(inputChan)
		for {
			var msg clientMessage
			if err := g.conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type != "input" {
				continue
			}
			cmd, err := blockfall.ParseCommand(msg.Command)
			if err != nil {
				log.Printf("[DEBUG] player %s: %v", g.player, err)
				continue
			}
			select {
			case inputChan <- blockfall.Input{Command: cmd, Release: msg.Release}:
			case <-done:
				return
			}
		}
	}()
	return inputChan
}

func (g *webGame) observe(ctx context.Context) bool {
	return g.tracker.Observe(ctx, g.session.Score())
}

// finish records the result and tells the client the game is over.
func (g *webGame) finish(ctx context.Context, events []blockfall.Event) error {
	mode := modeClassic
	if g.session.Arcade() {
		mode = modeArcade
	}
	result := &database.GameResult{
		Player: g.player,
		Mode:   mode,
		Score:  g.session.Score(),
		Lines:  g.session.Lines(),
		Level:  g.session.Level(),
		Metadata: map[string]any{
			"pieces":  g.session.PiecesPlaced(),
			"seconds": g.session.Now().Seconds(),
		},
	}
	if err := g.db.SaveGameResult(ctx, result); err != nil {
		log.Printf("[WARN] failed to record game for %s: %v", g.player, err)
	}

	return g.conn.WriteJSON(gameOverMessage{
		Type:    "gameOver",
		Score:   result.Score,
		Lines:   result.Lines,
		Level:   result.Level,
		Best:    g.tracker.Best(),
		NewBest: g.newBest,
		Events:  events,
	})
}
