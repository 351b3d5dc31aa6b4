package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Croissanton/Quiziosity/internal/app"
	"github.com/Croissanton/Quiziosity/internal/domain"
	"github.com/Croissanton/Quiziosity/internal/game"
	"github.com/gorilla/websocket"
)

// WSHandler drives one single-player quiz round per websocket connection.
// The server is authoritative for the countdown; tick messages are progress
// feedback the client may interpolate between.
type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type questionPayload struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type tickPayload struct {
	Progress    int   `json:"progress"` // 0..1000
	RemainingMs int64 `json:"remainingMs"`
	Seconds     int64 `json:"seconds"`
}

type resolvedPayload struct {
	Selected string          `json:"selected"`
	Verdicts map[string]bool `json:"verdicts"`
}

type scorePayload struct {
	Score int `json:"score"`
}

type endedPayload struct {
	FinalScore int `json:"finalScore"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs a full quiz round over the socket.
// Query params: name (required), categories (comma-separated), lang.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}
	query := domain.QuestionQuery{
		Language: r.URL.Query().Get("lang"),
	}
	if raw := r.URL.Query().Get("categories"); raw != "" {
		query.Categories = strings.Split(raw, ",")
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sink := newWSSink()
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			msgs, open := sink.drain()
			for _, msg := range msgs {
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			}
			if !open {
				return
			}
		}
	}()

	sessionID := fmt.Sprintf("%s-%d", name, time.Now().UnixNano())

	if err := h.service.StartSession(r.Context(), sessionID, name, query, sink); err != nil {
		sink.push("error", errorPayload{Message: err.Error()})
		sink.close()
		<-writerDone
		return
	}
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sink.push("error", errorPayload{Message: "invalid answer payload"})
				continue
			}
			if err := h.service.SubmitAnswer(sessionID, payload.Option); err != nil {
				sink.push("error", errorPayload{Message: err.Error()})
			}
		default:
			sink.push("error", errorPayload{Message: "unsupported message type"})
		}
	}

	// Tear the session down first: once it returns no further events can be
	// emitted, so closing the sink is safe.
	h.service.EndSession(sessionID)
	sink.close()
	<-writerDone
}

// wsSink adapts the game's event signals onto an outbound queue consumed by
// the connection's writer goroutine. Pushes never block: consecutive ticks
// coalesce into the newest one, so a slow client only ever misses stale
// progress updates while question, verdict, score and end-of-session frames
// all go out in order.
type wsSink struct {
	mu     sync.Mutex
	queue  []outboundMessage[any]
	closed bool

	notify chan struct{}
	done   chan struct{}
}

func newWSSink() *wsSink {
	return &wsSink{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (s *wsSink) QuestionDisplayed(index int, question domain.Question, options []string) {
	s.push("question", questionPayload{
		Index:   index,
		Text:    question.Text,
		Options: options,
	})
}

func (s *wsSink) TimerTick(progress int, remaining time.Duration) {
	s.push("tick", tickPayload{
		Progress:    progress,
		RemainingMs: remaining.Milliseconds(),
		Seconds:     int64(remaining.Seconds()),
	})
}

func (s *wsSink) AnswerResolved(selected string, verdicts map[string]bool) {
	s.push("resolved", resolvedPayload{Selected: selected, Verdicts: verdicts})
}

func (s *wsSink) ScoreChanged(score int) {
	s.push("score", scorePayload{Score: score})
}

func (s *wsSink) SessionEnded(finalScore int) {
	s.push("ended", endedPayload{FinalScore: finalScore})
}

var _ game.EventSink = (*wsSink)(nil)

func (s *wsSink) push(typ string, payload any) {
	msg := outboundMessage[any]{Type: typ, Payload: payload}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if n := len(s.queue); typ == "tick" && n > 0 && s.queue[n-1].Type == "tick" {
		s.queue[n-1] = msg
	} else {
		s.queue = append(s.queue, msg)
	}
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// close stops accepting messages; the writer drains what is queued, then exits.
func (s *wsSink) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.done)
}

// drain blocks until messages are queued or the sink is closed, then hands the
// queued messages over. The boolean reports whether the sink is still open.
func (s *wsSink) drain() ([]outboundMessage[any], bool) {
	select {
	case <-s.notify:
	case <-s.done:
	}
	s.mu.Lock()
	msgs := s.queue
	s.queue = nil
	open := !s.closed
	s.mu.Unlock()
	return msgs, open
}
