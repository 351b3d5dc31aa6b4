package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Croissanton/Quiziosity/internal/app"
	"github.com/Croissanton/Quiziosity/internal/domain"
	"github.com/Croissanton/Quiziosity/internal/game"
	"github.com/Croissanton/Quiziosity/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketGameFlow(t *testing.T) {
	service, _ := newTestService(t)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?name=alice"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// First signal is the question with its shuffled options.
	msg := readUntil(t, conn, "question")
	payload := msg.Payload
	options, ok := payload["options"].([]any)
	if !ok || len(options) != 4 {
		t.Fatalf("expected 4 options, got %v", payload["options"])
	}

	answer := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"option": "right"},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	resolved := readUntil(t, conn, "resolved")
	verdicts, ok := resolved.Payload["verdicts"].(map[string]any)
	if !ok || len(verdicts) != 4 {
		t.Fatalf("expected 4 verdicts, got %v", resolved.Payload["verdicts"])
	}
	if correct, _ := verdicts["right"].(bool); !correct {
		t.Fatalf("expected option 'right' marked correct: %v", verdicts)
	}

	score := readUntil(t, conn, "score")
	if got, _ := score.Payload["score"].(float64); got <= 0 {
		t.Fatalf("expected positive score, got %v", score.Payload["score"])
	}

	ended := readUntil(t, conn, "ended")
	if _, ok := ended.Payload["finalScore"].(float64); !ok {
		t.Fatalf("expected final score, got %v", ended.Payload)
	}
}

func TestWebSocketRequiresName(t *testing.T) {
	service, _ := newTestService(t)
	wsHandler := NewWSHandler(service)
	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWebSocketReportsNoQuestions(t *testing.T) {
	// Empty loader: every fetch comes back empty.
	cache := memory.NewQuestionCache(memory.NewStaticQuestionLoader(nil), time.Minute)
	service := app.NewGameService(memory.NewSessionStore(), cache, memory.NewUserStore(), testRules())
	wsHandler := NewWSHandler(service)
	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "?name=alice"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msg := readUntil(t, conn, "error")
	if msg.Payload["message"] == "" {
		t.Fatalf("expected error message, got %v", msg.Payload)
	}
}

func TestSinkCoalescesTicksKeepsOtherFrames(t *testing.T) {
	sink := newWSSink()
	sink.QuestionDisplayed(0, domain.Question{Text: "q"}, []string{"a", "b"})
	for i := 0; i < 100; i++ {
		sink.TimerTick(1000-i, time.Second)
	}
	sink.AnswerResolved("a", map[string]bool{"a": true, "b": false})
	sink.SessionEnded(42)
	sink.close()

	var types []string
	for {
		msgs, open := sink.drain()
		for _, msg := range msgs {
			types = append(types, msg.Type)
		}
		if !open {
			break
		}
	}

	want := []string{"question", "tick", "resolved", "ended"}
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i, typ := range want {
		if types[i] != typ {
			t.Fatalf("expected %v, got %v", want, types)
		}
	}
}

type wsMessage struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// readUntil skips unrelated messages (timer ticks mostly) until one of the
// wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) wsMessage {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var msg wsMessage
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type == want {
			return msg
		}
	}
	t.Fatalf("never received message of type %q", want)
	return wsMessage{}
}

func testRules() game.Rules {
	return game.Rules{
		QuestionTime: 10 * time.Second,
		TickInterval: time.Minute,
		SettleDelay:  5 * time.Millisecond,
		BaseScore:    10,
		StreakBonus:  2 * time.Second,
	}
}

func newTestService(t *testing.T) (*app.GameService, *memory.UserStore) {
	t.Helper()
	cache := memory.NewQuestionCache(memory.NewStaticQuestionLoader(map[string][]domain.Question{
		domain.QuestionQuery{}.CacheKey(): {
			{
				Text:             "Pick the right option",
				CorrectAnswer:    "right",
				IncorrectAnswers: []string{"wrong-1", "wrong-2", "wrong-3"},
			},
		},
	}), time.Minute)
	users := memory.NewUserStore()
	return app.NewGameService(memory.NewSessionStore(), cache, users, testRules()), users
}
