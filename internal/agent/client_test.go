package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/constants"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
)

func testChoices() MoveChoices {
	return MoveChoices{Choices: []game.EffectKind{game.EffectNone, game.EffectHeal, game.EffectGamble}}
}

func TestRequestMove_Success(t *testing.T) {
	var gotGameID string
	var gotBody MoveChoices
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != constants.RouteChoices {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotGameID = r.URL.Query().Get(constants.QueryGameID)
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(ChoiceResponse{ChoiceIndex: 1})
	}))
	defer srv.Close()

	c := NewClient("tester", srv.URL, time.Second)
	idx, err := c.RequestMove(context.Background(), "game-123", testChoices())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 1 {
		t.Fatalf("expected choice index 1, got %d", idx)
	}
	if gotGameID != "game-123" {
		t.Fatalf("game id not forwarded, got %q", gotGameID)
	}
	if len(gotBody.Choices) != 3 {
		t.Fatalf("choices not forwarded, got %+v", gotBody)
	}
}

func TestRequestMove_IndexOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChoiceResponse{ChoiceIndex: 5})
	}))
	defer srv.Close()

	c := NewClient("tester", srv.URL, time.Second)
	_, err := c.RequestMove(context.Background(), "g", testChoices())
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
	if pe.Agent != "tester" || pe.Endpoint != constants.RouteChoices {
		t.Fatalf("unexpected protocol error fields: %+v", pe)
	}
}

func TestRequestMove_NegativeIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChoiceResponse{ChoiceIndex: -1})
	}))
	defer srv.Close()

	c := NewClient("tester", srv.URL, time.Second)
	_, err := c.RequestMove(context.Background(), "g", testChoices())
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
}

func TestCall_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("tester", srv.URL, time.Second)
	_, err := c.RequestMove(context.Background(), "g", testChoices())
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
}

func TestCall_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := NewClient("tester", srv.URL, time.Second)
	_, err := c.RequestGamble(context.Background(), "g")
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
}

func TestCall_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(ChoiceResponse{})
	}))
	defer srv.Close()

	c := NewClient("slow", srv.URL, 50*time.Millisecond)
	_, err := c.RequestMove(context.Background(), "g", testChoices())
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
	if pe.Err == nil {
		t.Fatalf("transport failure must carry the underlying error")
	}
}

func TestRequestGamble_ValidatesChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode("Banana")
	}))
	defer srv.Close()

	c := NewClient("tester", srv.URL, time.Second)
	_, err := c.RequestGamble(context.Background(), "g")
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
}

func TestRequestGamble_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(string(game.GamblePower))
	}))
	defer srv.Close()

	c := NewClient("tester", srv.URL, time.Second)
	choice, err := c.RequestGamble(context.Background(), "g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if choice != game.GamblePower {
		t.Fatalf("expected %q, got %q", game.GamblePower, choice)
	}
}

func TestRequestFight_Success(t *testing.T) {
	var gotEnemy EnemyStats
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotEnemy); err != nil {
			t.Errorf("decode enemy stats: %v", err)
		}
		json.NewEncoder(w).Encode(string(game.ChoiceFlee))
	}))
	defer srv.Close()

	c := NewClient("tester", srv.URL, time.Second)
	choice, err := c.RequestFight(context.Background(), "g", EnemyStats{Health: 1, MaxHealth: 1, Power: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if choice != game.ChoiceFlee {
		t.Fatalf("expected %q, got %q", game.ChoiceFlee, choice)
	}
	if gotEnemy.Power != 4 {
		t.Fatalf("enemy stats not forwarded, got %+v", gotEnemy)
	}
}

func TestCheckLiveness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("liveness must be a GET, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("tester", srv.URL, time.Second)
	if err := c.CheckLiveness(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitReady_Expires(t *testing.T) {
	c := NewClient("absent", "http://127.0.0.1:1", 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	if err := c.WaitReady(ctx, 20*time.Millisecond); err == nil {
		t.Fatalf("expected readiness wait to fail for an unreachable agent")
	}
}
