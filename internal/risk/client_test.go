package risk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.RiskConfig{Url: url, Timeout: 2})
}

func TestScore(t *testing.T) {
	var got ScoreRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]float64{"risk_score": 0.37})
	}))
	defer server.Close()

	score, err := newTestClient(server.URL).Score(context.Background(), ScoreRequest{
		Amount:        1500,
		TxCount:       3,
		IsBlacklisted: true,
	})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score != 0.37 {
		t.Errorf("expected score 0.37, got %v", score)
	}
	if got.Amount != 1500 || got.TxCount != 3 || !got.IsBlacklisted {
		t.Errorf("unexpected request payload: %+v", got)
	}
}

func TestScoreClampsOutOfRange(t *testing.T) {
	cases := []struct {
		raw  float64
		want float64
	}{
		{raw: 1.7, want: 1},
		{raw: -0.3, want: 0},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]float64{"risk_score": tc.raw})
		}))
		score, err := newTestClient(server.URL).Score(context.Background(), ScoreRequest{Amount: 100})
		server.Close()
		if err != nil {
			t.Fatalf("Score failed for raw %v: %v", tc.raw, err)
		}
		if score != tc.want {
			t.Errorf("expected %v clamped to %v, got %v", tc.raw, tc.want, score)
		}
	}
}

func TestScoreServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Score(context.Background(), ScoreRequest{Amount: 100})
	if !apperr.IsKind(err, apperr.KindOracleUnavailable) {
		t.Fatalf("expected OracleUnavailable on 500, got %v", err)
	}
}

func TestScoreMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Score(context.Background(), ScoreRequest{Amount: 100})
	if !apperr.IsKind(err, apperr.KindOracleUnavailable) {
		t.Fatalf("expected OracleUnavailable on garbage body, got %v", err)
	}
}

func TestScoreTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]float64{"risk_score": 0.1})
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Score(ctx, ScoreRequest{Amount: 100})
	if !apperr.IsKind(err, apperr.KindOracleUnavailable) {
		t.Fatalf("expected OracleUnavailable on timeout, got %v", err)
	}
}

func TestScoreUnreachable(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1/score").Score(context.Background(), ScoreRequest{Amount: 100})
	if !apperr.IsKind(err, apperr.KindOracleUnavailable) {
		t.Fatalf("expected OracleUnavailable when unreachable, got %v", err)
	}
}
