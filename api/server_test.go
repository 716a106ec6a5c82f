package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/chipsight/chipsight/internal/config"
	"github.com/chipsight/chipsight/internal/monitor"
	"github.com/chipsight/chipsight/pkg/models"
)

type fakeAnswerer struct {
	answer models.Answer
	err    error
}

func (f fakeAnswerer) Answer(_ context.Context, query string) (models.Answer, error) {
	return f.answer, f.err
}

type fakeSector struct {
	overview *monitor.SectorOverview
	err      error
}

func (f fakeSector) Overview(context.Context) (*monitor.SectorOverview, error) {
	return f.overview, f.err
}

func testServer(orch Answerer, sector SectorSource) *Server {
	return NewServer(&config.Config{}, orch, sector, nil)
}

func TestHealth(t *testing.T) {
	srv := testServer(fakeAnswerer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestQuery(t *testing.T) {
	srv := testServer(fakeAnswerer{answer: models.Answer{
		SelectedQuestion: "How is NVIDIA doing?",
		HumanizedAnswer:  "NVIDIA leads the AI chip market.",
	}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/query",
		strings.NewReader(`{"query": "How is NVIDIA doing?"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var answer models.Answer
	if err := json.Unmarshal(rec.Body.Bytes(), &answer); err != nil {
		t.Fatal(err)
	}
	if answer.HumanizedAnswer != "NVIDIA leads the AI chip market." {
		t.Fatalf("answer = %+v", answer)
	}
}

func TestQueryEmptyBody(t *testing.T) {
	srv := testServer(fakeAnswerer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestQueryInvalidJSON(t *testing.T) {
	srv := testServer(fakeAnswerer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestQueryPipelineFailure(t *testing.T) {
	srv := testServer(fakeAnswerer{err: errors.New("llm down")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/query",
		strings.NewReader(`{"query": "anything"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSector(t *testing.T) {
	srv := testServer(fakeAnswerer{}, fakeSector{overview: &monitor.SectorOverview{
		Companies: []monitor.CompanyPerformance{
			{Company: "NVIDIA", Symbol: "NVDA", Price: 190.5, ChangePct: 2.28},
		},
		AverageChange: 2.28,
		Tracked:       1,
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/sector", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var overview monitor.SectorOverview
	if err := json.Unmarshal(rec.Body.Bytes(), &overview); err != nil {
		t.Fatal(err)
	}
	if overview.Tracked != 1 || overview.Companies[0].Symbol != "NVDA" {
		t.Fatalf("overview = %+v", overview)
	}
}

func TestSectorDisabled(t *testing.T) {
	srv := testServer(fakeAnswerer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/sector", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSchedulerStatusDisabled(t *testing.T) {
	srv := testServer(fakeAnswerer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/scheduler/status", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWebSocketChat(t *testing.T) {
	srv := testServer(fakeAnswerer{answer: models.Answer{
		HumanizedAnswer: "TSMC capacity remains tight.",
	}}, nil)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(WSMessage{Type: "query", Query: "TSMC outlook?"}); err != nil {
		t.Fatal(err)
	}

	// First a status message, then the answer.
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "status" {
		t.Fatalf("first message type = %q", msg.Type)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "answer" {
		t.Fatalf("second message type = %q", msg.Type)
	}
	data, ok := msg.Data.(map[string]any)
	if !ok {
		t.Fatalf("answer payload = %T", msg.Data)
	}
	if data["humanized_answer"] != "TSMC capacity remains tight." {
		t.Fatalf("payload = %v", data)
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	srv := testServer(fakeAnswerer{}, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(WSMessage{Type: "subscribe"}); err != nil {
		t.Fatal(err)
	}
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "error" || !strings.Contains(msg.Error, "unknown message type") {
		t.Fatalf("msg = %+v", msg)
	}
}
