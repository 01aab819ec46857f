package http

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestPreflightChecks(t *testing.T) {
	_, server := newTestServer(t)
	defer server.Close()

	var avail struct {
		Available bool   `json:"available"`
		Reason    string `json:"reason"`
	}
	getJSON(t, server.URL+"/room-availability?room-name=lobby", http.StatusOK, &avail)
	if !avail.Available {
		t.Fatalf("expected lobby available, got %+v", avail)
	}

	var elig struct {
		Eligible bool   `json:"eligible"`
		Reason   string `json:"reason"`
	}
	getJSON(t, server.URL+"/room-joinability?room-name=lobby&username=bob", http.StatusOK, &elig)
	if elig.Eligible || elig.Reason != "no-room" {
		t.Fatalf("expected no-room, got %+v", elig)
	}

	alice := dial(t, server, "lobby", "alice")
	defer alice.Close()
	readNext(t, alice, "UserInfo")

	getJSON(t, server.URL+"/room-availability?room-name=lobby", http.StatusOK, &avail)
	if avail.Available || avail.Reason != "taken" {
		t.Fatalf("expected taken, got %+v", avail)
	}
	getJSON(t, server.URL+"/room-joinability?room-name=lobby&username=alice", http.StatusOK, &elig)
	if elig.Eligible || elig.Reason != "name-in-use" {
		t.Fatalf("expected name-in-use, got %+v", elig)
	}
	getJSON(t, server.URL+"/room-joinability?room-name=lobby&username=bob", http.StatusOK, &elig)
	if !elig.Eligible {
		t.Fatalf("expected bob eligible, got %+v", elig)
	}

	var standings struct {
		Standings []map[string]any `json:"standings"`
	}
	getJSON(t, server.URL+"/rooms/lobby/standings", http.StatusOK, &standings)
	if len(standings.Standings) != 1 {
		t.Fatalf("expected one standing, got %+v", standings)
	}
}

func TestPreflightRequiresParams(t *testing.T) {
	_, server := newTestServer(t)
	defer server.Close()

	var body map[string]any
	getJSON(t, server.URL+"/room-availability", http.StatusBadRequest, &body)
	getJSON(t, server.URL+"/room-joinability?room-name=lobby", http.StatusBadRequest, &body)
	getJSON(t, server.URL+"/rooms/missing/standings", http.StatusNotFound, &body)
}

func TestCORSHeaders(t *testing.T) {
	_, server := newTestServer(t)
	defer server.Close()

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/room-availability", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected preflight response %d %v", resp.StatusCode, resp.Header)
	}
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("get %s: expected status %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}
