package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/mhruby/catchboard/internal/models"
)

func TestWriteHourlyEntry(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, testAdminPassword)
	judge := e.login(t, testJudgePassword)
	c := registerCompetitor(t, e, admin, "A", 1, "Marek Novak")

	path := "/api/v1/sectors/A/competitors/" + c.ID + "/hourly"
	req := hourlyEntryRequest{Hour: 2, FishCount: 3, TotalWeight: 450, Status: "locked_judge", UpdatedBy: "judge-a"}

	w := e.request(t, "PUT", path, req, judge)
	if w.Code != http.StatusOK {
		t.Fatalf("write = %d: %s", w.Code, w.Body.String())
	}
	var resp entryResponse
	decodeBody(t, w, &resp)
	if resp.Queued || resp.Status != "saved" {
		t.Errorf("response = %+v, want saved", resp)
	}

	entry, err := e.repo.GetHourlyEntry(context.Background(), models.HourlyEntryID("A", 2, c.ID))
	if err != nil {
		t.Fatalf("stored entry missing: %v", err)
	}
	if entry.FishCount != 3 || entry.Source != models.SourceJudge {
		t.Errorf("stored entry = %+v", entry)
	}
}

func TestWriteHourlyEntry_AdminSource(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, testAdminPassword)
	c := registerCompetitor(t, e, admin, "A", 1, "Marek Novak")

	path := "/api/v1/sectors/A/competitors/" + c.ID + "/hourly"
	req := hourlyEntryRequest{Hour: 1, FishCount: 1, TotalWeight: 200, Status: "locked_admin", UpdatedBy: "hq"}
	w := e.request(t, "PUT", path, req, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("write = %d: %s", w.Code, w.Body.String())
	}

	entry, err := e.repo.GetHourlyEntry(context.Background(), models.HourlyEntryID("A", 1, c.ID))
	if err != nil {
		t.Fatalf("stored entry missing: %v", err)
	}
	if entry.Source != models.SourceAdmin {
		t.Errorf("source = %q, want Admin", entry.Source)
	}
}

func TestWriteHourlyEntry_OfflineQueues(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, testAdminPassword)
	judge := e.login(t, testJudgePassword)
	c := registerCompetitor(t, e, admin, "A", 1, "Marek Novak")

	e.client.SetOffline(true)
	e.monitor.Check(context.Background())

	path := "/api/v1/sectors/A/competitors/" + c.ID + "/hourly"
	req := hourlyEntryRequest{Hour: 2, FishCount: 3, TotalWeight: 450, Status: "locked_judge", UpdatedBy: "judge-a"}
	w := e.request(t, "PUT", path, req, judge)
	if w.Code != http.StatusAccepted {
		t.Fatalf("offline write = %d, want 202: %s", w.Code, w.Body.String())
	}
	var resp entryResponse
	decodeBody(t, w, &resp)
	if !resp.Queued || resp.Status != "queued" {
		t.Errorf("response = %+v, want queued", resp)
	}

	// Captured during an outage, so the status carries the offline mark.
	entry, err := e.repo.GetHourlyEntry(context.Background(), models.HourlyEntryID("A", 2, c.ID))
	if err != nil {
		t.Fatalf("stored entry missing: %v", err)
	}
	if entry.Status != models.StatusOfflineJudge {
		t.Errorf("status = %q, want offline_judge", entry.Status)
	}
}

func TestWriteHourlyEntry_ScoringClosed(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, testAdminPassword)
	judge := e.login(t, testJudgePassword)
	c := registerCompetitor(t, e, admin, "A", 1, "Marek Novak")

	w := e.request(t, "POST", "/api/v1/admin/scoring-control", scoringControlRequest{Open: false}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("scoring control = %d", w.Code)
	}

	path := "/api/v1/sectors/A/competitors/" + c.ID + "/hourly"
	req := hourlyEntryRequest{Hour: 2, FishCount: 3, TotalWeight: 450, Status: "locked_judge"}
	w = e.request(t, "PUT", path, req, judge)
	if w.Code != http.StatusConflict {
		t.Fatalf("closed write = %d, want 409", w.Code)
	}
	var apiErr APIError
	decodeBody(t, w, &apiErr)
	if apiErr.Code != ErrCodeScoringClosed {
		t.Errorf("error code = %q, want %q", apiErr.Code, ErrCodeScoringClosed)
	}
}

func TestWriteHourlyEntry_Validation(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, testAdminPassword)
	judge := e.login(t, testJudgePassword)
	c := registerCompetitor(t, e, admin, "A", 1, "Marek Novak")
	path := "/api/v1/sectors/A/competitors/" + c.ID + "/hourly"

	tests := []struct {
		name string
		req  hourlyEntryRequest
	}{
		{"hour out of range", hourlyEntryRequest{Hour: 9, FishCount: 1, TotalWeight: 100, Status: "locked_judge"}},
		{"negative fish", hourlyEntryRequest{Hour: 1, FishCount: -1, Status: "locked_judge"}},
		{"unknown status", hourlyEntryRequest{Hour: 1, FishCount: 1, TotalWeight: 100, Status: "finalized"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.request(t, "PUT", path, tt.req, judge)
			if w.Code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}

	// Unknown competitor in the path.
	w := e.request(t, "PUT", "/api/v1/sectors/A/competitors/ghost/hourly",
		hourlyEntryRequest{Hour: 1, FishCount: 1, TotalWeight: 100, Status: "locked_judge"}, judge)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown competitor = %d, want 404", w.Code)
	}
}

func TestWriteBigCatch(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, testAdminPassword)
	judge := e.login(t, testJudgePassword)
	c := registerCompetitor(t, e, admin, "A", 1, "Marek Novak")

	path := "/api/v1/sectors/A/competitors/" + c.ID + "/bigcatch"
	req := bigCatchRequest{BiggestCatch: 1200, Status: "locked_judge", UpdatedBy: "judge-a"}
	w := e.request(t, "PUT", path, req, judge)
	if w.Code != http.StatusOK {
		t.Fatalf("write = %d: %s", w.Code, w.Body.String())
	}

	entry, err := e.repo.GetBigCatch(context.Background(), models.BigCatchEntryID("A", c.ID))
	if err != nil {
		t.Fatalf("stored entry missing: %v", err)
	}
	if entry.BiggestCatch != 1200 {
		t.Errorf("biggest catch = %d, want 1200", entry.BiggestCatch)
	}

	w = e.request(t, "PUT", path, bigCatchRequest{BiggestCatch: -5, Status: "locked_judge"}, judge)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative weight = %d, want 400", w.Code)
	}
}
