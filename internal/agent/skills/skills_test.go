package skills

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/opsdesk-poc/server/internal/agent/charts"
	"github.com/opsdesk-poc/server/internal/agent/refdata"
)

func testStore(t *testing.T) *refdata.Store {
	t.Helper()
	return refdata.NewStore("../../../data")
}

func fixedNow() time.Time {
	return time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
}

func invoke(t *testing.T, r *Registry, skill, args string) map[string]any {
	t.Helper()
	out := r.Invoke(context.Background(), skill, args)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("skill %s returned non-JSON output %q: %v", skill, out, err)
	}
	return parsed
}

func TestOrderLookupByIDIsIdempotent(t *testing.T) {
	r := NewSupportRegistry(testStore(t), fixedNow)

	first := invoke(t, r, "order_lookup", `{"query":"ORD-1001"}`)
	second := invoke(t, r, "order_lookup", `{"query":"ORD-1001"}`)

	for _, got := range []map[string]any{first, second} {
		if got["found"] != true {
			t.Fatalf("expected ORD-1001 to be found, got %v", got)
		}
		order, ok := got["order"].(map[string]any)
		if !ok {
			t.Fatalf("expected a full order payload, got %v", got["order"])
		}
		if order["status"] != "delivered" {
			t.Errorf("status = %v, want delivered", order["status"])
		}
		if order["total"] != 159.97 {
			t.Errorf("total = %v, want 159.97", order["total"])
		}
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("repeated lookup changed result:\n%s\n%s", a, b)
	}
}

func TestOrderLookupByCustomerName(t *testing.T) {
	r := NewSupportRegistry(testStore(t), fixedNow)

	got := invoke(t, r, "order_lookup", `{"query":"Alice Johnson"}`)
	if got["found"] != true {
		t.Fatalf("expected orders for Alice Johnson, got %v", got)
	}
	if got["count"] != float64(2) {
		t.Errorf("count = %v, want 2", got["count"])
	}
}

func TestOrderLookupUnknown(t *testing.T) {
	r := NewSupportRegistry(testStore(t), fixedNow)

	got := invoke(t, r, "order_lookup", `{"query":"ORD-9999"}`)
	if got["found"] != false {
		t.Fatalf("expected not found, got %v", got)
	}
	if s, _ := got["summary"].(string); !strings.Contains(s, "ORD-9999") {
		t.Errorf("summary should echo the query, got %q", s)
	}
}

func TestRefundOnReturnedOrderIsIneligible(t *testing.T) {
	r := NewSupportRegistry(testStore(t), fixedNow)

	got := invoke(t, r, "process_refund", `{"order_id":"ORD-1004","reason":"changed my mind"}`)
	if got["eligible"] != false {
		t.Fatalf("returned order must not be refundable again, got %v", got)
	}
	if s, _ := got["reason"].(string); !strings.Contains(strings.ToLower(s), "already") {
		t.Errorf("reason should say the refund already happened, got %q", s)
	}
}

func TestRefundWithinReturnWindow(t *testing.T) {
	r := NewSupportRegistry(testStore(t), fixedNow)

	// Delivered 2025-08-14, clock fixed at 2025-08-20: inside the 30 day window.
	got := invoke(t, r, "process_refund", `{"order_id":"ORD-1001","reason":"defective"}`)
	if got["eligible"] != true {
		t.Fatalf("expected eligible refund, got %v", got)
	}
	if got["action"] != "initiate_return" {
		t.Errorf("action = %v, want initiate_return", got["action"])
	}
}

func TestRefundOutsideReturnWindow(t *testing.T) {
	r := NewSupportRegistry(testStore(t), fixedNow)

	// ORD-1006 delivered 2025-05-19, far outside the window.
	got := invoke(t, r, "process_refund", `{"order_id":"ORD-1006","reason":"too late"}`)
	if got["eligible"] != false {
		t.Fatalf("expected refund window expired, got %v", got)
	}
}

func TestFAQSearchRanksByKeywordOverlap(t *testing.T) {
	r := NewSupportRegistry(testStore(t), fixedNow)

	got := invoke(t, r, "faq_search", `{"query":"what is your return policy"}`)
	if got["found"] != true {
		t.Fatalf("expected FAQ hits, got %v", got)
	}
	results, ok := got["results"].([]any)
	if !ok || len(results) == 0 {
		t.Fatalf("expected results, got %v", got["results"])
	}
	if len(results) > 3 {
		t.Errorf("got %d results, want at most 3", len(results))
	}
	top := results[0].(map[string]any)
	if q, _ := top["question"].(string); !strings.Contains(strings.ToLower(q), "return") {
		t.Errorf("top result should be the return policy FAQ, got %q", q)
	}
}

func TestEscalationMintsDistinctTickets(t *testing.T) {
	r := NewSupportRegistry(testStore(t), fixedNow)

	first := invoke(t, r, "escalate_to_human", `{"reason":"customer demands a manager","priority":"high"}`)
	second := invoke(t, r, "escalate_to_human", `{"reason":"customer demands a manager","priority":"high"}`)

	a, _ := first["ticket_number"].(string)
	b, _ := second["ticket_number"].(string)
	if a == "" || b == "" {
		t.Fatalf("missing ticket numbers: %v %v", first, second)
	}
	if a == b {
		t.Errorf("escalation must mint a fresh ticket per call, got %q twice", a)
	}
	if !strings.HasPrefix(a, "ESC-") {
		t.Errorf("ticket number %q should carry the ESC- prefix", a)
	}
}

func TestSentimentDetectsAngryMessages(t *testing.T) {
	r := NewSupportRegistry(testStore(t), fixedNow)

	got := invoke(t, r, "analyze_sentiment", `{"message":"This is unacceptable!! I am furious, this is the worst service ever!!"}`)
	if got["sentiment"] != "angry" {
		t.Fatalf("sentiment = %v, want angry", got["sentiment"])
	}

	got = invoke(t, r, "analyze_sentiment", `{"message":"Thanks, everything arrived and works great, love it"}`)
	if got["sentiment"] != "positive" {
		t.Errorf("sentiment = %v, want positive", got["sentiment"])
	}
}

func TestWorkOrderLookupByID(t *testing.T) {
	r := NewManufacturingRegistry(testStore(t), charts.NewStore(), fixedNow)

	got := invoke(t, r, "work_order_lookup", `{"query":"WO-2401"}`)
	if got["found"] != true {
		t.Fatalf("expected WO-2401 to be found, got %v", got)
	}
	wo, ok := got["work_order"].(map[string]any)
	if !ok {
		t.Fatalf("expected full work order payload, got %v", got["work_order"])
	}
	if wo["machine_id"] != "CNC-001" {
		t.Errorf("machine_id = %v, want CNC-001", wo["machine_id"])
	}
}

func TestEquipmentStatusSingleMachine(t *testing.T) {
	r := NewManufacturingRegistry(testStore(t), charts.NewStore(), fixedNow)

	got := invoke(t, r, "equipment_status", `{"query":"CNC-001"}`)
	if got["found"] != true {
		t.Fatalf("expected CNC-001, got %v", got)
	}
	machine, ok := got["machine"].(map[string]any)
	if !ok {
		t.Fatalf("expected single machine payload, got %v", got["machine"])
	}
	if machine["machine_id"] != "CNC-001" {
		t.Errorf("machine_id = %v, want CNC-001", machine["machine_id"])
	}
}

func TestLogDefectMintsNCRAndRejectsUnknownWorkOrder(t *testing.T) {
	r := NewManufacturingRegistry(testStore(t), charts.NewStore(), fixedNow)

	got := invoke(t, r, "log_defect", `{"work_order_id":"WO-2401","description":"surface finish out of spec","severity":"major"}`)
	if got["logged"] != true {
		t.Fatalf("expected defect to be logged, got %v", got)
	}
	if ncr, _ := got["ncr_number"].(string); !strings.HasPrefix(ncr, "NCR-") {
		t.Errorf("ncr_number = %v, want NCR- prefix", got["ncr_number"])
	}

	got = invoke(t, r, "log_defect", `{"work_order_id":"WO-9999","description":"x","severity":"minor"}`)
	if got["logged"] != false {
		t.Fatalf("unknown work order must not log a defect, got %v", got)
	}
}

func TestGenerateChartUnknownTypeReturnsStructuredError(t *testing.T) {
	store := charts.NewStore()
	r := NewManufacturingRegistry(testStore(t), store, fixedNow)

	got := invoke(t, r, "generate_chart", `{"chart_type":"pie_of_everything"}`)
	msg, _ := got["error"].(string)
	if !strings.Contains(msg, "Unknown chart type") {
		t.Fatalf("expected structured unknown-chart-type error, got %v", got)
	}
	if store.Len() != 0 {
		t.Errorf("no artifact should be stored for a failed chart, have %d", store.Len())
	}
}

func TestGenerateChartStoresArtifact(t *testing.T) {
	store := charts.NewStore()
	r := NewManufacturingRegistry(testStore(t), store, fixedNow)

	got := invoke(t, r, "generate_chart", `{"chart_type":"equipment_utilization","subject":"all"}`)
	if got["chart_generated"] != true {
		t.Fatalf("expected chart, got %v", got)
	}
	id, _ := got["chart_id"].(string)
	if id == "" {
		t.Fatalf("missing chart_id in %v", got)
	}
	art, ok := store.Take(id)
	if !ok {
		t.Fatalf("artifact %s not in side table", id)
	}
	if art.ChartType != "equipment_utilization" || art.ImageB64 == "" {
		t.Errorf("artifact = %+v, want equipment_utilization with image data", art)
	}
}

func TestRegistryUnknownSkillIsInBand(t *testing.T) {
	r := NewSupportRegistry(testStore(t), fixedNow)

	got := invoke(t, r, "summon_dragon", `{}`)
	if got["error"] != "unknown_skill" {
		t.Fatalf("expected unknown_skill payload, got %v", got)
	}
}

func TestCatalogListsDeploymentSkills(t *testing.T) {
	support := NewSupportRegistry(testStore(t), fixedNow)
	if n := len(support.Catalog()); n != 5 {
		t.Errorf("support catalog has %d skills, want 5", n)
	}

	manufacturing := NewManufacturingRegistry(testStore(t), charts.NewStore(), fixedNow)
	if n := len(manufacturing.Catalog()); n != 8 {
		t.Errorf("manufacturing catalog has %d skills, want 8", n)
	}
	for _, s := range manufacturing.Catalog() {
		if s.Icon == "" {
			t.Errorf("skill %q has no icon", s.Name)
		}
	}
}
