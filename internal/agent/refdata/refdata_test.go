package refdata

import "testing"

func TestStoreLoadsAllFixtures(t *testing.T) {
	s := NewStore("../../../data")

	orders, err := s.Orders()
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(orders) == 0 {
		t.Fatal("no orders loaded")
	}
	if orders[0].OrderID == "" || orders[0].Status == "" {
		t.Errorf("order fields not populated: %+v", orders[0])
	}

	policies, err := s.Policies()
	if err != nil {
		t.Fatalf("Policies: %v", err)
	}
	if policies.RefundPolicy.StandardReturnWindowDays <= 0 {
		t.Errorf("return window = %d, want positive", policies.RefundPolicy.StandardReturnWindowDays)
	}

	faqs, err := s.FAQs()
	if err != nil {
		t.Fatalf("FAQs: %v", err)
	}
	if len(faqs) == 0 {
		t.Fatal("no FAQs loaded")
	}

	workOrders, err := s.WorkOrders()
	if err != nil {
		t.Fatalf("WorkOrders: %v", err)
	}
	var sawNilOEE bool
	for _, wo := range workOrders {
		if wo.PerformanceMetrics.OEEPct == nil {
			sawNilOEE = true
		}
	}
	if !sawNilOEE {
		t.Error("fixtures should include a queued work order without OEE data")
	}

	equipment, err := s.Equipment()
	if err != nil {
		t.Fatalf("Equipment: %v", err)
	}
	if len(equipment) == 0 || len(equipment[0].PerformanceHistory.DailyOEE) == 0 {
		t.Errorf("equipment history not populated: %+v", equipment)
	}

	materials, err := s.Materials()
	if err != nil {
		t.Fatalf("Materials: %v", err)
	}
	if len(materials) == 0 {
		t.Fatal("no materials loaded")
	}

	kb, err := s.KnowledgeBase()
	if err != nil {
		t.Fatalf("KnowledgeBase: %v", err)
	}
	if len(kb) == 0 {
		t.Fatal("no knowledge base entries loaded")
	}
}

func TestStoreMissingDirectorySurfacesError(t *testing.T) {
	s := NewStore("no-such-dir")
	if _, err := s.Orders(); err == nil {
		t.Fatal("expected error for missing data directory")
	}
}
