package knowledge

import "testing"

func TestLookupCaseInsensitive(t *testing.T) {
	s := NewStore()
	for _, subject := range []string{"NVIDIA", "nvidia", "Nvidia"} {
		got := s.MarketCap(subject)
		if got != "$1T+" {
			t.Fatalf("MarketCap(%q) = %q, want $1T+", subject, got)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	s := NewStore()
	if got := s.Lookup(RelMarketCap, "Cyrix"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
	if got := s.MarketCap("Cyrix"); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestSubjectsByRegion(t *testing.T) {
	s := NewStore()
	got := s.CompaniesIn("USA")
	want := []string{"NVIDIA", "Intel", "AMD", "Qualcomm", "Broadcom"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v (insertion order)", got, want)
		}
	}
}

func TestFAQ(t *testing.T) {
	s := NewStore()
	ans, ok := s.FAQ("What is EUV lithography?")
	if !ok {
		t.Fatal("FAQ should be present")
	}
	if ans != "Extreme ultraviolet lithography for advanced chip manufacturing, ASML monopoly" {
		t.Fatalf("got %q", ans)
	}
	if _, ok := s.FAQ("What is a transistor?"); ok {
		t.Fatal("unknown FAQ should not match")
	}
}

func TestAddAndAll(t *testing.T) {
	s := NewEmptyStore()
	s.Add(RelTrend, "chiplets", "modular die packaging gaining adoption")
	s.Add(RelTrend, "hbm", "high-bandwidth memory demand from AI accelerators")

	all := s.All(RelTrend)
	if len(all) != 2 {
		t.Fatalf("got %d trends, want 2", len(all))
	}
	if all[0][0] != "chiplets" || all[1][0] != "hbm" {
		t.Fatalf("got %v, insertion order broken", all)
	}
}

func TestCompanies(t *testing.T) {
	s := NewStore()
	companies := s.Companies()
	if len(companies) != 8 {
		t.Fatalf("got %d companies, want 8", len(companies))
	}
	if companies[0] != "TSMC" || companies[1] != "NVIDIA" {
		t.Fatalf("got %v, want seeded order", companies)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Add(RelTrend, "t", "v")
		}
		close(done)
	}()
	for i := 0; i < 100; i++ {
		s.Lookup(RelMarketCap, "TSMC")
	}
	<-done
}
