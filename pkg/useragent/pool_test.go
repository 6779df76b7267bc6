package useragent

import "testing"

func TestPool_NextRoundRobin(t *testing.T) {
	uas := []string{"A/1.0", "B/2.0", "C/3.0"}
	p := NewPool(uas)

	for i := 0; i < 7; i++ {
		got := p.Next()
		want := uas[i%len(uas)]
		if got != want {
			t.Errorf("call %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestPool_DefaultFallback(t *testing.T) {
	p := NewPool(nil)
	if len(p.All()) != len(DefaultPool) {
		t.Fatalf("expected default pool of %d entries, got %d", len(DefaultPool), len(p.All()))
	}
	if p.Next() != Default {
		t.Errorf("expected first entry to be the default Chrome UA")
	}
}

func TestPool_Random(t *testing.T) {
	uas := []string{"A/1.0", "B/2.0"}
	p := NewPool(uas)

	for i := 0; i < 20; i++ {
		got := p.Random()
		if got != "A/1.0" && got != "B/2.0" {
			t.Fatalf("random UA %q not in pool", got)
		}
	}
}

func TestPool_CopiesInput(t *testing.T) {
	uas := []string{"A/1.0"}
	p := NewPool(uas)
	uas[0] = "mutated"
	if p.Next() != "A/1.0" {
		t.Errorf("pool should not observe external mutation")
	}
}
