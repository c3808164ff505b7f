package channels

import (
	"testing"

	"github.com/dohr-michael/pioboard/internal/board"
)

func TestPersistentPriorities(t *testing.T) {
	r := Persistent()
	want := [Count]int{1, 1, 0, 0}
	for _, id := range All() {
		c := r.Get(id)
		if c.Priority != want[id] {
			t.Errorf("%s: expected priority %d, got %d", id, want[id], c.Priority)
		}
		if c.Budget != 0 {
			t.Errorf("%s: persistent worker must not carry a budget", id)
		}
	}
}

func TestEphemeralBudgets(t *testing.T) {
	r := Ephemeral()
	want := [Count]int{0x1FFF, 0x1FFF * 4, 0x1FFF * 3, 0x1FFF * 2}
	seen := make(map[int]bool)
	for _, id := range All() {
		c := r.Get(id)
		if c.Budget != want[id] {
			t.Errorf("%s: expected budget %d, got %d", id, want[id], c.Budget)
		}
		if c.Priority != 0 {
			t.Errorf("%s: expected priority 0, got %d", id, c.Priority)
		}
		if seen[c.Budget] {
			t.Errorf("%s: budget %d is not distinct", id, c.Budget)
		}
		seen[c.Budget] = true
	}
}

func TestPinMapping(t *testing.T) {
	r := Ephemeral()
	if got := r.Get(Ch0).Indicator; got != board.LED1 {
		t.Errorf("ch0 indicator: got %s", got)
	}
	if got := r.Get(Ch3).Switch; got != board.BTN4 {
		t.Errorf("ch3 switch: got %s", got)
	}
	if got := r.IndicatorMask(board.PIOC); got != board.LEDAll {
		t.Errorf("indicator mask: got %s", got)
	}
	if banks := r.IndicatorBanks(); len(banks) != 1 || banks[0] != board.PIOC {
		t.Errorf("indicator banks: got %v", banks)
	}
}

func TestParse(t *testing.T) {
	id, err := Parse(2)
	if err != nil || id != Ch2 {
		t.Fatalf("Parse(2) = %v, %v", id, err)
	}
	if _, err := Parse(4); err == nil {
		t.Fatal("expected error for channel 4")
	}
	if _, err := Parse(-1); err == nil {
		t.Fatal("expected error for channel -1")
	}
}

func TestGetInvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Persistent().Get(ID(7))
}
