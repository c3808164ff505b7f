package board

import "testing"

func TestSetupConfiguresLines(t *testing.T) {
	s := NewSim()
	Setup(s)

	for _, p := range []Pin{BTN1, BTN2, BTN3, BTN4} {
		if got := s.Mode(p); got != ModeInput {
			t.Errorf("%s: expected input, got %s", p, got)
		}
	}
	for _, p := range []Pin{LED1, LED2, LED3, LED4, ErrorLED} {
		if got := s.Mode(p); got != ModeOutput0 {
			t.Errorf("%s: expected output-0, got %s", p, got)
		}
		if s.Lit(p) {
			t.Errorf("%s: expected off after setup", p)
		}
	}
}

func TestReadSwitchNormalizesPolarity(t *testing.T) {
	s := NewSim()
	Setup(s)

	if s.ReadSwitch(BTN3.Bank, BTN3.Mask) {
		t.Fatal("released switch read as pressed")
	}
	s.Press(BTN3)
	if !s.ReadSwitch(BTN3.Bank, BTN3.Mask) {
		t.Fatal("pressed switch read as released")
	}
	if s.ReadSwitch(BTN2.Bank, BTN2.Mask) {
		t.Fatal("neighbouring switch affected by press")
	}
	s.Release(BTN3)
	if s.ReadSwitch(BTN3.Bank, BTN3.Mask) {
		t.Fatal("released switch still reads as pressed")
	}
}

func TestReadSwitchUnconfigured(t *testing.T) {
	s := NewSim()
	s.Press(BTN1)
	if s.ReadSwitch(BTN1.Bank, BTN1.Mask) {
		t.Fatal("unconfigured line must not read as pressed")
	}
	if !s.Pressed(BTN1) {
		t.Fatal("physical state should still be recorded")
	}
}

func TestIndicatorWrites(t *testing.T) {
	s := NewSim()
	Setup(s)

	s.SetIndicator(LED2.Bank, LED2.Mask)
	if !s.Lit(LED2) {
		t.Fatal("LED2 should be lit")
	}
	s.SetIndicator(LED2.Bank, LED2.Mask)
	if got := s.Sets(LED2); got != 2 {
		t.Errorf("expected 2 sets, got %d", got)
	}

	s.ClearIndicator(PIOC, LEDAll)
	if s.Lit(LED2) {
		t.Fatal("LED2 should be off after clearing all")
	}
}

func TestIndicatorIgnoresInputs(t *testing.T) {
	s := NewSim()
	Setup(s)

	s.SetIndicator(BTN1.Bank, BTN1.Mask)
	if s.Lit(BTN1) {
		t.Fatal("input line must not be driven")
	}
}

func TestMaxLit(t *testing.T) {
	s := NewSim()
	Setup(s)

	s.SetIndicator(LED1.Bank, LED1.Mask)
	s.ClearIndicator(LED1.Bank, LED1.Mask)
	s.SetIndicator(LED4.Bank, LED4.Mask)
	if got := s.MaxLit(); got != 1 {
		t.Fatalf("expected high-water 1, got %d", got)
	}

	s.SetIndicator(LED3.Bank, LED3.Mask)
	if got := s.MaxLit(); got != 2 {
		t.Fatalf("expected high-water 2, got %d", got)
	}

	s.ClearIndicator(PIOC, LEDAll)
	s.ResetMaxLit()
	if got := s.MaxLit(); got != 0 {
		t.Fatalf("expected reset high-water 0, got %d", got)
	}
}

func TestToggle(t *testing.T) {
	s := NewSim()
	if !s.Toggle(BTN4) {
		t.Fatal("first toggle should press")
	}
	if s.Toggle(BTN4) {
		t.Fatal("second toggle should release")
	}
}

func TestMaskString(t *testing.T) {
	if got := (LED1.Mask | LED4.Mask).String(); got != "P23|P29" {
		t.Errorf("unexpected mask string %q", got)
	}
	if got := ErrorLED.String(); got != "PIOB:P27" {
		t.Errorf("unexpected pin string %q", got)
	}
}
