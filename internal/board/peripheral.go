package board

// Peripheral is the raw hardware access layer.
//
// Implementations are assumed infallible: reads return a stable, already
// debounced level and writes always land.
type Peripheral interface {
	// ConfigurePin sets the mode and attributes of every line in mask.
	ConfigurePin(bank Bank, mask Mask, mode Mode, attr Attr)

	// ReadSwitch reports whether the switch on the given line is pressed.
	// Polarity is normalized: true always means pressed.
	ReadSwitch(bank Bank, mask Mask) bool

	// SetIndicator lights every indicator in mask.
	SetIndicator(bank Bank, mask Mask)

	// ClearIndicator turns off every indicator in mask.
	ClearIndicator(bank Bank, mask Mask)
}

// Setup performs the fixed pin configuration done once at power-on:
// switches become pulled-up debounced inputs, channel indicators and the
// error indicator become outputs driven low.
func Setup(p Peripheral) {
	p.ConfigurePin(PIOC, BTNAll, ModeInput, AttrPullUp|AttrDebounce)
	p.ConfigurePin(PIOC, LEDAll, ModeOutput0, 0)
	p.ConfigurePin(ErrorLED.Bank, ErrorLED.Mask, ModeOutput0, 0)
	p.ClearIndicator(ErrorLED.Bank, ErrorLED.Mask)
}
