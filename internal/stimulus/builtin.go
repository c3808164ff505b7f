package stimulus

import (
	"sort"
	"time"

	"github.com/dohr-michael/pioboard/internal/config"
)

func ms(n int) config.Duration { return config.Duration(time.Duration(n) * time.Millisecond) }

var builtins = map[string]Trace{
	// one channel pressed, released and pressed again: two rising edges
	"double-press": {
		Name: "double-press",
		Steps: []Step{
			{At: ms(100), Press: []int{2}},
			{At: ms(400), Release: []int{2}},
			{At: ms(600), Press: []int{2}},
			{At: ms(900), Release: []int{2}},
		},
		Hold: ms(200),
	},
	// every switch held, then released one at a time
	"hold-all": {
		Name: "hold-all",
		Steps: []Step{
			{At: ms(100), Press: []int{0, 1, 2, 3}},
			{At: ms(500), Release: []int{0}},
			{At: ms(700), Release: []int{1}},
			{At: ms(900), Release: []int{2}},
			{At: ms(1100), Release: []int{3}},
		},
		Hold: ms(200),
	},
	// channels pressed in turn with overlap
	"staircase": {
		Name: "staircase",
		Steps: []Step{
			{At: ms(100), Press: []int{0}},
			{At: ms(300), Press: []int{1}},
			{At: ms(500), Press: []int{2}, Release: []int{0}},
			{At: ms(700), Press: []int{3}, Release: []int{1}},
			{At: ms(900), Release: []int{2, 3}},
		},
		Hold: ms(200),
	},
}

// Builtin returns a copy of a named built-in trace.
func Builtin(name string) (*Trace, bool) {
	tr, ok := builtins[name]
	if !ok {
		return nil, false
	}
	steps := make([]Step, len(tr.Steps))
	for i, st := range tr.Steps {
		steps[i] = Step{
			At:      st.At,
			Press:   append([]int(nil), st.Press...),
			Release: append([]int(nil), st.Release...),
		}
	}
	tr.Steps = steps
	return &tr, true
}

// BuiltinNames lists the built-in traces in name order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
