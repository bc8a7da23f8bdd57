package valueiter_test

import (
	"testing"

	"github.com/katalvlaran/lockdown/sir"
	"github.com/katalvlaran/lockdown/tensor"
	"github.com/katalvlaran/lockdown/valueiter"
)

// BenchmarkSweep measures one Bellman sweep of the reference model on a 6⁴ grid.
func BenchmarkSweep(b *testing.B) {
	m, err := sir.NewModel(sir.DefaultParams())
	if err != nil {
		b.Fatal(err)
	}
	p := newProblem(b, 6, m.Cost)
	p.Transition = m.Transition

	prev, _ := tensor.NewField(6)
	next, _ := tensor.NewField(6)
	pol, _ := tensor.NewPolicyField(6)
	opts := valueiter.DefaultOptions()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := valueiter.Sweep(p, prev, next, pol, opts); err != nil {
			b.Fatal(err)
		}
		prev, next = next, prev
	}
}
