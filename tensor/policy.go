// SPDX-License-Identifier: MIT

package tensor

// Controls is the number of control components stored per cell.
const Controls = 2

// PolicyField is a dense N⁴×2 array holding one control vector per cell.
// Layout: the pair for flat cell offset k lives at data[2k], data[2k+1].
type PolicyField struct {
	n    int
	data []float64 // len == 2·n⁴
}

// NewPolicyField allocates a zero-filled policy field with the given side.
func NewPolicyField(side int) (*PolicyField, error) {
	if side < 1 {
		return nil, ErrInvalidSide
	}

	return &PolicyField{n: side, data: make([]float64, Controls*cells(side))}, nil
}

// Side returns N.
func (p *PolicyField) Side() int { return p.n }

// Len returns the number of cells, N⁴.
func (p *PolicyField) Len() int { return len(p.data) / Controls }

// Unravel returns the Index of flat cell offset off.
func (p *PolicyField) Unravel(off int) Index { return unravel(p.n, off) }

// At returns the control vector stored at idx.
func (p *PolicyField) At(idx Index) ([Controls]float64, error) {
	if !inBounds(p.n, idx) {
		return [Controls]float64{}, indexErrorf("Policy.At", idx, ErrIndexOutOfRange)
	}

	return p.AtOffset(offset(p.n, idx)), nil
}

// Set stores u at idx.
func (p *PolicyField) Set(idx Index, u [Controls]float64) error {
	if !inBounds(p.n, idx) {
		return indexErrorf("Policy.Set", idx, ErrIndexOutOfRange)
	}
	p.SetOffset(offset(p.n, idx), u)

	return nil
}

// AtOffset is the unchecked read for flat cell offset off.
func (p *PolicyField) AtOffset(off int) [Controls]float64 {
	k := Controls * off

	return [Controls]float64{p.data[k], p.data[k+1]}
}

// SetOffset is the unchecked write for flat cell offset off.
func (p *PolicyField) SetOffset(off int, u [Controls]float64) {
	k := Controls * off
	p.data[k], p.data[k+1] = u[0], u[1]
}

// CopyFrom overwrites p with the contents of src.
func (p *PolicyField) CopyFrom(src *PolicyField) error {
	if p == nil || src == nil {
		return ErrNilBuffer
	}
	if p.n != src.n {
		return ErrShapeMismatch
	}
	copy(p.data, src.data)

	return nil
}

// Clone returns a deep copy of p.
func (p *PolicyField) Clone() *PolicyField {
	out := &PolicyField{n: p.n, data: make([]float64, len(p.data))}
	copy(out.data, p.data)

	return out
}
