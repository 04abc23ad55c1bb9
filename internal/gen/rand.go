package gen

// Mulberry32 is a 32-bit seeded generator with the published
// transition function
//
//	state += 0x6D2B79F5
//	t = (state ^ state>>15) * (state | 1)
//	t ^= t + (t ^ t>>7) * (t | 61)
//	out = t ^ t>>14
//
// with all arithmetic wrapping at 32 bits. Output must stay stable across
// releases: persisted worlds regenerate missing chunks from it.
type Mulberry32 struct {
	state uint32
}

func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

func (m *Mulberry32) Uint32() uint32 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns a value in [0, 1).
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / 4294967296
}
