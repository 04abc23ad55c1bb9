package gen

// HashCoords derives a per-chunk seed from a chunk coordinate and the
// world seed. Multiplications wrap at 32 bits.
func HashCoords(x, y int32, seed uint32) uint32 {
	return uint32(x)*73856093 ^ uint32(y)*19349663 ^ seed
}
