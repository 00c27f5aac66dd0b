package rgb

// SimpleAlpha565 derives an alpha plane from packed little-endian RGB565
// pixels. A pixel is transparent only when its packed word is exactly zero,
// otherwise it is fully opaque. The returned buffer holds one alpha byte per
// source pixel.
func SimpleAlpha565(src []byte) ([]byte, error) {
	if len(src)%2 != 0 {
		return nil, ErrInvalidLength
	}
	alpha := make([]byte, len(src)/2)
	for i := range alpha {
		if src[i*2] != 0 || src[i*2+1] != 0 {
			alpha[i] = 0xff
		}
	}
	return alpha, nil
}
