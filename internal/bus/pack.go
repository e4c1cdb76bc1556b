// internal/bus/pack.go
package bus

// ---- helpers (pure geometry) ----

// PackRegisters lays registers out in Modbus memory order (BIG-ENDIAN).
func PackRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func UnpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

// UnpackBits expands LSB-first packed bits.
func UnpackBits(data []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		byteIdx := i / 8
		bitIdx := i % 8
		if byteIdx >= len(data) {
			continue
		}
		out[i] = data[byteIdx]&(1<<bitIdx) != 0
	}
	return out
}

// RegistersToBytes unpacks n bytes from big-endian register pairs.
func RegistersToBytes(regs []uint16, n int) []byte {
	out := make([]byte, 0, n)
	for _, r := range regs {
		if len(out) < n {
			out = append(out, byte(r>>8))
		}
		if len(out) < n {
			out = append(out, byte(r))
		}
	}
	return out
}
