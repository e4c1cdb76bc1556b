// internal/indicator/sink.go
package indicator

import "go.uber.org/zap"

// Sink is the write-only status strip. Implementations never report
// errors upward; a failed write is logged and forgotten.
type Sink interface {
	SetSlot(index int, c Color)
	Fill(c Color)
}

// Memory keeps the strip state in process. It is the sink used when no
// indicator hardware is configured.
type Memory struct {
	log   *zap.Logger
	slots []Color
}

func NewMemory(slots int, log *zap.Logger) *Memory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Memory{log: log, slots: make([]Color, slots)}
}

func (m *Memory) SetSlot(index int, c Color) {
	if index < 0 || index >= len(m.slots) {
		m.log.Debug("indicator slot out of range", zap.Int("slot", index))
		return
	}
	m.slots[index] = c
	m.log.Debug("indicator slot", zap.Int("slot", index), zap.Stringer("color", c))
}

func (m *Memory) Fill(c Color) {
	for i := range m.slots {
		m.slots[i] = c
	}
	m.log.Debug("indicator fill", zap.Stringer("color", c))
}

// Slot returns the last color written to index.
func (m *Memory) Slot(index int) Color {
	if index < 0 || index >= len(m.slots) {
		return Black
	}
	return m.slots[index]
}
