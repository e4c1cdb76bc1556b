// internal/indicator/modbus.go
package indicator

import (
	"go.uber.org/zap"
)

// RegistersPerSlot is the fixed slot geometry on the LED panel:
// reg0 = 0x00RR, reg1 = 0xGGBB.
const RegistersPerSlot = 2

// registerWriter is the only bus capability the panel needs.
type registerWriter interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// ModbusSink drives an LED panel that exposes one register pair per slot.
type ModbusSink struct {
	cli        registerWriter
	unitID     uint8
	base       uint16
	brightness int
	log        *zap.Logger

	needFull bool
	last     []Color
}

type ModbusConfig struct {
	UnitID      uint8
	BaseAddress uint16
	Slots       int
	Brightness  int
}

func NewModbusSink(cli registerWriter, cfg ModbusConfig, log *zap.Logger) *ModbusSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &ModbusSink{
		cli:        cli,
		unitID:     cfg.UnitID,
		base:       cfg.BaseAddress,
		brightness: cfg.Brightness,
		log:        log,
		needFull:   true, // full re-assert on first write
		last:       make([]Color, cfg.Slots),
	}
}

// SetSlot writes one slot. Unchanged slots are skipped unless a previous
// failure left the panel in doubt.
func (s *ModbusSink) SetSlot(index int, c Color) {
	if index < 0 || index >= len(s.last) {
		s.log.Debug("indicator slot out of range", zap.Int("slot", index))
		return
	}

	if s.needFull {
		next := append([]Color(nil), s.last...)
		next[index] = c
		s.writeFull(next)
		return
	}

	if s.last[index] == c {
		return
	}

	addr := s.base + uint16(index*RegistersPerSlot)
	if err := s.cli.WriteRegisters(s.unitID, addr, s.encode(c)); err != nil {
		// panel state is unknown; re-assert on next write
		s.needFull = true
		s.log.Warn("indicator slot write failed", zap.Int("slot", index), zap.Error(err))
		return
	}
	s.last[index] = c
}

// Fill writes every slot in one request.
func (s *ModbusSink) Fill(c Color) {
	next := make([]Color, len(s.last))
	for i := range next {
		next[i] = c
	}
	s.writeFull(next)
}

func (s *ModbusSink) writeFull(colors []Color) {
	regs := make([]uint16, 0, len(colors)*RegistersPerSlot)
	for _, c := range colors {
		regs = append(regs, s.encode(c)...)
	}

	if err := s.cli.WriteRegisters(s.unitID, s.base, regs); err != nil {
		s.needFull = true
		s.log.Warn("indicator full write failed", zap.Error(err))
		return
	}

	s.needFull = false
	copy(s.last, colors)
}

func (s *ModbusSink) encode(c Color) []uint16 {
	r, g, b := c.Scale(s.brightness).RGB()
	return []uint16{uint16(r), uint16(g)<<8 | uint16(b)}
}
