// internal/sensor/modbus/reader.go
package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/rfid-pod/internal/bus"
)

// endpoint is the bus capability one reader needs.
type endpoint interface {
	WriteRegister(unitID uint8, addr, value uint16) error
	ReadInputRegisters(unitID uint8, addr, qty uint16, timeout time.Duration) ([]uint16, error)
}

// Reader implements sensor.Reader for one RFID head behind a Modbus gateway.
// The gateway addresses each head by unit id.
type Reader struct {
	ep     endpoint
	unitID uint8
}

func NewReader(ep endpoint, unitID uint8) *Reader {
	return &Reader{ep: ep, unitID: unitID}
}

// ---- sensor.Reader ----

func (r *Reader) Init() (string, error) {
	if r.ep == nil {
		return "", errors.New("rfid modbus: not connected")
	}
	regs, err := r.ep.ReadInputRegisters(r.unitID, RegFirmware, firmwareRegisters, 0)
	if err != nil {
		return "", fmt.Errorf("rfid modbus: unit %d firmware: %w", r.unitID, err)
	}
	if len(regs) < firmwareRegisters {
		return "", fmt.Errorf("rfid modbus: unit %d short firmware block", r.unitID)
	}
	return fmt.Sprintf("%d.%d.%d.%d",
		regs[0]>>8, regs[0]&0xff,
		regs[1]>>8, regs[1]&0xff,
	), nil
}

func (r *Reader) Configure() error { return r.command(CmdConfigure) }
func (r *Reader) PowerDown() error { return r.command(CmdPowerDown) }
func (r *Reader) Reset() error     { return r.command(CmdReset) }

// ReadPassiveTarget reads the detection block. The bus timeout bounds the call.
func (r *Reader) ReadPassiveTarget(timeout time.Duration) ([]byte, error) {
	regs, err := r.ep.ReadInputRegisters(r.unitID, RegStatus, detectionSpan, timeout)
	if err != nil {
		return nil, fmt.Errorf("rfid modbus: unit %d detect: %w", r.unitID, err)
	}
	if len(regs) < detectionSpan {
		return nil, fmt.Errorf("rfid modbus: unit %d short detection block: %d regs", r.unitID, len(regs))
	}

	switch regs[RegStatus] {
	case StatusNoTag:
		return nil, nil
	case StatusTagPresent:
	default:
		return nil, fmt.Errorf("rfid modbus: unit %d gateway status %d", r.unitID, regs[RegStatus])
	}

	n := int(regs[RegUIDLength])
	if n == 0 || n > MaxUIDBytes {
		return nil, fmt.Errorf("rfid modbus: unit %d uid length %d out of range", r.unitID, n)
	}

	return bus.RegistersToBytes(regs[RegUIDStart:RegUIDStart+UIDRegisters], n), nil
}

func (r *Reader) command(cmd uint16) error {
	if r.ep == nil {
		return errors.New("rfid modbus: not connected")
	}
	if err := r.ep.WriteRegister(r.unitID, RegCommand, cmd); err != nil {
		return fmt.Errorf("rfid modbus: unit %d command %d: %w", r.unitID, cmd, err)
	}
	return nil
}
