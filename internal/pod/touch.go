// internal/pod/touch.go
package pod

import "fmt"

// Touch is the auxiliary boolean input sampled once per scan.
type Touch interface {
	Touched() (bool, error)
}

// NoTouch is used when no touch input is wired.
type NoTouch struct{}

func (NoTouch) Touched() (bool, error) { return false, nil }

type discreteReader interface {
	ReadDiscreteInputs(unitID uint8, addr, qty uint16) ([]bool, error)
}

// ModbusTouch reads one discrete input (FC2).
type ModbusTouch struct {
	ep      discreteReader
	unitID  uint8
	address uint16
}

func NewModbusTouch(ep discreteReader, unitID uint8, address uint16) *ModbusTouch {
	return &ModbusTouch{ep: ep, unitID: unitID, address: address}
}

func (t *ModbusTouch) Touched() (bool, error) {
	bits, err := t.ep.ReadDiscreteInputs(t.unitID, t.address, 1)
	if err != nil {
		return false, fmt.Errorf("touch: read di %d: %w", t.address, err)
	}
	if len(bits) == 0 {
		return false, fmt.Errorf("touch: empty response")
	}
	return bits[0], nil
}
