// internal/bus/endpoint.go
package bus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Endpoint is a single Modbus TCP connection shared by every device behind
// one gateway. It serializes requests because it mutates SlaveId and Timeout
// per call.
type Endpoint struct {
	mu      sync.Mutex
	address string
	timeout time.Duration
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type Config struct {
	Address string
	Timeout time.Duration
}

// Dial connects to one gateway.
func Dial(cfg Config) (*Endpoint, error) {
	if cfg.Address == "" {
		return nil, errors.New("bus: address required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}

	h := modbus.NewTCPClientHandler(cfg.Address)
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("bus: connect %s: %w", cfg.Address, err)
	}

	return &Endpoint{
		address: cfg.Address,
		timeout: cfg.Timeout,
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (e *Endpoint) Address() string { return e.address }

func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handler.Close()
}

// ---- writes ----

func (e *Endpoint) WriteRegister(unitID uint8, addr, value uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.target(unitID, 0)

	_, err := e.client.WriteSingleRegister(addr, value)
	return e.check(err)
}

func (e *Endpoint) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.target(unitID, 0)

	qty := uint16(len(regs))
	_, err := e.client.WriteMultipleRegisters(addr, qty, PackRegisters(regs))
	return e.check(err)
}

// ---- reads ----

// ReadInputRegisters reads FC 4. A zero timeout uses the endpoint default.
func (e *Endpoint) ReadInputRegisters(unitID uint8, addr, qty uint16, timeout time.Duration) ([]uint16, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.target(unitID, timeout)

	raw, err := e.client.ReadInputRegisters(addr, qty)
	if err != nil {
		return nil, e.check(err)
	}
	if len(raw) != int(qty)*2 {
		return nil, fmt.Errorf("bus: read-registers returned %d bytes, want %d", len(raw), int(qty)*2)
	}
	return UnpackRegisters(raw), nil
}

// ReadDiscreteInputs reads FC 2.
func (e *Endpoint) ReadDiscreteInputs(unitID uint8, addr, qty uint16) ([]bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.target(unitID, 0)

	raw, err := e.client.ReadDiscreteInputs(addr, qty)
	if err != nil {
		return nil, e.check(err)
	}
	return UnpackBits(raw, int(qty)), nil
}

// target must be called with mu held.
func (e *Endpoint) target(unitID uint8, timeout time.Duration) {
	e.handler.SlaveId = unitID
	if timeout <= 0 {
		timeout = e.timeout
	}
	e.handler.Timeout = timeout
}

// check drops the connection after a failed request. A late reply to a
// timed-out request would otherwise be read as the answer to the next one.
// The handler redials on the next send. Must be called with mu held.
func (e *Endpoint) check(err error) error {
	if err == nil {
		return nil
	}
	var mbErr *modbus.ModbusError
	if errors.As(err, &mbErr) {
		// device answered with an exception; the stream is still in step
		return err
	}
	_ = e.handler.Close()
	return err
}
