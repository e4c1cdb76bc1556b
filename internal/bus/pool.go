// internal/bus/pool.go
package bus

import "time"

// Pool hands out one Endpoint per unique address so the RFID gateway,
// indicator panel and touch input can share a connection.
type Pool struct {
	timeout   time.Duration
	dial      func(Config) (*Endpoint, error)
	endpoints map[string]*Endpoint
	closers   []func() error
}

func NewPool(timeout time.Duration) *Pool {
	return &Pool{
		timeout:   timeout,
		dial:      Dial,
		endpoints: make(map[string]*Endpoint),
	}
}

// Get returns the shared endpoint for address, dialing on first use.
func (p *Pool) Get(address string) (*Endpoint, error) {
	if ep, ok := p.endpoints[address]; ok {
		return ep, nil
	}

	ep, err := p.dial(Config{Address: address, Timeout: p.timeout})
	if err != nil {
		return nil, err
	}

	p.endpoints[address] = ep
	p.closers = append(p.closers, ep.Close)
	return ep, nil
}

// Close closes every endpoint and returns the last error seen.
func (p *Pool) Close() error {
	var last error
	for _, fn := range p.closers {
		if err := fn(); err != nil {
			last = err
		}
	}
	p.closers = nil
	p.endpoints = make(map[string]*Endpoint)
	return last
}
