// internal/sensor/unavailable.go
package sensor

import "time"

// Unavailable returns a Reader whose every call fails with err. The deck
// builder uses it when the bus handle itself could not be opened, so the
// sensor is disabled through the normal Initialize path.
func Unavailable(err error) Reader {
	return unavailable{err: err}
}

type unavailable struct{ err error }

func (u unavailable) Init() (string, error)                           { return "", u.err }
func (u unavailable) Configure() error                                { return u.err }
func (u unavailable) ReadPassiveTarget(time.Duration) ([]byte, error) { return nil, u.err }
func (u unavailable) PowerDown() error                                { return u.err }
func (u unavailable) Reset() error                                    { return u.err }
