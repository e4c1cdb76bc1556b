// internal/tagdir/directory.go
package tagdir

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// RebootCommand is the prefix of a command tag that restarts the pod.
const RebootCommand = "!REBOOT!"

// Coordinate is a position on the floor grid.
type Coordinate struct {
	X float64
	Y float64
}

type Kind int

const (
	KindCoordinate Kind = iota
	KindCommand
)

// Record is what a tag means: a coordinate or a command string.
type Record struct {
	Kind    Kind
	Coord   Coordinate
	Command string
}

func CoordinateRecord(x, y float64) Record {
	return Record{Kind: KindCoordinate, Coord: Coordinate{X: x, Y: y}}
}

func CommandRecord(cmd string) Record {
	return Record{Kind: KindCommand, Command: cmd}
}

func (r Record) IsReboot() bool {
	return r.Kind == KindCommand && strings.HasPrefix(r.Command, RebootCommand)
}

func (r Record) String() string {
	if r.Kind == KindCommand {
		return r.Command
	}
	return fmt.Sprintf("(%g, %g)", r.Coord.X, r.Coord.Y)
}

// Directory is the immutable tag-id to Record table.
type Directory struct {
	records map[string]Record
}

// New copies records; keys are normalized to lowercase hex.
func New(records map[string]Record) *Directory {
	d := &Directory{records: make(map[string]Record, len(records))}
	for k, v := range records {
		d.records[strings.ToLower(k)] = v
	}
	return d
}

func (d *Directory) Lookup(hexID string) (Record, bool) {
	if d == nil {
		return Record{}, false
	}
	r, ok := d.records[strings.ToLower(hexID)]
	return r, ok
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// HexID renders a tag UID the way the directory keys it.
func HexID(uid []byte) string {
	return hex.EncodeToString(uid)
}
