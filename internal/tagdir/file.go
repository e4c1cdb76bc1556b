// internal/tagdir/file.go
package tagdir

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tagFile is the on-disk layout:
//
//	tags:
//	  04a1b2c3d4e5f6: [1.0, 2.0]
//	  04ffffffffffff: "!REBOOT!"
type tagFile struct {
	Tags map[string]yaml.Node `yaml:"tags"`
}

// LoadFile reads a YAML tag table.
func LoadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tagdir: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML tag table.
func Parse(data []byte) (*Directory, error) {
	var f tagFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("tagdir: parse: %w", err)
	}
	if len(f.Tags) == 0 {
		return nil, fmt.Errorf("tagdir: no tags defined")
	}

	records := make(map[string]Record, len(f.Tags))
	for id, node := range f.Tags {
		rec, err := decodeNode(&node)
		if err != nil {
			return nil, fmt.Errorf("tagdir: tag %s: %w", id, err)
		}
		records[id] = rec
	}

	return New(records), nil
}

func decodeNode(n *yaml.Node) (Record, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		var xy []float64
		if err := n.Decode(&xy); err != nil {
			return Record{}, err
		}
		if len(xy) != 2 {
			return Record{}, fmt.Errorf("coordinate must have 2 values, got %d", len(xy))
		}
		return CoordinateRecord(xy[0], xy[1]), nil

	case yaml.ScalarNode:
		var cmd string
		if err := n.Decode(&cmd); err != nil {
			return Record{}, err
		}
		if cmd == "" {
			return Record{}, fmt.Errorf("empty command")
		}
		return CommandRecord(cmd), nil

	default:
		return Record{}, fmt.Errorf("unsupported value at line %d", n.Line)
	}
}
