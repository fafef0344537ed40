package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/patternlock/internal/ir"
)

// marshalArgs converts command args to canonical JSON TEXT for storage.
func marshalArgs(args ir.Args) (string, error) {
	if args == nil {
		args = ir.Args{}
	}
	data, err := ir.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses canonical JSON TEXT back to args. Numbers are
// decoded as int64 so recomputed command IDs match the stored ones.
func unmarshalArgs(data string) (ir.Args, error) {
	if data == "" || data == "{}" {
		return ir.Args{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}

	args := make(ir.Args, len(raw))
	for k, v := range raw {
		if n, ok := v.(json.Number); ok {
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("unmarshal args: %q: %w", k, err)
			}
			args[k] = i
			continue
		}
		args[k] = v
	}
	return args, nil
}
