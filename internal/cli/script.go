package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/patternlock/internal/ir"
	"github.com/roach88/patternlock/internal/pattern"
)

// Script is a session script for the run command.
//
//	commands:
//	  - kind: start_recording
//	  - kind: touch
//	    x: 333
//	    y: 67
//	  - kind: touch
//	    index: 4
//	  - kind: stop_recording
type Script struct {
	Commands []ScriptCommand `yaml:"commands"`
}

// ScriptCommand is one command of a script. Touches give either x and y
// or a grid index.
type ScriptCommand struct {
	Kind    string  `yaml:"kind"`
	X       *int    `yaml:"x,omitempty"`
	Y       *int    `yaml:"y,omitempty"`
	Index   *int    `yaml:"index,omitempty"`
	Token   *string `yaml:"token,omitempty"`
	Visible *bool   `yaml:"visible,omitempty"`
}

// LoadScript reads a session script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	var script Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &script, nil
}

// Build converts the script to commands against grid.
func (s *Script) Build(grid *pattern.Grid) ([]ir.Command, error) {
	cmds := make([]ir.Command, 0, len(s.Commands))
	for i, c := range s.Commands {
		cmd, err := c.build(grid)
		if err != nil {
			return nil, fmt.Errorf("commands[%d]: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func (c ScriptCommand) build(grid *pattern.Grid) (ir.Command, error) {
	kind := ir.CommandKind(c.Kind)
	switch kind {
	case ir.CommandTouch:
		if c.Index != nil {
			if c.X != nil || c.Y != nil {
				return ir.Command{}, fmt.Errorf("touch takes x and y or index, not both")
			}
			p, err := grid.IndexToPoint(*c.Index)
			if err != nil {
				return ir.Command{}, err
			}
			return ir.NewTouch(p.X, p.Y), nil
		}
		if c.X == nil || c.Y == nil {
			return ir.Command{}, fmt.Errorf("touch needs x and y, or index")
		}
		return ir.NewTouch(*c.X, *c.Y), nil

	case ir.CommandSetPattern:
		if c.Token == nil {
			return ir.Command{}, fmt.Errorf("set_pattern needs token")
		}
		return ir.NewSetPattern(*c.Token), nil

	case ir.CommandShowHint:
		if c.Visible == nil {
			return ir.Command{}, fmt.Errorf("show_hint needs visible")
		}
		return ir.NewShowHint(*c.Visible), nil
	}

	if !kind.Valid() {
		return ir.Command{}, fmt.Errorf("unknown command kind %q", c.Kind)
	}
	return ir.NewCommand(kind), nil
}
