// Package treecache serializes a built pattern tree to and from YAML,
// realizing spec.md §6's to_dict/from_dict round-trip: a usage tree is
// structure (node shapes, names, defaults, nesting), not live match state,
// so only that structure crosses the wire. A tree decoded back in carries
// fresh, Reset-equivalent values; callers Match it like any freshly built
// tree.
package treecache

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rkennedy/clipattern"
)

// nodeDTO mirrors clipattern.Node's shape for marshaling. Unexported match
// state (the atom's currently bound value) deliberately has no field here.
type nodeDTO struct {
	Kind     string    `yaml:"kind"`
	Names    []string  `yaml:"names,omitempty"`
	Default  *valueDTO `yaml:"default,omitempty"`
	Ref      *nodeDTO  `yaml:"ref,omitempty"`
	Children []*nodeDTO `yaml:"children,omitempty"`
	Repeat   bool      `yaml:"repeat,omitempty"`
	Hide     []string  `yaml:"hide,omitempty"`
}

type valueDTO struct {
	Kind string   `yaml:"kind"`
	B    bool     `yaml:"b,omitempty"`
	N    int      `yaml:"n,omitempty"`
	S    string   `yaml:"s,omitempty"`
	L    []string `yaml:"l,omitempty"`
}

// Encode serializes the tree rooted at n to YAML.
func Encode(n *clipattern.Node) ([]byte, error) {
	dto := toDTO(n)
	out, err := yaml.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("treecache: encode: %w", err)
	}
	return out, nil
}

// Decode parses YAML previously produced by Encode back into a tree.
// Options decoded by name are looked up in reg first so that two
// occurrences of the same option (e.g. one inline in the usage line, one
// reachable only through an OptionsShortcut) regain the shared identity
// spec.md §3.4 requires; a name never seen before is registered as a new
// canonical entry.
func Decode(data []byte, reg *clipattern.Registry) (*clipattern.Node, error) {
	var dto nodeDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("treecache: decode: %w", err)
	}
	return fromDTO(&dto, reg)
}

func toDTO(n *clipattern.Node) *nodeDTO {
	if n == nil {
		return nil
	}
	dto := &nodeDTO{
		Kind:    n.Kind.String(),
		Names:   append([]string(nil), n.Names...),
		Default: toValueDTO(n.Default),
		Repeat:  n.Repeat,
	}
	if n.Ref != nil {
		dto.Ref = toDTO(n.Ref)
	}
	for _, c := range n.Children {
		dto.Children = append(dto.Children, toDTO(c))
	}
	for name := range n.Hide {
		dto.Hide = append(dto.Hide, name)
	}
	return dto
}

func fromDTO(dto *nodeDTO, reg *clipattern.Registry) (*clipattern.Node, error) {
	if dto == nil {
		return nil, nil
	}
	switch dto.Kind {
	case "Option":
		if existing := reg.Find(dto.Names...); existing != nil {
			return existing, nil
		}
		var ref *clipattern.Node
		if dto.Ref != nil {
			var err error
			ref, err = fromDTO(dto.Ref, reg)
			if err != nil {
				return nil, err
			}
		}
		opt := clipattern.NewOption(ref, dto.Names...)
		opt.Default = fromValueDTO(dto.Default)
		return reg.Add(opt), nil
	case "Argument":
		n := clipattern.NewArgument(dto.Names...)
		n.Default = fromValueDTO(dto.Default)
		return n, nil
	case "Command":
		n := clipattern.NewCommand(dto.Names...)
		n.Default = fromValueDTO(dto.Default)
		return n, nil
	case "Required", "Optional":
		children, err := fromDTOChildren(dto.Children, reg)
		if err != nil {
			return nil, err
		}
		if dto.Kind == "Required" {
			return clipattern.NewRequired(dto.Repeat, children...), nil
		}
		return clipattern.NewOptional(dto.Repeat, children...), nil
	case "Either":
		children, err := fromDTOChildren(dto.Children, reg)
		if err != nil {
			return nil, err
		}
		return clipattern.NewEither(dto.Repeat, children...), nil
	case "OptionsShortcut":
		shortcut := clipattern.NewOptionsShortcut(reg)
		for _, name := range dto.Hide {
			shortcut.Hide[name] = struct{}{}
		}
		return shortcut, nil
	default:
		return nil, fmt.Errorf("treecache: unknown node kind %q", dto.Kind)
	}
}

func fromDTOChildren(dtos []*nodeDTO, reg *clipattern.Registry) ([]*clipattern.Node, error) {
	children := make([]*clipattern.Node, len(dtos))
	for i, c := range dtos {
		n, err := fromDTO(c, reg)
		if err != nil {
			return nil, err
		}
		children[i] = n
	}
	return children, nil
}

func toValueDTO(v clipattern.Value) *valueDTO {
	if v.Kind == clipattern.Unset {
		return nil
	}
	return &valueDTO{Kind: kindName(v.Kind), B: v.B, N: v.N, S: v.S, L: append([]string(nil), v.L...)}
}

func fromValueDTO(dto *valueDTO) clipattern.Value {
	if dto == nil {
		return clipattern.Value{}
	}
	switch dto.Kind {
	case "Bool":
		return clipattern.BoolValue(dto.B)
	case "Int":
		return clipattern.IntValue(dto.N)
	case "Str":
		return clipattern.StrValue(dto.S)
	case "List":
		return clipattern.ListValue(append([]string(nil), dto.L...))
	default:
		return clipattern.Value{}
	}
}

func kindName(k clipattern.ValueKind) string {
	switch k {
	case clipattern.Bool:
		return "Bool"
	case clipattern.Int:
		return "Int"
	case clipattern.Str:
		return "Str"
	case clipattern.List:
		return "List"
	default:
		return "Unset"
	}
}
