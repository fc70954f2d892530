package ohdecode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"objhash.org/objhash/ohvalue"
)

// maxYAMLNodes limits the expansion of aliases
const maxYAMLNodes = 1 << 20

// YAML decodes the first document of a YAML stream.
// Aliases and merge keys are expanded, and duplicate keys are rejected.
// Timestamps become Dates and !!binary scalars become Buffers.
// An empty stream decodes to Null.
func YAML(r io.Reader) (ohvalue.Value, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return ohvalue.Null{}, nil
		}
		return nil, err
	}
	yc := yamlConv{}
	return yc.convert(&root, 0)
}

type yamlConv struct {
	count int
}

func (yc *yamlConv) convert(n *yaml.Node, depth int) (ohvalue.Value, error) {
	yc.count++
	if yc.count > maxYAMLNodes {
		return nil, fmt.Errorf("yaml: document expands to more than %d nodes", maxYAMLNodes)
	}
	if depth > ohvalue.DefaultMaxDepth {
		return nil, ohvalue.ErrTooDeep{Limit: ohvalue.DefaultMaxDepth}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return ohvalue.Null{}, nil
		}
		return yc.convert(n.Content[0], depth)
	case yaml.AliasNode:
		return yc.convert(n.Alias, depth+1)
	case yaml.SequenceNode:
		seq := ohvalue.NewSeq()
		for _, child := range n.Content {
			v, err := yc.convert(child, depth+1)
			if err != nil {
				return nil, err
			}
			seq.Append(v)
		}
		return seq, nil
	case yaml.MappingNode:
		return yc.mapping(n, depth)
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, fmt.Errorf("yaml: unexpected node kind %v", n.Kind)
	}
}

// mapping converts a mapping node.  Keys must be unique.
// Merge keys (<<) contribute the entries of another mapping, or of a sequence of mappings,
// which are not already present.  Explicit keys always win, then earlier merges.
func (yc *yamlConv) mapping(n *yaml.Node, depth int) (ohvalue.Value, error) {
	m := ohvalue.NewMap()
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		if kn.Kind == yaml.AliasNode {
			kn = kn.Alias
		}
		if kn.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("yaml: line %d: mapping keys must be scalars", kn.Line)
		}
		if kn.ShortTag() == "!!merge" {
			merges = append(merges, vn)
			continue
		}
		if _, exists := m.Get(kn.Value); exists {
			return nil, fmt.Errorf("yaml: line %d: mapping key %q already defined", kn.Line, kn.Value)
		}
		v, err := yc.convert(vn, depth+1)
		if err != nil {
			return nil, err
		}
		m.Set(kn.Value, v)
	}
	for _, vn := range merges {
		if err := yc.merge(m, vn, depth); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (yc *yamlConv) merge(m *ohvalue.Map, vn *yaml.Node, depth int) error {
	if vn.Kind == yaml.AliasNode {
		vn = vn.Alias
	}
	var srcs []*yaml.Node
	switch vn.Kind {
	case yaml.MappingNode:
		srcs = append(srcs, vn)
	case yaml.SequenceNode:
		for _, child := range vn.Content {
			if child.Kind == yaml.AliasNode {
				child = child.Alias
			}
			srcs = append(srcs, child)
		}
	default:
		return fmt.Errorf("yaml: line %d: merge value must be a mapping or a sequence of mappings", vn.Line)
	}
	for _, src := range srcs {
		if src.Kind != yaml.MappingNode {
			return fmt.Errorf("yaml: line %d: merge value must be a mapping or a sequence of mappings", vn.Line)
		}
		v, err := yc.convert(src, depth+1)
		if err != nil {
			return err
		}
		for k, x := range v.(*ohvalue.Map).All() {
			if _, exists := m.Get(k); !exists {
				m.Set(k, x)
			}
		}
	}
	return nil
}

func yamlScalar(n *yaml.Node) (ohvalue.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return ohvalue.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return ohvalue.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return ohvalue.Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return ohvalue.Uint(u), nil
		}
		return ohvalue.ParseNumber(n.Value)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return ohvalue.Float(f), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, err
		}
		return ohvalue.NewDate(t), nil
	case "!!binary":
		data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, fmt.Errorf("yaml: line %d: %w", n.Line, err)
		}
		return ohvalue.Buffer(data), nil
	default:
		return ohvalue.Text(n.Value), nil
	}
}
