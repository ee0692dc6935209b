package fs

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/metafile/pkg/core"
)

const (
	userDataKey     = "userData"
	defaultImporter = "DefaultImporter"
	formatVersion   = "2"
)

// sidecar is the parsed YAML document of an asset's meta file.
//
// It is edited as a yaml.Node tree so that importer settings, ordering and
// comments written by the host survive a round-trip; only the userData scalar
// is ever touched.
type sidecar struct {
	doc yaml.Node
}

// newSidecar builds the document the host would write for a fresh asset.
func newSidecar() *sidecar {
	importer := mappingNode(
		scalarNode(userDataKey, ""), nullNode(),
		scalarNode("assetBundleName", ""), nullNode(),
		scalarNode("assetBundleVariant", ""), nullNode(),
	)
	root := mappingNode(
		scalarNode("fileFormatVersion", ""), scalarNode(formatVersion, "!!int"),
		scalarNode("guid", ""), scalarNode(newGUID(), "!!str"),
		scalarNode(defaultImporter, ""), importer,
	)

	s := &sidecar{}
	s.doc.Kind = yaml.DocumentNode
	s.doc.Content = []*yaml.Node{root}
	return s
}

// parseSidecar parses data as a meta file. An empty file yields a fresh one.
func parseSidecar(data []byte) (*sidecar, error) {
	s := &sidecar{}
	if err := yaml.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("invalid meta file: %w", err)
	}
	if s.doc.Kind == 0 || len(s.doc.Content) == 0 {
		return newSidecar(), nil
	}
	if s.root().Kind != yaml.MappingNode {
		return nil, errors.New("invalid meta file: top level is not a mapping")
	}
	return s, nil
}

func (s *sidecar) root() *yaml.Node {
	return s.doc.Content[0]
}

// userData returns the user data field; a missing or null scalar reads as "".
// Any other node kind in its place is malformed.
func (s *sidecar) userData() (string, error) {
	node, _ := s.lookupUserData()
	if node == nil {
		return "", nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%w: userData at line %d is not a string", core.ErrMalformedStore, node.Line)
	}
	if node.Tag == "!!null" {
		return "", nil
	}
	return node.Value, nil
}

func (s *sidecar) setUserData(value string) {
	node, owner := s.lookupUserData()
	if node == nil {
		owner = s.importerSection()
		node = nullNode()
		owner.Content = append(owner.Content, scalarNode(userDataKey, ""), node)
	}

	*node = yaml.Node{
		Kind:        yaml.ScalarNode,
		Tag:         "!!null",
		HeadComment: node.HeadComment,
		LineComment: node.LineComment,
		FootComment: node.FootComment,
	}
	if value != "" {
		node.Tag = "!!str"
		node.Value = value
		node.Style = yaml.SingleQuotedStyle
	}
}

// guid returns the asset identifier recorded in the meta file, if any.
func (s *sidecar) guid() string {
	if v := mappingValue(s.root(), "guid"); v != nil && v.Kind == yaml.ScalarNode {
		return v.Value
	}
	return ""
}

// lookupUserData finds the userData scalar in any importer section.
func (s *sidecar) lookupUserData() (value, owner *yaml.Node) {
	root := s.root()
	for i := 1; i < len(root.Content); i += 2 {
		section := root.Content[i]
		if section.Kind != yaml.MappingNode {
			continue
		}
		if v := mappingValue(section, userDataKey); v != nil {
			return v, section
		}
	}
	return nil, nil
}

// importerSection returns the first "*Importer" section, adding a
// DefaultImporter when the document has none.
func (s *sidecar) importerSection() *yaml.Node {
	root := s.root()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, section := root.Content[i], root.Content[i+1]
		if strings.HasSuffix(key.Value, "Importer") && section.Kind == yaml.MappingNode {
			return section
		}
	}

	section := mappingNode()
	root.Content = append(root.Content, scalarNode(defaultImporter, ""), section)
	return section
}

func (s *sidecar) bytes() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&s.doc); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func mappingNode(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: content}
}

func scalarNode(value, tag string) *yaml.Node {
	if tag == "" {
		tag = "!!str"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
}

// newGUID returns a 32 hex digit identifier, the format hosts use in meta files.
func newGUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}
