package capfilter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/packetcap/go-capfilter/filter"
)

// AttributeSpec is one criterion record as written in a capture spec file or
// posted by a form layer, using the wire names understood by the filter
// package.
type AttributeSpec struct {
	Section string `yaml:"section"`
	Match   string `yaml:"match"`
	Kind    string `yaml:"kind"`
	Value   string `yaml:"value"`
}

// CaptureSpec is a whole capture specification.
type CaptureSpec struct {
	Interface  string          `yaml:"interface"`
	SnapLen    int             `yaml:"snaplen"`
	Count      int             `yaml:"count"`
	Promisc    bool            `yaml:"promiscuous"`
	Output     string          `yaml:"output"`
	Attributes []AttributeSpec `yaml:"attributes"`
}

// LoadSpec reads a YAML capture specification from path.
func LoadSpec(path string) (*CaptureSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec CaptureSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parsing capture spec %s: %w", path, err)
	}
	return &spec, nil
}

// ParseAttribute builds and compiles one attribute from its wire record.
func ParseAttribute(record AttributeSpec) (*filter.Attribute, error) {
	section, ok := filter.ParseSection(record.Section)
	if !ok {
		return nil, fmt.Errorf("unknown section %q", record.Section)
	}
	operator, ok := filter.ParseOperator(record.Match)
	if !ok {
		return nil, fmt.Errorf("unknown match operator %q", record.Match)
	}
	kind, ok := filter.ParseKind(record.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown attribute kind %q", record.Kind)
	}
	attr, err := filter.NewAttribute(section, operator, kind)
	if err != nil {
		return nil, err
	}
	if err := attr.SetInput(record.Value); err != nil {
		return nil, err
	}
	return attr, nil
}

// FilterAttributes builds the ordered attribute list from the spec records.
func (s *CaptureSpec) FilterAttributes() ([]*filter.Attribute, error) {
	attrs := make([]*filter.Attribute, 0, len(s.Attributes))
	for i, record := range s.Attributes {
		attr, err := ParseAttribute(record)
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// Expression compiles the whole specification into one filter expression.
func (s *CaptureSpec) Expression() (string, error) {
	attrs, err := s.FilterAttributes()
	if err != nil {
		return "", err
	}
	return filter.Compose(attrs)
}

// Invoker builds the capture invoker configured by the specification.
func (s *CaptureSpec) Invoker() *Invoker {
	return &Invoker{
		Interface: s.Interface,
		SnapLen:   s.SnapLen,
		Count:     s.Count,
		Output:    s.Output,
		Promisc:   s.Promisc,
	}
}
