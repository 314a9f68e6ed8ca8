package filter

import (
	"fmt"

	"github.com/gopacket/gopacket/layers"
)

// Section is the VLAN-tag nesting depth a filter attribute applies to, or
// the reserved preset pseudo-section.
type Section int

const (
	SectionUntagged     Section = 0
	SectionSingleTagged Section = 1
	SectionDoubleTagged Section = 2
	SectionPreset       Section = 9
)

var sections = map[string]Section{
	"untagged": SectionUntagged,
	"single":   SectionSingleTagged,
	"double":   SectionDoubleTagged,
	"preset":   SectionPreset,
}

// ParseSection maps a wire name from the form layer to its section.
func ParseSection(s string) (Section, bool) {
	v, ok := sections[s]
	return v, ok
}

func (s Section) valid() bool {
	switch s {
	case SectionUntagged, SectionSingleTagged, SectionDoubleTagged, SectionPreset:
		return true
	}
	return false
}

// offset is the tagging depth. Only meaningful for the three real sections.
func (s Section) offset() int {
	return int(s)
}

func (s Section) String() string {
	switch s {
	case SectionUntagged:
		return "untagged"
	case SectionSingleTagged:
		return "single"
	case SectionDoubleTagged:
		return "double"
	case SectionPreset:
		return "preset"
	}
	return fmt.Sprintf("section(%d)", int(s))
}

// Operator says how an attribute's values combine into the filter, or, for a
// preset attribute, which canned filter to use.
type Operator int

const (
	OperatorUnset Operator = iota
	// OperatorExcludeSection drops the whole section from the capture.
	OperatorExcludeSection
	// OperatorExcludeEach negates every value of the attribute.
	OperatorExcludeEach
	// OperatorMatchAll makes the attribute required: it joins its section
	// with "and". Values within the attribute still match any-of.
	OperatorMatchAll
	// OperatorMatchAny joins the attribute with "or".
	OperatorMatchAny
	PresetAny
	PresetUntagged
	PresetTagged
	PresetCustom
)

var operators = map[string]Operator{
	"none":     OperatorExcludeSection,
	"noneof":   OperatorExcludeEach,
	"andanyof": OperatorMatchAll,
	"oranyof":  OperatorMatchAny,
	"any":      PresetAny,
	"untagged": PresetUntagged,
	"tagged":   PresetTagged,
	"custom":   PresetCustom,
}

// ParseOperator maps a wire name from the form layer to its operator.
func ParseOperator(s string) (Operator, bool) {
	v, ok := operators[s]
	return v, ok
}

func (o Operator) String() string {
	switch o {
	case OperatorExcludeSection:
		return "none"
	case OperatorExcludeEach:
		return "noneof"
	case OperatorMatchAll:
		return "andanyof"
	case OperatorMatchAny:
		return "oranyof"
	case PresetAny:
		return "any"
	case PresetUntagged:
		return "untagged"
	case PresetTagged:
		return "tagged"
	case PresetCustom:
		return "custom"
	}
	return fmt.Sprintf("operator(%d)", int(o))
}

// Kind is the attribute a filter criterion matches on.
type Kind int

const (
	KindUnset Kind = iota
	KindVlan
	KindEtherType
	KindProtocol
	KindIPAddress
	KindMACAddress
	KindPort
	KindPreset
	KindSectionMatch
)

var kinds = map[string]Kind{
	"vlan":      KindVlan,
	"ethertype": KindEtherType,
	"protocol":  KindProtocol,
	"ip":        KindIPAddress,
	"mac":       KindMACAddress,
	"port":      KindPort,
	"preset":    KindPreset,
	"section":   KindSectionMatch,
}

// ParseKind maps a wire name from the form layer to its attribute kind.
func ParseKind(s string) (Kind, bool) {
	v, ok := kinds[s]
	return v, ok
}

func (k Kind) valid() bool {
	return k > KindUnset && k <= KindSectionMatch
}

func (k Kind) String() string {
	switch k {
	case KindVlan:
		return "vlan"
	case KindEtherType:
		return "ethertype"
	case KindProtocol:
		return "protocol"
	case KindIPAddress:
		return "ip"
	case KindMACAddress:
		return "mac"
	case KindPort:
		return "port"
	case KindPreset:
		return "preset"
	case KindSectionMatch:
		return "section"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

const (
	// tagDepths is how many real tagging sections exist: untagged,
	// single tagged and double tagged.
	tagDepths = 3

	vlanIDMax   = 4095
	protocolMax = 255

	// byte offset of the VLAN id within the frame, per tagging depth
	singleTagOffset = 14
	doubleTagOffset = 18
)

// reservedEtherTypes are the tagging ethertypes. Matching them is the vlan
// keyword's job, so the ethertype attribute rejects them.
var reservedEtherTypes = map[uint16]struct{}{
	uint16(layers.EthernetTypeDot1Q): {},
	uint16(layers.EthernetTypeQinQ):  {},
}

// taglessTerm matches frames carrying neither tagging ethertype.
var taglessTerm = fmt.Sprintf("not ether proto 0x%04x and not ether proto 0x%04x",
	uint16(layers.EthernetTypeDot1Q), uint16(layers.EthernetTypeQinQ))

var namedEtherTypes = map[string]string{
	"ipv4": "ip",
	"ipv6": "ip6",
	"arp":  "arp",
}

// protocolTerms maps the named protocols to their expression terms. ipsec
// covers native ESP as well as ESP encapsulated in UDP on the NAT-T port,
// where a non-zero SPI distinguishes it from IKE.
var protocolTerms = map[string]string{
	"icmp":   "icmp",
	"icmp6":  "icmp6",
	"tcp":    "tcp",
	"udp":    "udp",
	"carp":   "carp",
	"pfsync": "pfsync",
	"ospf":   "proto ospf",
	"ipsec":  "(esp or (udp port 4500 and udp[8:4]!=0))",
}
