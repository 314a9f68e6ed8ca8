package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute is one capture criterion: a kind of match, the tagging section
// it applies to, and how its values combine. The (section, operator, kind)
// triple is validated at construction; the raw value is compiled once when
// supplied and the fragment is immutable afterward.
type Attribute struct {
	kind     Kind
	section  Section
	operator Operator

	input    string
	compiled bool
	fragment string

	excluded bool
	required bool
}

// attrConfig is one accepted row of the legality table.
type attrConfig struct {
	excluded bool
	required bool
}

// Operator legality per attribute kind. Section constraints are applied on
// top in NewAttribute.
var (
	valueOperators = map[Operator]attrConfig{
		OperatorExcludeEach: {excluded: true, required: true},
		OperatorMatchAll:    {required: true},
		OperatorMatchAny:    {},
	}
	sectionMatchOperators = map[Operator]attrConfig{
		OperatorExcludeSection: {},
		OperatorExcludeEach:    {excluded: true, required: true},
		OperatorMatchAll:       {required: true},
		OperatorMatchAny:       {},
	}
	presetOperators = map[Operator]attrConfig{
		PresetAny:      {},
		PresetUntagged: {},
		PresetTagged:   {},
		PresetCustom:   {},
	}
)

// NewAttribute validates the (section, operator, kind) triple and returns an
// attribute ready to receive its input.
func NewAttribute(section Section, operator Operator, kind Kind) (*Attribute, error) {
	fail := func(reason string) (*Attribute, error) {
		return nil, &ValidationError{Kind: kind, Section: section, Operator: operator, Reason: reason}
	}
	if !kind.valid() {
		return fail("unknown attribute kind")
	}
	if !section.valid() {
		return fail("unknown tagging section")
	}
	table := valueOperators
	switch kind {
	case KindPreset:
		table = presetOperators
	case KindSectionMatch:
		table = sectionMatchOperators
	}
	cfg, ok := table[operator]
	if !ok {
		return fail("operator not valid for this attribute kind")
	}
	if kind == KindPreset && section == SectionPreset && operator == PresetCustom {
		return fail("preset must be any, untagged or tagged")
	}
	if kind == KindSectionMatch && section == SectionUntagged &&
		operator != OperatorExcludeSection && operator != OperatorMatchAny {
		// a packet is either tagged or untagged; requiring the untagged
		// section alongside tagged results can never match
		return fail("untagged section match may only be none or oranyof")
	}
	return &Attribute{
		kind:     kind,
		section:  section,
		operator: operator,
		excluded: cfg.excluded,
		required: cfg.required,
	}, nil
}

// Kind returns the attribute kind.
func (a *Attribute) Kind() Kind { return a.kind }

// Section returns the tagging section the attribute belongs to.
func (a *Attribute) Section() Section { return a.section }

// Operator returns the match operator.
func (a *Attribute) Operator() Operator { return a.operator }

// Fragment returns the compiled expression fragment. Empty means the
// attribute contributes no constraint.
func (a *Attribute) Fragment() string { return a.fragment }

// Excluded reports whether the attribute negates its values.
func (a *Attribute) Excluded() bool { return a.excluded }

// Required reports whether the attribute joins its section with "and".
func (a *Attribute) Required() bool { return a.required }

// SetInput tokenizes the raw value on whitespace and compiles it into the
// attribute's fragment. It may be called successfully only once. On error no
// partial fragment is retained and the input may be corrected and resupplied.
func (a *Attribute) SetInput(input string) error {
	if a.compiled {
		return fmt.Errorf("input already set for %s attribute", a.kind)
	}
	tokens := strings.Fields(input)
	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		term, err := a.compileToken(strings.ToLower(token))
		if err != nil {
			return err
		}
		terms = append(terms, term)
	}
	a.input = input
	a.compiled = true
	if len(terms) == 0 {
		return nil
	}
	if a.excluded {
		a.fragment = "not " + strings.Join(terms, " and not ")
	} else {
		a.fragment = strings.Join(terms, " or ")
	}
	return nil
}

func (a *Attribute) compileToken(token string) (string, error) {
	switch a.kind {
	case KindVlan:
		return a.compileVlan(token)
	case KindEtherType:
		return a.compileEtherType(token)
	case KindProtocol:
		return a.compileProtocol(token)
	case KindIPAddress:
		return a.compileAddress(token)
	case KindMACAddress:
		return a.compileMAC(token)
	case KindPort:
		return a.compilePort(token)
	}
	// preset and section-match attributes carry their meaning in the
	// operator alone
	return "", &InputError{Kind: a.kind, Token: token, Reason: "attribute takes no value"}
}

func (a *Attribute) compileVlan(token string) (string, error) {
	id, err := strconv.Atoi(token)
	if err != nil || id < 0 || id > vlanIDMax {
		return "", &InputError{Kind: a.kind, Token: token, Reason: "VLAN id must be between 0 and 4095"}
	}
	offset := singleTagOffset
	if a.section == SectionDoubleTagged {
		offset = doubleTagOffset
	}
	return fmt.Sprintf("ether[%d:2]==%d", offset, id), nil
}

func (a *Attribute) compileEtherType(token string) (string, error) {
	if term, ok := namedEtherTypes[token]; ok {
		return term, nil
	}
	hex := strings.TrimPrefix(token, "0x")
	value, err := strconv.ParseUint(hex, 16, 16)
	if err != nil || len(hex) != 4 {
		return "", &InputError{Kind: a.kind, Token: token, Reason: "expected ipv4, ipv6, arp or a 4-digit hex ethertype"}
	}
	if _, reserved := reservedEtherTypes[uint16(value)]; reserved {
		return "", &InputError{Kind: a.kind, Token: token, Reason: "tagged traffic is selected by the tagging sections, not by ethertype"}
	}
	return "ether proto 0x" + hex, nil
}

func (a *Attribute) compileProtocol(token string) (string, error) {
	if term, ok := protocolTerms[token]; ok {
		return term, nil
	}
	number, err := strconv.Atoi(token)
	if err != nil || number < 0 || number > protocolMax {
		return "", &InputError{Kind: a.kind, Token: token, Reason: "expected a named protocol or a number between 0 and 255"}
	}
	return fmt.Sprintf("proto %d", number), nil
}

func (a *Attribute) compileAddress(token string) (string, error) {
	if addresses.Host(token) {
		return "host " + token, nil
	}
	if network, ok := addresses.Network(token); ok {
		return "net " + network, nil
	}
	return "", &InputError{Kind: a.kind, Token: token, Reason: "expected an IP address or CIDR subnet"}
}

// compileMAC accepts a full six-group MAC or a one, two or four group prefix.
// A full address matches with ether host; a prefix matches the leading bytes
// of either the destination (offset 0) or source (offset 6) address.
func (a *Attribute) compileMAC(token string) (string, error) {
	groups := strings.Split(token, ":")
	padded := make([]string, len(groups))
	for i, group := range groups {
		if len(group) == 0 || len(group) > 2 {
			return "", a.macError(token)
		}
		if _, err := strconv.ParseUint(group, 16, 8); err != nil {
			return "", a.macError(token)
		}
		if len(group) == 1 {
			group = "0" + group
		}
		padded[i] = group
	}
	switch width := len(groups); width {
	case 6:
		return "ether host " + strings.Join(padded, ":"), nil
	case 1, 2, 4:
		hex := strings.Join(padded, "")
		return fmt.Sprintf("(ether[0:%d]==0x%s or ether[6:%d]==0x%s)", width, hex, width, hex), nil
	}
	return "", a.macError(token)
}

func (a *Attribute) macError(token string) error {
	return &InputError{Kind: a.kind, Token: token, Reason: "expected 1, 2, 4 or 6 colon-separated hex octets"}
}

func (a *Attribute) compilePort(token string) (string, error) {
	if ports.Port(token) {
		return "port " + token, nil
	}
	if ports.Range(token) {
		return "portrange " + token, nil
	}
	return "", &InputError{Kind: a.kind, Token: token, Reason: "expected a port number or low-high range"}
}
