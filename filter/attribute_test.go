package filter

import (
	"errors"
	"testing"
)

func TestNewAttributeValidation(t *testing.T) {
	tests := []struct {
		name     string
		section  Section
		operator Operator
		kind     Kind
		valid    bool
	}{
		{"port any-of", SectionUntagged, OperatorMatchAny, KindPort, true},
		{"vlan all-of", SectionSingleTagged, OperatorMatchAll, KindVlan, true},
		{"mac none-of", SectionDoubleTagged, OperatorExcludeEach, KindMACAddress, true},
		{"value attr with section operator", SectionUntagged, OperatorExcludeSection, KindPort, false},
		{"value attr with preset operator", SectionUntagged, PresetAny, KindPort, false},
		{"unknown kind", SectionUntagged, OperatorMatchAny, Kind(99), false},
		{"unknown section", Section(5), OperatorMatchAny, KindPort, false},
		{"unset operator", SectionUntagged, OperatorUnset, KindPort, false},

		{"untagged section exclude", SectionUntagged, OperatorExcludeSection, KindSectionMatch, true},
		{"untagged section any-of", SectionUntagged, OperatorMatchAny, KindSectionMatch, true},
		{"untagged section all-of", SectionUntagged, OperatorMatchAll, KindSectionMatch, false},
		{"untagged section none-of", SectionUntagged, OperatorExcludeEach, KindSectionMatch, false},
		{"single section all-of", SectionSingleTagged, OperatorMatchAll, KindSectionMatch, true},
		{"single section none-of", SectionSingleTagged, OperatorExcludeEach, KindSectionMatch, true},

		{"preset any", SectionPreset, PresetAny, KindPreset, true},
		{"preset untagged", SectionPreset, PresetUntagged, KindPreset, true},
		{"preset tagged", SectionPreset, PresetTagged, KindPreset, true},
		{"preset custom in preset section", SectionPreset, PresetCustom, KindPreset, false},
		{"preset custom elsewhere", SectionUntagged, PresetCustom, KindPreset, true},
		{"preset with match operator", SectionPreset, OperatorMatchAny, KindPreset, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAttribute(tt.section, tt.operator, tt.kind)
			if tt.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("expected validation error")
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestAttributeFlags(t *testing.T) {
	tests := []struct {
		operator Operator
		excluded bool
		required bool
	}{
		{OperatorMatchAny, false, false},
		{OperatorMatchAll, false, true},
		{OperatorExcludeEach, true, true},
	}
	for _, tt := range tests {
		a, err := NewAttribute(SectionUntagged, tt.operator, KindPort)
		if err != nil {
			t.Fatalf("%s: %v", tt.operator, err)
		}
		if a.Excluded() != tt.excluded || a.Required() != tt.required {
			t.Errorf("%s: excluded=%v required=%v, expected %v/%v",
				tt.operator, a.Excluded(), a.Required(), tt.excluded, tt.required)
		}
	}
}

func mustAttribute(t *testing.T, section Section, operator Operator, kind Kind, input string) *Attribute {
	t.Helper()
	a, err := NewAttribute(section, operator, kind)
	if err != nil {
		t.Fatalf("construct %s/%s/%s: %v", section, operator, kind, err)
	}
	if err := a.SetInput(input); err != nil {
		t.Fatalf("input %q: %v", input, err)
	}
	return a
}

func TestCompileFragments(t *testing.T) {
	tests := []struct {
		name     string
		section  Section
		operator Operator
		kind     Kind
		input    string
		fragment string
	}{
		{"vlan single tag", SectionSingleTagged, OperatorMatchAny, KindVlan, "100", "ether[14:2]==100"},
		{"vlan double tag", SectionDoubleTagged, OperatorMatchAny, KindVlan, "100", "ether[18:2]==100"},
		{"vlan zero", SectionSingleTagged, OperatorMatchAny, KindVlan, "0", "ether[14:2]==0"},
		{"vlan max", SectionSingleTagged, OperatorMatchAny, KindVlan, "4095", "ether[14:2]==4095"},

		{"ethertype ipv4", SectionUntagged, OperatorMatchAny, KindEtherType, "ipv4", "ip"},
		{"ethertype ipv6", SectionUntagged, OperatorMatchAny, KindEtherType, "ipv6", "ip6"},
		{"ethertype arp", SectionUntagged, OperatorMatchAny, KindEtherType, "arp", "arp"},
		{"ethertype hex", SectionUntagged, OperatorMatchAny, KindEtherType, "0806", "ether proto 0x0806"},
		{"ethertype 0x hex", SectionUntagged, OperatorMatchAny, KindEtherType, "0x86dd", "ether proto 0x86dd"},

		{"protocol tcp", SectionUntagged, OperatorMatchAny, KindProtocol, "tcp", "tcp"},
		{"protocol ospf", SectionUntagged, OperatorMatchAny, KindProtocol, "ospf", "proto ospf"},
		{"protocol ipsec", SectionUntagged, OperatorMatchAny, KindProtocol, "ipsec", "(esp or (udp port 4500 and udp[8:4]!=0))"},
		{"protocol numeric", SectionUntagged, OperatorMatchAny, KindProtocol, "112", "proto 112"},

		{"ip host v4", SectionUntagged, OperatorMatchAny, KindIPAddress, "192.0.2.1", "host 192.0.2.1"},
		{"ip host v6", SectionUntagged, OperatorMatchAny, KindIPAddress, "2001:db8::1", "host 2001:db8::1"},
		{"ip subnet canonical", SectionUntagged, OperatorMatchAny, KindIPAddress, "10.1.2.3/24", "net 10.1.2.0/24"},
		{"ip subnet v6", SectionUntagged, OperatorMatchAny, KindIPAddress, "2001:db8::/32", "net 2001:db8::/32"},

		{"mac full", SectionUntagged, OperatorMatchAny, KindMACAddress, "aa:bb:c:dd:ee:ff", "ether host aa:bb:0c:dd:ee:ff"},
		{"mac one group", SectionUntagged, OperatorMatchAny, KindMACAddress, "a", "(ether[0:1]==0x0a or ether[6:1]==0x0a)"},
		{"mac two groups", SectionUntagged, OperatorMatchAny, KindMACAddress, "0:ab", "(ether[0:2]==0x00ab or ether[6:2]==0x00ab)"},
		{"mac four groups", SectionUntagged, OperatorMatchAny, KindMACAddress, "de:ad:be:ef", "(ether[0:4]==0xdeadbeef or ether[6:4]==0xdeadbeef)"},

		{"port", SectionUntagged, OperatorMatchAny, KindPort, "80", "port 80"},
		{"port range", SectionUntagged, OperatorMatchAny, KindPort, "8000-8080", "portrange 8000-8080"},

		{"multiple values or", SectionUntagged, OperatorMatchAny, KindPort, "80 443", "port 80 or port 443"},
		{"multiple values excluded", SectionUntagged, OperatorExcludeEach, KindPort, "80 443", "not port 80 and not port 443"},
		{"empty input", SectionUntagged, OperatorMatchAny, KindPort, "", ""},
		{"whitespace input", SectionUntagged, OperatorMatchAny, KindPort, "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustAttribute(t, tt.section, tt.operator, tt.kind, tt.input)
			if a.Fragment() != tt.fragment {
				t.Errorf("mismatched fragment\nactual   %q\nexpected %q", a.Fragment(), tt.fragment)
			}
		})
	}
}

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		input string
	}{
		{"vlan too large", KindVlan, "4096"},
		{"vlan negative", KindVlan, "-1"},
		{"vlan not numeric", KindVlan, "abc"},
		{"ethertype reserved 8100", KindEtherType, "8100"},
		{"ethertype reserved 0x88a8", KindEtherType, "0x88a8"},
		{"ethertype short hex", KindEtherType, "806"},
		{"ethertype junk", KindEtherType, "zzzz"},
		{"protocol unknown name", KindProtocol, "sctp-ish"},
		{"protocol too large", KindProtocol, "256"},
		{"ip junk", KindIPAddress, "300.1.2.3"},
		{"ip bad cidr", KindIPAddress, "10.0.0.0/33"},
		{"mac three groups", KindMACAddress, "aa:bb:cc"},
		{"mac bad hex", KindMACAddress, "aa:zz"},
		{"mac long group", KindMACAddress, "abc:de"},
		{"port zero", KindPort, "0"},
		{"port too large", KindPort, "70000"},
		{"port inverted range", KindPort, "90-80"},
		{"second value invalid", KindPort, "80 notaport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAttribute(SectionSingleTagged, OperatorMatchAny, tt.kind)
			if err != nil {
				t.Fatal(err)
			}
			err = a.SetInput(tt.input)
			if err == nil {
				t.Fatalf("expected input error, got fragment %q", a.Fragment())
			}
			var ierr *InputError
			if !errors.As(err, &ierr) {
				t.Fatalf("expected *InputError, got %T", err)
			}
			if ierr.Kind != tt.kind {
				t.Errorf("error kind %s, expected %s", ierr.Kind, tt.kind)
			}
			if a.Fragment() != "" {
				t.Errorf("partial fragment retained: %q", a.Fragment())
			}
		})
	}
}

func TestSetInputOnce(t *testing.T) {
	a := mustAttribute(t, SectionUntagged, OperatorMatchAny, KindPort, "80")
	if err := a.SetInput("443"); err == nil {
		t.Fatal("expected error on second SetInput")
	}
	if a.Fragment() != "port 80" {
		t.Fatalf("fragment changed to %q", a.Fragment())
	}
}

// SetInput with an invalid token leaves the attribute open for a corrected
// retry.
func TestSetInputRetryAfterError(t *testing.T) {
	a, err := NewAttribute(SectionUntagged, OperatorMatchAny, KindPort)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.SetInput("notaport"); err == nil {
		t.Fatal("expected input error")
	}
	if err := a.SetInput("80"); err != nil {
		t.Fatalf("retry after error: %v", err)
	}
	if a.Fragment() != "port 80" {
		t.Fatalf("mismatched fragment %q", a.Fragment())
	}
}

type rejectEverything struct{}

func (rejectEverything) Host(string) bool              { return false }
func (rejectEverything) Network(string) (string, bool) { return "", false }
func (rejectEverything) Port(string) bool              { return false }
func (rejectEverything) Range(string) bool             { return false }

func TestValidatorOverride(t *testing.T) {
	SetValidators(rejectEverything{}, rejectEverything{})
	defer SetValidators(NetValidator{}, NetValidator{})

	a, err := NewAttribute(SectionUntagged, OperatorMatchAny, KindPort)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.SetInput("80"); err == nil {
		t.Fatal("expected the override validator to reject the port")
	}
}
