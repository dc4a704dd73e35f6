package request

import (
	"fmt"
	"net"
	"net/netip"
	"regexp"
)

var (
	nameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,79}$`)
	tagRE  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._-]{0,79}$`)
)

// ValidateName checks an object name such as a VM, host or switch name.
func ValidateName(field, label, value string) error {
	if value == "" {
		return required(field, label)
	}
	if !nameRE.MatchString(value) {
		return unsafe(field, fmt.Sprintf(
			"%s %q is not allowed: use up to 80 letters, digits, '.', '_' or '-', starting with a letter or digit.",
			label, value))
	}
	return nil
}

// ValidateTag checks a tag label. Tags may also contain spaces.
func ValidateTag(field, label, value string) error {
	if value == "" {
		return required(field, label)
	}
	if !tagRE.MatchString(value) {
		return unsafe(field, fmt.Sprintf(
			"%s %q is not allowed: use up to 80 letters, digits, spaces, '.', '_' or '-'.",
			label, value))
	}
	return nil
}

// ValidateIPv4 checks a dotted IPv4 address.
func ValidateIPv4(field, label, value string) error {
	if value == "" {
		return required(field, label)
	}
	addr, err := netip.ParseAddr(value)
	if err != nil || !addr.Is4() {
		return unsafe(field, fmt.Sprintf("%s %q is not a valid IPv4 address.", label, value))
	}
	return nil
}

// ValidateSubnetMask checks a dotted IPv4 netmask with contiguous bits.
func ValidateSubnetMask(field, label, value string) error {
	if err := ValidateIPv4(field, label, value); err != nil {
		return err
	}
	addr := netip.MustParseAddr(value).As4()
	if _, bits := net.IPv4Mask(addr[0], addr[1], addr[2], addr[3]).Size(); bits == 0 {
		return unsafe(field, fmt.Sprintf("%s %q is not a valid IPv4 netmask.", label, value))
	}
	return nil
}
