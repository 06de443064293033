/*
 * Copyright 2025 Big Yellow Jacket Security.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package macaddr parses, validates, normalizes and classifies physical
// network addresses. All operations are pure functions of their input.
package macaddr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidFormat is returned by Parse when the input is not six
// 2-hex-digit octets separated by ':' or '-'.
var ErrInvalidFormat = errors.New("invalid mac address format")

const (
	// UnknownVendor is the sentinel label for prefixes outside the table.
	// Never empty, so consumers can render it directly.
	UnknownVendor = "Unknown"

	// Broadcast is the all-ones address in canonical form.
	Broadcast = "FF:FF:FF:FF:FF:FF"

	ouiPrefixLen = 8 // "XX:XX:XX"
)

var macRe = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}$`)

// ouiVendors maps known virtualization OUI prefixes to vendor labels.
// Deliberately tiny: the dashboard only needs to flag virtual NICs, real
// hardware resolves to UnknownVendor.
var ouiVendors = map[string]string{
	"00:50:56": "VMware",
	"00:0C:29": "VMware",
	"00:05:69": "VMware",
	"08:00:27": "VirtualBox",
	"52:54:00": "QEMU/KVM",
	"00:16:3E": "Xen",
	"00:15:5D": "Hyper-V",
	"00:1C:42": "Parallels",
}

// MacAddress is the canonical classified form of a physical address.
// Immutable once constructed; JSON field names match the dashboard schema.
type MacAddress struct {
	Address     string `json:"address"`
	Vendor      string `json:"vendor"`
	IsLocal     bool   `json:"isLocal"`
	IsMulticast bool   `json:"isMulticast"`
	IsBroadcast bool   `json:"isBroadcast"`
}

// IsValid reports whether s is exactly six 2-hex-digit octets separated by
// ':' or '-', with no leading or trailing content.
func IsValid(s string) bool {
	return macRe.MatchString(s)
}

// Normalize canonicalizes separators and case: every '-' becomes ':' and
// hex digits are upper-cased. It does not validate, and normalizing an
// already-normalized string returns it unchanged.
func Normalize(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "-", ":"))
}

// secondNibble extracts the second hex digit of the first octet after
// normalization. ok is false when the input is too short or the digit is
// not hex, in which case classification helpers report false.
func secondNibble(s string) (byte, bool) {
	n := Normalize(s)
	if len(n) < 2 {
		return 0, false
	}

	c := n[1]
	if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
		return 0, false
	}

	return c, true
}

// IsLocal reports whether the locally administered bit is set: the second
// hex digit of the first octet is one of 2, 6, A, E.
func IsLocal(s string) bool {
	c, ok := secondNibble(s)
	if !ok {
		return false
	}

	switch c {
	case '2', '6', 'A', 'E':
		return true
	default:
		return false
	}
}

// IsMulticast is the complement of IsLocal over the same nibble: every
// valid second digit classifies as exactly one of local or multicast.
func IsMulticast(s string) bool {
	c, ok := secondNibble(s)
	if !ok {
		return false
	}

	switch c {
	case '2', '6', 'A', 'E':
		return false
	default:
		return true
	}
}

// IsBroadcast reports whether the upper-cased input equals the all-ones
// address. Separators are not rewritten here; New classifies the normalized
// form, so hyphenated broadcast addresses still flag through it.
func IsBroadcast(s string) bool {
	return strings.ToUpper(s) == Broadcast
}

// Vendor returns the label for the address's OUI prefix, or UnknownVendor
// when the prefix is not in the table.
func Vendor(s string) string {
	n := Normalize(s)
	if len(n) < ouiPrefixLen {
		return UnknownVendor
	}

	if v, ok := ouiVendors[n[:ouiPrefixLen]]; ok {
		return v
	}

	return UnknownVendor
}

// New classifies s leniently: the input is normalized and every field is
// populated from the normalized value. Malformed input is not rejected;
// the helpers fall back to all-false booleans and UnknownVendor.
func New(s string) MacAddress {
	n := Normalize(s)

	return MacAddress{
		Address:     n,
		Vendor:      Vendor(n),
		IsLocal:     IsLocal(n),
		IsMulticast: IsMulticast(n),
		IsBroadcast: IsBroadcast(n),
	}
}

// Parse is the strict variant of New for callers that must reject bad input.
func Parse(s string) (MacAddress, error) {
	if !IsValid(s) {
		return MacAddress{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	return New(s), nil
}
