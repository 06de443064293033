package macaddr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "canonical", input: "00:1B:44:11:3A:B7", want: true},
		{name: "lowercase", input: "00:1b:44:11:3a:b7", want: true},
		{name: "hyphens", input: "00-1B-44-11-3A-B7", want: true},
		{name: "mixed separators", input: "00:1B-44:11-3A:B7", want: true},
		{name: "empty", input: "", want: false},
		{name: "too short", input: "00:1B:44:11:3A", want: false},
		{name: "too long", input: "00:1B:44:11:3A:B7:FF", want: false},
		{name: "non-hex digits", input: "00:1B:44:11:3A:ZZ", want: false},
		{name: "single hex digit octet", input: "0:1B:44:11:3A:B7", want: false},
		{name: "no separators", input: "001B44113AB7", want: false},
		{name: "trailing content", input: "00:1B:44:11:3A:B7 ", want: false},
		{name: "leading content", input: " 00:1B:44:11:3A:B7", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "hyphens to colons", input: "08-00-27-aa-bb-cc", want: "08:00:27:AA:BB:CC"},
		{name: "already canonical", input: "08:00:27:AA:BB:CC", want: "08:00:27:AA:BB:CC"},
		{name: "lowercase", input: "ff:ee:dd:cc:bb:aa", want: "FF:EE:DD:CC:BB:AA"},
		{name: "empty", input: "", want: ""},
		{name: "garbage passes through", input: "not-a-mac", want: "NOT:A:MAC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.want, got)

			// Idempotence: a second pass changes nothing.
			assert.Equal(t, got, Normalize(got))
		})
	}
}

// Every second-nibble value must classify as exactly one of local or
// multicast; nothing falls through and nothing overlaps.
func TestLocalMulticastPartition(t *testing.T) {
	locals := map[byte]bool{'2': true, '6': true, 'A': true, 'E': true}

	for _, digit := range []byte("0123456789ABCDEF") {
		addr := "0" + string(digit) + ":00:27:AA:BB:CC"

		local := IsLocal(addr)
		multicast := IsMulticast(addr)

		assert.NotEqual(t, local, multicast, "digit %c must be exactly one class", digit)
		assert.Equal(t, locals[digit], local, "digit %c local bit", digit)
	}
}

func TestIsLocal(t *testing.T) {
	assert.True(t, IsLocal("02:00:00:00:00:01"))
	assert.True(t, IsLocal("A6:11:22:33:44:55"))
	assert.True(t, IsLocal("0a:00:00:00:00:01")) // normalized before inspection
	assert.False(t, IsLocal("00:1B:44:11:3A:B7"))
	assert.False(t, IsLocal("08:00:27:AA:BB:CC"))
	assert.False(t, IsLocal(""))
	assert.False(t, IsLocal("Z"))
}

func TestIsBroadcast(t *testing.T) {
	assert.True(t, IsBroadcast("FF:FF:FF:FF:FF:FF"))
	assert.True(t, IsBroadcast("ff:ff:ff:ff:ff:ff"))
	assert.False(t, IsBroadcast("FF:FF:FF:FF:FF:FE"))
	assert.False(t, IsBroadcast("00:00:00:00:00:00"))

	// The raw helper only folds case; separator rewriting happens in New.
	assert.False(t, IsBroadcast("FF-FF-FF-FF-FF-FF"))
	assert.True(t, New("ff-ff-ff-ff-ff-ff").IsBroadcast)
}

func TestVendor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "virtualbox", input: "08:00:27:AA:BB:CC", want: "VirtualBox"},
		{name: "vmware", input: "00:50:56:00:11:22", want: "VMware"},
		{name: "vmware second prefix", input: "00:0C:29:00:11:22", want: "VMware"},
		{name: "qemu", input: "52:54:00:DE:AD:00", want: "QEMU/KVM"},
		{name: "xen", input: "00:16:3E:01:02:03", want: "Xen"},
		{name: "hyperv", input: "00:15:5D:01:02:03", want: "Hyper-V"},
		{name: "parallels", input: "00:1C:42:01:02:03", want: "Parallels"},
		{name: "lowercase hyphenated", input: "08-00-27-aa-bb-cc", want: "VirtualBox"},
		{name: "hardware oui", input: "3C:97:0E:11:22:33", want: UnknownVendor},
		{name: "too short", input: "08:00", want: UnknownVendor},
		{name: "empty", input: "", want: UnknownVendor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Vendor(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	got := New("08:00:27:AA:BB:CC")

	assert.Equal(t, MacAddress{
		Address:     "08:00:27:AA:BB:CC",
		Vendor:      "VirtualBox",
		IsLocal:     false,
		IsMulticast: true,
		IsBroadcast: false,
	}, got)
}

func TestNewNormalizesInput(t *testing.T) {
	assert.Equal(t, New("08:00:27:AA:BB:CC"), New("08-00-27-aa-bb-cc"))
}

func TestNewLenientOnMalformedInput(t *testing.T) {
	got := New("")

	assert.Equal(t, MacAddress{Address: "", Vendor: UnknownVendor}, got)

	got = New("bogus")
	assert.Equal(t, UnknownVendor, got.Vendor)
	assert.False(t, got.IsLocal)
	assert.False(t, got.IsMulticast)
	assert.False(t, got.IsBroadcast)
}

func TestParse(t *testing.T) {
	got, err := Parse("00-50-56-11-22-33")
	require.NoError(t, err)
	assert.Equal(t, "00:50:56:11:22:33", got.Address)
	assert.Equal(t, "VMware", got.Vendor)

	_, err = Parse("00:50:56")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestMacAddressJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(New("08:00:27:AA:BB:CC"))
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{"address", "vendor", "isLocal", "isMulticast", "isBroadcast"} {
		assert.Contains(t, m, key)
	}
}
