package link

import "testing"

func TestBuildSetlinkXDPDrvMode(t *testing.T) {
	msg := buildSetlinkXDP(3, 7, XDPFlagDrvMode)

	// nlmsghdr (16B) + ifinfomsg (16B) = 32B before the IFLA_XDP attribute.
	xdpAttr := msg[32:]

	nlaLen := uint16(xdpAttr[0]) | uint16(xdpAttr[1])<<8
	nlaType := uint16(xdpAttr[2]) | uint16(xdpAttr[3])<<8
	if nlaType&iflaXDPNested == 0 {
		t.Errorf("IFLA_XDP type word missing NLA_F_NESTED bit: %#x", nlaType)
	}
	if nlaType&^iflaXDPNested != iflaXDP {
		t.Errorf("IFLA_XDP type = %#x, want %#x", nlaType&^iflaXDPNested, iflaXDP)
	}

	payload := xdpAttr[4:nlaLen]
	fdAttr := payload[0:8]
	if got := fdAttr[4:8]; string(got) != string([]byte{0x07, 0x00, 0x00, 0x00}) {
		t.Errorf("IFLA_XDP_FD payload = % x, want 07 00 00 00", got)
	}
	flagsAttr := payload[8:16]
	if got := flagsAttr[4:8]; string(got) != string([]byte{0x04, 0x00, 0x00, 0x00}) {
		t.Errorf("IFLA_XDP_FLAGS payload = % x, want 04 00 00 00", got)
	}
}

func TestValidateCgroupPath(t *testing.T) {
	cases := []struct {
		path string
		ok   bool
	}{
		{"/sys/fs/cgroup/my-service", true},
		{"", false},
		{"relative/path", false},
		{"/sys/fs/cgroup/../etc", false},
	}
	for _, c := range cases {
		err := validateCgroupPath(c.path)
		if (err == nil) != c.ok {
			t.Errorf("validateCgroupPath(%q) error=%v, want ok=%v", c.path, err, c.ok)
		}
	}
}
