package link

import (
	"github.com/kornnellio/ebpfcore/constants"
	"github.com/kornnellio/ebpfcore/sysc"
)

// sockLink is the shared shape for SK_SKB and SK_MSG program attachment
// to a SOCKMAP/SOCKHASH map.
type sockLink struct {
	kind       string
	mapFD      int32
	progFD     int32
	attachType constants.AttachType
}

func (l *sockLink) Kind() string   { return l.kind }
func (l *sockLink) Target() string { return "sockmap" }

func (l *sockLink) Detach() error {
	return sysc.ProgDetach(sysc.ProgAttachArgs{
		TargetFd:    l.mapFD,
		AttachBpfFd: l.progFD,
		AttachType:  l.attachType,
	})
}

func attachSock(kind string, mapFD, progFD int32, attachType constants.AttachType) (*sockLink, error) {
	if err := sysc.ProgAttach(sysc.ProgAttachArgs{
		TargetFd:    mapFD,
		AttachBpfFd: progFD,
		AttachType:  attachType,
	}); err != nil {
		return nil, err
	}
	return &sockLink{kind: kind, mapFD: mapFD, progFD: progFD, attachType: attachType}, nil
}

// SkSKB attaches a stream-parser or stream-verdict program to a
// SOCKMAP/SOCKHASH map.
func SkSKB(mapFD, progFD int32, attachType constants.AttachType) (*sockLink, error) {
	return attachSock("sk_skb", mapFD, progFD, attachType)
}

// SkMsg attaches an sk-msg-verdict program to a SOCKMAP/SOCKHASH map.
func SkMsg(mapFD, progFD int32) (*sockLink, error) {
	return attachSock("sk_msg", mapFD, progFD, constants.AttachSkMsgVerdict)
}
