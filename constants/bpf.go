// Package constants holds named kernel enums and ABI constants used
// throughout the loader: bpf() commands, map/program/attach/link types,
// ioctl command encoding, errno classification, and the kernel helper
// function table.
package constants

// Cmd is a bpf() syscall command number (enum bpf_cmd).
type Cmd uint32

const (
	CmdMapCreate Cmd = iota
	CmdMapLookupElem
	CmdMapUpdateElem
	CmdMapDeleteElem
	CmdMapGetNextKey
	CmdProgLoad
	CmdObjPin
	CmdObjGet
	CmdProgAttach
	CmdProgDetach
	CmdProgTestRun
	CmdProgGetNextID
	CmdMapGetNextID
	CmdProgGetFDByID
	CmdMapGetFDByID
	CmdObjGetInfoByFD
	CmdProgQuery
	CmdRawTracepointOpen
	CmdBTFLoad
	CmdBTFGetFDByID
	CmdTaskFDQuery
	CmdMapLookupAndDeleteElem
	CmdMapFreeze
	CmdBTFGetNextID
	CmdMapLookupBatch
	CmdMapLookupAndDeleteBatch
	CmdMapUpdateBatch
	CmdMapDeleteBatch
	CmdLinkCreate
	CmdLinkUpdate
	CmdLinkGetFDByID
	CmdLinkGetNextID
	CmdEnableStats
	CmdIterCreate
	CmdLinkDetach
	CmdProgBindMap
)

// MapType is a bpf_map_type enum value.
type MapType uint32

const (
	MapTypeUnspec MapType = iota
	MapTypeHash
	MapTypeArray
	MapTypeProgArray
	MapTypePerfEventArray
	MapTypePerCPUHash
	MapTypePerCPUArray
	MapTypeStackTrace
	MapTypeCgroupArray
	MapTypeLRUHash
	MapTypeLRUPerCPUHash
	MapTypeLPMTrie
	MapTypeArrayOfMaps
	MapTypeHashOfMaps
	MapTypeDevmap
	MapTypeSockmap
	MapTypeCPUmap
	MapTypeXSKmap
	MapTypeSockhash
	MapTypeCgroupStorage
	MapTypeReuseportSockarray
	MapTypePerCPUCgroupStorage
	MapTypeQueue
	MapTypeStack
	MapTypeSkStorage
	MapTypeDevmapHash
	MapTypeStructOps
	MapTypeRingbuf
	MapTypeInodeStorage
	MapTypeTaskStorage
)

func (t MapType) String() string {
	switch t {
	case MapTypeHash:
		return "hash"
	case MapTypeArray:
		return "array"
	case MapTypeProgArray:
		return "prog_array"
	case MapTypePerfEventArray:
		return "perf_event_array"
	case MapTypePerCPUHash:
		return "percpu_hash"
	case MapTypePerCPUArray:
		return "percpu_array"
	case MapTypeLRUHash:
		return "lru_hash"
	case MapTypeLRUPerCPUHash:
		return "lru_percpu_hash"
	case MapTypeRingbuf:
		return "ringbuf"
	case MapTypeSockmap:
		return "sockmap"
	case MapTypeSockhash:
		return "sockhash"
	case MapTypeStructOps:
		return "struct_ops"
	default:
		return "unknown"
	}
}

// ProgType is a bpf_prog_type enum value.
type ProgType uint32

const (
	ProgTypeUnspec ProgType = iota
	ProgTypeSocketFilter
	ProgTypeKprobe
	ProgTypeSchedCls
	ProgTypeSchedAct
	ProgTypeTracepoint
	ProgTypeXDP
	ProgTypePerfEvent
	ProgTypeCgroupSkb
	ProgTypeCgroupSock
	ProgTypeLwtIn
	ProgTypeLwtOut
	ProgTypeLwtXmit
	ProgTypeSockOps
	ProgTypeSkSKB
	ProgTypeCgroupDevice
	ProgTypeSkMsg
	ProgTypeRawTracepoint
	ProgTypeCgroupSockAddr
	ProgTypeLwtSeg6local
	ProgTypeLircMode2
	ProgTypeSkReuseport
	ProgTypeFlowDissector
	ProgTypeCgroupSysctl
	ProgTypeRawTracepointWritable
	ProgTypeCgroupSockopt
	ProgTypeTracing
	ProgTypeStructOps
	ProgTypeExt
	ProgTypeLSM
	ProgTypeSkLookup
	ProgTypeSyscall
)

// AttachType is a bpf_attach_type enum value.
type AttachType uint32

const (
	AttachCgroupInetIngress AttachType = iota
	AttachCgroupInetEgress
	AttachCgroupInetSockCreate
	AttachCgroupSockOps
	AttachSkSKBStreamParser
	AttachSkSKBStreamVerdict
	AttachCgroupDevice
	AttachSkMsgVerdict
	AttachCgroupInet4Bind
	AttachCgroupInet6Bind
	AttachCgroupInet4Connect
	AttachCgroupInet6Connect
	AttachCgroupInet4PostBind
	AttachCgroupInet6PostBind
	AttachCgroupUDP4Sendmsg
	AttachCgroupUDP6Sendmsg
	AttachLircMode2
	AttachFlowDissector
	AttachCgroupSysctl
	AttachCgroupUDP4Recvmsg
	AttachCgroupUDP6Recvmsg
	AttachCgroupGetsockopt
	AttachCgroupSetsockopt
	AttachTraceRawTP
	AttachTraceFentry
	AttachTraceFexit
	AttachModifyReturn
	AttachLSMMac
	AttachTraceIter
	AttachCgroupInet4Getpeername
	AttachCgroupInet6Getpeername
	AttachCgroupInet4Getsockname
	AttachCgroupInet6Getsockname
	AttachXDPDevmap
	AttachCgroupInetSockRelease
	AttachXDPCPUmap
	AttachSkLookup
	AttachXDP
	AttachSkSKBVerdict
	AttachSkReuseportSelect
	AttachSkReuseportSelectOrMigrate
	AttachPerfEvent
	AttachTraceKprobeMulti
	AttachLSMCgroup
	AttachStructOps
)

// LinkType is a bpf_link_type enum value.
type LinkType uint32

const (
	LinkTypeUnspec LinkType = iota
	LinkTypeRawTracepoint
	LinkTypeTracing
	LinkTypeCgroup
	LinkTypeIter
	LinkTypeNetns
	LinkTypeXDP
	LinkTypePerfEvent
	LinkTypeKprobeMulti
	LinkTypeStructOps
	LinkTypeNetfilter
	LinkTypeTCX
	LinkTypeUprobeMulti
	LinkTypeNetkit
	LinkTypeSockmap
)

// Map flags (bpf_attr.map_flags bits).
const (
	MapFlagNoPreAlloc  uint32 = 1 << 0
	MapFlagNoCommonLRU uint32 = 1 << 1
	MapFlagNUMANode    uint32 = 1 << 2
	MapFlagRdonly      uint32 = 1 << 3
	MapFlagWronly      uint32 = 1 << 4
	MapFlagStackBuildID uint32 = 1 << 5
	MapFlagZeroSeed    uint32 = 1 << 6
	MapFlagRdonlyProg  uint32 = 1 << 7
	MapFlagWronlyProg  uint32 = 1 << 8
	MapFlagClone       uint32 = 1 << 9
	MapFlagMmapable    uint32 = 1 << 10
	MapFlagPresetHash  uint32 = 1 << 11
	MapFlagInnerMap    uint32 = 1 << 12
)

// Map update flags (bpf_attr.flags for map_update_elem).
const (
	UpdateAny     uint64 = 0
	UpdateNoExist uint64 = 1
	UpdateExist   uint64 = 2
	UpdateLocked  uint64 = 4
)

// XDP attach flags (IFLA_XDP_FLAGS bits).
const (
	XDPFlagUpdateIfNoexist uint32 = 1 << 0
	XDPFlagSKBMode         uint32 = 1 << 1
	XDPFlagDrvMode         uint32 = 1 << 2
	XDPFlagHWMode          uint32 = 1 << 3
	XDPFlagReplace         uint32 = 1 << 4
)
