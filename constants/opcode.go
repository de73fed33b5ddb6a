package constants

// Instruction bitfield layout (eBPF opcode byte):
//
//	ALU/ALU64/JMP:   msb [ OP(4) | SRC(1) | CLASS(3) ] lsb
//	LD/LDX/ST/STX:   msb [ MODE(3) | SIZE(2) | CLASS(3) ] lsb
const (
	ClassMask = 0x07

	LdClass    = 0x00
	LdXClass   = 0x01
	StClass    = 0x02
	StXClass   = 0x03
	ALUClass   = 0x04
	JmpClass   = 0x05
	Jmp32Class = 0x06
	ALU64Class = 0x07

	SizeMask = 0x18
	SizeW    = 0x00
	SizeH    = 0x08
	SizeB    = 0x10
	SizeDW   = 0x18

	ModeMask  = 0xe0
	ModeImm   = 0x00
	ModeAbs   = 0x20
	ModeInd   = 0x40
	ModeMem   = 0x60
	ModeAtomic = 0xc0

	OpMask = 0xf0
	OpAdd  = 0x00
	OpSub  = 0x10
	OpMul  = 0x20
	OpDiv  = 0x30
	OpOr   = 0x40
	OpAnd  = 0x50
	OpLSh  = 0x60
	OpRSh  = 0x70
	OpNeg  = 0x80
	OpMod  = 0x90
	OpXor  = 0xa0
	OpMov  = 0xb0
	OpArSh = 0xc0
	OpEnd  = 0xd0

	OpJA   = 0x00
	OpJEq  = 0x10
	OpJGT  = 0x20
	OpJGE  = 0x30
	OpJSet = 0x40
	OpJNE  = 0x50
	OpJSGT = 0x60
	OpJSGE = 0x70
	OpCall = 0x80
	OpExit = 0x90
	OpJLT  = 0xa0
	OpJLE  = 0xb0
	OpJSLT = 0xc0
	OpJSLE = 0xd0

	SrcMask = 0x08
	SrcImm  = 0x00
	SrcReg  = 0x08

	EndToLE = 0x00
	EndToBE = 0x08

	// Atomic op flags carried in the instruction's Imm field when Mode is ModeAtomic.
	AtomicFetch   = 0x01
	AtomicAdd     = 0x00
	AtomicOr      = 0x40
	AtomicAnd     = 0x50
	AtomicXor     = 0xa0
	AtomicXchg    = 0xe1
	AtomicCmpxchg = 0xf1
)

// Register is a virtual eBPF register (r0..r10).
type Register uint8

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	RFP = R10
)

const (
	// MaxInstructions is the kernel-enforced instruction limit for programs
	// without bounded-loop/jump verification relaxations.
	MaxInstructions = 1_000_000
	// InstructionSize is the width of a single encoded instruction in bytes.
	InstructionSize = 8
	// LogBufSize is the default size of the verifier log buffer.
	LogBufSize = 16 * 1024 * 1024
)

// CorePoisonValue is written into an unresolved CO-RE relocation's
// immediate field so the verifier refuses to load code that depends on it.
const CorePoisonValue = 0xbad2310

// BPFFuncMapper maps kernel helper IDs to their symbolic names, mirroring
// the kernel's ___BPF_FUNC_MAPPER enum (helper 0 is unused).
var BPFFuncMapper = [212]string{
	1:   "map_lookup_elem",
	2:   "map_update_elem",
	3:   "map_delete_elem",
	4:   "probe_read",
	5:   "ktime_get_ns",
	6:   "trace_printk",
	7:   "get_prandom_u32",
	8:   "get_smp_processor_id",
	9:   "skb_store_bytes",
	10:  "l3_csum_replace",
	11:  "l4_csum_replace",
	12:  "tail_call",
	13:  "clone_redirect",
	14:  "get_current_pid_tgid",
	15:  "get_current_uid_gid",
	16:  "get_current_comm",
	17:  "get_cgroup_classid",
	18:  "skb_vlan_push",
	19:  "skb_vlan_pop",
	20:  "skb_get_tunnel_key",
	21:  "skb_set_tunnel_key",
	22:  "perf_event_read",
	23:  "redirect",
	24:  "get_route_realm",
	25:  "perf_event_output",
	26:  "skb_load_bytes",
	27:  "get_stackid",
	28:  "csum_diff",
	29:  "skb_get_tunnel_opt",
	30:  "skb_set_tunnel_opt",
	31:  "skb_change_proto",
	32:  "skb_change_type",
	33:  "skb_under_cgroup",
	34:  "get_hash_recalc",
	35:  "get_current_task",
	36:  "probe_write_user",
	37:  "current_task_under_cgroup",
	38:  "skb_change_tail",
	39:  "skb_pull_data",
	40:  "csum_update",
	41:  "set_hash_invalid",
	42:  "get_numa_node_id",
	43:  "skb_change_head",
	44:  "xdp_adjust_head",
	45:  "probe_read_str",
	46:  "get_socket_cookie",
	47:  "get_socket_uid",
	48:  "set_hash",
	49:  "setsockopt",
	50:  "skb_adjust_room",
	51:  "redirect_map",
	52:  "sk_redirect_map",
	53:  "sock_map_update",
	54:  "xdp_adjust_meta",
	55:  "perf_event_read_value",
	56:  "perf_prog_read_value",
	57:  "getsockopt",
	58:  "override_return",
	59:  "sock_ops_cb_flags_set",
	60:  "msg_redirect_map",
	61:  "msg_apply_bytes",
	62:  "msg_cork_bytes",
	63:  "msg_pull_data",
	64:  "bind",
	65:  "xdp_adjust_tail",
	66:  "skb_get_xfrm_state",
	67:  "get_stack",
	68:  "skb_load_bytes_relative",
	69:  "fib_lookup",
	70:  "sock_hash_update",
	71:  "msg_redirect_hash",
	72:  "sk_redirect_hash",
	73:  "lwt_push_encap",
	74:  "lwt_seg6_store_bytes",
	75:  "lwt_seg6_adjust_srh",
	76:  "lwt_seg6_action",
	77:  "rc_repeat",
	78:  "rc_keydown",
	79:  "skb_cgroup_id",
	80:  "get_current_cgroup_id",
	81:  "get_local_storage",
	82:  "sk_select_reuseport",
	83:  "skb_ancestor_cgroup_id",
	84:  "sk_lookup_tcp",
	85:  "sk_lookup_udp",
	86:  "sk_release",
	87:  "map_push_elem",
	88:  "map_pop_elem",
	89:  "map_peek_elem",
	90:  "msg_push_data",
	91:  "msg_pop_data",
	92:  "rc_pointer_rel",
	93:  "spin_lock",
	94:  "spin_unlock",
	95:  "sk_fullsock",
	96:  "tcp_sock",
	97:  "skb_ecn_set_ce",
	98:  "get_listener_sock",
	99:  "skc_lookup_tcp",
	100: "tcp_check_syncookie",
	101: "sysctl_get_name",
	102: "sysctl_get_current_value",
	103: "sysctl_get_new_value",
	104: "sysctl_set_new_value",
	105: "strtol",
	106: "strtoul",
	107: "sk_storage_get",
	108: "sk_storage_delete",
	109: "send_signal",
	110: "tcp_gen_syncookie",
	111: "skb_output",
	112: "probe_read_user",
	113: "probe_read_kernel",
	114: "probe_read_user_str",
	115: "probe_read_kernel_str",
	116: "tcp_send_ack",
	117: "send_signal_thread",
	118: "jiffies64",
	119: "read_branch_records",
	120: "get_ns_current_pid_tgid",
	121: "xdp_output",
	122: "get_netns_cookie",
	123: "get_current_ancestor_cgroup_id",
	124: "sk_assign",
	125: "ktime_get_boot_ns",
	126: "seq_printf",
	127: "seq_write",
	128: "sk_cgroup_id",
	129: "sk_ancestor_cgroup_id",
	130: "ringbuf_output",
	131: "ringbuf_reserve",
	132: "ringbuf_submit",
	133: "ringbuf_discard",
	134: "ringbuf_query",
	135: "csum_level",
	136: "skc_to_tcp6_sock",
	137: "skc_to_tcp_sock",
	138: "skc_to_tcp_timewait_sock",
	139: "skc_to_tcp_request_sock",
	140: "skc_to_udp6_sock",
	141: "get_task_stack",
	145: "inode_storage_get",
	146: "inode_storage_delete",
	147: "d_path",
	148: "copy_from_user",
	164: "for_each_map_elem",
	166: "sys_bpf",
	187: "set_retval",
	195: "map_lookup_percpu_elem",
	197: "dynptr_from_mem",
	198: "ringbuf_reserve_dynptr",
	199: "ringbuf_submit_dynptr",
	200: "ringbuf_discard_dynptr",
	201: "dynptr_read",
	202: "dynptr_write",
	203: "dynptr_data",
}

// HelperName returns the symbolic name for a helper id, or "" if unknown.
func HelperName(id int) string {
	if id < 0 || id >= len(BPFFuncMapper) {
		return ""
	}
	return BPFFuncMapper[id]
}

// Well-known helper IDs, including the ones the asm package's wrapper
// functions call.
const (
	HelperMapLookupElem     = 1
	HelperMapUpdateElem     = 2
	HelperMapDeleteElem     = 3
	HelperProbeRead         = 4
	HelperKtimeGetNs        = 5
	HelperTracePrintk       = 6
	HelperTailCall          = 12
	HelperGetCurrentPidTgid = 14
	HelperPerfEventOutput   = 25
	HelperProbeReadStr      = 45
	HelperGetStackID        = 27
	HelperProbeReadUser     = 112
	HelperProbeReadKernel   = 113
	HelperProbeReadUserStr  = 114
	HelperProbeReadKernelStr = 115
	HelperRingbufOutput     = 130
	HelperRingbufReserve    = 131
	HelperRingbufSubmit     = 132
	HelperRingbufDiscard    = 133
)
