package modem

import "fmt"

// ModemState is the firmware's top-level state machine position.
type ModemState uint8

const (
	StateInitDevice ModemState = 0x00
	StateDevice     ModemState = 0x01
	StateInitNode   ModemState = 0x02
	StateNode       ModemState = 0x03
	StateUnknown    ModemState = 0xFF
)

func (s ModemState) String() string {
	switch s {
	case StateInitDevice:
		return "init_device"
	case StateDevice:
		return "device"
	case StateInitNode:
		return "init_node"
	case StateNode:
		return "node"
	case StateUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("state(0x%02X)", uint8(s))
	}
}

// ErrorCode is the reason carried by an error message from the modem.
type ErrorCode uint8

const (
	ErrCodeInvalidCRC          ErrorCode = 0x00
	ErrCodeInvalidCMD          ErrorCode = 0x01
	ErrCodeInvalidLen          ErrorCode = 0x02
	ErrCodeInvalidState        ErrorCode = 0x03
	ErrCodeInvalidParam        ErrorCode = 0x04
	ErrCodeTimeout             ErrorCode = 0x05
	ErrCodeNoLicenseForModel   ErrorCode = 0x06
	ErrCodeNoResourcesForModel ErrorCode = 0x07
	ErrCodeMeshRequestProcess  ErrorCode = 0x08
)

func (e ErrorCode) String() string {
	switch e {
	case ErrCodeInvalidCRC:
		return "invalid_crc"
	case ErrCodeInvalidCMD:
		return "invalid_cmd"
	case ErrCodeInvalidLen:
		return "invalid_len"
	case ErrCodeInvalidState:
		return "invalid_state"
	case ErrCodeInvalidParam:
		return "invalid_param"
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeNoLicenseForModel:
		return "no_license_for_model_registration"
	case ErrCodeNoResourcesForModel:
		return "no_resources_for_model_registration"
	case ErrCodeMeshRequestProcess:
		return "mesh_message_request_process_error"
	default:
		return fmt.Sprintf("error(0x%02X)", uint8(e))
	}
}

// DFUStatus is the firmware-update operation result set.
type DFUStatus uint8

const (
	DFUInvalidCode           DFUStatus = 0x00
	DFUSuccess               DFUStatus = 0x01
	DFUOpcodeNotSupported    DFUStatus = 0x02
	DFUInvalidParameter      DFUStatus = 0x03
	DFUInsufficientResources DFUStatus = 0x04
	DFUInvalidObject         DFUStatus = 0x05
	DFUUnsupportedType       DFUStatus = 0x07
	DFUOperationNotPermitted DFUStatus = 0x08
	DFUOperationFailed       DFUStatus = 0x0A
	DFUFirmwareUpdated       DFUStatus = 0xFF
)

// DfuState reports whether a firmware update is in flight.
type DfuState uint8

const (
	DfuNotInProgress DfuState = 0x00
	DfuInProgress    DfuState = 0x01
)

// AttentionState is the attention (identify) indicator level.
type AttentionState uint8

const (
	AttentionOff AttentionState = 0x00
	AttentionOn  AttentionState = 0x01
)

// FactoryResetSource names what triggered a factory reset.
type FactoryResetSource uint8

const (
	ResetSourceMesh FactoryResetSource = 0x00
	ResetSourcePin  FactoryResetSource = 0x01
	ResetSourceRFU  FactoryResetSource = 0x02
)

// ModelID is a mesh model identifier supported by the modem.
type ModelID uint16

const (
	ModelGenOnOffClient       ModelID = 0x1001
	ModelGenLevelClient       ModelID = 0x1003
	ModelGenPowerOnOffClient  ModelID = 0x1008
	ModelLightLightnessClient ModelID = 0x1302
	ModelLightLCClient        ModelID = 0x1311
	ModelSensorServer         ModelID = 0x1100
	ModelSensorSetupServer    ModelID = 0x1101
	ModelLightLightnessServer ModelID = 0x1300
	ModelLightLCServer        ModelID = 0x130F
	ModelSensorClient         ModelID = 0x1102
	ModelHealthServer         ModelID = 0x0002
	ModelHealthClient         ModelID = 0x0003
)

func modemStates() []uint64 {
	return []uint64{
		uint64(StateInitDevice), uint64(StateDevice), uint64(StateInitNode),
		uint64(StateNode), uint64(StateUnknown),
	}
}

func errorCodes() []uint64 {
	out := make([]uint64, 0, 9)
	for c := ErrCodeInvalidCRC; c <= ErrCodeMeshRequestProcess; c++ {
		out = append(out, uint64(c))
	}
	return out
}

func dfuStatuses() []uint64 {
	return []uint64{
		uint64(DFUInvalidCode), uint64(DFUSuccess), uint64(DFUOpcodeNotSupported),
		uint64(DFUInvalidParameter), uint64(DFUInsufficientResources),
		uint64(DFUInvalidObject), uint64(DFUUnsupportedType),
		uint64(DFUOperationNotPermitted), uint64(DFUOperationFailed),
		uint64(DFUFirmwareUpdated),
	}
}

func dfuStates() []uint64 {
	return []uint64{uint64(DfuNotInProgress), uint64(DfuInProgress)}
}

func attentionStates() []uint64 {
	return []uint64{uint64(AttentionOff), uint64(AttentionOn)}
}
