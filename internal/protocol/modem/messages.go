package modem

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/modemlink/internal/protocol"
	"github.com/danmuck/modemlink/internal/protocol/schema"
)

// Typed builders and accessors over the generic message model. Builders
// stage field values; schema validation runs when the codec encodes.

// NewEmpty stages one of the catalog's payload-less messages.
func NewEmpty(t schema.MessageType) *protocol.Message {
	return protocol.NewMessage(t, nil)
}

func NewPingRequest(data []byte) *protocol.Message {
	return protocol.NewMessage(TypePingRequest, map[string]protocol.Value{
		"data": protocol.NewBytes(data),
	})
}

func NewPongResponse(data []byte) *protocol.Message {
	return protocol.NewMessage(TypePongResponse, map[string]protocol.Value{
		"data": protocol.NewBytes(data),
	})
}

func NewCurrentStateResponse(state ModemState) *protocol.Message {
	return protocol.NewMessage(TypeCurrentStateResponse, map[string]protocol.Value{
		"state": protocol.NewEnum(uint64(state)),
	})
}

// StateOf reads the modem state out of a current_state_response.
func StateOf(m *protocol.Message) (ModemState, error) {
	v, err := m.Uint("state")
	if err != nil {
		return StateUnknown, err
	}
	return ModemState(v), nil
}

func NewError(code ErrorCode) *protocol.Message {
	return protocol.NewMessage(TypeError, map[string]protocol.Value{
		"error": protocol.NewEnum(uint64(code)),
	})
}

// ErrorCodeOf reads the reason out of an error message.
func ErrorCodeOf(m *protocol.Message) (ErrorCode, error) {
	v, err := m.Uint("error")
	if err != nil {
		return 0, err
	}
	return ErrorCode(v), nil
}

func NewAttentionEvent(state AttentionState) *protocol.Message {
	return protocol.NewMessage(TypeAttentionEvent, map[string]protocol.Value{
		"attention": protocol.NewEnum(uint64(state)),
	})
}

func NewMeshMessageRequest(instanceIndex, subIndex uint8, meshOpcode uint16, command []byte) *protocol.Message {
	return protocol.NewMessage(TypeMeshMessageRequest, map[string]protocol.Value{
		"instance_index": protocol.NewUint(uint64(instanceIndex)),
		"sub_index":      protocol.NewUint(uint64(subIndex)),
		"mesh_opcode":    protocol.NewUint(uint64(meshOpcode)),
		"mesh_command":   protocol.NewBytes(command),
	})
}

func NewMeshMessageResponse(instanceIndex, subIndex uint8) *protocol.Message {
	return protocol.NewMessage(TypeMeshMessageResponse, map[string]protocol.Value{
		"instance_index": protocol.NewUint(uint64(instanceIndex)),
		"sub_index":      protocol.NewUint(uint64(subIndex)),
	})
}

func NewFirmwareVersionResponse(version []byte) *protocol.Message {
	return protocol.NewMessage(TypeFirmwareVersionResponse, map[string]protocol.Value{
		"firmware_version": protocol.NewBytes(version),
	})
}

func NewSensorUpdateRequest(instanceIndex uint8, propertyID uint16, data []byte) *protocol.Message {
	return protocol.NewMessage(TypeSensorUpdateRequest, map[string]protocol.Value{
		"instance_index": protocol.NewUint(uint64(instanceIndex)),
		"property_id":    protocol.NewUint(uint64(propertyID)),
		"data":           protocol.NewBytes(data),
	})
}

func NewDeviceUUIDResponse(uuid [UUIDLen]byte) *protocol.Message {
	return protocol.NewMessage(TypeDeviceUUIDResponse, map[string]protocol.Value{
		"uuid": protocol.NewBytes(uuid[:]),
	})
}

func NewStartTestRequest(companyID uint16, testID, instanceIndex uint8) *protocol.Message {
	return protocol.NewMessage(TypeStartTestRequest, map[string]protocol.Value{
		"company_id":     protocol.NewUint(uint64(companyID)),
		"test_id":        protocol.NewUint(uint64(testID)),
		"instance_index": protocol.NewUint(uint64(instanceIndex)),
	})
}

func NewDfuInitRequest(firmwareSize uint32, sha256 [SHA256Len]byte, appData []byte) *protocol.Message {
	return protocol.NewMessage(TypeDfuInitRequest, map[string]protocol.Value{
		"firmware_size":   protocol.NewUint(uint64(firmwareSize)),
		"firmware_sha256": protocol.NewBytes(sha256[:]),
		"app_data_length": protocol.NewUint(uint64(len(appData))),
		"app_data":        protocol.NewBytes(appData),
	})
}

func NewDfuStatusResponse(status DFUStatus, pageSize, offset, firmwareCRC uint32) *protocol.Message {
	return protocol.NewMessage(TypeDfuStatusResponse, map[string]protocol.Value{
		"status":              protocol.NewEnum(uint64(status)),
		"supported_page_size": protocol.NewUint(uint64(pageSize)),
		"firmware_offset":     protocol.NewUint(uint64(offset)),
		"firmware_crc":        protocol.NewUint(uint64(firmwareCRC)),
	})
}

func NewDfuWriteDataEvent(data []byte) *protocol.Message {
	return protocol.NewMessage(TypeDfuWriteDataEvent, map[string]protocol.Value{
		"data_len": protocol.NewUint(uint64(len(data))),
		"data":     protocol.NewBytes(data),
	})
}

// NewInitDeviceEvent stages the model list announced when the modem boots
// unprovisioned.
func NewInitDeviceEvent(models []ModelID) *protocol.Message {
	return protocol.NewMessage(TypeInitDeviceEvent, map[string]protocol.Value{
		"model_ids": protocol.NewBytes(packModelIDs(models)),
	})
}

func NewInitNodeEvent(models []ModelID) *protocol.Message {
	return protocol.NewMessage(TypeInitNodeEvent, map[string]protocol.Value{
		"model_ids": protocol.NewBytes(packModelIDs(models)),
	})
}

func NewCreateInstancesResponse(models []ModelID) *protocol.Message {
	return protocol.NewMessage(TypeCreateInstancesResponse, map[string]protocol.Value{
		"model_ids": protocol.NewBytes(packModelIDs(models)),
	})
}

// ModelIDsOf unpacks a model_ids list field.
func ModelIDsOf(m *protocol.Message) ([]ModelID, error) {
	raw, err := m.Bytes("model_ids")
	if err != nil {
		return nil, err
	}
	if len(raw)%ModelIDLen != 0 {
		return nil, fmt.Errorf("modem: model list length %d not a multiple of %d", len(raw), ModelIDLen)
	}
	out := make([]ModelID, 0, len(raw)/ModelIDLen)
	for i := 0; i < len(raw); i += ModelIDLen {
		out = append(out, ModelID(binary.LittleEndian.Uint16(raw[i:])))
	}
	return out, nil
}

func packModelIDs(models []ModelID) []byte {
	buf := make([]byte, 0, len(models)*ModelIDLen)
	for _, id := range models {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(id))
	}
	return buf
}

// ModelDesc is one entry of a create_instances_request: a model identifier
// plus, for the sensor setup server model only, a fixed-size configuration
// blob.
type ModelDesc struct {
	ID     ModelID
	Config []byte
}

func (d ModelDesc) wireLen() int {
	if d.ID == ModelSensorSetupServer {
		return ModelIDLen + SensorSetupConfigLen
	}
	return ModelIDLen
}

// NewCreateInstancesRequest stages a model instantiation request. Configs
// on models other than the sensor setup server are rejected at encode by
// the description codec.
func NewCreateInstancesRequest(descs []ModelDesc) (*protocol.Message, error) {
	raw, err := packModelDescs(descs)
	if err != nil {
		return nil, err
	}
	return protocol.NewMessage(TypeCreateInstancesRequest, map[string]protocol.Value{
		"model_descs": protocol.NewBytes(raw),
	}), nil
}

// ModelDescsOf unpacks the model_descs field of a create_instances_request.
func ModelDescsOf(m *protocol.Message) ([]ModelDesc, error) {
	raw, err := m.Bytes("model_descs")
	if err != nil {
		return nil, err
	}
	var out []ModelDesc
	for i := 0; i < len(raw); {
		if len(raw)-i < ModelIDLen {
			return nil, fmt.Errorf("modem: truncated model description at offset %d", i)
		}
		d := ModelDesc{ID: ModelID(binary.LittleEndian.Uint16(raw[i:]))}
		i += ModelIDLen
		if d.ID == ModelSensorSetupServer {
			if len(raw)-i < SensorSetupConfigLen {
				return nil, fmt.Errorf("modem: truncated sensor setup config at offset %d", i)
			}
			d.Config = append([]byte(nil), raw[i:i+SensorSetupConfigLen]...)
			i += SensorSetupConfigLen
		}
		out = append(out, d)
	}
	return out, nil
}

func packModelDescs(descs []ModelDesc) ([]byte, error) {
	var buf []byte
	for _, d := range descs {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(d.ID))
		if d.ID == ModelSensorSetupServer {
			if len(d.Config) != SensorSetupConfigLen {
				return nil, fmt.Errorf("modem: sensor setup config must be %d bytes, got %d", SensorSetupConfigLen, len(d.Config))
			}
			buf = append(buf, d.Config...)
			continue
		}
		if len(d.Config) != 0 {
			return nil, fmt.Errorf("modem: model 0x%04X does not carry configuration", uint16(d.ID))
		}
	}
	return buf, nil
}
