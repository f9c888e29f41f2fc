// Package modem pins the concrete wire profile spoken by the mesh modem
// firmware: framing constants, the full message catalog, and typed helpers
// over the generic message model. Everything here is protocol data; the
// interpreting machinery lives in the parent packages.
package modem

import (
	"github.com/danmuck/modemlink/internal/protocol/crc"
	"github.com/danmuck/modemlink/internal/protocol/frame"
	"github.com/danmuck/modemlink/internal/protocol/schema"
)

// Message type identifiers from the modem UART contract.
const (
	TypePingRequest             schema.MessageType = 0x01
	TypePongResponse            schema.MessageType = 0x02
	TypeInitDeviceEvent         schema.MessageType = 0x03
	TypeCreateInstancesRequest  schema.MessageType = 0x04
	TypeCreateInstancesResponse schema.MessageType = 0x05
	TypeInitNodeEvent           schema.MessageType = 0x06
	TypeMeshMessageRequest      schema.MessageType = 0x07
	TypeStartNodeRequest        schema.MessageType = 0x09
	TypeStartNodeResponse       schema.MessageType = 0x0B
	TypeFactoryResetRequest     schema.MessageType = 0x0C
	TypeFactoryResetResponse    schema.MessageType = 0x0D
	TypeFactoryResetEvent       schema.MessageType = 0x0E
	TypeMeshMessageResponse     schema.MessageType = 0x0F
	TypeCurrentStateRequest     schema.MessageType = 0x10
	TypeCurrentStateResponse    schema.MessageType = 0x11
	TypeError                   schema.MessageType = 0x12
	TypeFirmwareVersionRequest  schema.MessageType = 0x13
	TypeFirmwareVersionResponse schema.MessageType = 0x14
	TypeSensorUpdateRequest     schema.MessageType = 0x15
	TypeAttentionEvent          schema.MessageType = 0x16
	TypeSoftResetRequest        schema.MessageType = 0x17
	TypeSoftResetResponse       schema.MessageType = 0x18
	TypeSensorUpdateResponse    schema.MessageType = 0x19
	TypeDeviceUUIDRequest       schema.MessageType = 0x1A
	TypeDeviceUUIDResponse      schema.MessageType = 0x1B
	TypeStartTestRequest        schema.MessageType = 0x20
	TypeStartTestResponse       schema.MessageType = 0x21
	TypeDfuInitRequest          schema.MessageType = 0x80
	TypeDfuInitResponse         schema.MessageType = 0x81
	TypeDfuStatusRequest        schema.MessageType = 0x82
	TypeDfuStatusResponse       schema.MessageType = 0x83
	TypeDfuPageCreateRequest    schema.MessageType = 0x84
	TypeDfuPageCreateResponse   schema.MessageType = 0x85
	TypeDfuWriteDataEvent       schema.MessageType = 0x86
	TypeDfuPageStoreRequest     schema.MessageType = 0x87
	TypeDfuPageStoreResponse    schema.MessageType = 0x88
	TypeDfuStateRequest         schema.MessageType = 0x89
	TypeDfuStateResponse        schema.MessageType = 0x8A
	TypeDfuCancelRequest        schema.MessageType = 0x8B
	TypeDfuCancelResponse       schema.MessageType = 0x8C
)

// Wire widths fixed by the modem contract.
const (
	ModelIDLen           = 2
	UUIDLen              = 16
	SHA256Len            = 32
	SensorSetupConfigLen = 10
)

// DefaultConfig is the framing profile the modem firmware ships with:
// 0xAA55 start marker, one-byte length and opcode, CRC-16 poly 0x8005.
func DefaultConfig() frame.Config {
	return frame.Config{
		Marker:      []byte{0xAA, 0x55},
		LengthWidth: 1,
		TypeWidth:   1,
		MaxPayload:  255,
		CRC:         crc.Modem,
	}
}
