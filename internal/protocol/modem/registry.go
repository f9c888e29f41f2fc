package modem

import "github.com/danmuck/modemlink/internal/protocol/schema"

// NewRegistry seeds a registry with the complete modem message catalog.
// Seeding a static catalog cannot collide, so failures panic: a broken
// profile must stop the process before any stream is opened.
func NewRegistry() *schema.Registry {
	r := schema.NewRegistry()
	for _, s := range catalog() {
		r.MustRegister(s)
	}
	return r
}

func uintField(name string, width int) schema.FieldSchema {
	return schema.FieldSchema{Name: name, Kind: schema.KindUint, Width: width}
}

func enumField(name string, allowed []uint64) schema.FieldSchema {
	return schema.FieldSchema{Name: name, Kind: schema.KindEnum, Width: 1, Allowed: allowed}
}

func bytesField(name string, width int) schema.FieldSchema {
	return schema.FieldSchema{Name: name, Kind: schema.KindBytes, Width: width}
}

func tailField(name string) schema.FieldSchema {
	return schema.FieldSchema{Name: name, Kind: schema.KindBytes}
}

func modelListField(name string) schema.FieldSchema {
	return schema.FieldSchema{Name: name, Kind: schema.KindBytes, Multiple: ModelIDLen}
}

func empty(t schema.MessageType, name string) schema.MessageSchema {
	return schema.MustNew(t, name)
}

func catalog() []schema.MessageSchema {
	return []schema.MessageSchema{
		schema.MustNew(TypePingRequest, "ping_request", tailField("data")),
		schema.MustNew(TypePongResponse, "pong_response", tailField("data")),
		schema.MustNew(TypeInitDeviceEvent, "init_device_event", modelListField("model_ids")),
		schema.MustNew(TypeCreateInstancesRequest, "create_instances_request", tailField("model_descs")),
		schema.MustNew(TypeCreateInstancesResponse, "create_instances_response", modelListField("model_ids")),
		schema.MustNew(TypeInitNodeEvent, "init_node_event", modelListField("model_ids")),
		schema.MustNew(TypeMeshMessageRequest, "mesh_message_request",
			uintField("instance_index", 1),
			uintField("sub_index", 1),
			uintField("mesh_opcode", 2),
			tailField("mesh_command"),
		),
		empty(TypeStartNodeRequest, "start_node_request"),
		empty(TypeStartNodeResponse, "start_node_response"),
		empty(TypeFactoryResetRequest, "factory_reset_request"),
		empty(TypeFactoryResetResponse, "factory_reset_response"),
		empty(TypeFactoryResetEvent, "factory_reset_event"),
		schema.MustNew(TypeMeshMessageResponse, "mesh_message_response",
			uintField("instance_index", 1),
			uintField("sub_index", 1),
		),
		empty(TypeCurrentStateRequest, "current_state_request"),
		schema.MustNew(TypeCurrentStateResponse, "current_state_response",
			enumField("state", modemStates()),
		),
		schema.MustNew(TypeError, "error", enumField("error", errorCodes())),
		empty(TypeFirmwareVersionRequest, "firmware_version_request"),
		schema.MustNew(TypeFirmwareVersionResponse, "firmware_version_response",
			tailField("firmware_version"),
		),
		schema.MustNew(TypeSensorUpdateRequest, "sensor_update_request",
			uintField("instance_index", 1),
			uintField("property_id", 2),
			tailField("data"),
		),
		schema.MustNew(TypeAttentionEvent, "attention_event",
			enumField("attention", attentionStates()),
		),
		empty(TypeSoftResetRequest, "soft_reset_request"),
		empty(TypeSoftResetResponse, "soft_reset_response"),
		empty(TypeSensorUpdateResponse, "sensor_update_response"),
		empty(TypeDeviceUUIDRequest, "device_uuid_request"),
		schema.MustNew(TypeDeviceUUIDResponse, "device_uuid_response",
			bytesField("uuid", UUIDLen),
		),
		schema.MustNew(TypeStartTestRequest, "start_test_request",
			uintField("company_id", 2),
			uintField("test_id", 1),
			uintField("instance_index", 1),
		),
		empty(TypeStartTestResponse, "start_test_response"),
		schema.MustNew(TypeDfuInitRequest, "dfu_init_request",
			uintField("firmware_size", 4),
			bytesField("firmware_sha256", SHA256Len),
			uintField("app_data_length", 1),
			tailField("app_data"),
		),
		schema.MustNew(TypeDfuInitResponse, "dfu_init_response",
			enumField("status", dfuStatuses()),
		),
		empty(TypeDfuStatusRequest, "dfu_status_request"),
		schema.MustNew(TypeDfuStatusResponse, "dfu_status_response",
			enumField("status", dfuStatuses()),
			uintField("supported_page_size", 4),
			uintField("firmware_offset", 4),
			uintField("firmware_crc", 4),
		),
		schema.MustNew(TypeDfuPageCreateRequest, "dfu_page_create_request",
			uintField("requested_page_size", 4),
		),
		schema.MustNew(TypeDfuPageCreateResponse, "dfu_page_create_response",
			enumField("status", dfuStatuses()),
		),
		schema.MustNew(TypeDfuWriteDataEvent, "dfu_write_data_event",
			uintField("data_len", 1),
			tailField("data"),
		),
		empty(TypeDfuPageStoreRequest, "dfu_page_store_request"),
		schema.MustNew(TypeDfuPageStoreResponse, "dfu_page_store_response",
			enumField("status", dfuStatuses()),
		),
		empty(TypeDfuStateRequest, "dfu_state_request"),
		schema.MustNew(TypeDfuStateResponse, "dfu_state_response",
			enumField("status", dfuStates()),
		),
		empty(TypeDfuCancelRequest, "dfu_cancel_request"),
		empty(TypeDfuCancelResponse, "dfu_cancel_response"),
	}
}
