package gmserver

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// CodecName is the content subtype ChronicleService messages travel under.
const CodecName = "structpb"

func init() {
	encoding.RegisterCodec(structCodec{})
}

// structCodec carries plain Go message structs as protobuf-encoded
// google.protobuf.Struct values, using the structs' json tags as field
// names. Health and reflection keep the default proto codec; clients select
// this one per call with grpc.CallContentSubtype.
//
// Numbers travel as doubles, so integer fields are exact up to 2^53.
type structCodec struct{}

func (structCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	var s structpb.Struct
	if err := protojson.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("encoding %T as struct: %w", v, err)
	}
	return proto.Marshal(&s)
}

func (structCodec) Unmarshal(data []byte, v any) error {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding struct: %w", err)
	}
	js, err := protojson.Marshal(&s)
	if err != nil {
		return fmt.Errorf("decoding struct: %w", err)
	}
	if err := json.Unmarshal(js, v); err != nil {
		return fmt.Errorf("decoding %T: %w", v, err)
	}
	return nil
}

func (structCodec) Name() string { return CodecName }
