package onnxml

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// Marshal serializes a model into protobuf wire bytes. Zero-valued scalar
// fields are omitted, so Parse(Marshal(m)) reproduces m up to proto3
// presence semantics.
func Marshal(m *ModelProto) ([]byte, error) {
	if m == nil {
		return nil, errors.New("marshal model: nil model")
	}
	e := &encoder{}
	m.marshal(e)
	return e.buf, nil
}

// WriteFile serializes a model to a file.
func WriteFile(path string, m *ModelProto) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}

// encoder accumulates one message's wire bytes. Nested messages are encoded
// into their own buffer first so the length prefix is known.
type encoder struct {
	buf []byte
}

type wireMarshaler interface {
	marshal(e *encoder)
}

func (e *encoder) writeTag(field, wireType int) {
	e.writeUvarint(uint64(field)<<3 | uint64(wireType)) //nolint:gosec // G115: field numbers are small constants.
}

func (e *encoder) writeUvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

func (e *encoder) writeVarintField(field int, v int64) {
	if v == 0 {
		return
	}
	e.writeTag(field, wireVarint)
	e.writeUvarint(uint64(v)) //nolint:gosec // G115: negative values take the 10-byte two's-complement form.
}

func (e *encoder) writeBytesField(field int, b []byte) {
	if len(b) == 0 {
		return
	}
	e.writeTag(field, wireBytes)
	e.writeUvarint(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

func (e *encoder) writeStringField(field int, s string) {
	if s == "" {
		return
	}
	e.writeTag(field, wireBytes)
	e.writeUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) writeFloatField(field int, f float32) {
	if f == 0 {
		return
	}
	e.writeTag(field, wire32Bit)
	e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(f))
}

func (e *encoder) writePackedFloats(field int, vals []float32) {
	if len(vals) == 0 {
		return
	}
	e.writeTag(field, wireBytes)
	e.writeUvarint(uint64(4 * len(vals)))
	for _, v := range vals {
		e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(v))
	}
}

func (e *encoder) writePackedVarints(field int, vals []int64) {
	if len(vals) == 0 {
		return
	}
	sub := &encoder{}
	for _, v := range vals {
		sub.writeUvarint(uint64(v)) //nolint:gosec // G115: two's-complement round-trips through the decoder.
	}
	e.writeBytesField(field, sub.buf)
}

func (e *encoder) writeMessage(field int, m wireMarshaler) {
	sub := &encoder{}
	m.marshal(sub)
	e.writeTag(field, wireBytes)
	e.writeUvarint(uint64(len(sub.buf)))
	e.buf = append(e.buf, sub.buf...)
}

func (m *ModelProto) marshal(e *encoder) {
	e.writeVarintField(1, m.IRVersion)
	e.writeStringField(2, m.ProducerName)
	e.writeStringField(3, m.ProducerVersion)
	e.writeStringField(4, m.Domain)
	e.writeVarintField(5, m.ModelVersion)
	e.writeStringField(6, m.DocString)
	if m.Graph != nil {
		e.writeMessage(7, m.Graph)
	}
	for i := range m.OpsetImport {
		e.writeMessage(8, &m.OpsetImport[i])
	}
	for i := range m.MetadataProps {
		e.writeMessage(14, &m.MetadataProps[i])
	}
}

func (m *GraphProto) marshal(e *encoder) {
	for i := range m.Nodes {
		e.writeMessage(1, &m.Nodes[i])
	}
	e.writeStringField(2, m.Name)
	for i := range m.Initializers {
		e.writeMessage(5, &m.Initializers[i])
	}
	e.writeStringField(10, m.DocString)
	for i := range m.Inputs {
		e.writeMessage(11, &m.Inputs[i])
	}
	for i := range m.Outputs {
		e.writeMessage(12, &m.Outputs[i])
	}
	for i := range m.ValueInfo {
		e.writeMessage(13, &m.ValueInfo[i])
	}
}

func (m *NodeProto) marshal(e *encoder) {
	for _, in := range m.Inputs {
		e.writeStringField(1, in)
	}
	for _, out := range m.Outputs {
		e.writeStringField(2, out)
	}
	e.writeStringField(3, m.Name)
	e.writeStringField(4, m.OpType)
	for i := range m.Attributes {
		e.writeMessage(5, &m.Attributes[i])
	}
	e.writeStringField(6, m.DocString)
	e.writeStringField(7, m.Domain)
}

func (m *AttributeProto) marshal(e *encoder) {
	e.writeStringField(1, m.Name)
	e.writeFloatField(2, m.F)
	e.writeVarintField(3, m.I)
	e.writeBytesField(4, m.S)
	e.writePackedFloats(7, m.Floats)
	e.writePackedVarints(8, m.Ints)
	for _, s := range m.Strings {
		e.writeBytesField(9, s)
	}
	e.writeStringField(13, m.DocString)
	e.writeVarintField(20, int64(m.Type))
}

func (m *TensorProto) marshal(e *encoder) {
	e.writePackedVarints(1, m.Dims)
	e.writeVarintField(2, int64(m.DataType))
	e.writePackedFloats(4, m.FloatData)
	if len(m.Int32Data) > 0 {
		vals := make([]int64, len(m.Int32Data))
		for i, v := range m.Int32Data {
			vals[i] = int64(v)
		}
		e.writePackedVarints(5, vals)
	}
	e.writePackedVarints(7, m.Int64Data)
	e.writeStringField(8, m.Name)
	e.writeBytesField(9, m.RawData)
	e.writeStringField(12, m.DocString)
}

func (m *ValueInfoProto) marshal(e *encoder) {
	e.writeStringField(1, m.Name)
	if m.Type != nil {
		e.writeMessage(2, m.Type)
	}
	e.writeStringField(3, m.DocString)
}

func (m *TypeProto) marshal(e *encoder) {
	if m.TensorType != nil {
		e.writeMessage(1, m.TensorType)
	}
}

func (m *TensorTypeProto) marshal(e *encoder) {
	e.writeVarintField(1, int64(m.ElemType))
	if m.Shape != nil {
		e.writeMessage(2, m.Shape)
	}
}

func (m *TensorShapeProto) marshal(e *encoder) {
	for i := range m.Dims {
		e.writeMessage(1, &m.Dims[i])
	}
}

func (m *DimensionProto) marshal(e *encoder) {
	e.writeVarintField(1, m.DimValue)
	e.writeStringField(2, m.DimParam)
}

func (m *OperatorSetID) marshal(e *encoder) {
	e.writeStringField(1, m.Domain)
	e.writeVarintField(2, m.Version)
}

func (m *StringStringEntry) marshal(e *encoder) {
	e.writeStringField(1, m.Key)
	e.writeStringField(2, m.Value)
}
