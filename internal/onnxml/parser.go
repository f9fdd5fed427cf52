// Package onnxml parses and serializes ONNX models carrying classical-ML
// operators, and adapts a parsed graph to the IR builder's source-graph
// view. The wire codec is a hand-written protobuf subset: varint, fixed32
// and length-delimited fields, with everything unknown skipped.
package onnxml

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ParseFile parses a serialized model from a file.
//
//nolint:gosec // G304: path is caller-provided, loading it is the point.
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return Parse(data)
}

// Parse parses a serialized model from protobuf wire bytes.
func Parse(data []byte) (*ModelProto, error) {
	model := &ModelProto{}
	if err := model.unmarshal(&decoder{data: data}); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	return model, nil
}

// Protobuf wire types.
const (
	wireVarint = 0
	wire64Bit  = 1
	wireBytes  = 2
	wire32Bit  = 5
)

// decoder is a cursor over one message's wire bytes. Nested messages get
// their own decoder over the length-delimited payload.
type decoder struct {
	data []byte
	pos  int
}

// wireMessage is implemented by every proto struct in this package.
type wireMessage interface {
	unmarshal(d *decoder) error
}

func (d *decoder) more() bool { return d.pos < len(d.data) }

// readSub decodes a length-delimited nested message.
func (d *decoder) readSub(m wireMessage) error {
	data, err := d.readBytes()
	if err != nil {
		return err
	}
	return m.unmarshal(&decoder{data: data})
}

func (d *decoder) readTag() (fieldNum, wireType int, err error) {
	tag, err := d.readVarint()
	if err != nil {
		return 0, 0, err
	}
	return int(tag >> 3), int(tag & 0x7), nil
}

func (d *decoder) readVarint() (int64, error) {
	var result uint64
	var shift uint
	for {
		if d.pos >= len(d.data) {
			return 0, io.ErrUnexpectedEOF
		}
		b := d.data[d.pos]
		d.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New("varint overflow")
		}
	}
	return int64(result), nil //nolint:gosec // G115: wire varints are int64 by contract.
}

func (d *decoder) readInt32() (int32, error) {
	v, err := d.readVarint()
	if err != nil {
		return 0, err
	}
	return int32(v), nil //nolint:gosec // G115: enum fields fit in int32.
}

func (d *decoder) readBytes() ([]byte, error) {
	length, err := d.readVarint()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, errors.New("negative length")
	}
	end := d.pos + int(length)
	if end > len(d.data) {
		return nil, io.ErrUnexpectedEOF
	}
	result := d.data[d.pos:end]
	d.pos = end
	return result, nil
}

func (d *decoder) readString() (string, error) {
	data, err := d.readBytes()
	return string(data), err
}

func (d *decoder) readFloat32() (float32, error) {
	if d.pos+4 > len(d.data) {
		return 0, io.ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return math.Float32frombits(bits), nil
}

// appendFloats handles a repeated float field in packed or unpacked form.
func (d *decoder) appendFloats(dst []float32, wireType int) ([]float32, error) {
	if wireType != wireBytes {
		v, err := d.readFloat32()
		if err != nil {
			return dst, err
		}
		return append(dst, v), nil
	}
	data, err := d.readBytes()
	if err != nil {
		return dst, err
	}
	for i := 0; i+4 <= len(data); i += 4 {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(data[i:])))
	}
	return dst, nil
}

// appendInts handles a repeated int64 field in packed or unpacked form.
func (d *decoder) appendInts(dst []int64, wireType int) ([]int64, error) {
	if wireType != wireBytes {
		v, err := d.readVarint()
		if err != nil {
			return dst, err
		}
		return append(dst, v), nil
	}
	data, err := d.readBytes()
	if err != nil {
		return dst, err
	}
	sub := &decoder{data: data}
	for sub.more() {
		v, err := sub.readVarint()
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

func (d *decoder) skipField(wireType int) error {
	switch wireType {
	case wireVarint:
		_, err := d.readVarint()
		return err
	case wire64Bit:
		if d.pos+8 > len(d.data) {
			return io.ErrUnexpectedEOF
		}
		d.pos += 8
		return nil
	case wireBytes:
		_, err := d.readBytes()
		return err
	case wire32Bit:
		if d.pos+4 > len(d.data) {
			return io.ErrUnexpectedEOF
		}
		d.pos += 4
		return nil
	default:
		return fmt.Errorf("unknown wire type %d", wireType)
	}
}

func (m *ModelProto) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.IRVersion, err = d.readVarint()
		case 2:
			m.ProducerName, err = d.readString()
		case 3:
			m.ProducerVersion, err = d.readString()
		case 4:
			m.Domain, err = d.readString()
		case 5:
			m.ModelVersion, err = d.readVarint()
		case 6:
			m.DocString, err = d.readString()
		case 7:
			m.Graph = &GraphProto{}
			err = d.readSub(m.Graph)
		case 8:
			var opset OperatorSetID
			if err = d.readSub(&opset); err == nil {
				m.OpsetImport = append(m.OpsetImport, opset)
			}
		case 14:
			var entry StringStringEntry
			if err = d.readSub(&entry); err == nil {
				m.MetadataProps = append(m.MetadataProps, entry)
			}
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *GraphProto) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			var node NodeProto
			if err = d.readSub(&node); err == nil {
				m.Nodes = append(m.Nodes, node)
			}
		case 2:
			m.Name, err = d.readString()
		case 5:
			var init TensorProto
			if err = d.readSub(&init); err == nil {
				m.Initializers = append(m.Initializers, init)
			}
		case 10:
			m.DocString, err = d.readString()
		case 11:
			var vi ValueInfoProto
			if err = d.readSub(&vi); err == nil {
				m.Inputs = append(m.Inputs, vi)
			}
		case 12:
			var vi ValueInfoProto
			if err = d.readSub(&vi); err == nil {
				m.Outputs = append(m.Outputs, vi)
			}
		case 13:
			var vi ValueInfoProto
			if err = d.readSub(&vi); err == nil {
				m.ValueInfo = append(m.ValueInfo, vi)
			}
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *NodeProto) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			var in string
			if in, err = d.readString(); err == nil {
				m.Inputs = append(m.Inputs, in)
			}
		case 2:
			var out string
			if out, err = d.readString(); err == nil {
				m.Outputs = append(m.Outputs, out)
			}
		case 3:
			m.Name, err = d.readString()
		case 4:
			m.OpType, err = d.readString()
		case 5:
			var attr AttributeProto
			if err = d.readSub(&attr); err == nil {
				m.Attributes = append(m.Attributes, attr)
			}
		case 6:
			m.DocString, err = d.readString()
		case 7:
			m.Domain, err = d.readString()
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *AttributeProto) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Name, err = d.readString()
		case 2:
			m.F, err = d.readFloat32()
		case 3:
			m.I, err = d.readVarint()
		case 4:
			m.S, err = d.readBytes()
		case 7:
			m.Floats, err = d.appendFloats(m.Floats, wire)
		case 8:
			m.Ints, err = d.appendInts(m.Ints, wire)
		case 9:
			var s []byte
			if s, err = d.readBytes(); err == nil {
				m.Strings = append(m.Strings, s)
			}
		case 13:
			m.DocString, err = d.readString()
		case 20:
			m.Type, err = d.readInt32()
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *TensorProto) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Dims, err = d.appendInts(m.Dims, wire)
		case 2:
			m.DataType, err = d.readInt32()
		case 4:
			m.FloatData, err = d.appendFloats(m.FloatData, wire)
		case 5:
			var vals []int64
			if vals, err = d.appendInts(nil, wire); err == nil {
				for _, v := range vals {
					m.Int32Data = append(m.Int32Data, int32(v)) //nolint:gosec // G115: int32_data fits by schema.
				}
			}
		case 7:
			m.Int64Data, err = d.appendInts(m.Int64Data, wire)
		case 8:
			m.Name, err = d.readString()
		case 9:
			m.RawData, err = d.readBytes()
		case 12:
			m.DocString, err = d.readString()
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *ValueInfoProto) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Name, err = d.readString()
		case 2:
			m.Type = &TypeProto{}
			err = d.readSub(m.Type)
		case 3:
			m.DocString, err = d.readString()
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *TypeProto) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.TensorType = &TensorTypeProto{}
			err = d.readSub(m.TensorType)
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *TensorTypeProto) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.ElemType, err = d.readInt32()
		case 2:
			m.Shape = &TensorShapeProto{}
			err = d.readSub(m.Shape)
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *TensorShapeProto) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			var dim DimensionProto
			if err = d.readSub(&dim); err == nil {
				m.Dims = append(m.Dims, dim)
			}
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *DimensionProto) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.DimValue, err = d.readVarint()
		case 2:
			m.DimParam, err = d.readString()
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *OperatorSetID) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Domain, err = d.readString()
		case 2:
			m.Version, err = d.readVarint()
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *StringStringEntry) unmarshal(d *decoder) error {
	for d.more() {
		field, wire, err := d.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Key, err = d.readString()
		case 2:
			m.Value, err = d.readString()
		default:
			err = d.skipField(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
