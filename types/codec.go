package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	collcodec "cosmossdk.io/collections/codec"
)

// Value codecs used by the keeper collections.
var (
	ParamsValueCodec            collcodec.ValueCodec[Params]            = NewJSONValueCodec[Params]()
	VaultStateValueCodec        collcodec.ValueCodec[VaultState]        = NewJSONValueCodec[VaultState]()
	AllocationValueCodec        collcodec.ValueCodec[Allocation]        = NewJSONValueCodec[Allocation]()
	TotalAllocatedValueCodec    collcodec.ValueCodec[TotalAllocated]    = NewJSONValueCodec[TotalAllocated]()
	WithdrawalRequestValueCodec collcodec.ValueCodec[WithdrawalRequest] = NewJSONValueCodec[WithdrawalRequest]()
)

type jsonValueCodec[T any] struct {
	name string
}

// NewJSONValueCodec returns a collections value codec storing T as compact JSON.
func NewJSONValueCodec[T any]() collcodec.ValueCodec[T] {
	var zero T
	return jsonValueCodec[T]{name: reflect.TypeOf(zero).String()}
}

func (c jsonValueCodec[T]) Encode(value T) ([]byte, error) {
	bz, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return bz, nil
}

func (c jsonValueCodec[T]) Decode(b []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return v, nil
}

func (c jsonValueCodec[T]) EncodeJSON(value T) ([]byte, error) { return c.Encode(value) }

func (c jsonValueCodec[T]) DecodeJSON(b []byte) (T, error) { return c.Decode(b) }

func (c jsonValueCodec[T]) Stringify(value T) string {
	bz, err := c.Encode(value)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", c.name, err)
	}
	return string(bz)
}

func (c jsonValueCodec[T]) ValueType() string {
	return "json/" + c.name
}
