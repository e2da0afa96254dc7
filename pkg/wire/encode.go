// Package wire is the binary codec for cross-chain payloads. Values are
// written in order with fixed-width integers and length-prefixed variable
// fields, so both ends can decode without a schema.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// RawMessage opaque bytes, encoded with a length prefix.
type RawMessage []byte

// Encode encodes the values in order.
func Encode(values ...interface{}) ([]byte, error) {
	var buf bytes.Buffer
	for _, v := range values {
		if err := encodeOne(&buf, v); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func encodeOne(buf *bytes.Buffer, v interface{}) error {
	switch x := v.(type) {
	case int8:
		return writeUint64(buf, uint64(x))
	case int16:
		return writeUint64(buf, uint64(x))
	case int32:
		return writeUint64(buf, uint64(x))
	case int64:
		return writeUint64(buf, uint64(x))
	case int:
		return writeUint64(buf, uint64(int64(x)))
	case uint8:
		return writeUint64(buf, uint64(x))
	case uint16:
		return writeUint64(buf, uint64(x))
	case uint32:
		return writeUint64(buf, uint64(x))
	case uint64:
		return writeUint64(buf, x)
	case bool:
		if x {
			return buf.WriteByte(1)
		}
		return buf.WriteByte(0)
	case uuid.UUID:
		_, err := buf.Write(x.Bytes())
		return err
	case string:
		return writeBytes(buf, []byte(x))
	case RawMessage:
		return writeBytes(buf, x)
	case []byte:
		return writeBytes(buf, x)
	case decimal.Decimal:
		return writeBytes(buf, []byte(x.String()))
	case *big.Int:
		if x.Sign() < 0 {
			return fmt.Errorf("wire: negative big.Int not supported")
		}
		return writeBytes(buf, x.Bytes())
	default:
		return fmt.Errorf("wire: cannot encode %T", v)
	}
}

func writeUint64(buf *bytes.Buffer, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, err := buf.Write(b[:])
	return err
}

func writeBytes(buf *bytes.Buffer, bts []byte) error {
	var lb [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lb[:], uint64(len(bts)))
	if _, err := buf.Write(lb[:n]); err != nil {
		return err
	}
	_, err := buf.Write(bts)
	return err
}
