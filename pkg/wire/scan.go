package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// ErrShortBuffer data ended before all values were scanned.
var ErrShortBuffer = errors.New("wire: short buffer")

// Scan decodes values in order and returns the unconsumed remainder.
func Scan(data []byte, values ...interface{}) ([]byte, error) {
	var err error
	for _, v := range values {
		if data, err = scanOne(data, v); err != nil {
			return nil, err
		}
	}

	return data, nil
}

func scanOne(data []byte, v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case *int8:
		u, rest, err := readUint64(data)
		*x = int8(u)
		return rest, err
	case *int16:
		u, rest, err := readUint64(data)
		*x = int16(u)
		return rest, err
	case *int32:
		u, rest, err := readUint64(data)
		*x = int32(u)
		return rest, err
	case *int64:
		u, rest, err := readUint64(data)
		*x = int64(u)
		return rest, err
	case *int:
		u, rest, err := readUint64(data)
		*x = int(int64(u))
		return rest, err
	case *uint8:
		u, rest, err := readUint64(data)
		*x = uint8(u)
		return rest, err
	case *uint16:
		u, rest, err := readUint64(data)
		*x = uint16(u)
		return rest, err
	case *uint32:
		u, rest, err := readUint64(data)
		*x = uint32(u)
		return rest, err
	case *uint64:
		u, rest, err := readUint64(data)
		*x = u
		return rest, err
	case *bool:
		if len(data) < 1 {
			return nil, ErrShortBuffer
		}
		*x = data[0] != 0
		return data[1:], nil
	case *uuid.UUID:
		if len(data) < uuid.Size {
			return nil, ErrShortBuffer
		}
		id, err := uuid.FromBytes(data[:uuid.Size])
		if err != nil {
			return nil, err
		}
		*x = id
		return data[uuid.Size:], nil
	case *string:
		bts, rest, err := readBytes(data)
		*x = string(bts)
		return rest, err
	case *RawMessage:
		bts, rest, err := readBytes(data)
		*x = RawMessage(bts)
		return rest, err
	case *decimal.Decimal:
		bts, rest, err := readBytes(data)
		if err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(string(bts))
		if err != nil {
			return nil, err
		}
		*x = d
		return rest, nil
	case **big.Int:
		bts, rest, err := readBytes(data)
		if err != nil {
			return nil, err
		}
		*x = new(big.Int).SetBytes(bts)
		return rest, nil
	default:
		return nil, fmt.Errorf("wire: cannot scan into %T", v)
	}
}

func readUint64(data []byte) (uint64, []byte, error) {
	if len(data) < 8 {
		return 0, nil, ErrShortBuffer
	}

	return binary.BigEndian.Uint64(data[:8]), data[8:], nil
}

func readBytes(data []byte) ([]byte, []byte, error) {
	l, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, nil, ErrShortBuffer
	}
	data = data[n:]
	if uint64(len(data)) < l {
		return nil, nil, ErrShortBuffer
	}

	bts := make([]byte, l)
	copy(bts, data[:l])
	return bts, data[l:], nil
}
