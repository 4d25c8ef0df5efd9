package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Transactions is an ordered list of records that encodes to and decodes
// from the stored JSON array form, dispatching on the "type" tag.
type Transactions []Transaction

// MarshalJSON writes each record as a flat JSON object. Undecodable records
// are written back verbatim.
func (ts Transactions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, tx := range ts {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := encodeTransaction(tx)
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes strictly: any record that is not a known, well-formed
// variant fails the whole list.
func (ts *Transactions) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("transactions must be a JSON array: %w", err)
	}
	out := make(Transactions, 0, len(raws))
	for i, raw := range raws {
		tx, err := DecodeTransaction(raw)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, tx)
	}
	*ts = out
	return nil
}

// DecodeTransactionsLenient decodes a stored array. Records that fail to
// decode are kept as Unrecognized values and their errors returned so the
// caller can log them. Only a non-array payload is a hard error.
func DecodeTransactionsLenient(data []byte) (Transactions, []error, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, fmt.Errorf("transactions must be a JSON array: %w", err)
	}
	out := make(Transactions, 0, len(raws))
	var problems []error
	for i, raw := range raws {
		tx, err := DecodeTransaction(raw)
		if err != nil {
			problems = append(problems, fmt.Errorf("record %d: %w", i, err))
			tx = newUnrecognized(raw, err)
		}
		out = append(out, tx)
	}
	return out, problems, nil
}

// DecodeTransaction decodes a single record by its type tag.
func DecodeTransaction(raw []byte) (Transaction, error) {
	var tag struct {
		Type TransactionType `json:"type"`
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("null record")
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("could not identify record type: %w", err)
	}

	var tx Transaction
	var err error
	switch tag.Type {
	case TypeReceive:
		var r Receive
		err = json.Unmarshal(raw, &r)
		tx = r
	case TypePay:
		var p Pay
		err = json.Unmarshal(raw, &p)
		tx = p
	case TypeTransfer:
		var t Transfer
		err = json.Unmarshal(raw, &t)
		tx = t
	case TypeBuy:
		var b Buy
		err = json.Unmarshal(raw, &b)
		tx = b
	case TypeDelivery:
		var d Delivery
		err = json.Unmarshal(raw, &d)
		tx = d
	default:
		return nil, fmt.Errorf("unknown transaction type %q", tag.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s record: %w", tag.Type, err)
	}
	return tx, nil
}

func encodeTransaction(tx Transaction) ([]byte, error) {
	if tx == nil {
		return []byte("null"), nil
	}
	if u, ok := tx.(Unrecognized); ok {
		if len(u.Raw) == 0 {
			return []byte("null"), nil
		}
		return u.Raw, nil
	}
	return json.Marshal(WithHeader(tx, tx.Head()))
}

func newUnrecognized(raw []byte, cause error) Unrecognized {
	var loose struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		User string `json:"user"`
	}
	_ = json.Unmarshal(raw, &loose)
	return Unrecognized{
		Header: Header{ID: loose.ID, Type: TransactionType(loose.Type), User: loose.User},
		Raw:    append([]byte(nil), raw...),
		Cause:  cause.Error(),
	}
}
