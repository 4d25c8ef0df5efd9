package logging

// Field names shared by every log line that talks about ledger records,
// so output can be filtered the same way across commands.
const (
	FieldTransactionID = "transaction_id"
	FieldType          = "type"
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldPerson        = "person"
	FieldUser          = "user"
	FieldKey           = "key"
	FieldFile          = "file_path"
	FieldOperation     = "operation"
	FieldReason        = "reason"
	FieldError         = "error"
	FieldCount         = "count"
	FieldDuration      = "duration_ms"
	FieldComponent     = "component"
)

// F is shorthand for building a Field inline.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
