package postgres

import (
	"strings"

	"github.com/jackc/pgx"
	"github.com/jackc/pgx/pgtype"
	"github.com/pkg/errors"
	"github.com/streamdal/pgoutput"
)

// ChangeRecord represents a single change to a table
type ChangeRecord struct {
	LSN       string                 `json:"lsn"`
	XID       int32                  `json:"xid"`
	Timestamp int64                  `json:"timestamp"`
	Table     string                 `json:"table"`
	Operation string                 `json:"operation"`
	Fields    map[string]interface{} `json:"fields"`
	OldFields map[string]interface{} `json:"old_fields,omitempty"`
}

// Decoder turns pgoutput payloads into ChangeRecords. It keeps the relation
// and transaction state of the stream, so it has to see every message in
// order.
type Decoder struct {
	set     *pgoutput.RelationSet
	current *ChangeRecord
}

func NewDecoder() *Decoder {
	return &Decoder{
		set:     pgoutput.NewRelationSet(nil),
		current: &ChangeRecord{},
	}
}

// Decode returns the change carried by payload. Messages that only update
// decoder state (begin, commit, relation, ...) return nil.
func (d *Decoder) Decode(payload []byte) (*ChangeRecord, error) {
	if len(payload) == 0 {
		return nil, errors.New("empty payload")
	}

	msg, err := pgoutput.Parse(payload)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse pgoutput message")
	}

	switch v := msg.(type) {
	case pgoutput.Begin:
		d.current = &ChangeRecord{
			Timestamp: v.Timestamp.UTC().UnixNano(),
			XID:       v.XID,
			LSN:       pgx.FormatLSN(v.LSN),
		}
	case pgoutput.Relation:
		d.set.Add(v)
	case pgoutput.Insert:
		return d.record(v.RelationID, "insert", v.Row, nil, false)
	case pgoutput.Update:
		return d.record(v.RelationID, "update", v.Row, v.OldRow, v.Key)
	case pgoutput.Delete:
		return d.record(v.RelationID, "delete", v.Row, nil, false)
	case pgoutput.Truncate:
		return d.truncate(v)
	}

	return nil, nil
}

func (d *Decoder) record(relationID pgtype.OID, operation string, row, oldRow []pgoutput.Tuple, oldKeyOnly bool) (*ChangeRecord, error) {
	relation, ok := d.set.Get(relationID)
	if !ok {
		return nil, errors.Errorf("relation %d not found", relationID)
	}

	// Deletes only carry the replica identity, other columns arrive as NULL
	fields, err := tupleValues(relation, row, operation == "delete")
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse values")
	}

	record := d.newRecord(relation, operation)
	record.Fields = fields

	if len(oldRow) > 0 {
		record.OldFields, err = tupleValues(relation, oldRow, oldKeyOnly)
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse old values")
		}
	}

	return record, nil
}

// tupleValues decodes row by column name. NULLs decode to nil, or are left
// out when keyOnly is set. Unchanged TOASTed columns are left out, their
// value is not part of the stream.
func tupleValues(relation pgoutput.Relation, row []pgoutput.Tuple, keyOnly bool) (map[string]interface{}, error) {
	if len(row) > len(relation.Columns) {
		return nil, errors.Errorf("tuple has %d columns, relation '%s' has %d",
			len(row), relation.Name, len(relation.Columns))
	}

	values := make(map[string]interface{}, len(row))

	for i, tuple := range row {
		col := relation.Columns[i]

		switch tuple.Flag {
		case pgoutput.TupleKindNull:
			if !keyOnly {
				values[col.Name] = nil
			}
		case pgoutput.TupleKindToasted:
		default:
			decoder := col.Decoder()

			if err := decoder.DecodeText(nil, tuple.Value); err != nil {
				return nil, errors.Wrapf(err, "unable to decode column '%s'", col.Name)
			}

			values[col.Name] = decoder.Get()
		}
	}

	return values, nil
}

func (d *Decoder) truncate(v pgoutput.Truncate) (*ChangeRecord, error) {
	names := make([]string, 0, len(v.RelationOIDs))

	for _, id := range v.RelationOIDs {
		relation, ok := d.set.Get(id)
		if !ok {
			return nil, errors.Errorf("relation %d not found", id)
		}

		names = append(names, qualifiedName(relation))
	}

	record := d.newRecord(pgoutput.Relation{}, "truncate")
	record.Table = strings.Join(names, ",")

	return record, nil
}

func (d *Decoder) newRecord(relation pgoutput.Relation, operation string) *ChangeRecord {
	return &ChangeRecord{
		LSN:       d.current.LSN,
		XID:       d.current.XID,
		Timestamp: d.current.Timestamp,
		Table:     qualifiedName(relation),
		Operation: operation,
		Fields:    make(map[string]interface{}),
	}
}

func qualifiedName(relation pgoutput.Relation) string {
	if relation.Namespace == "" || relation.Namespace == "public" {
		return relation.Name
	}

	return relation.Namespace + "." + relation.Name
}
