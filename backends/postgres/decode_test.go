package postgres

import (
	"bytes"
	"encoding/binary"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// pgoutput message builders

type msgBuilder struct {
	bytes.Buffer
}

func (b *msgBuilder) u8(v uint8) *msgBuilder {
	b.WriteByte(v)
	return b
}

func (b *msgBuilder) u16(v uint16) *msgBuilder {
	binary.Write(b, binary.BigEndian, v)
	return b
}

func (b *msgBuilder) u32(v uint32) *msgBuilder {
	binary.Write(b, binary.BigEndian, v)
	return b
}

func (b *msgBuilder) u64(v uint64) *msgBuilder {
	binary.Write(b, binary.BigEndian, v)
	return b
}

func (b *msgBuilder) str(s string) *msgBuilder {
	b.WriteString(s)
	b.WriteByte(0)
	return b
}

// unchanged marks an unchanged TOASTed column in tuple()
var unchanged = new(string)

// tuple appends tuple data; nil entries are NULL
func (b *msgBuilder) tuple(values ...*string) *msgBuilder {
	b.u16(uint16(len(values)))

	for _, v := range values {
		if v == nil {
			b.u8('n')
			continue
		}

		if v == unchanged {
			b.u8('u')
			continue
		}

		b.u8('t').u32(uint32(len(*v)))
		b.WriteString(*v)
	}

	return b
}

func text(s string) *string {
	return &s
}

const (
	int4OID = 23
	textOID = 25
)

func beginMessage(lsn uint64, ts time.Time, xid int32) []byte {
	micros := ts.Sub(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)) / time.Microsecond

	b := &msgBuilder{}
	b.u8('B').u64(lsn).u64(uint64(micros)).u32(uint32(xid))

	return b.Bytes()
}

func relationMessage(id uint32, namespace, name string) []byte {
	b := &msgBuilder{}
	b.u8('R').u32(id).str(namespace).str(name).u8('d').u16(2)
	b.u8(1).str("id").u32(int4OID).u32(0xFFFFFFFF)
	b.u8(0).str("name").u32(textOID).u32(0xFFFFFFFF)

	return b.Bytes()
}

func insertMessage(id uint32, values ...*string) []byte {
	b := &msgBuilder{}
	b.u8('I').u32(id).u8('N').tuple(values...)

	return b.Bytes()
}

func updateMessage(id uint32, old []*string, values ...*string) []byte {
	b := &msgBuilder{}
	b.u8('U').u32(id).u8('O').tuple(old...).u8('N').tuple(values...)

	return b.Bytes()
}

func deleteMessage(id uint32, values ...*string) []byte {
	b := &msgBuilder{}
	b.u8('D').u32(id).u8('K').tuple(values...)

	return b.Bytes()
}

var _ = Describe("Decoder", func() {
	var decoder *Decoder

	ts := time.Date(2019, 6, 16, 6, 21, 39, 0, time.UTC)

	BeforeEach(func() {
		decoder = NewDecoder()

		record, err := decoder.Decode(beginMessage(0x16B3748, ts, 571))
		Expect(err).ToNot(HaveOccurred())
		Expect(record).To(BeNil())

		record, err = decoder.Decode(relationMessage(16384, "public", "users"))
		Expect(err).ToNot(HaveOccurred())
		Expect(record).To(BeNil())
	})

	It("decodes inserts", func() {
		record, err := decoder.Decode(insertMessage(16384, text("1"), text("alice")))
		Expect(err).ToNot(HaveOccurred())

		Expect(record.LSN).To(Equal("0/16B3748"))
		Expect(record.XID).To(Equal(int32(571)))
		Expect(record.Timestamp).To(Equal(ts.UnixNano()))
		Expect(record.Table).To(Equal("users"))
		Expect(record.Operation).To(Equal("insert"))
		Expect(record.Fields).To(HaveKeyWithValue("id", int32(1)))
		Expect(record.Fields).To(HaveKeyWithValue("name", "alice"))
	})

	It("decodes updates with old values", func() {
		record, err := decoder.Decode(updateMessage(16384,
			[]*string{text("1"), text("alice")},
			text("1"), text("bob")))
		Expect(err).ToNot(HaveOccurred())

		Expect(record.Operation).To(Equal("update"))
		Expect(record.Fields).To(HaveKeyWithValue("name", "bob"))
		Expect(record.OldFields).To(HaveKeyWithValue("name", "alice"))
	})

	It("decodes deletes keeping only the key", func() {
		record, err := decoder.Decode(deleteMessage(16384, text("1"), nil))
		Expect(err).ToNot(HaveOccurred())

		Expect(record.Operation).To(Equal("delete"))
		Expect(record.Fields).To(HaveKeyWithValue("id", int32(1)))
		Expect(record.Fields).ToNot(HaveKey("name"))
	})

	It("decodes NULL columns as nil", func() {
		record, err := decoder.Decode(insertMessage(16384, text("2"), nil))
		Expect(err).ToNot(HaveOccurred())

		Expect(record.Fields).To(HaveKeyWithValue("id", int32(2)))
		Expect(record.Fields).To(HaveKey("name"))
		Expect(record.Fields["name"]).To(BeNil())
	})

	It("leaves out unchanged toasted columns", func() {
		record, err := decoder.Decode(updateMessage(16384,
			[]*string{text("1"), unchanged},
			text("1"), unchanged))
		Expect(err).ToNot(HaveOccurred())

		Expect(record.Fields).To(HaveKeyWithValue("id", int32(1)))
		Expect(record.Fields).ToNot(HaveKey("name"))
		Expect(record.OldFields).ToNot(HaveKey("name"))
	})

	It("keeps empty strings on deletes", func() {
		record, err := decoder.Decode(deleteMessage(16384, text("3"), text("")))
		Expect(err).ToNot(HaveOccurred())

		Expect(record.Fields).To(HaveKeyWithValue("name", ""))
	})

	It("fails on undecodable values", func() {
		_, err := decoder.Decode(insertMessage(16384, text("not a number"), text("x")))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unable to decode column 'id'"))
	})

	It("qualifies tables outside the public schema", func() {
		_, err := decoder.Decode(relationMessage(16385, "billing", "invoices"))
		Expect(err).ToNot(HaveOccurred())

		record, err := decoder.Decode(insertMessage(16385, text("7"), text("x")))
		Expect(err).ToNot(HaveOccurred())
		Expect(record.Table).To(Equal("billing.invoices"))
	})

	It("fails on unknown relations", func() {
		_, err := decoder.Decode(insertMessage(1, text("1"), text("x")))
		Expect(err).To(HaveOccurred())
	})

	It("fails on empty payloads", func() {
		_, err := decoder.Decode(nil)
		Expect(err).To(HaveOccurred())
	})
})
