package goff

import (
	"github.com/pkg/errors"

	"goffas/pkg/utils"
)

type ESDRecord struct {
	ESDPayload
	Name string
}

type TXTRecord struct {
	TXTPayload
	Data []byte
}

// ObjectFile is a GOFF object decoded into logical records.
type ObjectFile struct {
	Header HDRPayload
	ESDs   []ESDRecord
	TXTs   []TXTRecord
	End    ENDPayload

	PhysicalRecords int
}

type logicalRecord struct {
	typ     RecordType
	payload []byte
	index   int // first physical record
}

// splitRecords joins continued physical records into logical ones.
func splitRecords(data []byte) ([]logicalRecord, error) {
	if len(data)%RecordLength != 0 {
		return nil, errors.Errorf("object size %d is not a multiple of %d", len(data), RecordLength)
	}

	var (
		records []logicalRecord
		cur     *logicalRecord
	)
	for i := 0; i*RecordLength < len(data); i++ {
		rec := data[i*RecordLength : (i+1)*RecordLength]
		if rec[0] != PTVPrefix {
			return nil, errors.Errorf("record %d: bad PTV prefix %#x", i, rec[0])
		}
		typ := RecordType(rec[1] >> 4)
		continuation := rec[1]&FlagContinuation != 0
		continued := rec[1]&FlagContinued != 0

		switch {
		case continuation && cur == nil:
			return nil, errors.Errorf("record %d: continuation without a continued record", i)
		case !continuation && cur != nil:
			return nil, errors.Errorf("record %d: record %d expects a continuation", i, cur.index)
		case continuation && typ != cur.typ:
			return nil, errors.Errorf("record %d: %s continuation of a %s record", i, typ, cur.typ)
		}

		if cur == nil {
			records = append(records, logicalRecord{typ: typ, index: i})
			cur = &records[len(records)-1]
		}
		cur.payload = append(cur.payload, rec[PTVLength:]...)
		if !continued {
			cur = nil
		}
	}
	if cur != nil {
		return nil, errors.Errorf("record %d: object ends inside a continued record", cur.index)
	}
	return records, nil
}

func ReadObject(data []byte) (*ObjectFile, error) {
	records, err := splitRecords(data)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 || records[0].typ != RecordHDR || records[len(records)-1].typ != RecordEND {
		return nil, errors.New("object must start with HDR and end with END")
	}

	obj := &ObjectFile{PhysicalRecords: len(data) / RecordLength}
	for _, rec := range records {
		switch rec.typ {
		case RecordHDR:
			obj.Header = utils.Read[HDRPayload](rec.payload)
		case RecordEND:
			obj.End = utils.Read[ENDPayload](rec.payload)
		case RecordESD:
			esd, err := readESD(rec.payload)
			if err != nil {
				return nil, errors.Wrapf(err, "record %d", rec.index)
			}
			obj.ESDs = append(obj.ESDs, esd)
		case RecordTXT:
			txt, err := readTXT(rec.payload)
			if err != nil {
				return nil, errors.Wrapf(err, "record %d", rec.index)
			}
			obj.TXTs = append(obj.TXTs, txt)
		default:
			return nil, errors.Errorf("record %d: unsupported %s record", rec.index, rec.typ)
		}
	}

	if int(obj.End.RecordCount) != obj.PhysicalRecords {
		return nil, errors.Errorf("END counts %d records, object has %d", obj.End.RecordCount, obj.PhysicalRecords)
	}
	return obj, nil
}

func readESD(payload []byte) (ESDRecord, error) {
	esd := ESDRecord{ESDPayload: utils.Read[ESDPayload](payload)}
	end := ESDPayloadSize + int(esd.NameLength)
	if end > len(payload) {
		return esd, errors.Errorf("ESD name length %d overruns the record", esd.NameLength)
	}
	name, err := decodeName(payload[ESDPayloadSize:end])
	if err != nil {
		return esd, err
	}
	esd.Name = name
	return esd, nil
}

func readTXT(payload []byte) (TXTRecord, error) {
	txt := TXTRecord{TXTPayload: utils.Read[TXTPayload](payload)}
	end := TXTPayloadSize + int(txt.DataLength)
	if end > len(payload) {
		return txt, errors.Errorf("TXT data length %d overruns the record", txt.DataLength)
	}
	txt.Data = payload[TXTPayloadSize:end]
	return txt, nil
}

// FindESD returns the ESD with the given id.
func (o *ObjectFile) FindESD(esdid uint32) *ESDRecord {
	for i := range o.ESDs {
		if o.ESDs[i].ESDID == esdid {
			return &o.ESDs[i]
		}
	}
	return nil
}

// Text gathers the TXT data of one element.
func (o *ObjectFile) Text(esdid uint32) []byte {
	var buf []byte
	for _, txt := range o.TXTs {
		if txt.ElementESDID == esdid {
			buf = append(buf, txt.Data...)
		}
	}
	return buf
}
