package subset

import (
	"github.com/xivdyetools/fontsubset/ot"
	"github.com/xivdyetools/fontsubset/otquery"
)

const (
	nameHeaderSize    = 6
	nameRecordSize    = 12
	langTagRecordSize = 4
)

// overrideNames rebuilds table 'name', replacing the string of every record
// with a name ID in overrides. Records of an encoding which cannot represent
// names are kept unchanged. Language tags of format 1 tables are preserved.
func overrideNames(name ot.Segm, overrides map[uint16]string) ([]byte, error) {
	if name.Size() < nameHeaderSize {
		return nil, ot.Errorf(ot.T("name"), "Header", "missing or truncated table")
	}
	format := name.U16(0)
	count := int(name.U16(2))
	storage, err := name.From(int(name.U16(4)))
	if err != nil {
		return nil, ot.Errorf(ot.T("name"), "Header", "string storage out of bounds")
	}
	if format > 1 {
		return nil, ot.Errorf(ot.T("name"), "Header", "unsupported format %d", format)
	}
	records, err := name.View(nameHeaderSize, count*nameRecordSize)
	if err != nil {
		return nil, ot.Errorf(ot.T("name"), "Records", "%d records out of bounds", count)
	}
	var langTags ot.Segm
	langTagCount := 0
	if format == 1 {
		langTagCount = int(name.U16(nameHeaderSize + count*nameRecordSize))
		langTags, err = name.View(nameHeaderSize+count*nameRecordSize+2, langTagCount*langTagRecordSize)
		if err != nil {
			return nil, ot.Errorf(ot.T("name"), "LangTags", "%d language tags out of bounds", langTagCount)
		}
	}
	str := func(length, offset uint16) ([]byte, error) {
		return storage.View(int(offset), int(length))
	}

	headerSize := nameHeaderSize + count*nameRecordSize
	if format == 1 {
		headerSize += 2 + langTagCount*langTagRecordSize
	}
	w := ot.NewBuilder(name.Size())
	w.U16(format)
	w.U16(uint16(count))
	w.U16(uint16(headerSize))
	strings := ot.NewBuilder(name.Size())
	replaced := 0
	for i := 0; i < count; i++ {
		rec := records[i*nameRecordSize : (i+1)*nameRecordSize]
		platform := otquery.PlatformID(rec.U16(0))
		encoding := otquery.EncodingID(rec.U16(2))
		value, err := str(rec.U16(8), rec.U16(10))
		if err != nil {
			return nil, ot.Errorf(ot.T("name"), "Records", "string of record %d out of bounds", i)
		}
		if s, ok := overrides[rec.U16(6)]; ok {
			b, err := otquery.EncodeName(platform, encoding, s)
			if err == nil {
				value = b
				replaced++
			} else {
				tracer().Infof("%s", ot.Warning(ot.T("name"), "Records", "record %d kept: %v", i, err))
			}
		}
		if len(value) > 0xFFFF || strings.Len() > 0xFFFF {
			return nil, ot.Errorf(ot.T("name"), "Records", "string storage overflow")
		}
		w.Write(rec[:8])
		w.U16(uint16(len(value)))
		w.U16(uint16(strings.Len()))
		strings.Write(value)
	}
	if format == 1 {
		w.U16(uint16(langTagCount))
		for i := 0; i < langTagCount; i++ {
			tag := langTags[i*langTagRecordSize:]
			value, err := str(tag.U16(0), tag.U16(2))
			if err != nil {
				return nil, ot.Errorf(ot.T("name"), "LangTags", "language tag %d out of bounds", i)
			}
			w.U16(uint16(len(value)))
			w.U16(uint16(strings.Len()))
			strings.Write(value)
		}
	}
	w.Write(strings.Bytes())
	tracer().Debugf("name: replaced %d records", replaced)
	return w.Bytes(), nil
}
