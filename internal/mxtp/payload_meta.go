package mxtp

import (
	"strings"

	"github.com/axonmocap/mxtpd/internal/wire"
)

// DecodeMetaData decodes a type-12 payload: a sequence of length-prefixed
// "tag:value" lines running to the end of the payload. Lines without a
// colon are skipped. A later occurrence of a tag overwrites an earlier one
// for both known tags and Extra entries.
func DecodeMetaData(payload []byte) (*MetaData, error) {
	md := &MetaData{Extra: make(map[string]string)}
	c := wire.NewCursor(payload)
	for c.Remaining() > 0 {
		line, err := c.ReadLenPrefixedString()
		if err != nil {
			return nil, &DecodeError{Field: "meta_line", Err: err}
		}
		tag, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		tag = strings.TrimSpace(tag)
		value = strings.TrimSpace(value)
		switch tag {
		case "name":
			md.Name = value
		case "xmid":
			md.XMID = value
		case "color":
			md.Color = value
		default:
			md.Extra[tag] = value
		}
	}
	return md, nil
}

// EncodeMetaData serializes md as a type-12 payload.
func EncodeMetaData(md *MetaData) []byte {
	w := wire.NewWriter(64)
	if md.Name != "" {
		w.WriteLenPrefixedString("name:" + md.Name)
	}
	if md.XMID != "" {
		w.WriteLenPrefixedString("xmid:" + md.XMID)
	}
	if md.Color != "" {
		w.WriteLenPrefixedString("color:" + md.Color)
	}
	for tag, value := range md.Extra {
		w.WriteLenPrefixedString(tag + ":" + value)
	}
	return w.Bytes()
}
