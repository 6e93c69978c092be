package lcireport

import (
	"context"
	"fmt"
	"github.com/aidansteele/lcireport/xmlpath"
	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
	"strconv"
	"strings"
)

var ErrMissingInstanceId = errors.New("message has no usable currentMessageInstanceId")

// Message fetches the basic message record. When currentMessageInstanceId is
// missing or not a number, the other fields are still returned alongside an
// error wrapping ErrMissingInstanceId.
func (l *Lci) Message(ctx context.Context, messageId uint32) (Message, error) {
	url := fmt.Sprintf("%s/message/view/id/%d/format/xml", l.baseUrl, messageId)
	root, err := l.getXml(ctx, url)
	if err != nil {
		return Message{}, err
	}

	f := fields{root: root}
	m := Message{
		Id:                   f.get("id"),
		String:               f.get("currentInstance/string"),
		TechNotes:            f.get("currentInstance/techNotes"),
		Severity:             f.get("currentInstance/severity"),
		State:                f.get("state"),
		NeedsContent:         f.get("needsContent"),
		ContentDescription:   f.get("content/description"),
		ContentResolution:    f.get("content/resolution"),
		ContentInternalNotes: f.get("content/internalNotes"),
	}

	raw := f.get("currentMessageInstanceId")
	if f.err != nil {
		return Message{}, f.err
	}

	instanceId, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return m, errors.Wrapf(ErrMissingInstanceId, "message %d: %q", messageId, raw)
	}

	m.CurrentMessageInstanceId = int32(instanceId)
	return m, nil
}

// fields collects lookups against one document and remembers the first
// malformed path so callers can check once at the end.
type fields struct {
	root *xmlquery.Node
	err  error
}

func (f *fields) get(path string) string {
	if f.err != nil {
		return ""
	}

	s, err := xmlpath.String(f.root, path)
	f.err = err
	return s
}
