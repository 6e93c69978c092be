package lcireport

import (
	"context"
	"fmt"
	"github.com/aidansteele/lcireport/xmlpath"
)

func (l *Lci) Components(ctx context.Context, messageId uint32) ([]string, error) {
	url := fmt.Sprintf("%s/message/get-components/id/%d/format/xml", l.baseUrl, messageId)
	root, err := l.getXml(ctx, url)
	if err != nil {
		return nil, err
	}

	components := []string{}
	for _, item := range xmlpath.Children(root, "item") {
		components = append(components, xmlpath.FirstText(item))
	}

	return components, nil
}
