// Package failure describes unsuccessful LCI responses.
package failure

import (
	"bytes"
	"fmt"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"mime"
	"strings"
)

// StatusError is returned for any response with a status code above 299. It
// keeps the raw body since the server usually explains itself there.
type StatusError struct {
	Url         string
	StatusCode  int
	Status      string
	ContentType string
	Body        []byte
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("unexpected status code: %s (GET %s)", e.Status, e.Url)
	if summary := Summary(e.ContentType, e.Body); summary != "" {
		msg += ": " + summary
	}
	return msg
}

// Body returns the response body attached to err, if there is one.
func Body(err error) (string, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return string(se.Body), true
	}
	return "", false
}

// Summary pulls a one-line description out of an HTML error page: its title,
// or failing that its first heading. Anything that isn't HTML yields "".
func Summary(contentType string, body []byte) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	for _, sel := range []string{"title", "h1", "h2"} {
		if text := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " "); text != "" {
			return text
		}
	}

	return ""
}
