package lcireport

import (
	"bytes"
	"context"
	"github.com/aidansteele/lcireport/failure"
	"github.com/aidansteele/lcireport/xmlpath"
	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"io"
	"net/http"
)

type Lci struct {
	client  *http.Client
	baseUrl string
	log     zerolog.Logger
}

func New(client *http.Client, baseUrl string, log zerolog.Logger) *Lci {
	return &Lci{
		client:  client,
		baseUrl: baseUrl,
		log:     log,
	}
}

// NewHttpClient returns a client that always connects directly, ignoring
// HTTP_PROXY and friends.
func NewHttpClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	return &http.Client{Transport: transport}
}

func (l *Lci) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "lcireport/0.1")
	req.Header.Set("Accept", "application/xml, text/xml, */*")

	response, err := l.client.Do(req)
	return response, errors.WithStack(err)
}

func (l *Lci) getXml(ctx context.Context, url string) (*xmlquery.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	l.log.Debug().Str("url", url).Msg("requesting")
	response, err := l.do(req)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	l.log.Debug().Str("url", url).Int("status", response.StatusCode).Int("bytes", len(body)).Msg("response")

	if response.StatusCode > 299 {
		return nil, errors.WithStack(&failure.StatusError{
			Url:         url,
			StatusCode:  response.StatusCode,
			Status:      response.Status,
			ContentType: response.Header.Get("Content-Type"),
			Body:        body,
		})
	}

	root, err := xmlpath.Parse(bytes.NewReader(body))
	return root, errors.WithMessagef(err, "GET %s", url)
}
