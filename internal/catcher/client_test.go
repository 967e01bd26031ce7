package catcher

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

// capturedCall is what the stub server saw.
type capturedCall struct {
	Operation string
	Elements  map[string][]string
	Raw       string
}

// stubServer answers every call with respond(operation) and records the request.
func stubServer(t *testing.T, respond func(op string) (int, string)) (*httptest.Server, *[]capturedCall) {
	t.Helper()
	var calls []capturedCall

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "text/xml")

		call := capturedCall{Elements: map[string][]string{}, Raw: string(body)}
		dec := xml.NewDecoder(strings.NewReader(string(body)))
		depth := 0
		var current string
		for {
			tok, err := dec.Token()
			if err != nil {
				break
			}
			switch tk := tok.(type) {
			case xml.StartElement:
				depth++
				if depth == 3 {
					call.Operation = tk.Name.Local
				}
				current = tk.Name.Local
			case xml.EndElement:
				depth--
				current = ""
			case xml.CharData:
				if current != "" && strings.TrimSpace(string(tk)) != "" {
					call.Elements[current] = append(call.Elements[current], string(tk))
				}
			}
		}
		calls = append(calls, call)

		status, payload := respond(call.Operation)
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprint(w, payload)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func returnEnvelope(op, text string) string {
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(text))
	return `<?xml version="1.0"?><S:Envelope xmlns:S="http://schemas.xmlsoap.org/soap/envelope/"><S:Body>` +
		`<ns2:` + op + `Response xmlns:ns2="http://catcherws.cdm.oclc.org/v6.0.0/"><return>` + escaped.String() +
		`</return></ns2:` + op + `Response></S:Body></S:Envelope>`
}

const faultEnvelope = `<?xml version="1.0"?><S:Envelope xmlns:S="http://schemas.xmlsoap.org/soap/envelope/"><S:Body>` +
	`<S:Fault><faultcode>S:Server</faultcode><faultstring>Invalid license</faultstring></S:Fault></S:Body></S:Envelope>`

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(ClientConfig{
		Endpoint:    srv.URL,
		Namespace:   "http://catcherws.cdm.oclc.org/v6.0.0/",
		Credentials: Credentials{
			URL:      "https://server.contentdm.oclc.org",
			Username: "cataloger",
			Password: "secret",
			License:  "XXXX",
		},
	})
}

func TestClient_CollectionConfigNormalizesAlias(t *testing.T) {
	srv, calls := stubServer(t, func(op string) (int, string) {
		return http.StatusOK, returnEnvelope(op, "<fields><field><nick>type</nick></field></fields>")
	})
	client := newTestClient(srv)

	withSlash, err := client.CollectionConfig(context.Background(), "/p17176coll1")
	require.NoError(t, err)
	withoutSlash, err := client.CollectionConfig(context.Background(), "p17176coll1")
	require.NoError(t, err)

	assert.Equal(t, withSlash, withoutSlash)
	assert.Equal(t, "<fields><field><nick>type</nick></field></fields>", withSlash)
	require.Len(t, *calls, 2)
	for _, c := range *calls {
		assert.Equal(t, "getCONTENTdmCollectionConfig", c.Operation)
		assert.Equal(t, []string{"/p17176coll1"}, c.Elements["collection"])
		assert.Equal(t, []string{"cataloger"}, c.Elements["username"])
		assert.Equal(t, []string{"https://server.contentdm.oclc.org"}, c.Elements["cdmurl"])
	}
}

func TestClient_ProcessSendsPayloadInOrder(t *testing.T) {
	srv, calls := stubServer(t, func(op string) (int, string) {
		return http.StatusOK, returnEnvelope(op, "Record added: 1 record(s)")
	})
	client := newTestClient(srv)

	payload := types.Payload{
		{Field: "title", Value: "Main Street"},
		{Field: "type", Value: "Photograph"},
		{Field: "subjec", Value: "Streets; Automobiles"},
	}
	result, err := client.Process(context.Background(), "coll", types.OpAdd, payload)
	require.NoError(t, err)
	assert.Equal(t, "Record added: 1 record(s)", result)

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, "processCONTENTdm", c.Operation)
	assert.Equal(t, []string{"add"}, c.Elements["action"])
	assert.Equal(t, []string{"/coll"}, c.Elements["collection"])
	assert.Equal(t, []string{"title", "type", "subjec"}, c.Elements["field"])
	assert.Equal(t, []string{"Main Street", "Photograph", "Streets; Automobiles"}, c.Elements["value"])
	assert.Contains(t, c.Raw, "<metadata><metadataList><metadata><field>title</field>")
}

func TestClient_ProcessRejectsInvalidOperation(t *testing.T) {
	srv, calls := stubServer(t, func(op string) (int, string) {
		return http.StatusOK, returnEnvelope(op, "")
	})

	_, err := newTestClient(srv).Process(context.Background(), "coll", types.Operation(0), nil)
	require.Error(t, err)
	assert.Empty(t, *calls)
}

func TestClient_Fault(t *testing.T) {
	srv, _ := stubServer(t, func(string) (int, string) {
		return http.StatusInternalServerError, faultEnvelope
	})

	_, err := newTestClient(srv).Catalog(context.Background())
	require.Error(t, err)

	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "getCONTENTdmCatalog", remote.Operation)
	assert.Equal(t, http.StatusInternalServerError, remote.StatusCode)
	assert.Equal(t, "Invalid license", remote.Message)
	assert.Contains(t, err.Error(), "S:Server: Invalid license")
}

func TestClient_HTTPErrorWithoutFault(t *testing.T) {
	srv, _ := stubServer(t, func(string) (int, string) {
		return http.StatusBadGateway, "<html>bad gateway</html>"
	})

	_, err := newTestClient(srv).Version(context.Background())
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusBadGateway, remote.StatusCode)
	assert.Equal(t, "getWSVersion", remote.Operation)
}

func TestClient_VocabTerms(t *testing.T) {
	srv, calls := stubServer(t, func(op string) (int, string) {
		return http.StatusOK, returnEnvelope(op, "<terms><term>Photograph</term></terms>")
	})

	doc, err := newTestClient(srv).ControlledVocabTerms(context.Background(), "coll", "type")
	require.NoError(t, err)
	assert.Contains(t, doc, "Photograph")
	assert.Equal(t, []string{"type"}, (*calls)[0].Elements["field"])
}

func TestParseResponse(t *testing.T) {
	_, err := parseResponse([]byte("not xml at all"))
	assert.Error(t, err)

	text, err := parseResponse([]byte(`<S:Envelope xmlns:S="x"><S:Body><r/></S:Body></S:Envelope>`))
	require.NoError(t, err)
	assert.Empty(t, text)
}
