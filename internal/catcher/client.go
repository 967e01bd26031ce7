// =============================================================================
// CONTENTdm Catcher Client - SOAP Client
// =============================================================================
//
// This module talks to the OCLC CONTENTdm Catcher web service. Catcher is a
// SOAP 1.1 document/literal service; every call is an HTTP POST of an
// envelope whose body holds one operation element:
//
//   <soapenv:Envelope xmlns:soapenv="..." xmlns:cat="http://catcherws.cdm.oclc.org/v6.0.0/">
//     <soapenv:Body>
//       <cat:getCONTENTdmCollectionConfig>
//         <cdmurl>...</cdmurl><username>...</username>
//         <password>...</password><license>...</license>
//         <collection>/p17176coll1</collection>
//       </cat:getCONTENTdmCollectionConfig>
//     </soapenv:Body>
//   </soapenv:Envelope>
//
// The service answers with a <return> element holding text (often an XML
// document serialised as a string) or a SOAP Fault.
//
// Calls are synchronous and never retried.
//
// =============================================================================

package catcher

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ginjaninja78/cdm-catcher/internal/logging"
	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// SOAPNamespace is the SOAP 1.1 envelope namespace.
const SOAPNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

// ClientConfig configures the Catcher client.
type ClientConfig struct {
	// Endpoint is the SOAP endpoint URL.
	Endpoint string

	// Namespace is the target namespace of the operation elements.
	Namespace string

	// Credentials are sent with every call that needs them.
	Credentials Credentials

	// RequestsPerSecond throttles calls. Zero means unlimited.
	RequestsPerSecond float64

	// Timeout for a single call. Zero means no client-side timeout.
	Timeout time.Duration

	// Transport allows injecting a custom HTTP transport (for tests/stubs).
	Transport http.RoundTripper

	// Logger receives one debug line per call. Nil discards.
	Logger logging.Logger
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a Catcher SOAP client.
type Client struct {
	config      ClientConfig
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      logging.Logger
}

// NewClient creates a client with the given configuration.
func NewClient(config ClientConfig) *Client {
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
		rateLimiter: rate.NewLimiter(limit, 1),
		logger:      logger,
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Version returns the Catcher service version.
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.call(ctx, &VersionRequest{XMLName: c.opName(opVersion)})
}

// Catalog returns the server's collection list document.
func (c *Client) Catalog(ctx context.Context) (string, error) {
	return c.call(ctx, &CatalogRequest{
		XMLName:     c.opName(opCatalog),
		Credentials: c.config.Credentials,
	})
}

// CollectionConfig returns the field configuration document of a collection.
func (c *Client) CollectionConfig(ctx context.Context, alias string) (string, error) {
	return c.call(ctx, &CollectionConfigRequest{
		XMLName:     c.opName(opCollectionConfig),
		Credentials: c.config.Credentials,
		Collection:  types.NormalizeAlias(alias),
	})
}

// ControlledVocabTerms returns the term list document of one field.
func (c *Client) ControlledVocabTerms(ctx context.Context, alias, field string) (string, error) {
	return c.call(ctx, &VocabTermsRequest{
		XMLName:     c.opName(opVocabTerms),
		Credentials: c.config.Credentials,
		Collection:  types.NormalizeAlias(alias),
		Field:       field,
	})
}

// Process submits one record. The returned text is the server's result message.
func (c *Client) Process(ctx context.Context, alias string, op types.Operation, payload types.Payload) (string, error) {
	if !op.Valid() {
		return "", fmt.Errorf("invalid operation %v", op)
	}
	c.logger.Debug("submitting record", "action", op, "collection", types.NormalizeAlias(alias), "fields", payload.Fields())
	return c.call(ctx, &ProcessRequest{
		XMLName:     c.opName(opProcess),
		Credentials: c.config.Credentials,
		Collection:  types.NormalizeAlias(alias),
		Metadata:    payload,
		Action:      op.String(),
	})
}

// =============================================================================
// TRANSPORT
// =============================================================================

// envelope is the outgoing SOAP envelope.
type envelope struct {
	XMLName  xml.Name     `xml:"soapenv:Envelope"`
	SOAPNS   string       `xml:"xmlns:soapenv,attr"`
	TargetNS string       `xml:"xmlns:cat,attr"`
	Body     envelopeBody `xml:"soapenv:Body"`
}

type envelopeBody struct {
	Request any
}

// opName returns the prefixed element name of an operation.
func (c *Client) opName(op string) xml.Name {
	return xml.Name{Local: "cat:" + op}
}

// call sends one request and returns the text of the <return> element.
func (c *Client) call(ctx context.Context, request any) (string, error) {
	op := operationName(request)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	env := envelope{
		SOAPNS:   SOAPNamespace,
		TargetNS: c.config.Namespace,
		Body:     envelopeBody{Request: request},
	}
	body, err := xml.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint,
		bytes.NewReader(append([]byte(xml.Header), body...)))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", `""`)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", op, err)
	}
	c.logger.Debug("catcher call", "operation", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	result, err := parseResponse(respBody)
	var remote *RemoteError
	switch {
	case errors.As(err, &remote):
		remote.Operation = op
		remote.StatusCode = resp.StatusCode
		return "", remote
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &RemoteError{Operation: op, StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	case err != nil:
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// operationName extracts the unprefixed operation name of a request for messages.
func operationName(request any) string {
	var name xml.Name
	switch r := request.(type) {
	case *VersionRequest:
		name = r.XMLName
	case *CatalogRequest:
		name = r.XMLName
	case *CollectionConfigRequest:
		name = r.XMLName
	case *VocabTermsRequest:
		name = r.XMLName
	case *ProcessRequest:
		name = r.XMLName
	}
	if _, local, ok := strings.Cut(name.Local, ":"); ok {
		return local
	}
	return name.Local
}
