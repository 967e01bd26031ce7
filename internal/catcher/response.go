package catcher

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RemoteError is a failure reported by the Catcher service: a SOAP Fault or a
// non-success HTTP status.
type RemoteError struct {
	// Operation is the Catcher operation that failed.
	Operation string

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the SOAP fault code, if any.
	Code string

	// Message is the fault string or the HTTP status text.
	Message string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	return fmt.Sprintf("%s failed (HTTP %d): %s", e.Operation, e.StatusCode, msg)
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// parseResponse returns the text of the first <return> element in a SOAP
// response, or a *RemoteError for a Fault. A body without <return> yields "".
func parseResponse(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	sawBody := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if !sawBody {
				return "", errors.New("response is not a SOAP envelope")
			}
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("malformed SOAP response: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "Body":
			sawBody = true
		case "Fault":
			var fault soapFault
			if err := dec.DecodeElement(&fault, &start); err != nil {
				return "", fmt.Errorf("malformed SOAP fault: %w", err)
			}
			return "", &RemoteError{Code: fault.Code, Message: fault.String}
		case "return":
			var text string
			if err := dec.DecodeElement(&text, &start); err != nil {
				return "", fmt.Errorf("malformed SOAP return: %w", err)
			}
			return text, nil
		}
	}
}
