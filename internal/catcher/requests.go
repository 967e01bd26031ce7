package catcher

import (
	"encoding/xml"

	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================
// One struct per Catcher operation. Every field is explicit so that a call can
// never be sent with a missing or unexpected parameter.

// Credentials identify the CONTENTdm server and the account used for a call.
type Credentials struct {
	URL      string `xml:"cdmurl"`
	Username string `xml:"username"`
	Password string `xml:"password"`
	License  string `xml:"license"`
}

// Operation element names as declared in the Catcher WSDL.
const (
	opVersion          = "getWSVersion"
	opCatalog          = "getCONTENTdmCatalog"
	opCollectionConfig = "getCONTENTdmCollectionConfig"
	opVocabTerms       = "getCONTENTdmControlledVocabTerms"
	opProcess          = "processCONTENTdm"
)

// VersionRequest asks for the Catcher service version.
type VersionRequest struct {
	XMLName xml.Name
}

// CatalogRequest lists the collections on a server.
type CatalogRequest struct {
	XMLName xml.Name
	Credentials
}

// CollectionConfigRequest fetches the field configuration of one collection.
type CollectionConfigRequest struct {
	XMLName xml.Name
	Credentials
	Collection string `xml:"collection"`
}

// VocabTermsRequest fetches the controlled vocabulary of one field.
type VocabTermsRequest struct {
	XMLName xml.Name
	Credentials
	Collection string `xml:"collection"`
	Field      string `xml:"field"`
}

// ProcessRequest adds, edits or deletes one record.
// The payload travels as metadata/metadataList/metadata{field,value}.
type ProcessRequest struct {
	XMLName xml.Name
	Credentials
	Collection string           `xml:"collection"`
	Metadata   []types.Metadata `xml:"metadata>metadataList>metadata"`
	Action     string           `xml:"action"`
}
