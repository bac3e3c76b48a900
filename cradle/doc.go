// Package cradle defines the configuration records for a Cradle storage keyspace.
//
// A Cradle client is configured from two records that are stored and rotated
// separately:
//
//   - [ConfidentialConfig] - endpoint, keyspace and credentials ("cradle_confidential")
//   - [NonConfidentialConfig] - page sizes, batching and timeouts ("cradle_non_confidential")
//
// Both are plain comparable structs: two records are equal when every field is
// equal, so == is structural equality.
//
// # Field Mapping
//
// Records implement [Record]. Fields returns an explicit table binding each
// document key to a struct field:
//
//	func (c *ConfidentialConfig) Fields() []Field {
//	    return []Field{
//	        {Key: "dataCenter", Value: &c.DataCenter},
//	        {Key: "host", Value: &c.Host},
//	        ...
//	    }
//	}
//
// The codec package decodes strictly against this table. Unknown keys, missing
// keys and null values are all rejected with a [*MappingError].
//
// # Settings
//
// [NewSettings] combines both records into the connection [Settings] used by the
// cassandra package. Credentials, timeout and result page size are applied only
// when set; instance name and batch limits fall back to defaults.
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrResourceNotFound] - document or fixture doesn't exist
//   - [ErrMapping] - document doesn't match the record shape
//   - [ErrAssertionMismatch] - decoded record differs from the expected one
//   - [ErrUnknownKind] - no record type registered for a configuration id
//   - [ErrAlreadyExists] - document with the id is already stored
//   - [ErrConcurrentModification] - optimistic lock failed
package cradle
