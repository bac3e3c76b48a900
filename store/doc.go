// Package store keeps Cradle configuration documents in DynamoDB.
//
// Each configuration record is stored as one item keyed by its configuration
// id. The record itself is held in the "body" attribute, encoded with the
// strict JSON codec, so a stored document is held to the same shape checks as
// a file on disk.
//
// # Item Layout
//
//	id          S  configuration id (partition key)
//	kind        S  record kind, e.g. "cradle_confidential"
//	body        S  JSON document
//	version     N  optimistic lock version, starts at 1
//	created_at  S  ISO 8601
//	updated_at  S  ISO 8601
//	ttl         N  deletion time (absent while active)
//
// # Usage
//
//	s := store.New(dynamodb.NewFromConfig(cfg), store.DefaultConfig(), logger)
//	v, err := s.Save(ctx, cradle.ConfidentialKind, &conf, 0)
//	...
//	var conf cradle.ConfidentialConfig
//	err = s.Load(ctx, cradle.ConfidentialKind, &conf)
//
// Deletes are soft: [Store.Delete] sets the TTL and DynamoDB removes the item
// later. Items with an expired TTL are reported as not found, and a create
// under the same id replaces them with a fresh document at version 1.
package store
