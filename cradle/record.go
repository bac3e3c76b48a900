package cradle

// Field binds one document key to a record field.
type Field struct {
	// Key is the exact, case-sensitive document key.
	Key string

	// Value is a pointer to the bound struct field.
	Value any
}

// Record is the base interface for all configuration records.
//
// Fields is the declarative key mapping used by every codec. It is
// implemented on the pointer so decoders can write through it.
type Record interface {
	// Kind returns the configuration id (e.g., "cradle_confidential").
	Kind() string

	// Fields returns the field table in serialization order.
	Fields() []Field
}

const (
	// ConfidentialKind is the configuration id of ConfidentialConfig.
	ConfidentialKind = "cradle_confidential"

	// NonConfidentialKind is the configuration id of NonConfidentialConfig.
	NonConfidentialKind = "cradle_non_confidential"
)

// ConfidentialConfig holds the connection and credential part of a Cradle
// storage configuration.
type ConfidentialConfig struct {
	DataCenter string
	Host       string
	Keyspace   string
	Port       int
	Username   string
	Password   string
	Instance   string
}

func (c ConfidentialConfig) Kind() string { return ConfidentialKind }

func (c *ConfidentialConfig) Fields() []Field {
	return []Field{
		{Key: "dataCenter", Value: &c.DataCenter},
		{Key: "host", Value: &c.Host},
		{Key: "keyspace", Value: &c.Keyspace},
		{Key: "port", Value: &c.Port},
		{Key: "username", Value: &c.Username},
		{Key: "password", Value: &c.Password},
		{Key: "instance", Value: &c.Instance},
	}
}

// NonConfidentialConfig holds the tuning part of a Cradle storage configuration.
type NonConfidentialConfig struct {
	PageSizeBytes   int
	BatchSizeLimit  int
	ResultPageSize  int
	TimeoutSeconds  int
	DisableBatching bool
}

func (c NonConfidentialConfig) Kind() string { return NonConfidentialKind }

func (c *NonConfidentialConfig) Fields() []Field {
	return []Field{
		{Key: "pageSizeBytes", Value: &c.PageSizeBytes},
		{Key: "batchSizeLimit", Value: &c.BatchSizeLimit},
		{Key: "resultPageSize", Value: &c.ResultPageSize},
		{Key: "timeoutSeconds", Value: &c.TimeoutSeconds},
		{Key: "disableBatching", Value: &c.DisableBatching},
	}
}
