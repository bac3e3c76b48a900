package cradle

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultInstanceName is used when the confidential record leaves Instance blank.
	DefaultInstanceName = "infra"

	// DefaultBatchSizeLimit is the batch size limit used when none is configured.
	DefaultBatchSizeLimit = 1024 * 1024

	// DefaultPageSizeBytes is the storage page size used when none is configured.
	DefaultPageSizeBytes = 1024 * 1024
)

// Settings are the connection settings a Cradle client derives from the
// confidential and non-confidential records.
type Settings struct {
	DataCenter string
	Host       string
	Port       int
	Keyspace   string

	// Username and Password are empty when no credentials are configured.
	Username string
	Password string

	// Instance is the Cradle instance name. Never empty.
	Instance string

	// Timeout is zero when the driver default should be kept.
	Timeout time.Duration

	// ResultPageSize is zero when the driver default should be kept.
	ResultPageSize int

	PageSizeBytes  int
	BatchSizeLimit int
	Batching       bool
}

// NewSettings combines both records into connection settings.
func NewSettings(conf ConfidentialConfig, tuning NonConfidentialConfig) Settings {
	s := Settings{
		DataCenter:     conf.DataCenter,
		Host:           conf.Host,
		Port:           conf.Port,
		Keyspace:       conf.Keyspace,
		Instance:       conf.Instance,
		PageSizeBytes:  tuning.PageSizeBytes,
		BatchSizeLimit: tuning.BatchSizeLimit,
		Batching:       !tuning.DisableBatching,
	}

	if conf.Username != "" {
		s.Username = conf.Username
	}
	if conf.Password != "" {
		s.Password = conf.Password
	}
	if tuning.TimeoutSeconds > 0 {
		s.Timeout = time.Duration(tuning.TimeoutSeconds) * time.Second
	}
	if tuning.ResultPageSize > 0 {
		s.ResultPageSize = tuning.ResultPageSize
	}

	s.applyDefaults()
	return s
}

// applyDefaults fills values the records may leave unset.
func (s *Settings) applyDefaults() {
	if strings.TrimSpace(s.Instance) == "" {
		s.Instance = DefaultInstanceName
	}
	if s.BatchSizeLimit <= 0 {
		s.BatchSizeLimit = DefaultBatchSizeLimit
	}
	if s.PageSizeBytes <= 0 {
		s.PageSizeBytes = DefaultPageSizeBytes
	}
}

// String renders the settings with the password redacted.
func (s Settings) String() string {
	password := ""
	if s.Password != "" {
		password = "***"
	}
	return fmt.Sprintf(
		"dataCenter=%s host=%s port=%d keyspace=%s username=%s password=%s instance=%s "+
			"timeout=%s resultPageSize=%d pageSizeBytes=%d batchSizeLimit=%d batching=%t",
		s.DataCenter, s.Host, s.Port, s.Keyspace, s.Username, password, s.Instance,
		s.Timeout, s.ResultPageSize, s.PageSizeBytes, s.BatchSizeLimit, s.Batching,
	)
}
