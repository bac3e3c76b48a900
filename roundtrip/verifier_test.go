package roundtrip_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/cradleconf/codec"
	"github.com/jacentio/cradleconf/cradle"
	"github.com/jacentio/cradleconf/fixture"
	"github.com/jacentio/cradleconf/roundtrip"
)

var (
	verifier = roundtrip.New(codec.JSON{})
	fixtures = fixture.NewLoader("../testdata", fixture.DefaultConfig())

	cradleConfidentialConf = cradle.ConfidentialConfig{
		DataCenter: "data center",
		Host:       "host",
		Keyspace:   "keyspace",
		Port:       1234,
		Username:   "user",
		Password:   "pass",
		Instance:   "instance",
	}
	cradleNonConfidentialConf = cradle.NonConfidentialConfig{
		PageSizeBytes:   888,
		BatchSizeLimit:  111,
		ResultPageSize:  123,
		TimeoutSeconds:  321,
		DisableBatching: false,
	}
)

func loadConfJSON(t *testing.T, name string) []byte {
	t.Helper()
	text, err := fixtures.Load(name)
	require.NoError(t, err)
	return []byte(text)
}

func TestCradleConfidential_Deserialize(t *testing.T) {
	data := loadConfJSON(t, cradle.ConfidentialKind)
	roundtrip.Require(t, roundtrip.VerifyDeserialize(verifier, data, cradleConfidentialConf))
}

func TestCradleConfidential_SerializeAndDeserialize(t *testing.T) {
	roundtrip.Require(t, roundtrip.VerifySerializeThenDeserialize(verifier, cradleConfidentialConf))
}

func TestCradleNonConfidential_SerializeAndDeserialize(t *testing.T) {
	roundtrip.Require(t, roundtrip.VerifySerializeThenDeserialize(verifier, cradleNonConfidentialConf))
}

func TestCradleNonConfidential_Deserialize(t *testing.T) {
	data := loadConfJSON(t, cradle.NonConfidentialKind)
	roundtrip.Require(t, roundtrip.VerifyDeserialize(verifier, data, cradleNonConfidentialConf))
}

func TestVerifyFixture(t *testing.T) {
	require.NoError(t, roundtrip.VerifyFixture(verifier, fixtures, cradle.ConfidentialKind, cradleConfidentialConf))
	require.NoError(t, roundtrip.VerifyFixture(verifier, fixtures, cradle.NonConfidentialKind, cradleNonConfidentialConf))
}

func TestVerifyFixture_NotFound(t *testing.T) {
	err := roundtrip.VerifyFixture(verifier, fixtures, "cradle_missing", cradleConfidentialConf)
	assert.ErrorIs(t, err, cradle.ErrResourceNotFound)
}

func TestVerifyDeserialize_Mismatch(t *testing.T) {
	data := loadConfJSON(t, cradle.ConfidentialKind)
	expected := cradleConfidentialConf
	expected.Port = 4321

	err := roundtrip.VerifyDeserialize(verifier, data, expected)
	require.ErrorIs(t, err, cradle.ErrAssertionMismatch)

	var mErr *cradle.MismatchError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, cradle.ConfidentialKind, mErr.Kind)
	assert.Contains(t, mErr.Diff, "4321")
	assert.Contains(t, mErr.Diff, "1234")
}

func TestVerifyDeserialize_MissingField(t *testing.T) {
	data := []byte(`{"dataCenter":"data center","host":"host","keyspace":"keyspace","port":1234,"username":"user","password":"pass"}`)

	err := roundtrip.VerifyDeserialize(verifier, data, cradleConfidentialConf)
	require.ErrorIs(t, err, cradle.ErrMapping)
	assert.NotErrorIs(t, err, cradle.ErrAssertionMismatch)

	var mErr *cradle.MappingError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, "instance", mErr.Field)
}

func TestVerifyDeserialize_ExtraField(t *testing.T) {
	data := []byte(`{"pageSizeBytes":888,"batchSizeLimit":111,"resultPageSize":123,"timeoutSeconds":321,` +
		`"disableBatching":false,"prepareStorage":true}`)

	err := roundtrip.VerifyDeserialize(verifier, data, cradleNonConfidentialConf)
	require.ErrorIs(t, err, cradle.ErrMapping)
}

// A renamed key still round-trips through the codec but no longer matches the stored fixture.
func TestFixtureDriftIsDetected(t *testing.T) {
	renamed := []byte(`{"pageSizeBytes":888,"batchLimit":111,"resultPageSize":123,"timeoutSeconds":321,"disableBatching":false}`)

	require.NoError(t, roundtrip.VerifySerializeThenDeserialize(verifier, cradleNonConfidentialConf))
	assert.ErrorIs(t, roundtrip.VerifyDeserialize(verifier, renamed, cradleNonConfidentialConf), cradle.ErrMapping)
}

func TestRoundTripLaw_AllCodecs(t *testing.T) {
	values := []cradle.ConfidentialConfig{
		{},
		cradleConfidentialConf,
		{DataCenter: "dc1", Host: "10.0.0.1,10.0.0.2", Keyspace: "th2", Port: 65535, Instance: "infra"},
		{Host: "quote\"and\\slash", Username: "ユーザー", Password: "p@ss:word\n", Port: 1},
	}
	codecs := []codec.Codec{codec.JSON{}, codec.JSON{Indent: "\t"}, codec.YAML{}, codec.TOML{}}

	for _, c := range codecs {
		v := roundtrip.New(c)
		for _, value := range values {
			assert.NoError(t, roundtrip.VerifySerializeThenDeserialize(v, value), "codec %s, value %+v", c.Name(), value)
		}
		assert.NoError(t, roundtrip.VerifySerializeThenDeserialize(v, cradle.NonConfidentialConfig{DisableBatching: true}))
	}
}

func TestNew_DefaultsToJSON(t *testing.T) {
	assert.Equal(t, "json", roundtrip.New(nil).Codec().Name())
}

func TestVerifier_RoundTrip_Registry(t *testing.T) {
	for _, kind := range cradle.DefaultRegistry().All() {
		t.Run(kind.ID, func(t *testing.T) {
			rec := kind.New()
			data := loadConfJSON(t, kind.ID)
			require.NoError(t, verifier.Codec().Unmarshal(data, rec))

			assert.NoError(t, verifier.RoundTrip(rec, kind.New()))
		})
	}
}

func TestVerifier_RoundTrip_KindMismatch(t *testing.T) {
	conf := cradleConfidentialConf
	err := verifier.RoundTrip(&conf, &cradle.NonConfidentialConfig{})
	assert.ErrorIs(t, err, cradle.ErrUnknownKind)
}
