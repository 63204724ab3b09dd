package storage

import (
	"encoding/json"
	"errors"
	"time"

	"proant/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeSpec(s model.SpecRecord) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSpec(data []byte) (model.SpecRecord, error) {
	var spec model.SpecRecord
	if err := json.Unmarshal(data, &spec); err != nil {
		return model.SpecRecord{}, err
	}
	if err := checkVersion(spec.VersionedRecord); err != nil {
		return model.SpecRecord{}, err
	}
	return spec, nil
}

// CurrentVersion is the version stamp new records are written with.
func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

// createdAtKey maps any RFC 3339 stamp to the fixed-width layout. Stamps that
// do not parse are kept as given.
func createdAtKey(createdAtUTC string) string {
	t, err := time.Parse(time.RFC3339Nano, createdAtUTC)
	if err != nil {
		return createdAtUTC
	}
	return model.FormatTimestamp(t)
}
