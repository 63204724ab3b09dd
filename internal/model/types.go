package model

import "time"

// TimestampLayout is RFC 3339 with a fixed nine digit fraction, so stamps in
// UTC sort as text in time order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version" yaml:"schema_version"`
	CodecVersion  int `json:"codec_version" yaml:"codec_version"`
}

// SpecRecord is a generated component spec as persisted. The termination
// function is not stored; it is rebuilt from MinHeight/MaxHeight.
type SpecRecord struct {
	VersionedRecord `yaml:",inline"`
	ID              string   `json:"id" yaml:"id"`
	Component       string   `json:"component" yaml:"component"`
	Legs            int      `json:"legs" yaml:"legs"`
	Suffix          string   `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Root            string   `json:"root" yaml:"root"`
	MessageStr      string   `json:"message_str" yaml:"message_str"`
	Collides        []string `json:"collides" yaml:"collides"`
	Observers       []string `json:"observers" yaml:"observers"`
	MinHeight       float64  `json:"min_height" yaml:"min_height"`
	MaxHeight       float64  `json:"max_height,omitempty" yaml:"max_height,omitempty"`
	CreatedAtUTC    string   `json:"created_at_utc" yaml:"created_at_utc"`
}

// SpecSummary is the listing view of a SpecRecord.
type SpecSummary struct {
	ID           string `json:"id" yaml:"id"`
	Component    string `json:"component" yaml:"component"`
	Legs         int    `json:"legs" yaml:"legs"`
	Suffix       string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	CreatedAtUTC string `json:"created_at_utc" yaml:"created_at_utc"`
}

func (r SpecRecord) Summary() SpecSummary {
	return SpecSummary{
		ID:           r.ID,
		Component:    r.Component,
		Legs:         r.Legs,
		Suffix:       r.Suffix,
		CreatedAtUTC: r.CreatedAtUTC,
	}
}
