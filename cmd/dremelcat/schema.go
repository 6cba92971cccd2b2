package main

import (
	"fmt"

	"github.com/canelmas/parquet-mr/columnio"
)

// documentSample mirrors the addressBook message used in the columnio
// package's own tests: a required name, an optional age, a repeated
// group of typed contact methods, and repeated tags.
type documentSample struct {
	Name     string           `parquet:"name"`
	Age      int              `parquet:",optional"`
	Contacts []contactSample  `parquet:"contacts,repeated"`
	Tags     []string         `parquet:"tags,repeated"`
}

type contactSample struct {
	Type  string `parquet:"type"`
	Value string `parquet:"value,optional"`
}

// nestedSample adds a second level of repetition, exercising the
// deeper case tables a single-level schema never reaches.
type nestedSample struct {
	Groups []groupSample `parquet:"groups,repeated"`
}

type groupSample struct {
	Members []memberSample `parquet:"members,repeated"`
}

type memberSample struct {
	ID int32 `parquet:"id"`
}

func sampleSchema(name string) (*columnio.Schema, error) {
	switch name {
	case "sample":
		return columnio.NewSchema(documentSample{}), nil
	case "nested":
		return columnio.NewSchema(nestedSample{}), nil
	default:
		return nil, fmt.Errorf("unknown sample schema %q (want sample|nested)", name)
	}
}
