// Package cloudwriter buffers an object and uploads it to cloud storage on
// Close.
package cloudwriter

import (
	"fmt"
)

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// NewFactory returns the writer factory for a storage provider.
func NewFactory(provider, region string) (CloudWriterFactory, error) {
	switch provider {
	case "s3":
		factory, err := NewS3WriterFactory(region)
		if err != nil {
			return nil, err
		}
		return factory, nil
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %s", provider)
	}
}
