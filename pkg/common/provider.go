// File: pkg/common/provider.go
package common

type Provider string

const (
	Kodo  Provider = "KODO"
	AWS   Provider = "AWS"
	MinIO Provider = "MINIO"
	GCP   Provider = "GCP"
)
