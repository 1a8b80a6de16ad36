// File: internal/flags/flags.go
package flags

// Centralized definitions for CLI flags used across the application

const (
	// Provider selects the backend for a single invocation, overriding the configured one
	Provider = "provider"

	// Debug enables verbose logging
	Debug = "debug"

	// InPath is the local file to upload or the path to archive
	InPath      = "inpath"
	InPathShort = "i"

	// OutPath is the local destination of a download; for archive it is the artifact name prefix
	OutPath      = "outpath"
	OutPathShort = "o"

	Bucket      = "bucket"
	BucketShort = "b"

	Key      = "key"
	KeyShort = "k"

	// Prefix filters listings, and prefixes the object key of an archive upload
	Prefix      = "prefix"
	PrefixShort = "p"

	Delimiter      = "delimiter"
	DelimiterShort = "d"

	// URL is the download domain an object key is appended to
	URL      = "url"
	URLShort = "u"

	// Force skips the overwrite confirmation of get
	Force      = "force"
	ForceShort = "f"

	Long      = "long"
	LongShort = "l"

	// Compressor overrides archive.compressor for one run
	Compressor = "compressor"

	Expiry = "expiry"
)
