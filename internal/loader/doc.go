// Package loader reads container payloads from files.
//
// JSON, YAML and CUE sources are all normalized to JSON bytes before being
// handed to object.New, so a container loaded from any format behaves like
// one built from the equivalent JSON: the bytes stay in the scalar slot and
// their text in the _json cache. Files with any other extension are passed
// through as raw bytes.
//
// Errors are *LoadError values carrying a stable code:
//
//	E001  generic failure
//	E002  file could not be read
//	E004  payload could not be parsed
//	E005  file not found
//	E006  CUE value could not be made concrete
package loader
