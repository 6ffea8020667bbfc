// Package version exposes the binary version reported by --version.
package version

// Current is the semantic version of the support-triage binary, without a "v" prefix.
// Release tooling rewrites this at tag time.
const Current = "0.3.0"
